package generate

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer stores generated files. Paths are relative to the writer's output
// location.
type Writer interface {
	WriteFile(path, content string) error
}

// DirWriter writes files below Root, creating parent directories as needed.
type DirWriter struct {
	Root string
}

// NewDirWriter creates root up front and returns a writer for it.
func NewDirWriter(root string) (*DirWriter, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &DirWriter{Root: root}, nil
}

// WriteFile replaces the file at path with content.
func (w *DirWriter) WriteFile(path, content string) error {
	full := filepath.Join(w.Root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
