// Package emit renders entity models into source files.
package emit

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/entitygen/internal/model"
)

// Supported output languages.
const (
	Go   = "go"
	Java = "java"
)

var (
	// ErrUnsupportedLanguage is returned by New for unknown languages.
	ErrUnsupportedLanguage = errors.New("unsupported output language")
	// ErrInvalidPackage is returned by New when the package name is not valid
	// for the output language.
	ErrInvalidPackage = errors.New("invalid package name")
)

// DefaultGoPackage is used when no package is configured for Go output.
const DefaultGoPackage = "models"

// Emitter renders models as source text. Output is a pure function of the
// model: equal models always render byte-identical text.
type Emitter interface {
	// Language returns the output language (Go or Java).
	Language() string
	// Emit renders the type generated for an entity.
	Emit(e *model.Entity) (string, error)
	// EmitKey renders the composite key type of an entity.
	EmitKey(k *model.Key) (string, error)
	// EntityFile returns the file name the entity is written to.
	EntityFile(e *model.Entity) string
	// KeyFile returns the file name the key is written to.
	KeyFile(k *model.Key) string
}

// New returns the emitter for language writing into package pkg.
func New(language, pkg string) (Emitter, error) {
	switch language {
	case Go, "":
		if pkg == "" {
			pkg = DefaultGoPackage
		}
		if !validGoPackage(pkg) {
			return nil, fmt.Errorf("%w: %q is not a Go package name", ErrInvalidPackage, pkg)
		}
		return NewGoEmitter(pkg), nil
	case Java:
		if !validJavaPackage(pkg) {
			return nil, fmt.Errorf("%w: %q is not a Java package name", ErrInvalidPackage, pkg)
		}
		return NewJavaEmitter(pkg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
}
