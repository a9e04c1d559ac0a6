package generate

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by TableError.Is.
var (
	// ErrMetadata is returned when table metadata cannot be read or, in strict
	// mode, is inconsistent.
	ErrMetadata = errors.New("entitygen: metadata failure")

	// ErrEmit is returned when a model cannot be rendered.
	ErrEmit = errors.New("entitygen: emit failure")

	// ErrWrite is returned when a generated file cannot be written.
	ErrWrite = errors.New("entitygen: write failure")

	// ErrTableNotFound is returned by Render for tables the provider does not list.
	ErrTableNotFound = errors.New("table not found")
)

// Stages of per-table generation reported in TableError.
const (
	StageList     = "list"
	StageLoad     = "load"
	StageValidate = "validate"
	StageEmit     = "emit"
	StageWrite    = "write"
)

// TableError reports the table and stage at which generation failed.
type TableError struct {
	Table string
	Stage string
	Err   error
}

// Error returns the error string.
func (e *TableError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("entitygen: %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("entitygen: table %q: %s: %v", e.Table, e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *TableError) Unwrap() error {
	return e.Err
}

// Is maps the failing stage to its sentinel so that
// errors.Is(err, ErrWrite) holds for write failures.
func (e *TableError) Is(target error) bool {
	switch target {
	case ErrMetadata:
		return e.Stage == StageList || e.Stage == StageLoad || e.Stage == StageValidate
	case ErrEmit:
		return e.Stage == StageEmit
	case ErrWrite:
		return e.Stage == StageWrite
	}
	return false
}

// IsTableError returns true if err is or wraps a TableError.
func IsTableError(err error) bool {
	var e *TableError
	return errors.As(err, &e)
}
