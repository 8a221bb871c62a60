/*
errors.go - Error types for the matrix row lifecycle

Sentinel errors are matched with errors.Is; structured errors carry the
field or row that failed and unwrap to the matching sentinel.
*/
package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the sentinel for missing or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrRowNotFound is returned when an operation targets a row id that
	// does not exist. "Exists but inactive" is not this error.
	ErrRowNotFound = errors.New("matrix row not found")
)

// ValidationError names the specific field that failed so the UI can
// surface a correction hint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError carries the id that could not be resolved.
type NotFoundError struct {
	ID RowID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("matrix row %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrRowNotFound
}
