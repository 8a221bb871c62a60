// errors.go - Error types for trip submission
package trip

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelection is returned when the referenced matrix row is
	// missing, inactive, or incomplete at the instant of submission.
	ErrInvalidSelection = errors.New("invalid client list selection")

	// ErrNegativeWeight is returned when the submitted weight is below zero.
	ErrNegativeWeight = errors.New("weight must not be negative")
)

// InvalidSelectionError carries the rejected row id.
type InvalidSelectionError struct {
	RowID int64
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("client list row %d is not selectable", e.RowID)
}

func (e *InvalidSelectionError) Unwrap() error {
	return ErrInvalidSelection
}
