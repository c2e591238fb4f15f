package survey

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is wrapped by every error caused by a table that breaks
// the two-header-row layout
var ErrMalformedInput = errors.New("malformed survey input")

// MalformedInputError locates a layout violation. Row and Column are 1-based;
// zero means the position is not known.
type MalformedInputError struct {
	Row    int
	Column int
	Reason string
}

// NewMalformedInputError builds a MalformedInputError with a formatted reason
func NewMalformedInputError(row, column int, format string, args ...any) *MalformedInputError {
	return &MalformedInputError{
		Row:    row,
		Column: column,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (e *MalformedInputError) Error() string {
	switch {
	case e.Row > 0 && e.Column > 0:
		return fmt.Sprintf("%s: row %d, column %d: %s", ErrMalformedInput, e.Row, e.Column, e.Reason)
	case e.Row > 0:
		return fmt.Sprintf("%s: row %d: %s", ErrMalformedInput, e.Row, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", ErrMalformedInput, e.Reason)
	}
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}
