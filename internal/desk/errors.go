package desk

import (
	"errors"
	"fmt"
)

// ErrOperationNotFound is matched by errors.Is for undo requests naming an
// operation that is not in history.
var ErrOperationNotFound = errors.New("operation not found in history")

// NotFoundError carries the operation ID that could not be found.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("operation not found in history: %s", e.ID)
}

// Is allows errors.Is to match ErrOperationNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrOperationNotFound
}
