package lifecycle

import (
	"fmt"

	"mushtrack/internal/models"
)

// ValidationError reports an input that violates an operation's
// preconditions. The operation is rejected before any state changes.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidTransitionError reports a stage move that is not a legal edge.
type InvalidTransitionError struct {
	From models.Stage
	To   models.Stage
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move batch from %q to %q", e.From, e.To)
}

// NotFoundError reports a missing batch or reference record, which
// usually means the caller is working from a stale view.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// IndexError reports a harvest-entry index outside the valid range.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("harvest index %d out of range [0,%d)", e.Index, e.Len)
}
