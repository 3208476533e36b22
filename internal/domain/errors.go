package domain

import "fmt"

// ValidationError reports malformed input. It is returned before any state
// is touched.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// PreconditionError reports a state machine transition that is not allowed
// from the seat's current state.
type PreconditionError struct {
	msg string
}

func (e *PreconditionError) Error() string {
	return e.msg
}

func NewPreconditionError(msg string) error {
	return &PreconditionError{msg: msg}
}

func preconditionErrorf(format string, args ...any) error {
	return &PreconditionError{msg: fmt.Sprintf(format, args...)}
}
