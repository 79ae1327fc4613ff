package errors

import "fmt"

// InvalidStateError reports a persisted record that violates a domain
// invariant, such as a user row without a password hash.
type InvalidStateError struct {
	msg string
}

func NewInvalidStateError(msg string) *InvalidStateError {
	return &InvalidStateError{msg: msg}
}

func (e *InvalidStateError) Error() string {
	return e.msg
}

// NilArgumentError is what service and repository constructors panic with
// when the wiring hands them a nil collaborator.
type NilArgumentError struct {
	argument string
}

func NewNilArgumentError(argument string) *NilArgumentError {
	return &NilArgumentError{argument: argument}
}

func (e *NilArgumentError) Error() string {
	return fmt.Sprintf("argument '%s' must not be nil", e.argument)
}
