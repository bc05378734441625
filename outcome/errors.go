package outcome

import "errors"

// ErrInvalidState is matched by every *InvalidStateError.
var ErrInvalidState = errors.New("outcome.invalid_state")

// InvalidStateError is the panic value raised when an accessor is used on the wrong discriminant.
type InvalidStateError struct {
	Op    string
	State string
}

func (e *InvalidStateError) Error() string {
	return e.Op + ": " + ErrInvalidState.Error() + " (" + e.State + ")"
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }
