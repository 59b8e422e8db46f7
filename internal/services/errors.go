package services

import "errors"

var (
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrUnsupportedEvent = errors.New("unsupported event type")
	ErrClientNotFound   = errors.New("client not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrForbidden        = errors.New("not allowed to access this resource")
)

// StoreError marks a failed read or write against the store during a named step.
type StoreError struct {
	Step string
	Err  error
}

func (e *StoreError) Error() string {
	return "database error when " + e.Step + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Public is the message safe to return to webhook callers.
func (e *StoreError) Public() string {
	return "Database error when " + e.Step
}

func storeErr(step string, err error) error {
	return &StoreError{Step: step, Err: err}
}
