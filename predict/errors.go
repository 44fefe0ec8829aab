package predict

import (
	"errors"
)

// Kind classifies why a prediction could not be produced.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindInference    Kind = "inference_error"
)

// Error is the failure variant of a prediction. The HTTP layer maps Kind to a status code.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidInput(message string, err error) *Error {
	return &Error{Kind: KindInvalidInput, Message: message, Err: err}
}

func inferenceFailed(message string, err error) *Error {
	return &Error{Kind: KindInference, Message: message, Err: err}
}

// KindOf reports the Kind of err, if err is or wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}
