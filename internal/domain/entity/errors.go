package entity

import "errors"

// ErrCredentials indica que as credenciais AWS estão ausentes ou inválidas.
var ErrCredentials = errors.New("AWS credentials not configured")

// InputError is a user-caused validation failure.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// NewInputError creates an InputError with the given message.
func NewInputError(message string) *InputError {
	return &InputError{Message: message}
}

// UpstreamError wraps a fault returned by the billing or directory service.
// Message is the upstream message, reported verbatim.
type UpstreamError struct {
	Service string
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
