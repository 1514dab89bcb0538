package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
)

// ValidationError carries the client-facing message for a rejected input.
// Handlers surface Message verbatim with a 400 status.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
