package service

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrIdentityUnavailable = errors.New("identity provider unavailable")
)

// ValidationError carries a user-facing message for a rejected field.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
