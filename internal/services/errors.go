package services

import "errors"

var (
	// ErrEmailTaken is returned when a create or update would break the
	// unique-email invariant.
	ErrEmailTaken = errors.New("email already exists")

	// ErrUserNotFound is returned by Authenticate when no account matches
	// the given email.
	ErrUserNotFound = errors.New("user does not exist")

	// ErrInvalidCredentials is returned by Authenticate when the password
	// does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError marks missing or invalid input. Handlers map it to a 400
// response.
type ValidationError struct {
	msg string
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string { return e.msg }

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
