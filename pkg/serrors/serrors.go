package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Error is a coded error that crosses module boundaries. The code is stable
// and machine-readable; the message is for humans.
type Error struct {
	Code    string
	Message string
	Hint    string
}

func NewError(code, message, hint string) *Error {
	return &Error{Code: code, Message: message, Hint: hint}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithMessage returns a copy carrying a more specific message but the same code,
// so errors.Is against the original sentinel still matches.
func (e *Error) WithMessage(message string) *Error {
	return &Error{Code: e.Code, Message: message, Hint: e.Hint}
}

// Is matches any *Error with the same code, regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ValidationErrors maps a struct field name to a human-readable message.
type ValidationErrors map[string]string

// ProcessValidatorErrors flattens go-playground validator errors into a
// field -> message map suitable for API responses.
func ProcessValidatorErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
	return out
}
