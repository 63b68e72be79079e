// Package errors defines the domain error taxonomy shared across
// services and handlers.
package errors

import "fmt"

// DomainError is a coded business-rule violation suitable for
// surfacing to API clients.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// WithDetail returns a copy of the error with extra detail appended to
// the message. The code is preserved so callers can still match on it.
func (e *DomainError) WithDetail(format string, args ...interface{}) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: fmt.Sprintf("%s: %s", e.Message, fmt.Sprintf(format, args...)),
	}
}

// Is lets errors.Is match any DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}
