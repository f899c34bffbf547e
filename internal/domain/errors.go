package domain

import "fmt"

// ValidationError reports malformed user input. It is an expected error,
// surfaced as a 4xx at the HTTP boundary and never logged as a fault.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
