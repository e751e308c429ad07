package services

import "fmt"

// ValidationError marks failures the caller can fix: malformed input,
// non-positive amounts, references to missing or inactive catalog
// entities. Handlers map it to a 400 response.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(format string, args ...any) error {
	return &ValidationError{Err: fmt.Errorf(format, args...)}
}

func invalidErr(err error) error {
	return &ValidationError{Err: err}
}
