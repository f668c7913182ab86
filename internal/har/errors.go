package har

import "fmt"

// ParseError reports input that is not valid JSON.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// MissingFieldError reports an entry that lacks a field the cleaning
// pass needs to read. Field is "request", "method" or "url".
type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("entry %d: missing %q", e.Index, e.Field)
}
