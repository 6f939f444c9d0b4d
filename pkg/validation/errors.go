package validation

import (
	"fmt"
	"strings"
)

// Violation is one field's rejection.
type Violation struct {
	Field string
	Err   error
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %v", v.Field, v.Err)
}

// Error is returned by Schema.Validate and carries every violation found.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Error()
	}
	return "invalid arguments: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() []error {
	out := make([]error, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v.Err
	}
	return out
}

// Fields lists the names of the rejected fields in order.
func (e *Error) Fields() []string {
	out := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v.Field
	}
	return out
}
