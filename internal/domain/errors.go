package domain

import (
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable marks failures where the completion provider could
// not produce a usable reply after the retry budget was spent. The boundary
// layer maps it to a service-unavailable response.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ErrInternal marks unexpected conditions. Details are logged server-side;
// callers only see a generic message.
var ErrInternal = errors.New("internal error")

// InvalidInputError reports the first validation failure found in
// caller-supplied data. Index is the position of the offending history
// entry, or -1 when the failure is not tied to a history entry (the new
// user message or the system prompt).
type InvalidInputError struct {
	Index  int
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid input: history[%d].%s: %s", e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// NewInvalidInputError creates a validation error for a history entry.
func NewInvalidInputError(index int, field, reason string) *InvalidInputError {
	return &InvalidInputError{Index: index, Field: field, Reason: reason}
}

// NewInvalidFieldError creates a validation error not tied to a history entry.
func NewInvalidFieldError(field, reason string) *InvalidInputError {
	return &InvalidInputError{Index: -1, Field: field, Reason: reason}
}

// IsInvalidInput reports whether err is rooted in caller-supplied data.
func IsInvalidInput(err error) bool {
	var iie *InvalidInputError
	return errors.As(err, &iie)
}
