package overlay

import (
	"fmt"
	"strings"
)

// ValidationError is one problem Validate found in an overlay document.
type ValidationError struct {
	// Field is the offending field, e.g. "info.title" or "actions[2].target".
	Field string
	// Action is the index of the offending action, or -1 for top-level fields.
	Action int
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return "overlay: " + e.Message
	}
	return fmt.Sprintf("overlay: %s: %s", e.Field, e.Message)
}

// ValidationErrors is every problem found in one overlay, in document order.
type ValidationErrors []ValidationError

// Error joins the messages of all problems.
func (errs ValidationErrors) Error() string {
	switch len(errs) {
	case 0:
		return "overlay: no validation errors"
	case 1:
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		if e.Field == "" {
			msgs[i] = e.Message
			continue
		}
		msgs[i] = e.Field + ": " + e.Message
	}
	return fmt.Sprintf("overlay: %d validation errors: %s", len(errs), strings.Join(msgs, "; "))
}

// Unwrap exposes each ValidationError to errors.As.
func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}
