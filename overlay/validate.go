package overlay

import (
	"fmt"

	"github.com/mjfusa/specguard/internal/jsonpath"
)

// SupportedVersion is the only Overlay version Validate accepts.
const SupportedVersion = "1.0.0"

// Validate checks that o can be applied to a document tree. It returns nil
// when the overlay is valid.
func Validate(o *Overlay) ValidationErrors {
	var errs ValidationErrors
	top := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Action: -1, Message: msg})
	}

	switch o.Version {
	case SupportedVersion:
	case "":
		top("overlay", "version is required")
	default:
		top("overlay", fmt.Sprintf("unsupported version %q; only %q is supported", o.Version, SupportedVersion))
	}
	if o.Info.Title == "" {
		top("info.title", "title is required")
	}
	if o.Info.Version == "" {
		top("info.version", "version is required")
	}
	if len(o.Actions) == 0 {
		top("actions", "at least one action is required")
	}

	for i, action := range o.Actions {
		errs = append(errs, validateAction(action, i)...)
	}
	return errs
}

func validateAction(action Action, index int) ValidationErrors {
	var errs ValidationErrors
	add := func(suffix, msg string) {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("actions[%d]%s", index, suffix),
			Action:  index,
			Message: msg,
		})
	}

	var path *jsonpath.Path
	if action.Target == "" {
		add(".target", "target is required")
	} else if p, err := jsonpath.Parse(action.Target); err != nil {
		add(".target", fmt.Sprintf("invalid JSONPath: %v", err))
	} else {
		path = p
	}

	switch {
	case action.Update == nil && !action.Remove:
		add("", "action must have update or remove")
	case path != nil && path.IsRoot() && !action.Remove:
		// Merging into the root must leave a document tree behind.
		if _, ok := action.Update.(map[string]any); !ok {
			add(".update", "update of the document root must be an object")
		}
	}
	return errs
}

// IsValid reports whether o has no validation errors.
func IsValid(o *Overlay) bool {
	return len(Validate(o)) == 0
}
