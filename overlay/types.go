package overlay

import (
	"fmt"
)

// Overlay represents an OpenAPI Overlay document (v1.0.0).
type Overlay struct {
	// Version is the overlay specification version (e.g., "1.0.0").
	Version string `yaml:"overlay" json:"overlay"`

	// Info contains metadata about the overlay.
	Info Info `yaml:"info" json:"info"`

	// Extends is an optional URI reference to the target document.
	Extends string `yaml:"extends,omitempty" json:"extends,omitempty"`

	// Actions is the ordered list of transformation actions.
	Actions []Action `yaml:"actions" json:"actions"`
}

// Info contains metadata about an overlay document.
type Info struct {
	Title   string `yaml:"title" json:"title"`
	Version string `yaml:"version" json:"version"`
}

// Action is a single transformation. Remove takes precedence over Update.
type Action struct {
	// Target is a JSONPath expression selecting nodes to operate on.
	Target string `yaml:"target" json:"target"`

	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Update is merged into objects, appended to arrays, and replaces scalars.
	Update any `yaml:"update,omitempty" json:"update,omitempty"`

	// Remove deletes the matched nodes from their parents.
	Remove bool `yaml:"remove,omitempty" json:"remove,omitempty"`
}

// Operation names recorded in a ChangeRecord.
const (
	OpUpdate  = "update"
	OpReplace = "replace"
	OpAppend  = "append"
	OpRemove  = "remove"
)

// ChangeRecord describes one applied action.
type ChangeRecord struct {
	ActionIndex int    `json:"actionIndex" yaml:"actionIndex"`
	Target      string `json:"target" yaml:"target"`
	Operation   string `json:"operation" yaml:"operation"`
	MatchCount  int    `json:"matchCount" yaml:"matchCount"`
}

// ApplyResult contains the result of applying an overlay to a document.
type ApplyResult struct {
	// Document is the transformed document. The input document is never modified.
	Document any

	ActionsApplied int
	ActionsSkipped int
	Changes        []ChangeRecord

	// Warnings holds one entry per skipped action.
	Warnings ApplyWarnings
}

// HasChanges returns true if any actions were applied.
func (r *ApplyResult) HasChanges() bool {
	return r.ActionsApplied > 0
}

// HasWarnings returns true if any warnings were generated.
func (r *ApplyResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// WarningCategory identifies the type of overlay warning.
type WarningCategory string

const (
	// WarnNoMatch indicates an action target matched no nodes.
	WarnNoMatch WarningCategory = "no_match"
	// WarnActionError indicates an error executing an action.
	WarnActionError WarningCategory = "action_error"
)

// ApplyWarning is a non-fatal issue from overlay application.
type ApplyWarning struct {
	Category    WarningCategory
	ActionIndex int
	Target      string
	Message     string
	Cause       error
}

// String returns a formatted warning message.
func (w *ApplyWarning) String() string {
	switch {
	case w.Cause != nil:
		return fmt.Sprintf("action[%d] target %q: %v", w.ActionIndex, w.Target, w.Cause)
	case w.Message != "":
		return fmt.Sprintf("action[%d] target %q: %s", w.ActionIndex, w.Target, w.Message)
	default:
		return fmt.Sprintf("action[%d] target %q: %s", w.ActionIndex, w.Target, w.Category)
	}
}

// Unwrap returns the underlying error for errors.Is/As support.
func (w *ApplyWarning) Unwrap() error {
	return w.Cause
}

// ApplyWarnings is a collection of ApplyWarning.
type ApplyWarnings []*ApplyWarning

// Strings returns the formatted warning messages, or nil when there are none.
func (ws ApplyWarnings) Strings() []string {
	var out []string
	for _, w := range ws {
		if w != nil {
			out = append(out, w.String())
		}
	}
	return out
}

// ByCategory filters warnings by category.
func (ws ApplyWarnings) ByCategory(cat WarningCategory) ApplyWarnings {
	var out ApplyWarnings
	for _, w := range ws {
		if w != nil && w.Category == cat {
			out = append(out, w)
		}
	}
	return out
}
