package overlay

import (
	"errors"
	"fmt"

	"github.com/mjfusa/specguard/document"
	"github.com/mjfusa/specguard/internal/jsonpath"
	"github.com/mjfusa/specguard/logging"
	"github.com/mjfusa/specguard/oaserrors"
)

// ErrNoMatch is the cause of an ApplyError when a target matched no nodes
// under StrictTargets.
var ErrNoMatch = errors.New("target matched no nodes")

// Applier applies overlays to document trees.
type Applier struct {
	// StrictTargets causes Apply to return an error if any target matches no nodes.
	StrictTargets bool

	// Logger receives one debug record per applied action and one warning
	// per skipped action. Nil disables logging.
	Logger logging.Logger
}

// NewApplier creates a new Applier with default settings.
func NewApplier() *Applier {
	return &Applier{}
}

// ApplyFile loads the document at docPath and the overlay at overlayPath and
// applies the overlay. The file on disk is not modified.
func (a *Applier) ApplyFile(docPath, overlayPath string) (*ApplyResult, error) {
	doc, err := document.Load(docPath, "document")
	if err != nil {
		return nil, err
	}
	o, err := ParseOverlayFile(overlayPath)
	if err != nil {
		return nil, err
	}
	return a.Apply(doc, o)
}

// Apply applies the overlay's actions to a deep copy of doc, in order.
//
// Targets that match nothing are skipped with a warning unless StrictTargets
// is set. Nodes are never created: a target whose parent is absent does not
// match.
func (a *Applier) Apply(doc any, o *Overlay) (*ApplyResult, error) {
	if errs := Validate(o); len(errs) > 0 {
		return nil, errs
	}
	log := logging.OrNop(a.Logger).With("overlay", o.Info.Title)

	result := &ApplyResult{Document: deepCopy(doc)}

	for i, action := range o.Actions {
		change, err := a.applyAction(result, action, i)
		if err != nil {
			if a.StrictTargets {
				return nil, &oaserrors.ApplyError{Source: o.Info.Title, ActionIndex: i, Target: action.Target, Cause: err}
			}
			result.Warnings = append(result.Warnings, &ApplyWarning{
				Category:    WarnActionError,
				ActionIndex: i,
				Target:      action.Target,
				Message:     "action execution failed",
				Cause:       err,
			})
			result.ActionsSkipped++
			log.Warn("overlay action failed", "action", i, "target", action.Target, "error", err)
			continue
		}

		if change.MatchCount == 0 {
			if a.StrictTargets {
				return nil, &oaserrors.ApplyError{Source: o.Info.Title, ActionIndex: i, Target: action.Target, Cause: ErrNoMatch}
			}
			result.Warnings = append(result.Warnings, &ApplyWarning{
				Category:    WarnNoMatch,
				ActionIndex: i,
				Target:      action.Target,
				Message:     "target matched no nodes",
			})
			result.ActionsSkipped++
			log.Warn("overlay target matched no nodes", "action", i, "target", action.Target)
			continue
		}

		result.Changes = append(result.Changes, *change)
		result.ActionsApplied++
		log.Debug("overlay action applied", "action", i, "target", action.Target,
			"operation", change.Operation, "matches", change.MatchCount)
	}

	return result, nil
}

// applyAction applies one action to result.Document.
func (a *Applier) applyAction(result *ApplyResult, action Action, index int) (*ChangeRecord, error) {
	path, err := jsonpath.Parse(action.Target)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath: %w", err)
	}

	record := &ChangeRecord{ActionIndex: index, Target: action.Target}

	if action.Remove {
		record.Operation = OpRemove
		doc, n, err := path.Remove(result.Document)
		if err != nil {
			return nil, err
		}
		result.Document = doc
		record.MatchCount = n
		return record, nil
	}

	doc, n := path.Modify(result.Document, func(node any) any {
		update := deepCopy(action.Update)
		switch target := node.(type) {
		case map[string]any:
			if src, ok := update.(map[string]any); ok {
				record.Operation = OpUpdate
				return mergeDeep(target, src)
			}
			record.Operation = OpReplace
			return update
		case []any:
			record.Operation = OpAppend
			return append(target, update)
		default:
			record.Operation = OpReplace
			return update
		}
	})
	result.Document = doc
	record.MatchCount = n
	return record, nil
}

// mergeDeep merges source into target: nested objects merge recursively,
// every other value replaces the target's.
func mergeDeep(target, source map[string]any) map[string]any {
	for key, srcVal := range source {
		if targetVal, exists := target[key]; exists {
			targetMap, targetIsMap := targetVal.(map[string]any)
			srcMap, srcIsMap := srcVal.(map[string]any)
			if targetIsMap && srcIsMap {
				mergeDeep(targetMap, srcMap)
				continue
			}
		}
		target[key] = srcVal
	}
	return target
}

// deepCopy copies maps and slices recursively. Scalars are shared.
func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = deepCopy(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = deepCopy(child)
		}
		return out
	default:
		return val
	}
}
