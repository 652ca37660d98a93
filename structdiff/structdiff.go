package structdiff

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Kind is the JSON kind of a document tree value.
type Kind int

const (
	// KindNull is the JSON null value (Go nil).
	KindNull Kind = iota
	// KindBool is a JSON boolean.
	KindBool
	// KindNumber is any JSON number.
	KindNumber
	// KindString is a JSON string.
	KindString
	// KindArray is an ordered sequence.
	KindArray
	// KindObject is a string-keyed mapping.
	KindObject
	// KindUnknown is any Go value that is not a document tree value, such as
	// a struct or a map without string keys.
	KindUnknown
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsScalar reports whether the kind is a boolean, number or string.
func (k Kind) IsScalar() bool {
	return k == KindBool || k == KindNumber || k == KindString
}

// KindOf classifies a document tree value.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case json.Number:
		return KindNumber
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return KindNull
		}
		return KindOf(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return KindNull
		}
		return KindArray
	case reflect.Array:
		return KindArray
	case reflect.Map:
		if rv.IsNil() {
			return KindNull
		}
		if rv.Type().Key().Kind() == reflect.String {
			return KindObject
		}
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	}
	return KindUnknown
}

// Path identifies a location in a document tree as a sequence of keys.
type Path []string

// String joins the path segments with dots. The root path is empty.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// MarshalText encodes the path in its dotted form.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Child returns a new path extended by key. The receiver is not modified.
func (p Path) Child(key string) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, key)
}

// IssueType identifies the kind of structural discrepancy.
type IssueType string

const (
	// IssueTypeMismatch indicates values of different kinds
	IssueTypeMismatch IssueType = "type_mismatch"
	// IssueNullMismatch indicates exactly one side is null
	IssueNullMismatch IssueType = "null_mismatch"
	// IssueArrayLength indicates arrays of different lengths
	IssueArrayLength IssueType = "array_length"
	// IssueUnexpectedKeys indicates keys present only in the candidate
	IssueUnexpectedKeys IssueType = "unexpected_keys"
	// IssueMissingKeys indicates keys present only in the baseline
	IssueMissingKeys IssueType = "missing_keys"
	// IssueUnsupported indicates a value that is not a document tree value
	IssueUnsupported IssueType = "unsupported_value"
)

// Issue is one structural discrepancy between a baseline and a candidate.
type Issue struct {
	// Path locates the discrepancy in both trees
	Path Path `json:"path" yaml:"path"`
	// Type classifies the discrepancy
	Type IssueType `json:"type" yaml:"type"`
	// Message is a human-readable description
	Message string `json:"message" yaml:"message"`
	// Keys lists the offending keys for key-set issues, sorted
	Keys []string `json:"keys,omitempty" yaml:"keys,omitempty"`
	// BaselineKind is the kind of the baseline value at Path
	BaselineKind Kind `json:"baseline_kind" yaml:"baseline_kind"`
	// CandidateKind is the kind of the candidate value at Path
	CandidateKind Kind `json:"candidate_kind" yaml:"candidate_kind"`
}

// String formats the issue as "path: message", using "(root)" for the root path.
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", DisplayPath(i.Path), i.Message)
}

// DisplayPath renders a path for humans; the root path becomes "(root)".
func DisplayPath(p Path) string {
	if len(p) == 0 {
		return "(root)"
	}
	return p.String()
}

// ArrayMode controls how arrays with matching kinds are compared.
type ArrayMode int

const (
	// ArrayLength reports only length differences between arrays.
	ArrayLength ArrayMode = iota
	// ArrayElements also compares elements index by index when lengths match.
	ArrayElements
)

// Comparer performs structural comparisons.
type Comparer struct {
	// ArrayMode selects how arrays are compared. Defaults to ArrayLength.
	ArrayMode ArrayMode
}

// Option configures a Comparer.
type Option func(*Comparer)

// WithArrayMode sets the array comparison mode.
func WithArrayMode(mode ArrayMode) Option {
	return func(c *Comparer) {
		c.ArrayMode = mode
	}
}

// New creates a Comparer with default settings, then applies opts.
func New(opts ...Option) *Comparer {
	c := &Comparer{ArrayMode: ArrayLength}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare reports the structural discrepancies of candidate relative to
// baseline using the default comparer. The result is never nil.
func Compare(baseline, candidate any) []Issue {
	return New().Compare(baseline, candidate)
}

// Compare reports the structural discrepancies of candidate relative to
// baseline. The result is never nil; an empty slice means the shapes match.
func (c *Comparer) Compare(baseline, candidate any) []Issue {
	issues := make([]Issue, 0)
	c.walk(nil, baseline, candidate, &issues)
	return issues
}

func (c *Comparer) walk(path Path, baseline, candidate any, issues *[]Issue) {
	bk, ck := KindOf(baseline), KindOf(candidate)

	if bk != ck {
		issue := Issue{Path: path, BaselineKind: bk, CandidateKind: ck}
		if bk == KindNull || ck == KindNull {
			issue.Type = IssueNullMismatch
			issue.Message = fmt.Sprintf("null mismatch: %s vs %s", bk, ck)
		} else {
			issue.Type = IssueTypeMismatch
			issue.Message = fmt.Sprintf("type mismatch: %s vs %s", bk, ck)
		}
		*issues = append(*issues, issue)
		return
	}

	switch bk {
	case KindUnknown:
		*issues = append(*issues, Issue{
			Path:          path,
			Type:          IssueUnsupported,
			Message:       fmt.Sprintf("unsupported values: %T vs %T", baseline, candidate),
			BaselineKind:  bk,
			CandidateKind: ck,
		})
	case KindArray:
		c.walkArrays(path, asSlice(baseline), asSlice(candidate), issues)
	case KindObject:
		c.walkObjects(path, asMap(baseline), asMap(candidate), issues)
	}
}

func (c *Comparer) walkArrays(path Path, baseline, candidate []any, issues *[]Issue) {
	if len(baseline) != len(candidate) {
		*issues = append(*issues, Issue{
			Path:          path,
			Type:          IssueArrayLength,
			Message:       fmt.Sprintf("array length mismatch: %d vs %d", len(baseline), len(candidate)),
			BaselineKind:  KindArray,
			CandidateKind: KindArray,
		})
		return
	}
	if c.ArrayMode != ArrayElements {
		return
	}
	for i := range baseline {
		c.walk(path.Child(fmt.Sprint(i)), baseline[i], candidate[i], issues)
	}
}

func (c *Comparer) walkObjects(path Path, baseline, candidate map[string]any, issues *[]Issue) {
	var unexpected, missing, common []string
	for key := range candidate {
		if _, ok := baseline[key]; !ok {
			unexpected = append(unexpected, key)
		}
	}
	for key := range baseline {
		if _, ok := candidate[key]; ok {
			common = append(common, key)
		} else {
			missing = append(missing, key)
		}
	}
	sort.Strings(unexpected)
	sort.Strings(missing)
	sort.Strings(common)

	if len(unexpected) > 0 {
		*issues = append(*issues, Issue{
			Path:          path,
			Type:          IssueUnexpectedKeys,
			Message:       "unexpected keys in candidate: " + strings.Join(unexpected, ", "),
			Keys:          unexpected,
			BaselineKind:  KindObject,
			CandidateKind: KindObject,
		})
	}
	if len(missing) > 0 {
		*issues = append(*issues, Issue{
			Path:          path,
			Type:          IssueMissingKeys,
			Message:       "keys missing from candidate: " + strings.Join(missing, ", "),
			Keys:          missing,
			BaselineKind:  KindObject,
			CandidateKind: KindObject,
		})
	}

	for _, key := range common {
		c.walk(path.Child(key), baseline[key], candidate[key], issues)
	}
}

// Counts tallies issues by type.
func Counts(issues []Issue) map[IssueType]int {
	counts := make(map[IssueType]int)
	for _, issue := range issues {
		counts[issue.Type]++
	}
	return counts
}

// asSlice converts an array-kind value to []any.
func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// asMap converts an object-kind value to map[string]any.
func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out
}
