// Package document loads and writes the JSON and YAML document trees that the
// comparator, checklists and post-processors operate on.
//
// A document tree is the value a decoder produces when decoding into any:
// nil, bool, float64 (JSON) or int/float64 (YAML), string, []any and
// map[string]any. YAML mappings with non-string keys are normalized to
// map[string]any so every package sees one representation.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/mjfusa/specguard/internal/fileutil"
	"github.com/mjfusa/specguard/oaserrors"
)

// Format is the serialization format of a document.
type Format string

const (
	// FormatJSON is JSON text.
	FormatJSON Format = "json"
	// FormatYAML is YAML text.
	FormatYAML Format = "yaml"
)

// DetectFormat picks a format from the file extension, falling back to the
// first non-space byte of data ('{' or '[' means JSON).
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// ParseFile reads and decodes the document at path.
func ParseFile(path string) (any, error) {
	return Load(path, "")
}

// Load reads and decodes the document at path. role names the document in
// error messages (for example "generated" or "baseline").
func Load(path, role string) (any, error) {
	doc, _, _, err := LoadRaw(path, role)
	return doc, err
}

// LoadRaw is like Load but also returns the file contents and the detected
// format, for callers that write the document back.
func LoadRaw(path, role string) (any, []byte, Format, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304 - paths come from project configuration
	if err != nil {
		return nil, nil, "", &oaserrors.InputError{Path: path, Role: role, Cause: err}
	}
	format := DetectFormat(path, data)
	doc, err := ParseBytes(data, format)
	if err != nil {
		var parseErr *oaserrors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = path
		}
		return nil, nil, "", err
	}
	return doc, data, format, nil
}

// ParseReader decodes a document from r. name is used for format detection
// and error messages and may be empty.
func ParseReader(r io.Reader, name string) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &oaserrors.InputError{Path: name, Cause: err}
	}
	doc, err := ParseBytes(data, DetectFormat(name, data))
	if err != nil {
		var parseErr *oaserrors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = name
		}
	}
	return doc, err
}

// ParseBytes decodes data in the given format. An empty format is detected
// from the content.
func ParseBytes(data []byte, format Format) (any, error) {
	if format == "" {
		format = DetectFormat("", data)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &oaserrors.ParseError{Message: "empty document"}
	}

	var doc any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &oaserrors.ParseError{Message: "invalid JSON", Cause: err}
		}
		return doc, nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &oaserrors.ParseError{Message: "invalid YAML", Cause: err}
		}
		return Normalize(doc), nil
	default:
		return nil, &oaserrors.ConfigError{Option: "format", Value: string(format), Message: "unsupported document format"}
	}
}

// Normalize rewrites YAML mappings with non-string keys into map[string]any,
// recursively. Other values are returned unchanged.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			val[k] = Normalize(child)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[fmt.Sprint(k)] = Normalize(child)
		}
		return out
	case []any:
		for i, child := range val {
			val[i] = Normalize(child)
		}
		return val
	default:
		return v
	}
}

// Marshal encodes doc as two-space indented JSON or as YAML. JSON output
// does not escape HTML characters and ends with a newline.
func Marshal(doc any, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, &oaserrors.ConfigError{Option: "format", Value: string(format), Message: "unsupported document format"}
	}
}

// WriteFile encodes doc and writes it to path. An empty format is taken from
// the file extension. Existing files keep their permissions.
func WriteFile(path string, doc any, format Format) error {
	if format == "" {
		format = FormatJSON
		if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
			format = FormatYAML
		}
	}
	data, err := Marshal(doc, format)
	if err != nil {
		return fmt.Errorf("document: encoding %s: %w", path, err)
	}
	if err := fileutil.MakeWritable(path); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	if err := os.WriteFile(path, data, fileutil.ReadableByAll); err != nil { //nolint:gosec // G306 - build artifacts are meant to be world-readable
		return fmt.Errorf("document: writing %s: %w", path, err)
	}
	return nil
}

// Lookup follows object keys from doc and returns the value found. The second
// result is false when any key along the way is absent or not an object.
func Lookup(doc any, keys ...string) (any, bool) {
	cur := doc
	for _, key := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// KeysOf returns the sorted keys of an object value, or nil for anything else.
func KeysOf(v any) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StringsOf returns the string elements of an array value, skipping
// non-strings. Anything that is not an array yields nil.
func StringsOf(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, elem := range arr {
		if s, ok := elem.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// String returns the value at keys when it is a string.
func String(doc any, keys ...string) (string, bool) {
	v, ok := Lookup(doc, keys...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
