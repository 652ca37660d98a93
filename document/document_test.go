package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjfusa/specguard/oaserrors"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
		want Format
	}{
		{"json extension", "api.json", "openapi: 3", FormatJSON},
		{"yaml extension", "api.yaml", "{}", FormatYAML},
		{"yml extension upper", "API.YML", "{}", FormatYAML},
		{"sniff object", "", "  \n{\"a\":1}", FormatJSON},
		{"sniff array", "stdin", "[1]", FormatJSON},
		{"sniff yaml", "", "openapi: 3.0.1", FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.path, []byte(tt.data)))
		})
	}
}

func TestParseBytes(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		doc, err := ParseBytes([]byte(`{"openapi":"3.0.1","paths":{"/m365":{}},"n":2}`), FormatJSON)
		require.NoError(t, err)
		m := doc.(map[string]any)
		assert.Equal(t, "3.0.1", m["openapi"])
		assert.Equal(t, float64(2), m["n"])
	})

	t.Run("yaml", func(t *testing.T) {
		doc, err := ParseBytes([]byte("openapi: 3.0.1\ninfo:\n  title: Roadmap\n"), FormatYAML)
		require.NoError(t, err)
		title, ok := String(doc, "info", "title")
		assert.True(t, ok)
		assert.Equal(t, "Roadmap", title)
	})

	t.Run("yaml non-string keys are normalized", func(t *testing.T) {
		doc, err := ParseBytes([]byte("responses:\n  200:\n    description: OK\n"), FormatYAML)
		require.NoError(t, err)
		desc, ok := String(doc, "responses", "200", "description")
		assert.True(t, ok)
		assert.Equal(t, "OK", desc)
	})

	t.Run("detects format", func(t *testing.T) {
		doc, err := ParseBytes([]byte(`[1, 2]`), "")
		require.NoError(t, err)
		assert.Len(t, doc, 2)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseBytes([]byte(`{"a":`), FormatJSON)
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrParse))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseBytes([]byte("  \n"), FormatJSON)
		assert.True(t, errors.Is(err, oaserrors.ErrParse))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := ParseBytes([]byte(`{}`), Format("toml"))
		assert.True(t, errors.Is(err, oaserrors.ErrConfig))
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.json"), "generated")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrInput))
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.Contains(t, err.Error(), "generated")
	})

	t.Run("malformed file carries path", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"a": }`), 0o600))

		_, err := ParseFile(path)
		var parseErr *oaserrors.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, path, parseErr.Path)
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "ok.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"openapi":"3.0.1"}`), 0o600))

		doc, err := ParseFile(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"openapi": "3.0.1"}, doc)
	})
}

func TestParseReader(t *testing.T) {
	doc, err := ParseReader(strings.NewReader(`{"a": [1]}`), "<stdin>")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{float64(1)}}, doc)

	_, err = ParseReader(strings.NewReader(`{`), "<stdin>")
	var parseErr *oaserrors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "<stdin>", parseErr.Path)
}

func TestMarshal(t *testing.T) {
	doc := map[string]any{"filter": "a & b <c>", "n": float64(476488)}

	data, err := Marshal(doc, FormatJSON)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `"a & b <c>"`, "HTML characters must not be escaped")
	assert.Contains(t, text, `"n": 476488`)
	assert.True(t, strings.HasSuffix(text, "}\n"))
	assert.Contains(t, text, "\n  \"filter\"", "two-space indentation")

	data, err = Marshal(doc, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "filter: a & b <c>")

	_, err = Marshal(doc, Format("xml"))
	assert.True(t, errors.Is(err, oaserrors.ErrConfig))
}

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc := map[string]any{"info": map[string]any{"version": "v2"}}

	for _, name := range []string{"out.json", "out.yaml", "noext"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteFile(path, doc, ""))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			got, err := ParseBytes(data, "")
			require.NoError(t, err)
			assert.Equal(t, doc, got)
		})
	}
}

func TestWriteFile_ReadOnlyTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o444))

	require.NoError(t, WriteFile(path, map[string]any{"a": "b"}, FormatJSON))
	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "b"}, doc)
}

func TestLookupHelpers(t *testing.T) {
	doc, err := ParseBytes([]byte(`{
		"paths": {"/b": {}, "/a": {}},
		"components": {"schemas": {"RoadmapItem": {"required": ["id", 3, "title"]}}}
	}`), FormatJSON)
	require.NoError(t, err)

	v, ok := Lookup(doc, "components", "schemas", "RoadmapItem")
	assert.True(t, ok)
	assert.NotNil(t, v)

	_, ok = Lookup(doc, "components", "parameters")
	assert.False(t, ok)

	_, ok = Lookup(doc, "paths", "/a", "get", "x")
	assert.False(t, ok)

	paths, _ := Lookup(doc, "paths")
	assert.Equal(t, []string{"/a", "/b"}, KeysOf(paths))
	assert.Nil(t, KeysOf("scalar"))

	required, _ := Lookup(doc, "components", "schemas", "RoadmapItem", "required")
	assert.Equal(t, []string{"id", "title"}, StringsOf(required))
	assert.Nil(t, StringsOf(map[string]any{}))

	_, ok = String(doc, "paths")
	assert.False(t, ok)
}
