package commands

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjfusa/specguard/internal/testutil"
	"github.com/mjfusa/specguard/oaserrors"
)

func TestSetupCompareFlags(t *testing.T) {
	fs, flags := SetupCompareFlags()

	t.Run("default values", func(t *testing.T) {
		assert.False(t, flags.Elements)
		assert.Equal(t, FormatText, flags.Format)
	})

	t.Run("parse flags", func(t *testing.T) {
		require.NoError(t, fs.Parse([]string{"--elements", "--format", "json", "a.json", "b.json"}))
		assert.True(t, flags.Elements)
		assert.Equal(t, FormatJSON, flags.Format)
		assert.Equal(t, 2, fs.NArg())
	})
}

func TestHandleCompare_NotEnoughArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", []string{}},
		{"one arg", []string{"a.json"}},
		{"three args", []string{"a.json", "b.json", "c.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, HandleCompare(tt.args))
		})
	}
}

func compareFixtures(t *testing.T) (baseline, candidate string) {
	t.Helper()
	baseline = testutil.WriteTempJSON(t, map[string]any{
		"a": 1,
		"b": []any{1, 2},
		"c": map[string]any{"x": 1},
		"d": []any{map[string]any{"url": "x"}},
	})
	candidate = testutil.WriteTempYAML(t, map[string]any{
		"a": 2,
		"b": []any{1},
		"c": map[string]any{"x": 1, "y": 2},
		"d": []any{map[string]any{"url": 3}},
	})
	return baseline, candidate
}

func TestHandleCompare_Text(t *testing.T) {
	baseline, candidate := compareFixtures(t)

	var err error
	out := captureStdout(t, func() {
		err = HandleCompare([]string{baseline, candidate})
	})
	assert.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, out, "b: array length mismatch: 2 vs 1\n")
	assert.Contains(t, out, "c: unexpected keys in candidate: y\n")
	assert.NotContains(t, out, "d.0.url", "elements are not compared by default")
	assert.Contains(t, out, "✗ 2 structural issues found")
}

func TestHandleCompare_Elements(t *testing.T) {
	baseline, candidate := compareFixtures(t)

	var err error
	out := captureStdout(t, func() {
		err = HandleCompare([]string{"--elements", baseline, candidate})
	})
	assert.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, out, "d.0.url: type mismatch: string vs number")
	assert.Contains(t, out, "✗ 3 structural issues found")
}

func TestHandleCompare_NoIssues(t *testing.T) {
	path := testutil.WriteTempJSON(t, testutil.RoadmapDocument())

	var err error
	out := captureStdout(t, func() {
		err = HandleCompare([]string{path, path})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Structure matches the baseline")
}

func TestHandleCompare_JSON(t *testing.T) {
	baseline, candidate := compareFixtures(t)

	var err error
	out := captureStdout(t, func() {
		err = HandleCompare([]string{"--format", "json", baseline, candidate})
	})
	assert.ErrorIs(t, err, ErrFailed)

	var got struct {
		IssueCount int            `json:"issueCount"`
		Counts     map[string]int `json:"counts"`
		Issues     []struct {
			Path         string   `json:"path"`
			Keys         []string `json:"keys"`
			BaselineKind string   `json:"baseline_kind"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.IssueCount)
	assert.Equal(t, 1, got.Counts["array_length"])
	assert.Equal(t, 1, got.Counts["unexpected_keys"])
	require.Len(t, got.Issues, 2)
	assert.Equal(t, "b", got.Issues[0].Path)
	assert.Equal(t, "array", got.Issues[0].BaselineKind)
	assert.Equal(t, []string{"y"}, got.Issues[1].Keys)
}

func TestHandleCompare_Errors(t *testing.T) {
	path := testutil.WriteTempJSON(t, map[string]any{})

	t.Run("missing file", func(t *testing.T) {
		err := HandleCompare([]string{path, path + ".missing"})
		assert.ErrorIs(t, err, oaserrors.ErrInput)
	})

	t.Run("invalid format", func(t *testing.T) {
		err := HandleCompare([]string{"--format", "xml", path, path})
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})
}
