package postprocess

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mjfusa/specguard/document"
	"github.com/mjfusa/specguard/internal/testutil"
	"github.com/mjfusa/specguard/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(t *testing.T, doc any, keys ...string) any {
	t.Helper()
	v, ok := document.Lookup(doc, keys...)
	require.True(t, ok, "missing %v", keys)
	return v
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{BuiltinExamples, BuiltinMetadata}, Builtins())

	for _, name := range Builtins() {
		o, err := Builtin(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, o.Actions, name)
	}

	_, err := Builtin("nope")
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestProcess_Builtins(t *testing.T) {
	doc := testutil.RoadmapDocument()

	out, steps, err := New().Process(doc)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, StepResult{Source: BuiltinExamples, Kind: KindBuiltin, Applied: 3}, steps[0])
	assert.Equal(t, StepResult{Source: BuiltinMetadata, Kind: KindBuiltin, Applied: 2}, steps[1])

	filter := lookup(t, out, "components", "parameters", "FilterParameter", "examples")
	assert.Len(t, filter, 8)
	assert.Equal(t, "contains(tolower(title), 'teams')",
		lookup(t, filter, "teams_items", "value"))

	orderBy := lookup(t, out, "components", "parameters", "OrderByParameter", "examples")
	assert.Equal(t, []string{"newest_first", "oldest_first", "title_alphabetical"}, document.KeysOf(orderBy))
	assert.Equal(t, "created desc", lookup(t, orderBy, "newest_first", "value"))

	sample := lookup(t, out, "paths", "/m365", "get", "responses", "200", "content", "application/json",
		"examples", "copilot_items", "value")
	items := lookup(t, sample, "value").([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "In development", lookup(t, items[0], "status"))
	nextLink, ok := document.Lookup(sample, "@odata.nextLink")
	assert.True(t, ok)
	assert.Nil(t, nextLink)

	assert.Equal(t, "v2", lookup(t, out, "info", "version"))
	assert.Equal(t, "Microsoft 365 Roadmap", lookup(t, out, "info", "contact", "name"))
	assert.Equal(t, "getM365RoadmapInfo", lookup(t, out, "paths", "/m365", "get", "operationId"))

	// input untouched
	_, ok = document.Lookup(doc, "info", "contact")
	assert.False(t, ok)
}

func TestProcess_MissingParentsAreSkipped(t *testing.T) {
	doc := map[string]any{
		"openapi": "3.0.1",
		"info":    map[string]any{"title": "Microsoft 365 Roadmap API"},
	}

	out, steps, err := New().Process(doc)
	require.NoError(t, err)
	assert.Equal(t, 3, steps[0].Skipped)
	assert.Equal(t, 1, steps[1].Applied)
	assert.Equal(t, 1, steps[1].Skipped)
	assert.Len(t, steps[0].Warnings, 3)

	_, ok := document.Lookup(out, "paths")
	assert.False(t, ok, "post-processing must not create paths")
	_, ok = document.Lookup(out, "components")
	assert.False(t, ok)
}

func TestProcess_StrictTargets(t *testing.T) {
	_, _, err := New(WithStrictTargets(true)).Process(map[string]any{"info": map[string]any{}})
	assert.ErrorIs(t, err, oaserrors.ErrApply)
}

func TestProcess_Patches(t *testing.T) {
	doc := testutil.RoadmapDocument()

	p := New(
		WithBuiltins(),
		WithPatch("merge.json", []byte(`{"info": {"description": null, "x-owner": "docs"}}`)),
		WithPatch("ops.json", []byte(`[{"op": "replace", "path": "/openapi", "value": "3.0.3"}]`)),
		WithPatch("merge.yaml", []byte("info:\n  x-team: roadmap\n")),
	)
	out, steps, err := p.Process(doc)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, KindMergePatch, steps[0].Kind)
	assert.Equal(t, KindJSONPatch, steps[1].Kind)
	assert.Equal(t, KindMergePatch, steps[2].Kind)

	assert.Equal(t, "3.0.3", lookup(t, out, "openapi"))
	assert.Equal(t, "docs", lookup(t, out, "info", "x-owner"))
	assert.Equal(t, "roadmap", lookup(t, out, "info", "x-team"))
	_, ok := document.Lookup(out, "info", "description")
	assert.False(t, ok, "null in a merge patch deletes the key")
}

func TestProcess_BadPatch(t *testing.T) {
	cases := map[string]string{
		"empty":      "  ",
		"scalar":     `"nope"`,
		"bad op":     `[{"op": "replace", "path": "/missing/deep", "value": 1}]`,
		"not decode": `[{`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := New(WithBuiltins(), WithPatch(name, []byte(data))).Process(testutil.RoadmapDocument())
			assert.ErrorIs(t, err, oaserrors.ErrApply)
		})
	}
}

func TestProcess_UserOverlay(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "servers.yaml", []byte(`
overlay: 1.0.0
info: {title: servers, version: 1.0.0}
actions:
  - target: $.servers
    update:
      url: https://staging.example.com
`))

	out, steps, err := New(WithBuiltins(BuiltinMetadata), WithOverlayFiles(path)).Process(testutil.RoadmapDocument())
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, KindOverlay, steps[1].Kind)
	assert.Len(t, lookup(t, out, "servers"), 2)

	_, _, err = New(WithOverlayFiles(filepath.Join(dir, "missing.yaml"))).Process(testutil.RoadmapDocument())
	assert.ErrorIs(t, err, oaserrors.ErrInput)
}

func TestRun(t *testing.T) {
	root := testutil.Project(t)
	path := filepath.Join(root, testutil.SpecPath)
	require.NoError(t, os.Chmod(path, 0o444))

	result, err := New().Run(path)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.True(t, result.Written)
	assert.Empty(t, result.Warnings())

	written, err := document.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "getM365RoadmapInfo", lookup(t, written, "paths", "/m365", "get", "operationId"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, result.Output, data)

	// second run is idempotent
	again, err := New().Run(path)
	require.NoError(t, err)
	assert.False(t, again.Changed)
}

func TestRun_DryRun(t *testing.T) {
	root := testutil.Project(t)
	path := filepath.Join(root, testutil.SpecPath)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	result, err := New(WithDryRun(true)).Run(path)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.False(t, result.Written)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, before, result.Original)
}

func TestRun_MissingDocument(t *testing.T) {
	_, err := New().Run(filepath.Join(t.TempDir(), "roadmap-openapi.json"))
	assert.ErrorIs(t, err, oaserrors.ErrInput)
}

func TestResultWarnings(t *testing.T) {
	r := &Result{Steps: []StepResult{{Source: "examples", Warnings: []string{"a", "b"}}}}
	assert.Equal(t, []string{"examples: a", "examples: b"}, r.Warnings())
}
