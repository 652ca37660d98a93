package commands

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjfusa/specguard/document"
	"github.com/mjfusa/specguard/internal/config"
	"github.com/mjfusa/specguard/internal/testutil"
	"github.com/mjfusa/specguard/oaserrors"
	"github.com/mjfusa/specguard/postprocess"
)

func TestPostprocessFlags_Builtins(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"default applies both", nil, []string{postprocess.BuiltinExamples, postprocess.BuiltinMetadata}},
		{"examples only", []string{"--examples"}, []string{postprocess.BuiltinExamples}},
		{"metadata only", []string{"--metadata"}, []string{postprocess.BuiltinMetadata}},
		{"both selected", []string{"--metadata", "--examples"}, []string{postprocess.BuiltinExamples, postprocess.BuiltinMetadata}},
		{"none", []string{"--no-builtins"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, flags := SetupPostprocessFlags()
			require.NoError(t, fs.Parse(tt.args))
			assert.Equal(t, tt.want, flags.builtins())
		})
	}
}

func TestPostprocessFlags_Repeatable(t *testing.T) {
	fs, flags := SetupPostprocessFlags()
	require.NoError(t, fs.Parse([]string{"--overlay", "a.yaml", "--overlay", "b.yaml", "--patch", "p.json"}))
	assert.Equal(t, stringList{"a.yaml", "b.yaml"}, flags.Overlays)
	assert.Equal(t, stringList{"p.json"}, flags.Patches)
}

func readSpec(t *testing.T, root string) any {
	t.Helper()
	doc, err := document.ParseFile(filepath.Join(root, testutil.SpecPath))
	require.NoError(t, err)
	return doc
}

func TestHandlePostprocess(t *testing.T) {
	clearEnv(t)
	root := testutil.Project(t)

	var err error
	out := captureStdout(t, func() {
		err = HandlePostprocess([]string{"--root", root})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "examples (builtin)")
	assert.Contains(t, out, "metadata (builtin)")
	assert.Contains(t, out, "✓ Document updated")

	doc := readSpec(t, root)
	id, _ := document.String(doc, "paths", "/m365", "get", "operationId")
	assert.Equal(t, "getM365RoadmapInfo", id)

	out = captureStdout(t, func() {
		err = HandlePostprocess([]string{"--root", root})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "No changes")
}

func TestHandlePostprocess_DryRun(t *testing.T) {
	clearEnv(t)
	root := testutil.Project(t)
	path := filepath.Join(root, testutil.SpecPath)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	out := captureStdout(t, func() {
		err = HandlePostprocess([]string{"--root", root, "--metadata", "--dry-run"})
	})
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^\+\s+"operationId": "getM365RoadmapInfo"`, out)
	assert.Contains(t, out, "Dry run: document not written")
	assert.NotContains(t, out, "examples (builtin)")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestHandlePostprocess_OverlaysAndPatches(t *testing.T) {
	clearEnv(t)
	root := testutil.Project(t)
	testutil.WriteFile(t, root, config.FileName, []byte("overlays: [overlays/license.yaml]\n"))
	testutil.WriteFile(t, root, "overlays/license.yaml", []byte(`overlay: 1.0.0
info:
  title: License
  version: 1.0.0
actions:
  - target: $.info
    update:
      license:
        name: MIT
`))
	patch := testutil.WriteFile(t, root, "fix.json", []byte(`[{"op": "replace", "path": "/info/title", "value": "Roadmap"}]`))

	var err error
	out := captureStdout(t, func() {
		err = HandlePostprocess([]string{"--root", root, "--no-builtins", "--patch", patch, "--format", "json"})
	})
	require.NoError(t, err)

	var got struct {
		Written bool `json:"written"`
		Steps   []struct {
			Source string `json:"source"`
			Kind   string `json:"kind"`
		} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Written)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, postprocess.KindOverlay, got.Steps[0].Kind)
	assert.Equal(t, postprocess.KindJSONPatch, got.Steps[1].Kind)

	doc := readSpec(t, root)
	title, _ := document.String(doc, "info", "title")
	assert.Equal(t, "Roadmap", title)
	license, _ := document.String(doc, "info", "license", "name")
	assert.Equal(t, "MIT", license)
}

func TestHandlePostprocess_Errors(t *testing.T) {
	clearEnv(t)
	root := testutil.Project(t)

	t.Run("conflicting flags", func(t *testing.T) {
		err := HandlePostprocess([]string{"--root", root, "--no-builtins", "--examples"})
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("missing patch", func(t *testing.T) {
		err := HandlePostprocess([]string{"--root", root, "--patch", filepath.Join(root, "nope.json")})
		assert.ErrorIs(t, err, oaserrors.ErrInput)
	})

	t.Run("missing document", func(t *testing.T) {
		err := HandlePostprocess([]string{"--root", root, filepath.Join(root, "missing.json")})
		assert.ErrorIs(t, err, oaserrors.ErrInput)
	})

	t.Run("strict unmatched target", func(t *testing.T) {
		overlay := testutil.WriteFile(t, root, "strict.yaml", []byte(`overlay: 1.0.0
info:
  title: Strict
  version: 1.0.0
actions:
  - target: $.paths['/missing'].get
    update:
      operationId: nope
`))
		err := HandlePostprocess([]string{"--root", root, "--no-builtins", "--strict", "--overlay", overlay})
		assert.ErrorIs(t, err, oaserrors.ErrApply)
	})
}
