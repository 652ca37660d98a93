package versions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mjfusa/specguard/document"
	"github.com/mjfusa/specguard/internal/testutil"
	"github.com/mjfusa/specguard/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectSources(root string) Sources {
	return Sources{
		Manifest:         filepath.Join(root, testutil.ManifestPath),
		DeclarativeAgent: filepath.Join(root, testutil.AgentPath),
		Plugin:           filepath.Join(root, testutil.PluginPath),
	}
}

func projectTargets(root string) Targets {
	return Targets{
		Instructions: filepath.Join(root, testutil.InstructionsPath),
		BuildFiles: []string{
			filepath.Join(root, testutil.DevBuildPath),
			filepath.Join(root, testutil.ProdBuildPath),
		},
	}
}

func TestRead(t *testing.T) {
	t.Run("from manifests", func(t *testing.T) {
		v, err := Read(projectSources(testutil.Project(t)))
		require.NoError(t, err)
		assert.Equal(t, Versions{Manifest: "1.4.0", DeclarativeAgentSchema: "v1.5", PluginSchema: "v2.3"}, v)
	})

	t.Run("missing files keep defaults", func(t *testing.T) {
		dir := t.TempDir()
		v, err := Read(Sources{
			Manifest:         filepath.Join(dir, "manifest.json"),
			DeclarativeAgent: filepath.Join(dir, "declarativeAgent.json"),
		})
		require.NoError(t, err)
		assert.Equal(t, Defaults(), v)
	})

	t.Run("empty field keeps default", func(t *testing.T) {
		dir := t.TempDir()
		path := testutil.WriteFile(t, dir, "ai-plugin.json", []byte(`{"schema_version": ""}`))
		v, err := Read(Sources{Plugin: path})
		require.NoError(t, err)
		assert.Equal(t, DefaultPlugin, v.PluginSchema)
	})

	t.Run("invalid JSON is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := testutil.WriteFile(t, dir, "manifest.json", []byte(`{"version": `))
		_, err := Read(Sources{Manifest: path})
		assert.ErrorIs(t, err, oaserrors.ErrParse)
	})
}

func TestReplace(t *testing.T) {
	v := Versions{Manifest: "1.4.0", DeclarativeAgentSchema: "v1.5", PluginSchema: "v2.3"}
	got := v.Replace("a {{MANIFEST_VERSION}} b {{DECLARATIVE_AGENT_SCHEMA}} c {{PLUGIN_SCHEMA}} d {{MANIFEST_VERSION}}")
	assert.Equal(t, "a 1.4.0 b v1.5 c v2.3 d 1.4.0", got)
	assert.True(t, HasPlaceholders("x {{MANIFEST_VERSION}}"))
	assert.False(t, HasPlaceholders("x {{PLUGIN_SCHEMA}}"))
}

func TestInject(t *testing.T) {
	root := testutil.Project(t)
	v, err := Read(projectSources(root))
	require.NoError(t, err)

	targets := projectTargets(root)
	require.NoError(t, os.Chmod(targets.BuildFiles[0], 0o444))

	report := (&Injector{Versions: v}).Inject(targets)
	assert.Empty(t, report.Warnings)
	require.Len(t, report.Changes, 3)
	for _, c := range report.Changes {
		assert.True(t, c.Written, c.Path)
	}

	data, err := os.ReadFile(targets.Instructions)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- App Manifest: 1.4.0\n")
	assert.Contains(t, string(data), "- Declarative Agent Schema: v1.5\n")
	assert.Contains(t, string(data), "- AI Plugin Schema: v2.3\n")

	for _, f := range targets.BuildFiles {
		s, ok := mustString(t, f, "instructions")
		require.True(t, ok)
		assert.NotContains(t, s, "{{")
		assert.Contains(t, s, "App Manifest: 1.4.0")
	}

	// instructions without placeholders are left alone
	again := (&Injector{Versions: Defaults()}).Inject(Targets{Instructions: targets.Instructions})
	assert.Empty(t, again.Changes)
}

func mustString(t *testing.T, path string, key string) (string, bool) {
	t.Helper()
	doc, err := document.ParseFile(path)
	require.NoError(t, err)
	return document.String(doc, key)
}

func TestInject_DryRun(t *testing.T) {
	root := testutil.Project(t)
	targets := projectTargets(root)
	before, err := os.ReadFile(targets.Instructions)
	require.NoError(t, err)

	report := (&Injector{Versions: Defaults(), DryRun: true}).Inject(targets)
	require.Len(t, report.Changes, 3)
	assert.False(t, report.Changes[0].Written)
	assert.Contains(t, report.Changes[0].Diff(), "+- App Manifest: 1.0.0")
	assert.Contains(t, report.Changes[0].Diff(), "-- App Manifest: {{MANIFEST_VERSION}}")

	after, err := os.ReadFile(targets.Instructions)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestInject_FailuresAreWarnings(t *testing.T) {
	dir := t.TempDir()
	broken := testutil.WriteFile(t, dir, "declarativeAgent.dev.json", []byte(`{"instructions": `))
	array := testutil.WriteFile(t, dir, "declarativeAgent.production.json", []byte(`[1, 2]`))
	noInstructions := testutil.WriteFile(t, dir, "declarativeAgent.other.json", []byte(`{"version": "v1.5"}`))

	report := (&Injector{Versions: Defaults()}).Inject(Targets{
		Instructions: filepath.Join(dir, "missing.md"),
		BuildFiles:   []string{broken, array, noInstructions, filepath.Join(dir, "absent.json")},
	})
	assert.Empty(t, report.Changes)
	require.Len(t, report.Warnings, 2)
	assert.True(t, strings.HasPrefix(report.Warnings[0], "could not update "+broken))
	assert.Contains(t, report.Warnings[1], "expected a JSON object")
}

func TestRestore(t *testing.T) {
	injected := Versions{Manifest: "1.4.0", DeclarativeAgentSchema: "v1.5", PluginSchema: "v2.3"}.Replace(testutil.Instructions)
	assert.Equal(t, testutil.Instructions, Restore(injected))

	// untouched outside the versions block
	plain := "App Manifest: 1.4.0\n- AI Plugin Schema: v2.3\n"
	assert.Equal(t, plain, Restore(plain))

	// already-restored text is stable
	assert.Equal(t, testutil.Instructions, Restore(testutil.Instructions))
}

func TestRestoreFile(t *testing.T) {
	root := testutil.Project(t)
	targets := projectTargets(root)
	(&Injector{Versions: Defaults()}).Inject(targets)

	preview, err := RestoreFile(targets.Instructions, true)
	require.NoError(t, err)
	assert.False(t, preview.Written)
	assert.Equal(t, testutil.Instructions, preview.After)

	change, err := RestoreFile(targets.Instructions, false)
	require.NoError(t, err)
	assert.True(t, change.Written)
	data, err := os.ReadFile(targets.Instructions)
	require.NoError(t, err)
	assert.Equal(t, testutil.Instructions, string(data))

	unchanged, err := RestoreFile(targets.Instructions, false)
	require.NoError(t, err)
	assert.False(t, unchanged.Written)

	_, err = RestoreFile(filepath.Join(root, "nope.md"), false)
	assert.ErrorIs(t, err, oaserrors.ErrInput)
}

func TestTextDiff(t *testing.T) {
	assert.Empty(t, TextDiff("f", "same\n", "same\n"))

	before := "1\n2\n3\n4\n5\n6\n7\n8\n"
	after := "1\n2\n3\n4\nfive\n6\n7\n8\n"
	assert.Equal(t, "--- f\n+++ f\n@@\n 3\n 4\n-5\n+five\n 6\n 7\n@@\n", TextDiff("f", before, after))
}
