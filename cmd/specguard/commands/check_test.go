package commands

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/mjfusa/specguard/internal/config"
	"github.com/mjfusa/specguard/internal/testutil"
	"github.com/mjfusa/specguard/oaserrors"
)

func TestHandleCheck_Unprocessed(t *testing.T) {
	clearEnv(t)
	root := testutil.Project(t)

	var err error
	out := captureStdout(t, func() {
		err = HandleCheck([]string{"--root", root})
	})
	assert.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, out, "❌ OpenAPI has correct structure")
	assert.Contains(t, out, "   Error: Incorrect version")
	assert.Contains(t, out, "✅ TypeSpec source files exist")
	assert.Contains(t, out, "   ✅ Passed: 11")
	assert.Contains(t, out, "   ❌ Failed: 4")
	assert.Contains(t, out, "   📈 Success Rate: 73.3%")
	assert.Contains(t, out, "4 checks failed")
}

func TestHandleCheck_Processed(t *testing.T) {
	clearEnv(t)
	root := testutil.Project(t)
	captureStdout(t, func() {
		require.NoError(t, HandlePostprocess([]string{"--root", root}))
	})

	var err error
	out := captureStdout(t, func() {
		err = HandleCheck([]string{"--root", root, "--format", "yaml"})
	})
	require.NoError(t, err)

	var got struct {
		Passed      int     `yaml:"passed"`
		Failed      int     `yaml:"failed"`
		SuccessRate float64 `yaml:"successRate"`
		Rules       []struct {
			Name     string `yaml:"name"`
			Severity string `yaml:"severity"`
		} `yaml:"rules"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, 15, got.Passed)
	assert.Equal(t, 0, got.Failed)
	assert.InDelta(t, 100.0, got.SuccessRate, 0.001)
	require.Len(t, got.Rules, 15)
	assert.Equal(t, "error", got.Rules[0].Severity)
}

func TestHandleCheck_CustomRules(t *testing.T) {
	clearEnv(t)
	root := testutil.Project(t)
	testutil.WriteFile(t, root, "checks.yaml", []byte(`
rules:
  - name: Has a license
    source: openapi
    severity: warning
    assert:
      - expr: 'info.license != nil'
        message: Missing license
  - name: Readme exists
    files: [README.md]
    severity: info
`))
	testutil.WriteFile(t, root, config.FileName, []byte("rules: checks.yaml\n"))

	var err error
	out := captureStdout(t, func() {
		err = HandleCheck([]string{"--root", root, "--format", "json"})
	})
	require.NoError(t, err, "warning and info failures do not fail the run")

	var got CheckOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Warnings)
	assert.Equal(t, 1, got.Passed, "only the load rule passes")
	assert.Equal(t, root, got.Root)
}

func TestHandleCheck_RulesFlagOverridesConfig(t *testing.T) {
	clearEnv(t)
	root := testutil.Project(t)
	testutil.WriteFile(t, root, config.FileName, []byte("rules: missing.yaml\n"))
	rules := testutil.WriteFile(t, root, "ok.yaml", []byte("rules:\n  - name: main\n    files: [tsp/main.tsp]\n"))

	var err error
	out := captureStdout(t, func() {
		err = HandleCheck([]string{"--root", root, "--rules", rules})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "✅ main")
	assert.Contains(t, out, "🎉 All checks passed!")

	err = HandleCheck([]string{"--root", root})
	assert.ErrorIs(t, err, oaserrors.ErrInput)
}
