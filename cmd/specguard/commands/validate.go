package commands

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mjfusa/specguard/critical"
	"github.com/mjfusa/specguard/document"
	"github.com/mjfusa/specguard/internal/cliutil"
	"github.com/mjfusa/specguard/internal/fileutil"
	"github.com/mjfusa/specguard/oaserrors"
	"github.com/mjfusa/specguard/structdiff"
)

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	ProjectFlags
	Schema     string
	Structural bool
	Format     string
}

// ValidateOutput is the structured output of the validate command.
type ValidateOutput struct {
	Generated string `json:"generated" yaml:"generated"`
	Baseline  string `json:"baseline" yaml:"baseline"`
	// Skipped is set when the baseline does not exist.
	Skipped bool               `json:"skipped" yaml:"skipped"`
	Passed  bool               `json:"passed" yaml:"passed"`
	Failed  int                `json:"failed" yaml:"failed"`
	Checks  []critical.Check   `json:"checks" yaml:"checks"`
	Issues  []structdiff.Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Schema, "schema", "", "schema whose required fields are compared (default: project setting, RoadmapItem)")
	fs.BoolVar(&flags.Structural, "structural", false, "also run the structural comparison; issues fail validation")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: specguard validate [flags] [generated [baseline]]\n\n")
		cliutil.Writef(fs.Output(), "Check that the generated OpenAPI document preserves the critical fields of\n")
		cliutil.Writef(fs.Output(), "the archived baseline: OpenAPI version, info title and version, and the\n")
		cliutil.Writef(fs.Output(), "names of paths, schemas, parameters and required properties.\n\n")
		cliutil.Writef(fs.Output(), "Paths default to the generated and baseline documents of the project.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  specguard validate\n")
		cliutil.Writef(fs.Output(), "  specguard validate --structural --root ./roadmap-agent\n")
		cliutil.Writef(fs.Output(), "  specguard validate --schema Pet --format json openapi.json baseline.json\n")
		cliutil.Writef(fs.Output(), "\nExit Status:\n")
		cliutil.Writef(fs.Output(), "  0    All critical fields preserved, or the baseline does not exist\n")
		cliutil.Writef(fs.Output(), "  1    Critical checks failed, the generated file is missing, or an error occurred\n")
	}

	return fs, flags
}

// HandleValidate executes the validate command
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()
	if done, err := parseFlags(fs, args); done {
		return err
	}

	if fs.NArg() > 2 {
		fs.Usage()
		return fmt.Errorf("validate command accepts at most two file paths")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	cfg, err := flags.config()
	if err != nil {
		return err
	}
	generatedPath, baselinePath := cfg.SpecPath(), cfg.BaselinePath()
	if fs.NArg() > 0 {
		generatedPath = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		baselinePath = fs.Arg(1)
	}
	schema := flags.Schema
	if schema == "" {
		schema = cfg.RequiredSchema
	}

	log := flags.logger()
	text := flags.Format == FormatText
	p := cliutil.NewPalette(os.Stdout)

	if text {
		cliutil.Writef(os.Stdout, "🔍 Validating Generated OpenAPI Specification\n\n")
		cliutil.Writef(os.Stdout, "%s\n", strings.Repeat("=", 60))
	}

	if !fileutil.Exists(generatedPath) {
		return &oaserrors.InputError{Path: generatedPath, Role: "generated", Cause: os.ErrNotExist}
	}
	if !fileutil.Exists(baselinePath) {
		log.Debug("baseline not found", "baseline", baselinePath)
		if !text {
			return OutputStructured(ValidateOutput{
				Generated: generatedPath,
				Baseline:  baselinePath,
				Skipped:   true,
				Passed:    true,
				Checks:    []critical.Check{},
			}, flags.Format)
		}
		cliutil.Writef(os.Stderr, "%s\n", p.Warn("⚠️  Original file not found: %s", baselinePath))
		cliutil.Writef(os.Stderr, "   Skipping comparison test\n")
		return nil
	}

	generated, err := document.Load(generatedPath, "generated")
	if err != nil {
		return err
	}
	baseline, err := document.Load(baselinePath, "baseline")
	if err != nil {
		return err
	}

	checker := &critical.Checker{RequiredSchema: schema}
	report := checker.Run(baseline, generated)
	failed := report.Failed()
	log.Debug("critical checks complete", "checks", len(report.Checks), "failed", failed)

	var issues []structdiff.Issue
	if flags.Structural {
		issues = structdiff.Compare(baseline, generated)
		log.Debug("structural comparison complete", "issues", len(issues))
	}
	ok := failed == 0 && len(issues) == 0

	if !text {
		if err := OutputStructured(ValidateOutput{
			Generated: generatedPath,
			Baseline:  baselinePath,
			Passed:    ok,
			Failed:    failed,
			Checks:    report.Checks,
			Issues:    issues,
		}, flags.Format); err != nil {
			return err
		}
		if !ok {
			return ErrFailed
		}
		return nil
	}

	cliutil.Writef(os.Stdout, "\n📋 Critical Field Validation:\n\n")
	for _, check := range report.Checks {
		line := check.String()
		if check.Passed {
			line = p.Pass("%s", line)
		} else {
			line = p.Fail("%s", line)
		}
		cliutil.Writef(os.Stdout, "%s\n", line)
	}

	if flags.Structural {
		cliutil.Writef(os.Stdout, "\n🧬 Structural Comparison:\n\n")
		if len(issues) == 0 {
			cliutil.Writef(os.Stdout, "%s\n", p.Pass("✓ Structure matches the baseline"))
		}
		for _, issue := range issues {
			cliutil.Writef(os.Stdout, "%s %s: %s\n", p.Fail("✗"), p.Path("%s", structdiff.DisplayPath(issue.Path)), issue.Message)
		}
	}

	cliutil.Writef(os.Stdout, "\n%s\n", strings.Repeat("=", 60))
	switch {
	case failed > 0:
		cliutil.Writef(os.Stdout, "\n%s\n", p.Fail("❌ Validation FAILED: %d critical %s found", failed, plural(failed, "issue")))
		return ErrFailed
	case len(issues) > 0:
		cliutil.Writef(os.Stdout, "\n%s\n", p.Fail("❌ Validation FAILED: %d structural %s found", len(issues), plural(len(issues), "issue")))
		return ErrFailed
	}
	cliutil.Writef(os.Stdout, "\n%s\n", p.Pass("✅ Validation PASSED: All critical fields preserved"))
	return nil
}
