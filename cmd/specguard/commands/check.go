package commands

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mjfusa/specguard/buildcheck"
	"github.com/mjfusa/specguard/internal/cliutil"
)

// CheckFlags contains flags for the check command
type CheckFlags struct {
	ProjectFlags
	Rules  string
	Format string
}

// CheckOutput is the structured output of the check command.
type CheckOutput struct {
	Root        string                  `json:"root" yaml:"root"`
	Passed      int                     `json:"passed" yaml:"passed"`
	Failed      int                     `json:"failed" yaml:"failed"`
	Warnings    int                     `json:"warnings" yaml:"warnings"`
	SuccessRate float64                 `json:"successRate" yaml:"successRate"`
	Rules       []buildcheck.RuleResult `json:"rules" yaml:"rules"`
}

// SetupCheckFlags creates and configures a FlagSet for the check command.
// Returns the FlagSet and a CheckFlags struct with bound flag variables.
func SetupCheckFlags() (*flag.FlagSet, *CheckFlags) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	flags := &CheckFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Rules, "rules", "", "rule file (default: project setting, then the built-in rules)")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: specguard check [flags]\n\n")
		cliutil.Writef(fs.Output(), "Run the project build checks: source files exist, the generated OpenAPI\n")
		cliutil.Writef(fs.Output(), "document has the expected structure and examples, package.json declares\n")
		cliutil.Writef(fs.Output(), "the build scripts, and the generated document matches the baseline.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nRule files:\n")
		cliutil.Writef(fs.Output(), "  rules:\n")
		cliutil.Writef(fs.Output(), "    - name: Has a license\n")
		cliutil.Writef(fs.Output(), "      source: openapi          # or: package\n")
		cliutil.Writef(fs.Output(), "      severity: warning        # error (default), warning, info\n")
		cliutil.Writef(fs.Output(), "      files: [tsp/main.tsp]\n")
		cliutil.Writef(fs.Output(), "      assert:\n")
		cliutil.Writef(fs.Output(), "        - expr: 'info.license != nil'\n")
		cliutil.Writef(fs.Output(), "          message: Missing license\n")
		cliutil.Writef(fs.Output(), "\nExit Status:\n")
		cliutil.Writef(fs.Output(), "  0    No error-severity rule failed\n")
		cliutil.Writef(fs.Output(), "  1    At least one rule failed, or an error occurred\n")
	}

	return fs, flags
}

// HandleCheck executes the check command
func HandleCheck(args []string) error {
	fs, flags := SetupCheckFlags()
	if done, err := parseFlags(fs, args); done {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("check command takes no arguments")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	cfg, err := flags.config()
	if err != nil {
		return err
	}
	rulesPath := cfg.RulesPath()
	if flags.Rules != "" {
		rulesPath = flags.Rules
	}
	var rules *buildcheck.RuleSet
	if rulesPath != "" {
		if rules, err = buildcheck.LoadRules(rulesPath); err != nil {
			return err
		}
	}

	checker, err := buildcheck.New(rules)
	if err != nil {
		return err
	}
	checker.Logger = flags.logger()
	result := checker.Run(cfg.Project())

	if flags.Format != FormatText {
		if err := OutputStructured(CheckOutput{
			Root:        cfg.Root,
			Passed:      result.Passed,
			Failed:      result.Failed,
			Warnings:    result.Warnings,
			SuccessRate: result.SuccessRate(),
			Rules:       result.Rules,
		}, flags.Format); err != nil {
			return err
		}
	} else {
		printCheck(result)
	}

	if !result.OK() {
		return ErrFailed
	}
	return nil
}

func printCheck(result *buildcheck.Result) {
	p := cliutil.NewPalette(os.Stdout)
	rule := strings.Repeat("=", 60)

	cliutil.Writef(os.Stdout, "🧪 Running Integration Checks\n\n%s\n", rule)
	for _, rr := range result.Rules {
		switch {
		case rr.Passed:
			cliutil.Writef(os.Stdout, "%s\n", p.Pass("✅ %s", rr.Name))
		case rr.Severity.Fails():
			cliutil.Writef(os.Stdout, "%s\n", p.Fail("❌ %s", rr.Name))
			cliutil.Writef(os.Stdout, "   Error: %s\n", rr.Message)
		default:
			cliutil.Writef(os.Stdout, "%s\n", p.Warn("⚠️  %s", rr.Name))
			cliutil.Writef(os.Stdout, "   %s: %s\n", rr.Severity, rr.Message)
		}
	}

	cliutil.Writef(os.Stdout, "\n%s\n\n📊 Results:\n", rule)
	cliutil.Writef(os.Stdout, "   ✅ Passed: %d\n", result.Passed)
	cliutil.Writef(os.Stdout, "   ❌ Failed: %d\n", result.Failed)
	if result.Warnings > 0 {
		cliutil.Writef(os.Stdout, "   ⚠️  Warnings: %d\n", result.Warnings)
	}
	cliutil.Writef(os.Stdout, "   📈 Success Rate: %.1f%%\n", result.SuccessRate())

	if result.OK() {
		cliutil.Writef(os.Stdout, "\n%s\n", p.Pass("🎉 All checks passed!"))
		return
	}
	cliutil.Writef(os.Stdout, "\n%s\n", p.Fail("⚠️  %d %s failed", result.Failed, plural(result.Failed, "check")))
}
