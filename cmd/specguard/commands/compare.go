package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/mjfusa/specguard/document"
	"github.com/mjfusa/specguard/internal/cliutil"
	"github.com/mjfusa/specguard/structdiff"
)

// CompareFlags contains flags for the compare command
type CompareFlags struct {
	Elements bool
	Format   string
}

// CompareOutput is the structured output of the compare command.
type CompareOutput struct {
	Baseline   string                       `json:"baseline" yaml:"baseline"`
	Candidate  string                       `json:"candidate" yaml:"candidate"`
	IssueCount int                          `json:"issueCount" yaml:"issueCount"`
	Counts     map[structdiff.IssueType]int `json:"counts" yaml:"counts"`
	Issues     []structdiff.Issue           `json:"issues" yaml:"issues"`
}

// SetupCompareFlags creates and configures a FlagSet for the compare command.
// Returns the FlagSet and a CompareFlags struct with bound flag variables.
func SetupCompareFlags() (*flag.FlagSet, *CompareFlags) {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	flags := &CompareFlags{}

	fs.BoolVar(&flags.Elements, "elements", false, "also compare array elements index by index when lengths match")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: specguard compare [flags] <baseline> <candidate>\n\n")
		cliutil.Writef(fs.Output(), "Report structural differences between two JSON or YAML documents.\n")
		cliutil.Writef(fs.Output(), "Only shape is compared: value kinds, array lengths and object key sets.\n")
		cliutil.Writef(fs.Output(), "Scalar values never produce an issue.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nOutput Formats:\n")
		cliutil.Writef(fs.Output(), "  text (default)  One 'path: message' line per issue\n")
		cliutil.Writef(fs.Output(), "  json            JSON format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "  yaml            YAML format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  specguard compare archive/roadmap-openapi.original.json roadmap-openapi.json\n")
		cliutil.Writef(fs.Output(), "  specguard compare --elements --format json old.yaml new.yaml | jq '.counts'\n")
		cliutil.Writef(fs.Output(), "\nExit Status:\n")
		cliutil.Writef(fs.Output(), "  0    Structures match\n")
		cliutil.Writef(fs.Output(), "  1    Structural issues found, or an error occurred\n")
	}

	return fs, flags
}

// HandleCompare executes the compare command
func HandleCompare(args []string) error {
	fs, flags := SetupCompareFlags()
	if done, err := parseFlags(fs, args); done {
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("compare command requires exactly two file paths")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	baselinePath, candidatePath := fs.Arg(0), fs.Arg(1)
	baseline, err := document.Load(baselinePath, "baseline")
	if err != nil {
		return err
	}
	candidate, err := document.Load(candidatePath, "candidate")
	if err != nil {
		return err
	}

	mode := structdiff.ArrayLength
	if flags.Elements {
		mode = structdiff.ArrayElements
	}
	issues := structdiff.New(structdiff.WithArrayMode(mode)).Compare(baseline, candidate)

	if flags.Format != FormatText {
		out := CompareOutput{
			Baseline:   baselinePath,
			Candidate:  candidatePath,
			IssueCount: len(issues),
			Counts:     structdiff.Counts(issues),
			Issues:     issues,
		}
		if err := OutputStructured(out, flags.Format); err != nil {
			return err
		}
	} else {
		printIssues(issues)
	}

	if len(issues) > 0 {
		return ErrFailed
	}
	return nil
}

// printIssues writes one line per issue followed by a summary.
func printIssues(issues []structdiff.Issue) {
	p := cliutil.NewPalette(os.Stdout)
	if len(issues) == 0 {
		cliutil.Writef(os.Stdout, "%s\n", p.Pass("✓ Structure matches the baseline"))
		return
	}
	for _, issue := range issues {
		cliutil.Writef(os.Stdout, "%s: %s\n", p.Path("%s", structdiff.DisplayPath(issue.Path)), issue.Message)
	}
	cliutil.Writef(os.Stdout, "\n%s\n", p.Fail("✗ %d structural %s found", len(issues), plural(len(issues), "issue")))
}
