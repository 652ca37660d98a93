package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/mjfusa/specguard/internal/cliutil"
	"github.com/mjfusa/specguard/oaserrors"
	"github.com/mjfusa/specguard/postprocess"
	"github.com/mjfusa/specguard/versions"
)

// PostprocessFlags contains flags for the postprocess command
type PostprocessFlags struct {
	ProjectFlags
	Examples   bool
	Metadata   bool
	NoBuiltins bool
	Overlays   stringList
	Patches    stringList
	DryRun     bool
	Strict     bool
	Format     string
}

// SetupPostprocessFlags creates and configures a FlagSet for the postprocess command.
// Returns the FlagSet and a PostprocessFlags struct with bound flag variables.
func SetupPostprocessFlags() (*flag.FlagSet, *PostprocessFlags) {
	fs := flag.NewFlagSet("postprocess", flag.ContinueOnError)
	flags := &PostprocessFlags{}

	flags.register(fs)
	fs.BoolVar(&flags.Examples, "examples", false, "apply the built-in examples overlay")
	fs.BoolVar(&flags.Metadata, "metadata", false, "apply the built-in metadata overlay")
	fs.BoolVar(&flags.NoBuiltins, "no-builtins", false, "apply no built-in overlay")
	fs.Var(&flags.Overlays, "overlay", "overlay file applied after the built-ins (repeatable)")
	fs.Var(&flags.Patches, "patch", "JSON Merge Patch or JSON Patch file applied last (repeatable)")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "print the changes without writing the document")
	fs.BoolVar(&flags.Strict, "strict", false, "fail when an overlay target matches nothing")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: specguard postprocess [flags] [file]\n\n")
		cliutil.Writef(fs.Output(), "Rewrite the generated OpenAPI document in place with the built-in\n")
		cliutil.Writef(fs.Output(), "overlays, then user overlays, then patches. The file defaults to the\n")
		cliutil.Writef(fs.Output(), "generated document of the project.\n\n")
		cliutil.Writef(fs.Output(), "Built-in overlays (both apply unless one is selected):\n")
		for _, name := range postprocess.Builtins() {
			cliutil.Writef(fs.Output(), "  %s\n", name)
		}
		cliutil.Writef(fs.Output(), "\nFlags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  specguard postprocess\n")
		cliutil.Writef(fs.Output(), "  specguard postprocess --metadata --dry-run\n")
		cliutil.Writef(fs.Output(), "  specguard postprocess --overlay overlays/servers.yaml --patch fix.json openapi.json\n")
	}

	return fs, flags
}

// builtins returns the built-in overlays selected by the flags.
func (f *PostprocessFlags) builtins() []string {
	var names []string
	if f.Examples {
		names = append(names, postprocess.BuiltinExamples)
	}
	if f.Metadata {
		names = append(names, postprocess.BuiltinMetadata)
	}
	if names == nil && !f.NoBuiltins {
		names = []string{postprocess.BuiltinExamples, postprocess.BuiltinMetadata}
	}
	return names
}

// HandlePostprocess executes the postprocess command
func HandlePostprocess(args []string) error {
	fs, flags := SetupPostprocessFlags()
	if done, err := parseFlags(fs, args); done {
		return err
	}

	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("postprocess command accepts at most one file path")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if flags.NoBuiltins && (flags.Examples || flags.Metadata) {
		return &oaserrors.ConfigError{Option: "no-builtins", Message: "cannot be combined with --examples or --metadata"}
	}

	cfg, err := flags.config()
	if err != nil {
		return err
	}
	target := cfg.SpecPath()
	if fs.NArg() == 1 {
		target = fs.Arg(0)
	}

	opts := []postprocess.Option{
		postprocess.WithBuiltins(flags.builtins()...),
		postprocess.WithOverlayFiles(cfg.OverlayPaths()...),
		postprocess.WithOverlayFiles(flags.Overlays...),
		postprocess.WithStrictTargets(flags.Strict || cfg.StrictTargets),
		postprocess.WithDryRun(flags.DryRun),
		postprocess.WithLogger(flags.logger()),
	}
	for _, path := range flags.Patches {
		data, err := os.ReadFile(path) //nolint:gosec // G304 - path comes from the command line
		if err != nil {
			return &oaserrors.InputError{Path: path, Role: "patch", Cause: err}
		}
		opts = append(opts, postprocess.WithPatch(path, data))
	}

	result, err := postprocess.New(opts...).Run(target)
	if err != nil {
		return err
	}

	if result.Steps == nil {
		result.Steps = []postprocess.StepResult{}
	}
	if flags.Format != FormatText {
		return OutputStructured(result, flags.Format)
	}
	printPostprocess(result, flags.DryRun)
	return nil
}

func printPostprocess(result *postprocess.Result, dryRun bool) {
	p := cliutil.NewPalette(os.Stdout)
	cliutil.Writef(os.Stdout, "Post-processing %s\n\n", p.Path("%s", result.Path))
	for _, step := range result.Steps {
		cliutil.Writef(os.Stdout, "  %s %s (%s): %d applied, %d skipped\n",
			p.Pass("✓"), step.Source, step.Kind, step.Applied, step.Skipped)
		for _, w := range step.Warnings {
			cliutil.Writef(os.Stdout, "    %s\n", p.Warn("⚠ %s", w))
		}
	}
	cliutil.Writef(os.Stdout, "\n")

	switch {
	case !result.Changed:
		cliutil.Writef(os.Stdout, "%s\n", p.Dim("No changes"))
	case dryRun:
		cliutil.Writef(os.Stdout, "%s", versions.TextDiff(result.Path, string(result.Original), string(result.Output)))
		cliutil.Writef(os.Stdout, "\n%s\n", p.Warn("Dry run: document not written"))
	default:
		cliutil.Writef(os.Stdout, "%s\n", p.Pass("✓ Document updated"))
	}
}
