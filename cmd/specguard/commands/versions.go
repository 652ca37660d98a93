package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mjfusa/specguard/internal/cliutil"
	"github.com/mjfusa/specguard/oaserrors"
	"github.com/mjfusa/specguard/versions"
)

// VersionsFlags contains flags for the inject-versions and
// restore-placeholders commands
type VersionsFlags struct {
	ProjectFlags
	DryRun bool
	Format string
}

func setupVersionsFlags(name, usage string, describe func(*flag.FlagSet)) (*flag.FlagSet, *VersionsFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	flags := &VersionsFlags{}

	flags.register(fs)
	fs.BoolVar(&flags.DryRun, "dry-run", false, "print a diff of each change without writing files")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: specguard %s [flags]\n\n", name)
		cliutil.Writef(fs.Output(), "%s\n\n", usage)
		describe(fs)
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	return fs, flags
}

// SetupInjectVersionsFlags creates and configures a FlagSet for the inject-versions command.
// Returns the FlagSet and a VersionsFlags struct with bound flag variables.
func SetupInjectVersionsFlags() (*flag.FlagSet, *VersionsFlags) {
	return setupVersionsFlags("inject-versions",
		"Replace version placeholders in the agent instructions and build files.",
		func(fs *flag.FlagSet) {
			cliutil.Writef(fs.Output(), "Placeholders:\n")
			cliutil.Writef(fs.Output(), "  %-30s app manifest \"version\" (default %s)\n", versions.ManifestPlaceholder, versions.DefaultManifest)
			cliutil.Writef(fs.Output(), "  %-30s declarative agent \"version\" (default %s)\n", versions.DeclarativeAgentPlaceholder, versions.DefaultDeclarativeAgent)
			cliutil.Writef(fs.Output(), "  %-30s plugin \"schema_version\" (default %s)\n\n", versions.PluginPlaceholder, versions.DefaultPlugin)
			cliutil.Writef(fs.Output(), "Instructions are rewritten only while they still carry placeholders.\n")
			cliutil.Writef(fs.Output(), "Files that cannot be updated are reported as warnings.\n\n")
		})
}

// HandleInjectVersions executes the inject-versions command
func HandleInjectVersions(args []string) error {
	fs, flags := SetupInjectVersionsFlags()
	if done, err := parseFlags(fs, args); done {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("inject-versions command takes no arguments")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	cfg, err := flags.config()
	if err != nil {
		return err
	}
	v, err := versions.Read(cfg.VersionSources())
	if err != nil {
		return fmt.Errorf("reading version files: %w", err)
	}

	injector := &versions.Injector{Versions: v, DryRun: flags.DryRun, Logger: flags.logger()}
	report := injector.Inject(cfg.VersionTargets())
	if report.Changes == nil {
		report.Changes = []versions.Change{}
	}

	if flags.Format != FormatText {
		return OutputStructured(report, flags.Format)
	}

	p := cliutil.NewPalette(os.Stdout)
	cliutil.Writef(os.Stdout, "🔧 Injecting version numbers into instructions...\n\n")
	cliutil.Writef(os.Stdout, "%s\n", p.Pass("✅ Manifest version: %s", v.Manifest))
	cliutil.Writef(os.Stdout, "%s\n", p.Pass("✅ Declarative Agent schema: %s", v.DeclarativeAgentSchema))
	cliutil.Writef(os.Stdout, "%s\n", p.Pass("✅ Plugin schema: %s", v.PluginSchema))
	for _, c := range report.Changes {
		name := filepath.Base(c.Path)
		if flags.DryRun {
			cliutil.Writef(os.Stdout, "\n%s\n%s", p.Warn("Would update %s", name), c.Diff())
			continue
		}
		cliutil.Writef(os.Stdout, "%s\n", p.Pass("✅ Updated %s", name))
	}
	for _, w := range report.Warnings {
		cliutil.Writef(os.Stderr, "%s\n", p.Warn("⚠️  %s", w))
	}
	if len(report.Changes) == 0 {
		cliutil.Writef(os.Stdout, "%s\n", p.Dim("No placeholders to replace"))
	}
	cliutil.Writef(os.Stdout, "\n✅ Version injection complete!\n")
	cliutil.Writef(os.Stdout, "   Manifest: %s\n   Schema: %s\n   Plugin: %s\n", v.Manifest, v.DeclarativeAgentSchema, v.PluginSchema)
	return nil
}

// SetupRestorePlaceholdersFlags creates and configures a FlagSet for the restore-placeholders command.
// Returns the FlagSet and a VersionsFlags struct with bound flag variables.
func SetupRestorePlaceholdersFlags() (*flag.FlagSet, *VersionsFlags) {
	return setupVersionsFlags("restore-placeholders",
		"Turn the versions listed after \"**Versions:**\" in the agent instructions\nback into placeholders, ready for version control.",
		func(*flag.FlagSet) {})
}

// HandleRestorePlaceholders executes the restore-placeholders command
func HandleRestorePlaceholders(args []string) error {
	fs, flags := SetupRestorePlaceholdersFlags()
	if done, err := parseFlags(fs, args); done {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("restore-placeholders command takes no arguments")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	cfg, err := flags.config()
	if err != nil {
		return err
	}
	path := cfg.Path(cfg.Instructions)
	p := cliutil.NewPalette(os.Stdout)

	change, err := versions.RestoreFile(path, flags.DryRun)
	if errors.Is(err, oaserrors.ErrInput) {
		flags.logger().Warn("instructions not found", "file", path)
		if flags.Format != FormatText {
			return OutputStructured(versions.Change{Path: path}, flags.Format)
		}
		cliutil.Writef(os.Stderr, "%s\n", p.Warn("⚠️  %s not found", filepath.Base(path)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("restoring placeholders: %w", err)
	}

	if flags.Format != FormatText {
		return OutputStructured(change, flags.Format)
	}

	name := filepath.Base(path)
	cliutil.Writef(os.Stdout, "🔄 Restoring placeholders in %s...\n\n", name)
	switch {
	case change.Before == change.After:
		cliutil.Writef(os.Stdout, "%s\n", p.Dim("No versions to restore"))
	case flags.DryRun:
		cliutil.Writef(os.Stdout, "%s", change.Diff())
		cliutil.Writef(os.Stdout, "\n%s\n", p.Warn("Dry run: %s not written", name))
	default:
		cliutil.Writef(os.Stdout, "%s\n", p.Pass("✅ Placeholders restored in %s", name))
		cliutil.Writef(os.Stdout, "ℹ️  Source file is ready for version control\n")
	}
	return nil
}
