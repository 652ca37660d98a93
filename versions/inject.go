package versions

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mjfusa/specguard/document"
	"github.com/mjfusa/specguard/internal/fileutil"
	"github.com/mjfusa/specguard/logging"
	"github.com/mjfusa/specguard/oaserrors"
)

// Targets are the files an Injector rewrites.
type Targets struct {
	// Instructions is a markdown file rewritten only while it still carries
	// placeholders.
	Instructions string
	// BuildFiles are JSON agent manifests whose "instructions" string is
	// rewritten. Read-only files are made writable first.
	BuildFiles []string
}

// Change records one rewritten (or, in a dry run, rewritable) file.
type Change struct {
	Path    string `json:"path" yaml:"path"`
	Before  string `json:"-" yaml:"-"`
	After   string `json:"-" yaml:"-"`
	Written bool   `json:"written" yaml:"written"`
}

// Diff returns a line diff of the change.
func (c Change) Diff() string {
	return TextDiff(c.Path, c.Before, c.After)
}

// Report is the outcome of Injector.Inject.
type Report struct {
	Versions Versions `json:"versions" yaml:"versions"`
	Changes  []Change `json:"changes" yaml:"changes"`
	// Warnings holds per-file failures. They never abort the run.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Injector substitutes version placeholders in instructions and build files.
type Injector struct {
	Versions Versions
	DryRun   bool
	Logger   logging.Logger
}

// Inject rewrites every target. Missing files are skipped silently and
// failures on individual files become warnings.
func (in *Injector) Inject(t Targets) *Report {
	log := logging.OrNop(in.Logger)
	report := &Report{Versions: in.Versions}

	warn := func(path string, err error) {
		report.Warnings = append(report.Warnings, fmt.Sprintf("could not update %s: %v", path, err))
		log.Warn("could not update file", "file", path, "error", err)
	}

	if t.Instructions != "" {
		change, err := in.injectInstructions(t.Instructions)
		switch {
		case err != nil:
			warn(t.Instructions, err)
		case change != nil:
			report.Changes = append(report.Changes, *change)
			log.Info("updated instructions", "file", t.Instructions, "written", change.Written)
		}
	}

	for _, path := range t.BuildFiles {
		change, err := in.injectBuildFile(path)
		switch {
		case err != nil:
			warn(path, err)
		case change != nil:
			report.Changes = append(report.Changes, *change)
			log.Info("updated build file", "file", path, "written", change.Written)
		}
	}

	return report
}

func (in *Injector) injectInstructions(path string) (*Change, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304 - path comes from project configuration
	if err != nil {
		return nil, err
	}
	before := string(data)
	if !HasPlaceholders(before) {
		return nil, nil
	}

	change := &Change{Path: path, Before: before, After: in.Versions.Replace(before)}
	if in.DryRun {
		return change, nil
	}
	if err := os.WriteFile(path, []byte(change.After), info.Mode().Perm()); err != nil {
		return nil, err
	}
	change.Written = true
	return change, nil
}

func (in *Injector) injectBuildFile(path string) (*Change, error) {
	if !fileutil.Exists(path) {
		return nil, nil
	}
	if !in.DryRun {
		if err := fileutil.MakeWritable(path); err != nil {
			return nil, err
		}
	}

	doc, data, _, err := document.LoadRaw(path, "build")
	if err != nil {
		return nil, err
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &oaserrors.ParseError{Path: path, Message: "expected a JSON object"}
	}
	instructions, _ := obj["instructions"].(string)
	if instructions == "" {
		return nil, nil
	}
	obj["instructions"] = in.Versions.Replace(instructions)

	out, err := document.Marshal(obj, document.FormatJSON)
	if err != nil {
		return nil, err
	}
	change := &Change{Path: path, Before: string(data), After: string(out)}
	if in.DryRun {
		return change, nil
	}
	if err := document.WriteFile(path, obj, document.FormatJSON); err != nil {
		return nil, err
	}
	change.Written = true
	return change, nil
}
