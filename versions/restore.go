package versions

import (
	"errors"
	"io/fs"
	"os"
	"regexp"

	"github.com/mjfusa/specguard/oaserrors"
)

// restorePatterns match concrete versions in the "**Versions:**" block.
var restorePatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(\*\*Versions:\*\*\s+- App Manifest: )[\d.]+`), "${1}" + ManifestPlaceholder},
	{regexp.MustCompile(`(\*\*Versions:\*\*[\s\S]*?- Declarative Agent Schema: )v[\d.]+`), "${1}" + DeclarativeAgentPlaceholder},
	{regexp.MustCompile(`(\*\*Versions:\*\*[\s\S]*?- AI Plugin Schema: )v[\d.]+`), "${1}" + PluginPlaceholder},
}

// Restore turns the versions listed after "**Versions:**" back into
// placeholders. Text without such a block is returned unchanged.
func Restore(text string) string {
	for _, p := range restorePatterns {
		text = p.re.ReplaceAllString(text, p.repl)
	}
	return text
}

// RestoreFile applies Restore to the file at path. A missing file is an
// InputError. The file is rewritten only when its content changes and
// dryRun is false.
func RestoreFile(path string, dryRun bool) (Change, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Change{}, &oaserrors.InputError{Path: path, Role: "instructions", Cause: err}
		}
		return Change{}, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304 - path comes from project configuration
	if err != nil {
		return Change{}, err
	}

	change := Change{Path: path, Before: string(data), After: Restore(string(data))}
	if dryRun || change.Before == change.After {
		return change, nil
	}
	if err := os.WriteFile(path, []byte(change.After), info.Mode().Perm()); err != nil {
		return Change{}, err
	}
	change.Written = true
	return change, nil
}
