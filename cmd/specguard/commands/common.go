// Package commands provides CLI command handlers for specguard.
package commands

import (
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/mjfusa/specguard/internal/cliutil"
	"github.com/mjfusa/specguard/internal/config"
	"github.com/mjfusa/specguard/logging"
)

// Output format constants
const (
	FormatText = cliutil.FormatText
	FormatJSON = cliutil.FormatJSON
	FormatYAML = cliutil.FormatYAML
)

// ErrFailed is returned when a command ran to completion and found issues.
// Its report has already been printed, so callers exit 1 without a message.
var ErrFailed = errors.New("issues found")

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	return cliutil.ValidateFormat(format)
}

// OutputStructured writes data to stdout in the specified format (json or yaml).
func OutputStructured(data any, format string) error {
	return cliutil.Encode(os.Stdout, format, data)
}

// ProjectFlags are the flags shared by commands that read project files.
type ProjectFlags struct {
	Root    string
	Verbose bool
}

func (p *ProjectFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.Root, "root", "", "project root (default: $SPECGUARD_ROOT or the working directory)")
	fs.BoolVar(&p.Verbose, "verbose", false, "log progress to stderr")
}

// config loads the project configuration for the --root flag.
func (p *ProjectFlags) config() (*config.Config, error) {
	return config.Load(p.Root)
}

// logger returns a stderr logger honoring --verbose.
func (p *ProjectFlags) logger() logging.Logger {
	return logging.NewText(os.Stderr, p.Verbose)
}

// parseFlags parses args, reporting help requests as done.
func parseFlags(fs *flag.FlagSet, args []string) (done bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return true, err
	}
	return false, nil
}

// stringList is a repeatable string flag.
type stringList []string

// String returns the values joined by commas
func (s *stringList) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

// Set appends a value
func (s *stringList) Set(value string) error {
	if value == "" {
		return errors.New("value must not be empty")
	}
	*s = append(*s, value)
	return nil
}

// plural returns noun, with an "s" appended unless n is 1.
func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
