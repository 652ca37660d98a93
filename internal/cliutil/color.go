package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Palette formats status text for terminal output. The zero value is not
// usable; create one with NewPalette or Plain.
type Palette struct {
	Pass func(string, ...any) string
	Fail func(string, ...any) string
	Warn func(string, ...any) string
	Path func(string, ...any) string
	Dim  func(string, ...any) string
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewPalette returns a colored palette when w is a terminal and NO_COLOR is
// unset, and a plain one otherwise.
func NewPalette(w io.Writer) *Palette {
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(w) {
		return Plain()
	}
	return Colored()
}

// Colored returns a palette that always emits ANSI colors.
func Colored() *Palette {
	sprintf := func(attrs ...color.Attribute) func(string, ...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintfFunc()
	}
	return &Palette{
		Pass: sprintf(color.FgGreen),
		Fail: sprintf(color.FgRed, color.Bold),
		Warn: sprintf(color.FgYellow),
		Path: sprintf(color.FgCyan),
		Dim:  sprintf(color.Faint),
	}
}

// Plain returns a palette that formats without colors.
func Plain() *Palette {
	return &Palette{
		Pass: fmt.Sprintf,
		Fail: fmt.Sprintf,
		Warn: fmt.Sprintf,
		Path: fmt.Sprintf,
		Dim:  fmt.Sprintf,
	}
}
