package versions

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around a change.
const diffContext = 2

// TextDiff renders a line diff between before and after. Unchanged runs
// longer than the context are elided with "@@". It returns "" when the texts
// are equal.
func TextDiff(name, before, after string) string {
	if before == after {
		return ""
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	sb.WriteString("--- " + name + "\n+++ " + name + "\n")
	for i, d := range diffs {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			writePrefixed(&sb, "+", chunk)
		case diffmatchpatch.DiffDelete:
			writePrefixed(&sb, "-", chunk)
		case diffmatchpatch.DiffEqual:
			first, last := i == 0, i == len(diffs)-1
			switch {
			case first && len(chunk) > diffContext:
				sb.WriteString("@@\n")
				writePrefixed(&sb, " ", chunk[len(chunk)-diffContext:])
			case last && len(chunk) > diffContext:
				writePrefixed(&sb, " ", chunk[:diffContext])
				sb.WriteString("@@\n")
			case !first && !last && len(chunk) > 2*diffContext:
				writePrefixed(&sb, " ", chunk[:diffContext])
				sb.WriteString("@@\n")
				writePrefixed(&sb, " ", chunk[len(chunk)-diffContext:])
			default:
				writePrefixed(&sb, " ", chunk)
			}
		}
	}
	return sb.String()
}

func splitLines(s string) []string {
	return strings.SplitAfter(strings.TrimSuffix(s, "\n"), "\n")
}

func writePrefixed(sb *strings.Builder, prefix string, lines []string) {
	for _, l := range lines {
		sb.WriteString(prefix)
		sb.WriteString(strings.TrimSuffix(l, "\n"))
		sb.WriteByte('\n')
	}
}
