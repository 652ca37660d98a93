package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mjfusa/specguard"
	"github.com/mjfusa/specguard/cmd/specguard/commands"
)

// commandNames lists every dispatchable command, used for suggestions.
var commandNames = []string{
	"compare",
	"validate",
	"postprocess",
	"inject-versions",
	"restore-placeholders",
	"check",
	"mcp",
	"version",
	"help",
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("specguard v%s (commit %s)\n", specguard.Version(), specguard.Commit())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "compare":
		err = commands.HandleCompare(args)
	case "validate":
		err = commands.HandleValidate(args)
	case "postprocess":
		err = commands.HandlePostprocess(args)
	case "inject-versions":
		err = commands.HandleInjectVersions(args)
	case "restore-placeholders":
		err = commands.HandleRestorePlaceholders(args)
	case "check":
		err = commands.HandleCheck(args)
	case "mcp":
		err = commands.HandleMCP(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, commands.ErrFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// suggestCommand returns the known command closest to input, or "" when
// none is within edit distance 2.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Print(`specguard - keep a regenerated OpenAPI document faithful to its baseline

Usage:
  specguard <command> [flags] [arguments]

Commands:
  compare               Structurally compare a candidate document against a baseline
  validate              Run the critical-field checklist on the generated document
  postprocess           Apply the built-in overlays, user overlays and patches
  inject-versions       Replace version placeholders in instructions and build files
  restore-placeholders  Turn injected versions back into placeholders
  check                 Run the project build checks
  mcp                   Start the MCP server over stdio
  version               Show version information
  help                  Show this help message

Project files are located from specguard.yaml at --root (default: $SPECGUARD_ROOT or
the working directory). Run 'specguard <command> --help' for command flags.

Exit Status:
  0    Success
  1    Issues found, or an error occurred
`)
}
