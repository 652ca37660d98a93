// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes specguard checks and post-processing as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mjfusa/specguard"
)

const serverInstructions = `specguard MCP server: compares regenerated OpenAPI documents against a baseline, runs the critical-field checklist, post-processes generated documents, and runs project build checks.

Configuration: defaults are configurable via SPECGUARD_* environment variables set in your MCP client config.

Key settings:
- SPECGUARD_SCHEMA (default: RoadmapItem): schema whose required fields validate_critical compares
- SPECGUARD_STRICT_TARGETS (default: false): unmatched overlay targets fail postprocess
- SPECGUARD_COMPARE_ELEMENTS (default: false): compare also recurses into array elements
- SPECGUARD_CACHE_ENABLED (default: true): disable document caching entirely
- SPECGUARD_CACHE_TTL (default: 15m): cache TTL for parsed documents
- SPECGUARD_MAX_INLINE_SIZE (default: 10MiB): maximum inline content size

Caching: parsed documents are cached per session. File entries use path+mtime as key, so edits invalidate them.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		docCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "specguard", Version: specguard.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare",
		Description: "Structurally compare a candidate OpenAPI document against a baseline. Reports type mismatches, null mismatches, array length differences, and unexpected or missing object keys with dotted paths. Scalar values are never compared. Set elements=true to also compare array elements index by index.",
	}, handleCompare)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_critical",
		Description: "Run the critical-field checklist: OpenAPI version, info title and version, and the name sets of paths, schemas, parameters, and one schema's required fields. Every check is reported; failed set checks include both sides' sorted names.",
	}, handleValidateCritical)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "postprocess",
		Description: "Post-process a generated OpenAPI document with the built-in roadmap overlays (examples, metadata), optional overlay files, and JSON Merge Patch or JSON Patch documents. Returns the resulting document inline or writes it to output.",
	}, handlePostprocess)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "overlay_validate",
		Description: "Validate an Overlay document structure. Checks required fields, supported version, valid JSONPath syntax in action targets, and that actions have update or remove operations.",
	}, handleOverlayValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check",
		Description: "Run the build checks of a roadmap agent project: source files exist, the generated document has the expected structure and examples, package.json scripts and dependencies, and the baseline comparison when a baseline exists. Rules can be replaced with a rules file or inline rules.",
	}, handleCheck)
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
