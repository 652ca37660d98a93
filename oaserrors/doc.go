// Package oaserrors provides structured error types for the specguard tools.
//
// Import path: github.com/mjfusa/specguard/oaserrors
//
// The error types let callers tell apart the few things that can go wrong
// around a comparison or post-processing run via [errors.Is] and [errors.As].
// Structural discrepancies between documents are never errors; they are the
// normal result of a comparison.
//
// # Error Types
//
//   - [InputError]: a required input document or file is absent or unreadable
//   - [ParseError]: JSON/YAML text could not be decoded
//   - [ConfigError]: invalid configuration, flags, or tool options
//   - [ApplyError]: an overlay action or patch could not be applied
//
// # Sentinel Errors
//
//   - [ErrInput]: Matches any [InputError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrApply]: Matches any [ApplyError]
//
// # Usage Examples
//
//	tree, err := document.ParseFile("roadmap-openapi.json")
//	if errors.Is(err, oaserrors.ErrInput) {
//	    // Run the compiler first
//	}
//
//	var parseErr *oaserrors.ParseError
//	if errors.As(err, &parseErr) {
//	    fmt.Printf("bad document %s: %s\n", parseErr.Path, parseErr.Message)
//	}
package oaserrors
