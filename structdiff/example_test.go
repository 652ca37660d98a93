package structdiff_test

import (
	"fmt"

	"github.com/mjfusa/specguard/structdiff"
)

// Example compares a baseline and a candidate that differ in shape.
func Example() {
	baseline := map[string]any{
		"openapi": "3.0.1",
		"info":    map[string]any{"title": "Microsoft 365 Roadmap API", "version": "v2"},
		"servers": []any{map[string]any{"url": "https://www.microsoft.com"}},
	}
	candidate := map[string]any{
		"openapi": "3.0.1",
		"info":    map[string]any{"title": "Roadmap"},
		"servers": []any{},
		"tags":    []any{},
	}

	for _, issue := range structdiff.Compare(baseline, candidate) {
		fmt.Println(issue)
	}
	// Output:
	// (root): unexpected keys in candidate: tags
	// info: keys missing from candidate: version
	// servers: array length mismatch: 1 vs 0
}

// Example_elements enables element-wise array comparison.
func Example_elements() {
	baseline := []any{map[string]any{"ring": "GA", "year": 2026}}
	candidate := []any{map[string]any{"ring": "GA", "year": "2026"}}

	c := structdiff.New(structdiff.WithArrayMode(structdiff.ArrayElements))
	for _, issue := range c.Compare(baseline, candidate) {
		fmt.Println(issue)
	}
	// Output:
	// 0.year: type mismatch: number vs string
}
