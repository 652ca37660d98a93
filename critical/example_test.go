package critical_test

import (
	"fmt"

	"github.com/mjfusa/specguard/critical"
)

func roadmap(paths ...string) map[string]any {
	p := map[string]any{}
	for _, name := range paths {
		p[name] = map[string]any{}
	}
	return map[string]any{
		"openapi": "3.0.1",
		"info":    map[string]any{"title": "Roadmap", "version": "v2"},
		"paths":   p,
		"components": map[string]any{
			"schemas":    map[string]any{"RoadmapItem": map[string]any{"required": []any{"title", "id"}}},
			"parameters": map[string]any{"FilterParameter": map[string]any{}},
		},
	}
}

// ExampleRun reports a path dropped by the generator.
func ExampleRun() {
	report := critical.Run(roadmap("/m365", "/m365/{id}"), roadmap("/m365"))
	for _, check := range report.Checks {
		fmt.Println(check)
	}
	fmt.Println("failed:", report.Failed())
	// Output:
	// ✓ OpenAPI version: 3.0.1
	// ✓ Title preserved: Roadmap
	// ✓ Version preserved: v2
	// ✗ Path mismatch
	//     Baseline:  /m365, /m365/{id}
	//     Candidate: /m365
	// ✓ All schemas preserved: RoadmapItem
	// ✓ All parameters preserved: FilterParameter
	// ✓ RoadmapItem required fields preserved: id, title
	// failed: 1
}
