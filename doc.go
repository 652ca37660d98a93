// Package specguard keeps a regenerated OpenAPI document faithful to the
// hand-written document it replaced.
//
// When an API description moves from a hand-maintained OpenAPI file to a
// generated one, the generated document must keep the shape and the
// critical fields its consumers depend on. specguard compares the two,
// post-processes the generated document with what the generator cannot
// emit, keeps version strings in agent instructions in sync with the
// manifests, and runs the project build checks.
//
// # Overview
//
// The library consists of these packages:
//
//   - structdiff: structural comparison of two document trees
//   - critical: the critical-field checklist (OpenAPI version, info, and the
//     names of paths, schemas, parameters and required properties)
//   - document: loading, normalizing and writing JSON and YAML documents
//   - overlay: OpenAPI Overlay documents applied to document trees
//   - postprocess: the built-in roadmap overlays plus user overlays and
//     JSON Merge Patch / JSON Patch documents
//   - versions: version placeholder injection and restoration
//   - buildcheck: data-driven project checks with expr-lang assertions
//   - oaserrors: typed errors shared by every package
//
// # Quick Start
//
// Compare a generated document against its baseline:
//
//	baseline, err := document.Load("archive/roadmap-openapi.original.json", "baseline")
//	if err != nil {
//		log.Fatal(err)
//	}
//	generated, err := document.Load("roadmap-openapi.json", "generated")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, issue := range structdiff.Compare(baseline, generated) {
//		fmt.Println(issue)
//	}
//
// Run the critical-field checklist:
//
//	report := critical.Run(baseline, generated)
//	for _, check := range report.Checks {
//		fmt.Println(check)
//	}
//	if !report.OK() {
//		os.Exit(1)
//	}
//
// Post-process the generated document in place:
//
//	result, err := postprocess.New().Run("roadmap-openapi.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("changed: %v\n", result.Changed)
//
// # Structural Comparison
//
// structdiff compares shape, never values. Two documents agree when every
// value has the same kind (null, boolean, number, string, array, object),
// arrays have the same length, and objects have the same key sets. Keys
// are visited in sorted order, so the issue list is deterministic. Array
// elements are compared only when requested with
// structdiff.WithArrayMode(structdiff.ArrayElements).
//
// # Command-Line Interface
//
// The specguard command wraps every package:
//
//	specguard compare baseline.json generated.json
//	specguard validate --structural
//	specguard postprocess --dry-run
//	specguard inject-versions
//	specguard restore-placeholders
//	specguard check --format json
//	specguard mcp
//
// Commands that read project files locate them through specguard.yaml at the
// project root; see internal/config for the defaults.
package specguard
