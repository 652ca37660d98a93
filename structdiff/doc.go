/*
Package structdiff compares two parsed JSON-like document trees and reports
structural discrepancies between them.

# Overview

A baseline document is the trusted reference; a candidate is a freshly
generated document that should have the same shape. Compare walks both trees
and reports where the shape diverges:

  - IssueTypeMismatch: the two values are of different kinds (number vs string, object vs array)
  - IssueNullMismatch: one side is null and the other is not
  - IssueArrayLength: both values are arrays of different lengths
  - IssueUnexpectedKeys: object keys present only in the candidate
  - IssueMissingKeys: object keys present only in the baseline

Values of equal kind are never reported: two strings, two numbers or two
booleans are considered equal whatever their content. Array elements are not
compared unless the comparer runs in ArrayElements mode. Value-level checks
belong in dedicated checklists such as the critical package.

# Document Trees

A tree is what a JSON or YAML decoder produces when decoding into any: nil,
bool, numbers, string, []any and map[string]any, nested arbitrarily. Typed
slices and string-keyed maps are accepted as well.

# Determinism

Object keys are visited in sorted order and key lists inside messages are
sorted, so the same inputs always yield the same issues in the same order.

# Example

	baseline, _ := document.ParseFile("archive/roadmap-openapi.original.json")
	candidate, _ := document.ParseFile("roadmap-openapi.json")

	for _, issue := range structdiff.Compare(baseline, candidate) {
		fmt.Println(issue)
	}
*/
package structdiff
