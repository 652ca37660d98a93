// Package critical implements the critical-field checklist run against a
// regenerated OpenAPI document.
//
// The structural comparator in package structdiff only verifies shape. The
// checklist adds exact comparisons for the fields a consumer of the document
// relies on: the OpenAPI version, the info title and version, and the name
// sets of paths, schemas, parameters and one schema's required properties.
// Every check runs and is reported; nothing stops at the first failure.
package critical

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mjfusa/specguard/document"
	"github.com/mjfusa/specguard/structdiff"
)

// DefaultRequiredSchema is the schema whose required properties are checked
// when Checker.RequiredSchema is empty.
const DefaultRequiredSchema = "RoadmapItem"

// Check is the outcome of one critical-field comparison.
type Check struct {
	// Name identifies the check (e.g., "paths", "required")
	Name string `json:"name" yaml:"name"`
	// Passed is true when baseline and candidate agree
	Passed bool `json:"passed" yaml:"passed"`
	// Message is a human-readable summary
	Message string `json:"message" yaml:"message"`
	// Baseline holds the baseline's sorted names for set checks that failed
	Baseline []string `json:"baseline,omitempty" yaml:"baseline,omitempty"`
	// Candidate holds the candidate's sorted names for set checks that failed
	Candidate []string `json:"candidate,omitempty" yaml:"candidate,omitempty"`
}

// String formats the check with a pass/fail symbol and, for failed set
// checks, both name lists on their own lines.
func (c Check) String() string {
	symbol := "✓"
	if !c.Passed {
		symbol = "✗"
	}
	s := fmt.Sprintf("%s %s", symbol, c.Message)
	if !c.Passed && (c.Baseline != nil || c.Candidate != nil) {
		s += "\n    Baseline:  " + strings.Join(c.Baseline, ", ")
		s += "\n    Candidate: " + strings.Join(c.Candidate, ", ")
	}
	return s
}

// Report holds every check in execution order.
type Report struct {
	Checks []Check `json:"checks" yaml:"checks"`
}

// Failed returns the number of failed checks.
func (r *Report) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Passed {
			n++
		}
	}
	return n
}

// FailedChecks returns the failed checks in execution order.
func (r *Report) FailedChecks() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Checker runs the critical-field checklist.
type Checker struct {
	// RequiredSchema names the component schema whose required list is compared.
	RequiredSchema string
}

// New creates a Checker for DefaultRequiredSchema.
func New() *Checker {
	return &Checker{RequiredSchema: DefaultRequiredSchema}
}

// Run executes the checklist with a default Checker.
func Run(baseline, candidate any) *Report {
	return New().Run(baseline, candidate)
}

// Run compares candidate against baseline and returns every check.
func (c *Checker) Run(baseline, candidate any) *Report {
	schema := c.RequiredSchema
	if schema == "" {
		schema = DefaultRequiredSchema
	}

	report := &Report{}
	report.Checks = append(report.Checks,
		valueCheck("openapi", "OpenAPI version", baseline, candidate, "openapi"),
		valueCheck("title", "Title", baseline, candidate, "info", "title"),
		valueCheck("version", "Version", baseline, candidate, "info", "version"),
		setCheck("paths", "All paths preserved", mismatchLabel("path"),
			keysAt(baseline, "paths"), keysAt(candidate, "paths")),
		setCheck("schemas", "All schemas preserved", mismatchLabel("schema"),
			keysAt(baseline, "components", "schemas"), keysAt(candidate, "components", "schemas")),
		setCheck("parameters", "All parameters preserved", mismatchLabel("parameter"),
			keysAt(baseline, "components", "parameters"), keysAt(candidate, "components", "parameters")),
		setCheck("required", schema+" required fields preserved", schema+" required fields mismatch",
			requiredOf(baseline, schema), requiredOf(candidate, schema)),
	)
	return report
}

// valueCheck compares one scalar field. Absent on both sides counts as equal.
func valueCheck(name, label string, baseline, candidate any, keys ...string) Check {
	bv, bok := document.Lookup(baseline, keys...)
	cv, cok := document.Lookup(candidate, keys...)

	if bok == cok && sameValue(bv, cv) {
		msg := label + " preserved"
		if name == "openapi" {
			msg = label
		}
		if bok {
			msg += fmt.Sprintf(": %v", cv)
		}
		return Check{Name: name, Passed: true, Message: msg}
	}
	return Check{
		Name:    name,
		Passed:  false,
		Message: fmt.Sprintf("%s mismatch: baseline %s, candidate %s", label, display(bv, bok), display(cv, cok)),
	}
}

// sameValue reports whether two scalars have the same kind and value.
// Numbers compare by their decimal form so 2 and 2.0 agree.
func sameValue(a, b any) bool {
	kind := structdiff.KindOf(a)
	if kind != structdiff.KindOf(b) {
		return false
	}
	if kind == structdiff.KindNumber {
		return fmt.Sprint(a) == fmt.Sprint(b)
	}
	return reflect.DeepEqual(a, b)
}

// setCheck compares two sorted name lists for exact equality.
func setCheck(name, passLabel, failLabel string, baseline, candidate []string) Check {
	if slices.Equal(baseline, candidate) {
		return Check{Name: name, Passed: true, Message: passLabel + ": " + strings.Join(baseline, ", ")}
	}
	if baseline == nil {
		baseline = []string{}
	}
	if candidate == nil {
		candidate = []string{}
	}
	return Check{
		Name:      name,
		Passed:    false,
		Message:   failLabel,
		Baseline:  baseline,
		Candidate: candidate,
	}
}

// mismatchLabel turns a section noun into its failure label ("path" -> "Path mismatch").
func mismatchLabel(noun string) string {
	return cases.Title(language.English).String(noun) + " mismatch"
}

func keysAt(doc any, keys ...string) []string {
	v, _ := document.Lookup(doc, keys...)
	return document.KeysOf(v)
}

// requiredOf returns the sorted required list of schema. Entries that are
// not strings are kept, rendered with their kind, so they never match a name.
func requiredOf(doc any, schema string) []string {
	v, _ := document.Lookup(doc, "components", "schemas", schema, "required")
	list, _ := v.([]any)
	if len(list) == 0 {
		return nil
	}
	names := make([]string, 0, len(list))
	for _, elem := range list {
		if s, ok := elem.(string); ok {
			names = append(names, s)
			continue
		}
		names = append(names, fmt.Sprintf("%v (%s)", elem, structdiff.KindOf(elem)))
	}
	slices.Sort(names)
	return names
}

func display(v any, ok bool) string {
	if !ok {
		return "<absent>"
	}
	if s, isString := v.(string); isString {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v (%s)", v, structdiff.KindOf(v))
}
