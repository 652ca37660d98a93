// Package buildcheck runs the end-to-end checks of a roadmap agent project:
// source files are present, the generated OpenAPI document has the expected
// structure, package.json declares the build scripts, and the generated
// document still matches the archived baseline.
//
// Checks are data: a RuleSet of expr-lang assertions, with a default set
// embedded in the package. Two rules are always added in code: the generated
// document must load as an OpenAPI 3 document, and, when a baseline exists,
// its OpenAPI version, title, paths and schemas must match the baseline.
package buildcheck

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mjfusa/specguard/critical"
	"github.com/mjfusa/specguard/document"
	"github.com/mjfusa/specguard/internal/fileutil"
	"github.com/mjfusa/specguard/internal/severity"
	"github.com/mjfusa/specguard/logging"
)

// Names of the rules added in code.
const (
	LoadRuleName     = "Generated OpenAPI loads as an OpenAPI 3 document"
	BaselineRuleName = "Generated OpenAPI matches original structure"
)

// Project locates the files a check run reads. Rule file paths are resolved
// against Root.
type Project struct {
	Root        string
	Spec        string
	Baseline    string
	PackageJSON string
}

// RuleResult is the outcome of one rule.
type RuleResult struct {
	Name     string            `json:"name" yaml:"name"`
	Severity severity.Severity `json:"severity" yaml:"severity"`
	Passed   bool              `json:"passed" yaml:"passed"`
	Message  string            `json:"message,omitempty" yaml:"message,omitempty"`
}

// Result summarizes a check run. Failures of warning or info severity count
// as Warnings and do not fail the run.
type Result struct {
	Passed   int          `json:"passed" yaml:"passed"`
	Failed   int          `json:"failed" yaml:"failed"`
	Warnings int          `json:"warnings" yaml:"warnings"`
	Rules    []RuleResult `json:"rules" yaml:"rules"`
}

// OK reports whether no error-severity rule failed.
func (r *Result) OK() bool {
	return r.Failed == 0
}

// SuccessRate returns the percentage of rules that passed. An empty run
// scores 100.
func (r *Result) SuccessRate() float64 {
	total := r.Passed + r.Failed + r.Warnings
	if total == 0 {
		return 100
	}
	return float64(r.Passed) / float64(total) * 100
}

func (r *Result) add(rr RuleResult) {
	switch {
	case rr.Passed:
		r.Passed++
	case rr.Severity.Fails():
		r.Failed++
	default:
		r.Warnings++
	}
	r.Rules = append(r.Rules, rr)
}

// Checker evaluates a RuleSet against a project.
type Checker struct {
	Rules  *RuleSet
	Logger logging.Logger
}

// New returns a Checker for rules. A nil rule set uses DefaultRules.
func New(rules *RuleSet) (*Checker, error) {
	if rules == nil {
		var err error
		if rules, err = DefaultRules(); err != nil {
			return nil, err
		}
	}
	return &Checker{Rules: rules}, nil
}

// source is a lazily loaded rule source.
type source struct {
	path string
	doc  map[string]any
	err  error
	done bool
}

func (s *source) load() (map[string]any, error) {
	if s.done {
		return s.doc, s.err
	}
	s.done = true
	doc, err := document.Load(s.path, "source")
	if err != nil {
		s.err = err
		return nil, err
	}
	m, ok := doc.(map[string]any)
	if !ok {
		s.err = fmt.Errorf("%s: document is not an object", s.path)
		return nil, s.err
	}
	s.doc = m
	return m, nil
}

// Run evaluates every rule, then the load rule and the baseline rule. It
// never stops early.
func (c *Checker) Run(p Project) *Result {
	log := logging.OrNop(c.Logger)
	sources := map[string]*source{
		SourceOpenAPI: {path: p.Spec},
		SourcePackage: {path: p.PackageJSON},
	}

	result := &Result{}
	record := func(rr RuleResult) {
		result.add(rr)
		if rr.Passed {
			log.Debug("rule passed", "rule", rr.Name)
		} else {
			log.Debug("rule failed", "rule", rr.Name, "severity", rr.Severity.String(), "message", rr.Message)
		}
	}

	for i := range c.Rules.Rules {
		record(c.evalRule(&c.Rules.Rules[i], p.Root, sources))
	}

	record(loadRule(p.Spec))

	if p.Baseline != "" && fileutil.Exists(p.Baseline) {
		record(baselineRule(p.Spec, p.Baseline))
	} else {
		log.Debug("baseline not found, skipping comparison", "baseline", p.Baseline)
	}

	return result
}

func (c *Checker) evalRule(r *Rule, root string, sources map[string]*source) RuleResult {
	rr := RuleResult{Name: r.Name, Severity: r.Severity}
	fail := func(msg string) RuleResult {
		rr.Message = msg
		return rr
	}

	for _, f := range r.Files {
		if !fileutil.Exists(filepath.Join(root, filepath.FromSlash(f))) {
			return fail(fmt.Sprintf("File %s does not exist", f))
		}
	}

	if r.Source != "" {
		env, err := sources[r.Source].load()
		if err != nil {
			return fail(err.Error())
		}
		for i := range r.Assert {
			if err := r.Assert[i].eval(env); err != nil {
				return fail(err.Error())
			}
		}
	}

	rr.Passed = true
	return rr
}

// loadRule parses the generated document with the kin-openapi loader. Only
// loading is checked; the document is not validated against the OpenAPI
// schema.
func loadRule(specPath string) RuleResult {
	rr := RuleResult{Name: LoadRuleName}
	doc, err := document.Load(specPath, "generated")
	if err != nil {
		rr.Message = err.Error()
		return rr
	}
	data, err := document.Marshal(doc, document.FormatJSON)
	if err != nil {
		rr.Message = err.Error()
		return rr
	}
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false
	t, err := loader.LoadFromData(data)
	if err != nil {
		rr.Message = "OpenAPI loader: " + err.Error()
		return rr
	}
	if t.Info == nil {
		rr.Message = "OpenAPI loader: missing info"
		return rr
	}
	rr.Passed = true
	rr.Message = fmt.Sprintf("OpenAPI %s, %d paths", t.OpenAPI, len(t.Paths))
	return rr
}

// baselineChecks are the critical checks the baseline rule depends on.
var baselineChecks = map[string]bool{"openapi": true, "title": true, "paths": true, "schemas": true}

func baselineRule(specPath, baselinePath string) RuleResult {
	rr := RuleResult{Name: BaselineRuleName}
	generated, err := document.Load(specPath, "generated")
	if err != nil {
		rr.Message = err.Error()
		return rr
	}
	baseline, err := document.Load(baselinePath, "baseline")
	if err != nil {
		rr.Message = err.Error()
		return rr
	}

	var failed []error
	for _, check := range critical.Run(baseline, generated).FailedChecks() {
		if baselineChecks[check.Name] {
			failed = append(failed, errors.New(check.Message))
		}
	}
	if len(failed) > 0 {
		rr.Message = errors.Join(failed...).Error()
		return rr
	}
	rr.Passed = true
	return rr
}
