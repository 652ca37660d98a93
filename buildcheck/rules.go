package buildcheck

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"go.yaml.in/yaml/v4"

	"github.com/mjfusa/specguard/internal/severity"
	"github.com/mjfusa/specguard/oaserrors"
)

//go:embed rules/default.yaml
var defaultRules []byte

// Rule sources.
const (
	// SourceOpenAPI evaluates assertions against the generated document.
	SourceOpenAPI = "openapi"
	// SourcePackage evaluates assertions against package.json.
	SourcePackage = "package"
)

// Assertion is an expr-lang expression that must evaluate to true. The
// source document is the expression environment, so top-level keys are
// variables ("info.title") and $env is the whole document.
type Assertion struct {
	Expr    string `yaml:"expr" json:"expr"`
	Message string `yaml:"message" json:"message"`

	program *vm.Program
}

// Rule is one named check. Files are checked for existence first, then the
// assertions run in order; the first failure fails the rule.
type Rule struct {
	Name     string            `yaml:"name" json:"name"`
	Source   string            `yaml:"source,omitempty" json:"source,omitempty"`
	Severity severity.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
	Files    []string          `yaml:"files,omitempty" json:"files,omitempty"`
	Assert   []Assertion       `yaml:"assert,omitempty" json:"assert,omitempty"`
}

// RuleSet is an ordered list of rules.
type RuleSet struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}

// DefaultRules returns the embedded rule set for roadmap agent projects.
func DefaultRules() (*RuleSet, error) {
	return ParseRules(defaultRules)
}

// LoadRules reads a rule set from a YAML or JSON file.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304 - path comes from the command line or project configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &oaserrors.InputError{Path: path, Role: "rules", Cause: err}
		}
		return nil, fmt.Errorf("buildcheck: reading %s: %w", path, err)
	}
	rs, err := ParseRules(data)
	if err != nil {
		var pe *oaserrors.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return rs, nil
}

// ParseRules decodes a rule set and compiles every assertion.
func ParseRules(data []byte) (*RuleSet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &oaserrors.ParseError{Message: "empty rule set"}
	}
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, &oaserrors.ParseError{Message: "invalid rule set", Cause: err}
	}
	if len(rs.Rules) == 0 {
		return nil, &oaserrors.ConfigError{Option: "rules", Message: "at least one rule is required"}
	}
	for i := range rs.Rules {
		if err := rs.Rules[i].compile(); err != nil {
			return nil, err
		}
	}
	return &rs, nil
}

func (r *Rule) compile() error {
	option := fmt.Sprintf("rules[%s]", r.Name)
	if r.Name == "" {
		return &oaserrors.ConfigError{Option: "rules", Message: "rule name is required"}
	}
	switch r.Source {
	case "", SourceOpenAPI, SourcePackage:
	default:
		return &oaserrors.ConfigError{Option: option + ".source", Value: r.Source, Message: "must be openapi or package"}
	}
	if len(r.Files) == 0 && len(r.Assert) == 0 && r.Source == "" {
		return &oaserrors.ConfigError{Option: option, Message: "rule needs files, a source, or assertions"}
	}
	if len(r.Assert) > 0 && r.Source == "" {
		return &oaserrors.ConfigError{Option: option + ".source", Message: "assertions need a source"}
	}
	for i := range r.Assert {
		a := &r.Assert[i]
		prg, err := expr.Compile(a.Expr, expr.AllowUndefinedVariables(), expr.AsBool())
		if err != nil {
			return &oaserrors.ConfigError{Option: fmt.Sprintf("%s.assert[%d]", option, i), Value: a.Expr, Cause: err}
		}
		a.program = prg
		if a.Message == "" {
			a.Message = "assertion failed: " + a.Expr
		}
	}
	return nil
}

// eval runs the assertion against env. Evaluation errors count as failures.
func (a *Assertion) eval(env map[string]any) error {
	out, err := expr.Run(a.program, env)
	if err != nil {
		return fmt.Errorf("%s: %w", a.Message, err)
	}
	if ok, _ := out.(bool); !ok {
		return errors.New(a.Message)
	}
	return nil
}
