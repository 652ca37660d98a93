package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mjfusa/specguard/buildcheck"
	"github.com/mjfusa/specguard/internal/config"
)

type checkInput struct {
	Root  string   `json:"root,omitempty"  jsonschema:"Project root (default: SPECGUARD_ROOT or the working directory)"`
	Rules docInput `json:"rules,omitempty" jsonschema:"Rule set replacing the configured or embedded rules"`
}

type checkRule struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message,omitempty"`
}

type checkOutput struct {
	Passed      int         `json:"passed"`
	Failed      int         `json:"failed"`
	Warnings    int         `json:"warnings"`
	SuccessRate float64     `json:"success_rate"`
	Rules       []checkRule `json:"rules"`
	Summary     string      `json:"summary"`
}

func handleCheck(_ context.Context, _ *mcp.CallToolRequest, input checkInput) (*mcp.CallToolResult, checkOutput, error) {
	c, err := config.Load(input.Root)
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}

	var rules *buildcheck.RuleSet
	switch {
	case input.Rules.provided():
		data, err := input.Rules.raw("rules")
		if err != nil {
			return errResult(err), checkOutput{}, nil
		}
		if rules, err = buildcheck.ParseRules(data); err != nil {
			return errResult(err), checkOutput{}, nil
		}
	case c.Rules != "":
		if rules, err = buildcheck.LoadRules(c.RulesPath()); err != nil {
			return errResult(err), checkOutput{}, nil
		}
	}

	checker, err := buildcheck.New(rules)
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}
	result := checker.Run(c.Project())

	output := checkOutput{
		Passed:      result.Passed,
		Failed:      result.Failed,
		Warnings:    result.Warnings,
		SuccessRate: result.SuccessRate(),
		Rules:       make([]checkRule, 0, len(result.Rules)),
	}
	for _, r := range result.Rules {
		output.Rules = append(output.Rules, checkRule{
			Name:     r.Name,
			Severity: r.Severity.String(),
			Passed:   r.Passed,
			Message:  r.Message,
		})
	}
	if result.OK() {
		output.Summary = "All " + formatCount(result.Passed+result.Warnings, "check") + " passed"
		if result.Warnings > 0 {
			output.Summary += " (" + formatCount(result.Warnings, "warning") + ")"
		}
		output.Summary += "."
	} else {
		output.Summary = formatCount(result.Failed, "check") + " failed."
	}
	return nil, output, nil
}
