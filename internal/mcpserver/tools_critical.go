package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mjfusa/specguard/critical"
)

type validateCriticalInput struct {
	Baseline  docInput `json:"baseline"         jsonschema:"The trusted baseline document"`
	Generated docInput `json:"generated"        jsonschema:"The regenerated document"`
	Schema    string   `json:"schema,omitempty" jsonschema:"Schema whose required fields are compared (default from SPECGUARD_SCHEMA)"`
}

type validateCriticalOutput struct {
	Passed  int              `json:"passed"`
	Failed  int              `json:"failed"`
	Checks  []critical.Check `json:"checks"`
	Summary string           `json:"summary"`
}

func handleValidateCritical(_ context.Context, _ *mcp.CallToolRequest, input validateCriticalInput) (*mcp.CallToolResult, validateCriticalOutput, error) {
	baseline, err := input.Baseline.resolve("baseline")
	if err != nil {
		return errResult(err), validateCriticalOutput{}, nil
	}
	generated, err := input.Generated.resolve("generated")
	if err != nil {
		return errResult(err), validateCriticalOutput{}, nil
	}

	schema := input.Schema
	if schema == "" {
		schema = cfg.RequiredSchema
	}
	report := (&critical.Checker{RequiredSchema: schema}).Run(baseline, generated)

	output := validateCriticalOutput{
		Failed: report.Failed(),
		Checks: report.Checks,
	}
	output.Passed = len(report.Checks) - output.Failed
	if report.OK() {
		output.Summary = "All critical fields preserved."
	} else {
		output.Summary = formatCount(output.Failed, "critical check") + " failed."
	}
	return nil, output, nil
}
