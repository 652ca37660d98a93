package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mjfusa/specguard/structdiff"
)

type compareInput struct {
	Baseline  docInput `json:"baseline"           jsonschema:"The trusted baseline document"`
	Candidate docInput `json:"candidate"          jsonschema:"The regenerated document to check against the baseline"`
	Elements  *bool    `json:"elements,omitempty" jsonschema:"Also compare array elements when lengths match"`
}

type compareIssue struct {
	Path    string   `json:"path"`
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Keys    []string `json:"keys,omitempty"`
}

type compareOutput struct {
	IssueCount int            `json:"issue_count"`
	Counts     map[string]int `json:"counts,omitempty"`
	Issues     []compareIssue `json:"issues,omitempty"`
	Summary    string         `json:"summary"`
}

func handleCompare(_ context.Context, _ *mcp.CallToolRequest, input compareInput) (*mcp.CallToolResult, compareOutput, error) {
	baseline, err := input.Baseline.resolve("baseline")
	if err != nil {
		return errResult(err), compareOutput{}, nil
	}
	candidate, err := input.Candidate.resolve("candidate")
	if err != nil {
		return errResult(err), compareOutput{}, nil
	}

	mode := structdiff.ArrayLength
	elements := cfg.CompareElements
	if input.Elements != nil {
		elements = *input.Elements
	}
	if elements {
		mode = structdiff.ArrayElements
	}
	issues := structdiff.New(structdiff.WithArrayMode(mode)).Compare(baseline, candidate)

	output := compareOutput{
		IssueCount: len(issues),
		Issues:     makeSlice[compareIssue](len(issues)),
	}
	for _, is := range issues {
		output.Issues = append(output.Issues, compareIssue{
			Path:    structdiff.DisplayPath(is.Path),
			Type:    string(is.Type),
			Message: is.Message,
			Keys:    is.Keys,
		})
	}
	if len(issues) > 0 {
		output.Counts = make(map[string]int)
		for t, n := range structdiff.Counts(issues) {
			output.Counts[string(t)] = n
		}
		output.Summary = formatCount(len(issues), "structural issue") + " found."
	} else {
		output.Summary = "Structure matches the baseline."
	}
	return nil, output, nil
}
