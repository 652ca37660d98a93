package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mjfusa/specguard/document"
	"github.com/mjfusa/specguard/postprocess"
)

type postprocessInput struct {
	Spec     docInput   `json:"spec"               jsonschema:"The generated OpenAPI document"`
	Builtins []string   `json:"builtins,omitempty" jsonschema:"Built-in overlays to apply (examples, metadata); defaults to both"`
	None     bool       `json:"no_builtins,omitempty" jsonschema:"Apply no built-in overlays"`
	Overlays []string   `json:"overlays,omitempty" jsonschema:"Overlay file paths applied after the built-ins"`
	Patches  []docInput `json:"patches,omitempty"  jsonschema:"JSON Merge Patch (object) or JSON Patch (array) documents applied last"`
	Strict   *bool      `json:"strict,omitempty"   jsonschema:"Fail when an overlay target matches nothing"`
	Format   string     `json:"format,omitempty"   jsonschema:"Output format: json (default) or yaml"`
	Output   string     `json:"output,omitempty"   jsonschema:"File path to write the result. If omitted the result is returned inline."`
}

type postprocessOutput struct {
	Steps     []postprocess.StepResult `json:"steps"`
	Warnings  []string                 `json:"warnings,omitempty"`
	WrittenTo string                   `json:"written_to,omitempty"`
	Document  string                   `json:"document,omitempty"`
	Summary   string                   `json:"summary"`
}

func handlePostprocess(_ context.Context, _ *mcp.CallToolRequest, input postprocessInput) (*mcp.CallToolResult, postprocessOutput, error) {
	doc, err := input.Spec.resolve("spec")
	if err != nil {
		return errResult(err), postprocessOutput{}, nil
	}

	format := document.FormatJSON
	switch input.Format {
	case "", "json":
	case "yaml":
		format = document.FormatYAML
	default:
		return errResult(fmt.Errorf("invalid format %q; valid values: json, yaml", input.Format)), postprocessOutput{}, nil
	}

	strict := cfg.StrictTargets
	if input.Strict != nil {
		strict = *input.Strict
	}
	opts := []postprocess.Option{
		postprocess.WithStrictTargets(strict),
		postprocess.WithOverlayFiles(input.Overlays...),
	}
	switch {
	case input.None:
		opts = append(opts, postprocess.WithBuiltins())
	case len(input.Builtins) > 0:
		opts = append(opts, postprocess.WithBuiltins(input.Builtins...))
	}
	for i, p := range input.Patches {
		name := fmt.Sprintf("patches[%d]", i)
		data, err := p.raw(name)
		if err != nil {
			return errResult(err), postprocessOutput{}, nil
		}
		source := p.File
		if source == "" {
			source = name
		}
		opts = append(opts, postprocess.WithPatch(source, data))
	}

	out, steps, err := postprocess.New(opts...).Process(doc)
	if err != nil {
		return errResult(err), postprocessOutput{}, nil
	}

	if steps == nil {
		steps = []postprocess.StepResult{}
	}
	output := postprocessOutput{
		Steps:    steps,
		Warnings: (&postprocess.Result{Steps: steps}).Warnings(),
	}
	applied := 0
	for _, s := range steps {
		applied += s.Applied
	}
	output.Summary = formatCount(len(steps), "step") + " run, " + formatCount(applied, "action") + " applied"
	if len(output.Warnings) > 0 {
		output.Summary += " with " + formatCount(len(output.Warnings), "warning")
	}
	output.Summary += "."

	if input.Output != "" {
		if err := document.WriteFile(input.Output, out, format); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), postprocessOutput{}, nil
		}
		output.WrittenTo = input.Output
		return nil, output, nil
	}

	data, err := document.Marshal(out, format)
	if err != nil {
		return errResult(err), postprocessOutput{}, nil
	}
	output.Document = string(data)
	return nil, output, nil
}
