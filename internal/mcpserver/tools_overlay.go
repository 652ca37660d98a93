package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mjfusa/specguard/overlay"
)

type overlayValidateInput struct {
	Overlay docInput `json:"overlay" jsonschema:"The Overlay document to validate"`
}

type overlayValidateIssue struct {
	Field   string `json:"field,omitempty"`
	Action  *int   `json:"action,omitempty"`
	Message string `json:"message"`
}

type overlayValidateOutput struct {
	Valid      bool                   `json:"valid"`
	Title      string                 `json:"title,omitempty"`
	Actions    int                    `json:"actions"`
	ErrorCount int                    `json:"error_count"`
	Errors     []overlayValidateIssue `json:"errors,omitempty"`
}

// resolveOverlay parses an overlay document from a file path or inline content.
func resolveOverlay(d docInput) (*overlay.Overlay, error) {
	if err := d.check("overlay"); err != nil {
		return nil, err
	}
	if d.File != "" {
		return overlay.ParseOverlayFile(d.File)
	}
	return overlay.ParseOverlay([]byte(d.Content))
}

func handleOverlayValidate(_ context.Context, _ *mcp.CallToolRequest, input overlayValidateInput) (*mcp.CallToolResult, overlayValidateOutput, error) {
	o, err := resolveOverlay(input.Overlay)
	if err != nil {
		return errResult(err), overlayValidateOutput{}, nil
	}

	errs := overlay.Validate(o)

	output := overlayValidateOutput{
		Valid:      len(errs) == 0,
		Title:      o.Info.Title,
		Actions:    len(o.Actions),
		ErrorCount: len(errs),
	}
	output.Errors = makeSlice[overlayValidateIssue](len(errs))
	for _, e := range errs {
		issue := overlayValidateIssue{Field: e.Field, Message: e.Message}
		if e.Action >= 0 {
			issue.Action = &e.Action
		}
		output.Errors = append(output.Errors, issue)
	}
	return nil, output, nil
}
