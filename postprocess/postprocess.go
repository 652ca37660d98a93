// Package postprocess rewrites a generated OpenAPI document in place: it
// applies the built-in roadmap overlays, any user overlays, and JSON patches,
// then writes the result back to the same file.
//
// The built-in overlays supply what the API compiler cannot emit: parameter
// and response examples ("examples") and document metadata ("metadata").
// Like every overlay action, they only touch nodes that already exist.
package postprocess

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/mjfusa/specguard/document"
	"github.com/mjfusa/specguard/logging"
	"github.com/mjfusa/specguard/oaserrors"
	"github.com/mjfusa/specguard/overlay"
)

//go:embed overlays/*.yaml
var builtinFS embed.FS

// Built-in overlay names.
const (
	BuiltinExamples = "examples"
	BuiltinMetadata = "metadata"
)

// Step kinds recorded in a StepResult.
const (
	KindBuiltin    = "builtin"
	KindOverlay    = "overlay"
	KindMergePatch = "merge-patch"
	KindJSONPatch  = "json-patch"
)

// Builtins returns the names of the embedded overlays, sorted.
func Builtins() []string {
	entries, err := fs.ReadDir(builtinFS, "overlays")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(names)
	return names
}

// Builtin returns the embedded overlay with the given name.
func Builtin(name string) (*overlay.Overlay, error) {
	data, err := builtinFS.ReadFile("overlays/" + name + ".yaml")
	if err != nil {
		return nil, &oaserrors.ConfigError{
			Option:  "builtin",
			Value:   name,
			Message: "unknown built-in overlay (available: " + strings.Join(Builtins(), ", ") + ")",
		}
	}
	return overlay.ParseOverlay(data)
}

// Patch is a JSON Merge Patch (RFC 7396, a JSON object) or a JSON Patch
// (RFC 6902, a JSON array). YAML input is accepted and converted to JSON.
type Patch struct {
	Source string
	Data   []byte
}

// StepResult summarizes one applied overlay or patch.
type StepResult struct {
	Source   string   `json:"source" yaml:"source"`
	Kind     string   `json:"kind" yaml:"kind"`
	Applied  int      `json:"applied" yaml:"applied"`
	Skipped  int      `json:"skipped" yaml:"skipped"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Result is the outcome of Processor.Run.
type Result struct {
	Path     string       `json:"path" yaml:"path"`
	Steps    []StepResult `json:"steps" yaml:"steps"`
	Changed  bool         `json:"changed" yaml:"changed"`
	Written  bool         `json:"written" yaml:"written"`
	Document any          `json:"-" yaml:"-"`

	// Original and Output hold the file bytes before and after processing.
	Original []byte `json:"-" yaml:"-"`
	Output   []byte `json:"-" yaml:"-"`
}

// Warnings returns every warning from every step, prefixed by its source.
func (r *Result) Warnings() []string {
	var out []string
	for _, s := range r.Steps {
		for _, w := range s.Warnings {
			out = append(out, s.Source+": "+w)
		}
	}
	return out
}

// Processor applies built-in overlays, then user overlays, then patches.
type Processor struct {
	// Builtins names the embedded overlays to apply, in order.
	Builtins []string
	// Overlays lists overlay file paths applied after the built-ins.
	Overlays []string
	Patches  []Patch

	StrictTargets bool
	// DryRun computes the result without writing the file.
	DryRun bool
	Logger logging.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// New returns a Processor that applies both built-in overlays unless
// options say otherwise.
func New(opts ...Option) *Processor {
	p := &Processor{Builtins: []string{BuiltinExamples, BuiltinMetadata}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithBuiltins replaces the list of built-in overlays to apply.
func WithBuiltins(names ...string) Option {
	return func(p *Processor) { p.Builtins = names }
}

// WithOverlayFiles appends user overlay files.
func WithOverlayFiles(paths ...string) Option {
	return func(p *Processor) { p.Overlays = append(p.Overlays, paths...) }
}

// WithPatch appends a patch.
func WithPatch(source string, data []byte) Option {
	return func(p *Processor) { p.Patches = append(p.Patches, Patch{Source: source, Data: data}) }
}

// WithStrictTargets makes unmatched overlay targets fatal.
func WithStrictTargets(strict bool) Option {
	return func(p *Processor) { p.StrictTargets = strict }
}

// WithDryRun disables writing.
func WithDryRun(dryRun bool) Option {
	return func(p *Processor) { p.DryRun = dryRun }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Processor) { p.Logger = l }
}

// Run loads the document at path, processes it, and writes it back in the
// same format unless DryRun is set. A missing document is an InputError.
func (p *Processor) Run(filePath string) (*Result, error) {
	log := logging.OrNop(p.Logger).With("file", filePath)

	doc, original, format, err := document.LoadRaw(filePath, "generated")
	if err != nil {
		return nil, err
	}

	out, steps, err := p.Process(doc)
	if err != nil {
		return nil, err
	}

	data, err := document.Marshal(out, format)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Path:     filePath,
		Steps:    steps,
		Document: out,
		Original: original,
		Output:   data,
		Changed:  !bytes.Equal(original, data),
	}
	if p.DryRun {
		log.Info("dry run, document not written", "changed", result.Changed)
		return result, nil
	}
	if err := document.WriteFile(filePath, out, format); err != nil {
		return nil, err
	}
	result.Written = true
	log.Info("document updated", "steps", len(steps))
	return result, nil
}

// Process applies every configured step and returns the new document. doc
// itself is never modified.
func (p *Processor) Process(doc any) (any, []StepResult, error) {
	log := logging.OrNop(p.Logger)
	applier := &overlay.Applier{StrictTargets: p.StrictTargets, Logger: p.Logger}
	var steps []StepResult

	apply := func(o *overlay.Overlay, source, kind string) error {
		res, err := applier.Apply(doc, o)
		if err != nil {
			return fmt.Errorf("postprocess: %s: %w", source, err)
		}
		doc = res.Document
		steps = append(steps, StepResult{
			Source:   source,
			Kind:     kind,
			Applied:  res.ActionsApplied,
			Skipped:  res.ActionsSkipped,
			Warnings: res.Warnings.Strings(),
		})
		for _, c := range res.Changes {
			log.Info("applied", "source", source, "target", c.Target, "operation", c.Operation)
		}
		return nil
	}

	for _, name := range p.Builtins {
		o, err := Builtin(name)
		if err != nil {
			return nil, nil, err
		}
		if err := apply(o, name, KindBuiltin); err != nil {
			return nil, nil, err
		}
	}

	for _, f := range p.Overlays {
		o, err := overlay.ParseOverlayFile(f)
		if err != nil {
			return nil, nil, err
		}
		if err := apply(o, f, KindOverlay); err != nil {
			return nil, nil, err
		}
	}

	for _, patch := range p.Patches {
		out, kind, err := applyPatch(doc, patch)
		if err != nil {
			return nil, nil, err
		}
		doc = out
		steps = append(steps, StepResult{Source: patch.Source, Kind: kind, Applied: 1})
		log.Info("applied", "source", patch.Source, "kind", kind)
	}

	return doc, steps, nil
}

// applyPatch round-trips doc through JSON to apply a merge patch or an
// RFC 6902 patch.
func applyPatch(doc any, patch Patch) (any, string, error) {
	patchErr := func(err error) error {
		return &oaserrors.ApplyError{Source: patch.Source, ActionIndex: -1, Cause: err}
	}

	patchJSON, err := toJSON(patch.Data)
	if err != nil {
		return nil, "", patchErr(err)
	}
	docJSON, err := document.Marshal(doc, document.FormatJSON)
	if err != nil {
		return nil, "", patchErr(err)
	}

	var (
		kind string
		out  []byte
	)
	switch patchJSON[0] {
	case '{':
		kind = KindMergePatch
		out, err = jsonpatch.MergePatch(docJSON, patchJSON)
	case '[':
		kind = KindJSONPatch
		var ops jsonpatch.Patch
		if ops, err = jsonpatch.DecodePatch(patchJSON); err == nil {
			out, err = ops.Apply(docJSON)
		}
	default:
		err = fmt.Errorf("patch must be a JSON object or array")
	}
	if err != nil {
		return nil, "", patchErr(err)
	}

	result, err := document.ParseBytes(out, document.FormatJSON)
	if err != nil {
		return nil, "", patchErr(err)
	}
	return result, kind, nil
}

// toJSON returns patch data as compact JSON, converting YAML when needed.
func toJSON(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty patch")
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return trimmed, nil
	}
	v, err := document.ParseBytes(trimmed, document.FormatYAML)
	if err != nil {
		return nil, err
	}
	out, err := document.Marshal(v, document.FormatJSON)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(out), nil
}
