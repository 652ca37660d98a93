package overlay

import (
	"fmt"

	"github.com/mjfusa/specguard/document"
	"github.com/mjfusa/specguard/logging"
)

// Option is a function that configures an overlay application operation.
type Option func(*applyConfig) error

type applyConfig struct {
	// exactly one document source
	docFilePath *string
	doc         any
	docSet      bool

	// exactly one overlay source
	overlayFilePath *string
	overlayParsed   *Overlay

	strictTargets bool
	logger        logging.Logger
}

// WithDocumentFile reads the document to transform from path.
func WithDocumentFile(path string) Option {
	return func(cfg *applyConfig) error {
		if path == "" {
			return fmt.Errorf("document path cannot be empty")
		}
		cfg.docFilePath = &path
		return nil
	}
}

// WithDocument uses an already-parsed document tree.
func WithDocument(doc any) Option {
	return func(cfg *applyConfig) error {
		cfg.doc = doc
		cfg.docSet = true
		return nil
	}
}

// WithOverlayFilePath specifies a file path as the overlay input source.
func WithOverlayFilePath(path string) Option {
	return func(cfg *applyConfig) error {
		if path == "" {
			return fmt.Errorf("overlay path cannot be empty")
		}
		cfg.overlayFilePath = &path
		return nil
	}
}

// WithOverlayParsed specifies an already-parsed overlay as the input source.
func WithOverlayParsed(o *Overlay) Option {
	return func(cfg *applyConfig) error {
		if o == nil {
			return fmt.Errorf("overlay cannot be nil")
		}
		cfg.overlayParsed = o
		return nil
	}
}

// WithStrictTargets enables strict mode where unmatched targets cause errors.
func WithStrictTargets(strict bool) Option {
	return func(cfg *applyConfig) error {
		cfg.strictTargets = strict
		return nil
	}
}

// WithLogger sets the logger used during application.
func WithLogger(l logging.Logger) Option {
	return func(cfg *applyConfig) error {
		cfg.logger = l
		return nil
	}
}

func applyOptions(opts ...Option) (*applyConfig, error) {
	cfg := &applyConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	switch {
	case cfg.docFilePath == nil && !cfg.docSet:
		return nil, fmt.Errorf("must specify a document source (use WithDocumentFile or WithDocument)")
	case cfg.docFilePath != nil && cfg.docSet:
		return nil, fmt.Errorf("must specify exactly one document source")
	}

	switch {
	case cfg.overlayFilePath == nil && cfg.overlayParsed == nil:
		return nil, fmt.Errorf("must specify an overlay source (use WithOverlayFilePath or WithOverlayParsed)")
	case cfg.overlayFilePath != nil && cfg.overlayParsed != nil:
		return nil, fmt.Errorf("must specify exactly one overlay source")
	}

	return cfg, nil
}

func loadInputs(cfg *applyConfig) (any, *Overlay, error) {
	doc := cfg.doc
	if cfg.docFilePath != nil {
		var err error
		if doc, err = document.Load(*cfg.docFilePath, "document"); err != nil {
			return nil, nil, err
		}
	}

	o := cfg.overlayParsed
	if cfg.overlayFilePath != nil {
		var err error
		if o, err = ParseOverlayFile(*cfg.overlayFilePath); err != nil {
			return nil, nil, err
		}
	}
	return doc, o, nil
}

// ApplyWithOptions applies an overlay using functional options.
//
//	result, err := overlay.ApplyWithOptions(
//	    overlay.WithDocumentFile("roadmap-openapi.json"),
//	    overlay.WithOverlayFilePath("changes.yaml"),
//	    overlay.WithStrictTargets(true),
//	)
func ApplyWithOptions(opts ...Option) (*ApplyResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("overlay: invalid options: %w", err)
	}

	doc, o, err := loadInputs(cfg)
	if err != nil {
		return nil, err
	}

	a := &Applier{StrictTargets: cfg.strictTargets, Logger: cfg.logger}
	return a.Apply(doc, o)
}
