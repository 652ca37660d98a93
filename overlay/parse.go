package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mjfusa/specguard/document"
	"github.com/mjfusa/specguard/oaserrors"
	"go.yaml.in/yaml/v4"
)

// ParseOverlay parses an overlay document from YAML or JSON bytes.
func ParseOverlay(data []byte) (*Overlay, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &oaserrors.ParseError{Message: "empty overlay"}
	}
	var o Overlay
	// yaml.Unmarshal handles both YAML and JSON
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, &oaserrors.ParseError{Message: "invalid overlay", Cause: err}
	}
	for i := range o.Actions {
		o.Actions[i].Update = document.Normalize(o.Actions[i].Update)
	}
	return &o, nil
}

// ParseOverlayFile parses an overlay document from a file path.
func ParseOverlayFile(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &oaserrors.InputError{Path: path, Role: "overlay", Cause: err}
		}
		return nil, fmt.Errorf("overlay: reading %s: %w", path, err)
	}

	o, err := ParseOverlay(data)
	if err != nil {
		var pe *oaserrors.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return o, nil
}

// IsOverlayDocument reports whether data looks like an overlay document.
func IsOverlayDocument(data []byte) bool {
	return bytes.Contains(data, []byte("overlay:")) ||
		bytes.Contains(data, []byte(`"overlay":`))
}

// MarshalOverlay serializes an overlay to YAML bytes.
func MarshalOverlay(o *Overlay) ([]byte, error) {
	data, err := yaml.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("overlay: failed to marshal: %w", err)
	}
	return data, nil
}
