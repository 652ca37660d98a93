// Package versions keeps version strings in agent instructions in sync with
// the app manifest, the declarative agent manifest and the plugin manifest.
//
// Instructions are kept in source control with placeholders. Before a build,
// an Injector replaces the placeholders with the versions read from the
// manifests; afterwards Restore turns the concrete versions back into
// placeholders.
package versions

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/mjfusa/specguard/document"
)

// Placeholders recognized in instructions text.
const (
	ManifestPlaceholder         = "{{MANIFEST_VERSION}}"
	DeclarativeAgentPlaceholder = "{{DECLARATIVE_AGENT_SCHEMA}}"
	PluginPlaceholder           = "{{PLUGIN_SCHEMA}}"
)

// Defaults used when a manifest is absent or lacks the field.
const (
	DefaultManifest         = "1.0.0"
	DefaultDeclarativeAgent = "v1.2"
	DefaultPlugin           = "v2.2"
)

// Sources are the manifest files versions are read from.
type Sources struct {
	// Manifest is the app manifest; its "version" field is used.
	Manifest string
	// DeclarativeAgent is the declarative agent manifest; its "version" field is used.
	DeclarativeAgent string
	// Plugin is the API plugin manifest; its "schema_version" field is used.
	Plugin string
}

// Versions holds the values substituted for the placeholders.
type Versions struct {
	Manifest               string `json:"manifest" yaml:"manifest"`
	DeclarativeAgentSchema string `json:"declarativeAgentSchema" yaml:"declarativeAgentSchema"`
	PluginSchema           string `json:"pluginSchema" yaml:"pluginSchema"`
}

// Defaults returns the fallback versions.
func Defaults() Versions {
	return Versions{
		Manifest:               DefaultManifest,
		DeclarativeAgentSchema: DefaultDeclarativeAgent,
		PluginSchema:           DefaultPlugin,
	}
}

// Read loads versions from the source manifests. A missing file or an empty
// field keeps the default; a file that exists but cannot be read or decoded
// is an error.
func Read(src Sources) (Versions, error) {
	v := Defaults()
	fields := []struct {
		path, key string
		dst       *string
	}{
		{src.Manifest, "version", &v.Manifest},
		{src.DeclarativeAgent, "version", &v.DeclarativeAgentSchema},
		{src.Plugin, "schema_version", &v.PluginSchema},
	}
	for _, f := range fields {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		doc, err := document.Load(f.path, "manifest")
		if err != nil {
			return Versions{}, err
		}
		if s, ok := document.String(doc, f.key); ok && s != "" {
			*f.dst = s
		}
	}
	return v, nil
}

// Replace substitutes every placeholder in text.
func (v Versions) Replace(text string) string {
	return strings.NewReplacer(
		ManifestPlaceholder, v.Manifest,
		DeclarativeAgentPlaceholder, v.DeclarativeAgentSchema,
		PluginPlaceholder, v.PluginSchema,
	).Replace(text)
}

// HasPlaceholders reports whether text carries the manifest version
// placeholder, which marks instructions as not yet injected.
func HasPlaceholders(text string) bool {
	return strings.Contains(text, ManifestPlaceholder)
}
