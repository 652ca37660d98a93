// Package config resolves the file layout of a roadmap agent project.
//
// Defaults describe the standard layout. An optional specguard.yaml at the
// project root overrides them, and SPECGUARD_* environment variables
// override the file. Relative paths are resolved against the root.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"go.yaml.in/yaml/v4"

	"github.com/mjfusa/specguard/buildcheck"
	"github.com/mjfusa/specguard/critical"
	"github.com/mjfusa/specguard/oaserrors"
	"github.com/mjfusa/specguard/versions"
)

// FileName is the project configuration file looked up at the root.
const FileName = "specguard.yaml"

// Environment variables read by Load.
const (
	EnvRoot          = "SPECGUARD_ROOT"
	EnvSpec          = "SPECGUARD_SPEC"
	EnvBaseline      = "SPECGUARD_BASELINE"
	EnvSchema        = "SPECGUARD_SCHEMA"
	EnvStrictTargets = "SPECGUARD_STRICT_TARGETS"
)

// Config holds project paths and tool defaults.
type Config struct {
	// Root is the project root. It is never read from specguard.yaml.
	Root string `yaml:"-"`

	Spec             string   `yaml:"spec"`
	Baseline         string   `yaml:"baseline"`
	Manifest         string   `yaml:"manifest"`
	DeclarativeAgent string   `yaml:"declarativeAgent"`
	Plugin           string   `yaml:"plugin"`
	Instructions     string   `yaml:"instructions"`
	BuildFiles       []string `yaml:"buildFiles"`
	PackageJSON      string   `yaml:"packageJson"`

	// Rules is a buildcheck rule file. Empty uses the embedded rules.
	Rules string `yaml:"rules,omitempty"`
	// Overlays are user overlays applied by postprocess after the built-ins.
	Overlays []string `yaml:"overlays,omitempty"`

	// RequiredSchema is the schema whose required list validate compares.
	RequiredSchema string `yaml:"requiredSchema"`
	// StrictTargets makes unmatched overlay targets fatal.
	StrictTargets bool `yaml:"strictTargets"`
}

// Default returns the standard project layout rooted at root.
func Default(root string) *Config {
	return &Config{
		Root:             root,
		Spec:             "appPackage/apiSpecificationFile/roadmap-openapi.json",
		Baseline:         "appPackage/apiSpecificationFile/archive/roadmap-openapi.original.json",
		Manifest:         "appPackage/manifest.json",
		DeclarativeAgent: "appPackage/declarativeAgent.json",
		Plugin:           "appPackage/ai-plugin.json",
		Instructions:     "appPackage/instructions.md",
		BuildFiles: []string{
			"appPackage/build/declarativeAgent.dev.json",
			"appPackage/build/declarativeAgent.production.json",
		},
		PackageJSON:    "package.json",
		RequiredSchema: critical.DefaultRequiredSchema,
	}
}

// Load builds the configuration for root. An empty root falls back to
// SPECGUARD_ROOT and then to the working directory. A missing
// specguard.yaml is not an error.
func Load(root string) (*Config, error) {
	if root == "" {
		root = os.Getenv(EnvRoot)
	}
	if root == "" {
		root = "."
	}

	cfg := Default(root)
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path) //nolint:gosec // G304 - path is derived from the project root
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &oaserrors.ParseError{Path: path, Message: "invalid configuration", Cause: err}
		}
		cfg.Root = root
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, &oaserrors.InputError{Path: path, Role: "config", Cause: err}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSpec); v != "" {
		c.Spec = v
	}
	if v := os.Getenv(EnvBaseline); v != "" {
		c.Baseline = v
	}
	if v := os.Getenv(EnvSchema); v != "" {
		c.RequiredSchema = v
	}
	c.StrictTargets = envBool(EnvStrictTargets, c.StrictTargets)
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

// Validate reports paths that must not be empty.
func (c *Config) Validate() error {
	required := []struct {
		option, value string
	}{
		{"spec", c.Spec},
		{"instructions", c.Instructions},
		{"packageJson", c.PackageJSON},
	}
	for _, r := range required {
		if r.value == "" {
			return &oaserrors.ConfigError{Option: r.option, Message: "must not be empty"}
		}
	}
	return nil
}

// Path resolves p against the root. Absolute paths and "" are returned
// unchanged.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, filepath.FromSlash(p))
}

// SpecPath is the resolved generated document path.
func (c *Config) SpecPath() string { return c.Path(c.Spec) }

// BaselinePath is the resolved baseline document path.
func (c *Config) BaselinePath() string { return c.Path(c.Baseline) }

// RulesPath is the resolved rule file path, or "" for the embedded rules.
func (c *Config) RulesPath() string { return c.Path(c.Rules) }

// OverlayPaths returns the resolved user overlay paths.
func (c *Config) OverlayPaths() []string {
	out := make([]string, 0, len(c.Overlays))
	for _, o := range c.Overlays {
		out = append(out, c.Path(o))
	}
	return out
}

// VersionSources returns the files version strings are read from.
func (c *Config) VersionSources() versions.Sources {
	return versions.Sources{
		Manifest:         c.Path(c.Manifest),
		DeclarativeAgent: c.Path(c.DeclarativeAgent),
		Plugin:           c.Path(c.Plugin),
	}
}

// VersionTargets returns the files version strings are written to.
func (c *Config) VersionTargets() versions.Targets {
	t := versions.Targets{Instructions: c.Path(c.Instructions)}
	for _, f := range c.BuildFiles {
		t.BuildFiles = append(t.BuildFiles, c.Path(f))
	}
	return t
}

// Project returns the buildcheck view of the configuration.
func (c *Config) Project() buildcheck.Project {
	return buildcheck.Project{
		Root:        c.Root,
		Spec:        c.SpecPath(),
		Baseline:    c.BaselinePath(),
		PackageJSON: c.Path(c.PackageJSON),
	}
}
