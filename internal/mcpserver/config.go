package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/mjfusa/specguard/critical"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Document cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	// MaxInlineSize bounds inline document content in bytes.
	MaxInlineSize int64

	// Tool defaults.
	RequiredSchema  string
	StrictTargets   bool
	CompareElements bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from SPECGUARD_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("SPECGUARD_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("SPECGUARD_CACHE_MAX_SIZE", 10),
		CacheTTL:           envDuration("SPECGUARD_CACHE_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("SPECGUARD_CACHE_SWEEP_INTERVAL", 60*time.Second),
		MaxInlineSize:      int64(envInt("SPECGUARD_MAX_INLINE_SIZE", 10*1024*1024)),
		RequiredSchema:     envString("SPECGUARD_SCHEMA", critical.DefaultRequiredSchema),
		StrictTargets:      envBool("SPECGUARD_STRICT_TARGETS", false),
		CompareElements:    envBool("SPECGUARD_COMPARE_ELEMENTS", false),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
