// Package config provides configuration types and defaults for council.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quorumlabs/council/internal/gen"
	"github.com/quorumlabs/council/internal/log"
	"github.com/quorumlabs/council/internal/tracing"
)

// Config holds all configuration options for council.
type Config struct {
	// Provider selects the generation backend: "claude" (default) or "mock".
	Provider string `mapstructure:"provider"`

	// Model is passed through to the provider (e.g. "sonnet", "opus").
	Model string `mapstructure:"model"`

	// WorkerTimeout bounds each analyst invocation.
	WorkerTimeout time.Duration `mapstructure:"worker_timeout"`

	// StreamBuffer sizes the run event channel. Zero uses the default.
	StreamBuffer int `mapstructure:"stream_buffer"`

	// CacheTTL controls how long successful generations are memoized.
	// Zero uses the default; caching is disabled with --no-cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// RolesDir overrides the user role template directory.
	// Default: ~/.config/council/roles
	RolesDir string `mapstructure:"roles_dir"`

	Tracing tracing.Config `mapstructure:"tracing"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Provider:      "claude",
		Model:         "",
		WorkerTimeout: 5 * time.Minute,
		StreamBuffer:  0,
		CacheTTL:      0,
		RolesDir:      "",
		Tracing:       tracing.DefaultConfig(),
	}
}

// Validate checks the configuration for errors. Empty values fall back to
// defaults and are not errors.
func (c Config) Validate() error {
	if c.Provider != "" && !gen.IsRegistered(gen.ProviderType(c.Provider)) {
		return fmt.Errorf("provider %q is not available (registered: %v)", c.Provider, gen.Registered())
	}
	if c.WorkerTimeout < 0 {
		return fmt.Errorf("worker_timeout must not be negative, got %v", c.WorkerTimeout)
	}
	if c.StreamBuffer < 0 {
		return fmt.Errorf("stream_buffer must not be negative, got %d", c.StreamBuffer)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative, got %v", c.CacheTTL)
	}
	if c.RolesDir != "" && !filepath.IsAbs(ExpandHome(c.RolesDir)) {
		return fmt.Errorf("roles_dir must be an absolute path, got %q", c.RolesDir)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}

	if tc.Exporter != "" {
		switch tc.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
		}
	}

	if tc.Enabled {
		if tc.Exporter == "file" && tc.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tc.Exporter == "otlp" && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// ExpandHome expands a leading "~" or "~/" to the user's home directory, so
// config values can use the same notation the template examples show. Paths
// without the prefix pass through unchanged, as does "~" when the home
// directory cannot be determined.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/council/traces/traces.jsonl or empty string if home dir
// unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "council", "traces", "traces.jsonl")
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Council Configuration

# Generation provider: "claude" (default) or "mock"
provider: claude

# Model passed to the provider (empty uses the provider's default)
# model: sonnet

# Per-analyst invocation timeout
worker_timeout: 5m

# Run event channel buffer (0 uses the built-in default)
# stream_buffer: 64

# How long successful analyses are memoized (0 uses the built-in default)
# cache_ttl: 15m

# Directory of user role templates overriding the built-in set
# roles_dir: ~/.config/council/roles

# Distributed tracing configuration
# Enables end-to-end visibility into a run's fan-out and aggregation
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/council/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
#
# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1  # Sample 10% of traces
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// DefaultConfigPath returns ~/.config/council/config.yml, or empty string if
// the home dir is unavailable.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "council", "config.yml")
}
