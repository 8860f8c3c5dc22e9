package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quorumlabs/council/internal/tracing"

	// Register providers so Validate can check the provider name.
	_ "github.com/quorumlabs/council/internal/gen/claude"
	_ "github.com/quorumlabs/council/internal/gen/genmock"
)

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "claude", cfg.Provider)
	require.Equal(t, 5*time.Minute, cfg.WorkerTimeout)
	require.False(t, cfg.Tracing.Enabled)
}

func TestValidate_Provider(t *testing.T) {
	cfg := Defaults()
	cfg.Provider = "mock"
	require.NoError(t, cfg.Validate())

	cfg.Provider = "carrier-pigeon"
	require.ErrorContains(t, cfg.Validate(), "not available")
}

func TestValidate_RejectsNegativeDurations(t *testing.T) {
	cfg := Defaults()
	cfg.WorkerTimeout = -time.Second
	require.ErrorContains(t, cfg.Validate(), "worker_timeout")

	cfg = Defaults()
	cfg.CacheTTL = -time.Minute
	require.ErrorContains(t, cfg.Validate(), "cache_ttl")

	cfg = Defaults()
	cfg.StreamBuffer = -1
	require.ErrorContains(t, cfg.Validate(), "stream_buffer")
}

func TestValidate_RolesDirMustBeAbsolute(t *testing.T) {
	cfg := Defaults()
	cfg.RolesDir = "relative/roles"
	require.ErrorContains(t, cfg.Validate(), "absolute path")

	cfg.RolesDir = string(filepath.Separator) + filepath.Join("tmp", "roles")
	require.NoError(t, cfg.Validate())

	// The template's own example must validate.
	cfg.RolesDir = "~/.config/council/roles"
	require.NoError(t, cfg.Validate())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, ".config", "council", "roles"),
		ExpandHome("~/.config/council/roles"))
	require.Equal(t, home, ExpandHome("~"))

	// Only a leading "~/" is notation; everything else passes through.
	require.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	require.Equal(t, "relative/path", ExpandHome("relative/path"))
	require.Equal(t, "~user/path", ExpandHome("~user/path"))
	require.Equal(t, "", ExpandHome(""))
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     tracing.Config
		wantErr string
	}{
		{
			name: "defaults valid",
			cfg:  tracing.DefaultConfig(),
		},
		{
			name:    "sample rate out of range",
			cfg:     tracing.Config{SampleRate: 1.5},
			wantErr: "sample_rate",
		},
		{
			name:    "unknown exporter",
			cfg:     tracing.Config{Exporter: "carrier-pigeon", SampleRate: 1.0},
			wantErr: "exporter",
		},
		{
			name:    "file exporter requires path when enabled",
			cfg:     tracing.Config{Enabled: true, Exporter: "file", SampleRate: 1.0},
			wantErr: "file_path is required",
		},
		{
			name:    "otlp exporter requires endpoint when enabled",
			cfg:     tracing.Config{Enabled: true, Exporter: "otlp", SampleRate: 1.0},
			wantErr: "otlp_endpoint is required",
		},
		{
			name: "disabled file exporter needs no path",
			cfg:  tracing.Config{Enabled: false, Exporter: "file", SampleRate: 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	require.NoError(t, WriteDefaultConfig(path))

	content, err := os.ReadFile(path) //nolint:gosec // G304: test-controlled path
	require.NoError(t, err)
	require.Contains(t, string(content), "provider: claude")
	require.Contains(t, string(content), "worker_timeout: 5m")
}
