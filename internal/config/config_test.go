package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackalchenxu/parse-idl/internal/errors"
)

func TestLoadFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parse-idl.yaml")
	content := `
input: ./idl
output: ./bindings
package: programs
workers: 4
manifest: true
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "./idl", cfg.Input)
	assert.Equal(t, "./bindings", cfg.Output)
	assert.Equal(t, "programs", cfg.Package)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Manifest)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFrom_Env(t *testing.T) {
	t.Setenv("PARSE_IDL_WORKERS", "3")
	t.Setenv("PARSE_IDL_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	cfg, err := LoadFrom(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ".", cfg.Input)
	assert.Equal(t, "./generated", cfg.Output)
}

func TestLoadFrom_MissingExplicitFile(t *testing.T) {
	_, err := LoadFrom(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"empty input", func(c *Config) { c.Input = "" }},
		{"empty output", func(c *Config) { c.Output = "" }},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
		})
	}

	require.NoError(t, DefaultConfig().Validate())
}

func TestSlogLevel(t *testing.T) {
	levels := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range levels {
		lc := LogConfig{Level: in}
		got, err := lc.SlogLevel()
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}
