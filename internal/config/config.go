package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/jackalchenxu/parse-idl/internal/errors"
)

// Config holds all configuration for the generator
type Config struct {
	Input    string    `mapstructure:"input"`
	Output   string    `mapstructure:"output"`
	Package  string    `mapstructure:"package"`
	Workers  int       `mapstructure:"workers"`
	Manifest bool      `mapstructure:"manifest"`
	Watch    bool      `mapstructure:"watch"`
	Log      LogConfig `mapstructure:"log"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Input:   ".",
		Output:  "./generated",
		Workers: 1,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers the default values with v so that environment
// variables are picked up for every key.
func SetDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("input", def.Input)
	v.SetDefault("output", def.Output)
	v.SetDefault("package", def.Package)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("manifest", def.Manifest)
	v.SetDefault("watch", def.Watch)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
}

// Load loads configuration from file and environment using the global viper instance
func Load(configPath string) (*Config, error) {
	return LoadFrom(viper.GetViper(), configPath)
}

// LoadFrom loads configuration into v from configPath, or from
// .parse-idl.yaml in the working or home directory, plus PARSE_IDL_*
// environment variables.
func LoadFrom(v *viper.Viper, configPath string) (*Config, error) {
	cfg := DefaultConfig()
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(".parse-idl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	// Environment variables
	v.SetEnvPrefix("PARSE_IDL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the generator cannot run with.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.InvalidConfig("input directory is required")
	}
	if c.Output == "" {
		return errors.InvalidConfig("output directory is required")
	}
	if c.Workers < 1 {
		return errors.InvalidConfig(fmt.Sprintf("workers must be at least 1, got %d", c.Workers))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.InvalidConfig(fmt.Sprintf("unknown log format %q", c.Log.Format))
	}
	return nil
}

// SlogLevel returns the configured level as an slog.Level.
func (c *LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.InvalidConfig(fmt.Sprintf("unknown log level %q", c.Level))
	}
}
