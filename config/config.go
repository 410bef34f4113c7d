// Package config loads inspecta settings from an optional file, INSPECTA_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. INSPECTA_FONTS_DIR.
const EnvPrefix = "INSPECTA"

// Config holds all settings.
type Config struct {
	Fonts   FontsConfig
	Schema  SchemaConfig
	Log     LogConfig
	Storage StorageConfig
}

// FontsConfig locates the TTF files declared by the schema.
type FontsConfig struct {
	Dir string
}

// SchemaConfig selects the form schema. An empty path uses the built-in form.
type SchemaConfig struct {
	Path string
}

// LogConfig mirrors logger.Config.
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// StorageConfig configures where generated documents are kept.
type StorageConfig struct {
	BasePath string
	BaseURL  string
}

// Load reads configuration.
// Priority (highest to lowest):
// 1. Environment variables with INSPECTA_ prefix (e.g., INSPECTA_LOG_LEVEL)
// 2. The file at path, or inspecta.{yaml,toml,json} in . and ./config when path is empty
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("inspecta")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Fonts: FontsConfig{
			Dir: v.GetString("fonts.dir"),
		},
		Schema: SchemaConfig{
			Path: v.GetString("schema.path"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Storage: StorageConfig{
			BasePath: v.GetString("storage.base_path"),
			BaseURL:  v.GetString("storage.base_url"),
		},
	}

	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Fonts.Dir == "" {
		cfg.Fonts.Dir = "fonts"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./output/inspections"
	}
	if cfg.Storage.BaseURL == "" {
		cfg.Storage.BaseURL = "/inspections"
	}
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console; got %q", c.Log.Format)
	}
	return nil
}
