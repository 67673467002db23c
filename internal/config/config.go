// Package config loads CLI settings from deckcodec.yaml and DECKCODEC_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tsawler/deckcodec/export"
	"github.com/tsawler/deckcodec/internal/logging"
	"github.com/tsawler/deckcodec/pptx"
)

// EnvPrefix is prepended to every environment override, e.g.
// DECKCODEC_LOG_LEVEL for log.level.
const EnvPrefix = "DECKCODEC"

// Config holds the settings shared by CLI commands.
type Config struct {
	Log    LogConfig
	Import ImportConfig
	Export ExportConfig

	// File is the config file that was read, empty when none was found.
	File string
}

// LogConfig selects the level and handler of the CLI logger.
type LogConfig struct {
	Level  string
	Format string
}

// ImportConfig tunes decoding.
type ImportConfig struct {
	Workers int
}

// ExportConfig tunes package writing.
type ExportConfig struct {
	Author  string
	Workers int
}

// Logging converts the log settings for logging.New.
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}

// Load reads configuration. An explicit path must exist; otherwise
// deckcodec.yaml is searched in the working directory then $HOME, and a
// missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("deckcodec")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Import: ImportConfig{Workers: v.GetInt("import.workers")},
		Export: ExportConfig{
			Author:  v.GetString("export.author"),
			Workers: v.GetInt("export.workers"),
		},
		File: v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := pptx.DefaultOptions()
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("import.workers", d.Workers)
	v.SetDefault("export.author", export.DefaultAuthor)
	v.SetDefault("export.workers", export.DefaultOptions().Workers)
}

// Validate rejects settings the codec cannot run with.
func (c *Config) Validate() error {
	if c.Import.Workers < 1 {
		return fmt.Errorf("import.workers must be at least 1, got %d", c.Import.Workers)
	}
	if c.Export.Workers < 1 {
		return fmt.Errorf("export.workers must be at least 1, got %d", c.Export.Workers)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
