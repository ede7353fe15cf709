// Package config loads kestrel.yml, the optional per-user wizard defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// TelemetryConfig controls the telemetry sink.
type TelemetryConfig struct {
	Enabled bool
	Path    string
}

// Config holds wizard defaults. Every field has a working zero-config
// fallback; kestrel.yml only overrides them.
type Config struct {
	TemplatesDir string
	OutputDir    string
	Framework    string
	Telemetry    TelemetryConfig
}

// Load reads kestrel.yml from dir (falling back to the working directory)
// plus KESTREL_* environment overrides. A missing file is not an error.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = "."
	}

	v := viper.New()
	v.SetConfigName("kestrel")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.AutomaticEnv()
	v.SetEnvPrefix("KESTREL")

	v.SetDefault("templates.dir", defaultTemplatesDir())
	v.SetDefault("output.dir", ".")
	v.SetDefault("framework", "go")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.path", defaultTelemetryPath())

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("reading kestrel.yml: %w", err)
		}
	}

	return &Config{
		TemplatesDir: v.GetString("templates.dir"),
		OutputDir:    v.GetString("output.dir"),
		Framework:    v.GetString("framework"),
		Telemetry: TelemetryConfig{
			Enabled: v.GetBool("telemetry.enabled"),
			Path:    v.GetString("telemetry.path"),
		},
	}, nil
}

func defaultTemplatesDir() string {
	if env := os.Getenv("KESTREL_TEMPLATES_DIR"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "templates"
	}
	return filepath.Join(home, ".kestrel", "templates")
}

func defaultTelemetryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "kestrel-telemetry.log"
	}
	return filepath.Join(home, ".kestrel", "telemetry.log")
}
