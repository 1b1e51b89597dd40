// Package config loads the demo binary configuration from an optional
// YAML file and REACTION_ environment variables.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	LogLevel string        `koanf:"log_level"`
	Tracing  bool          `koanf:"tracing"`
	History  HistoryConfig `koanf:"history"`
	Drawing  DrawingConfig `koanf:"drawing"`
}

type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

type DrawingConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Load reads configuration from the YAML file at path (skipped when
// empty) and then from REACTION_ environment variables, which take
// precedence.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "unable to load config file %s", path)
		}
	}

	if err := k.Load(env.Provider("REACTION_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "REACTION_")), "__", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, "unable to load environment")
	}

	defaults := map[string]interface{}{
		"log_level":    "info",
		"tracing":      false,
		"history.path": "data/reaction.db",
		"drawing.path": "reaction.dot",
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			_ = k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal config")
	}

	return &cfg, nil
}
