package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/weekplan/core/factory"
	"github.com/kilianp07/weekplan/core/model"
	"github.com/kilianp07/weekplan/core/optimizer"
	"github.com/kilianp07/weekplan/core/prediction"
	"github.com/kilianp07/weekplan/core/solver"
)

// EnvPrefix marks environment variables that override file values.
// Nested keys are separated by a double underscore.
const EnvPrefix = "WEEKPLAN_"

// Config is the application configuration.
type Config struct {
	// Preferences are applied to requests that do not set them.
	Preferences model.Preferences    `json:"preferences"`
	Forecast    factory.ModuleConfig `json:"forecast"`
	Solver      factory.ModuleConfig `json:"solver"`
	Optimizer   optimizer.Config     `json:"optimizer"`
	Logging     LoggingConfig        `json:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Preferences: model.DefaultPreferences()}
	cfg.SetDefaults()
	return cfg
}

// Load reads a YAML or JSON file and applies environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	cfg := Config{Preferences: model.DefaultPreferences()}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	if c.Forecast.Type == "" {
		c.Forecast.Type = prediction.TypeSeasonal
	}
	if c.Solver.Type == "" {
		c.Solver.Type = solver.TypeBranchAndBound
	}
	c.Optimizer.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Preferences.Validate(); err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	if names := prediction.NewRegistry().Names(); !slices.Contains(names, c.Forecast.Type) {
		return fmt.Errorf("forecast: unknown type %q (want one of %v)", c.Forecast.Type, names)
	}
	if names := solver.NewRegistry().Names(); !slices.Contains(names, c.Solver.Type) {
		return fmt.Errorf("solver: unknown type %q (want one of %v)", c.Solver.Type, names)
	}
	if err := c.Optimizer.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
