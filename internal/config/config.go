package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cartola-dev/cartola/internal/extract"
	"github.com/cartola-dev/cartola/internal/model"
	"github.com/cartola-dev/cartola/internal/reconcile"
)

// Config represents the top-level cartola.yaml configuration.
type Config struct {
	Source           string         `yaml:"source"`
	TolerancePercent float64        `yaml:"tolerance_percent"`
	Categories       []CategoryRule `yaml:"categories,omitempty"`
}

// CategoryRule overrides one row of the built-in categorization table.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Load reads a cartola.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Source:           extract.DefaultSource,
		TolerancePercent: reconcile.DefaultTolerancePercent,
	}
}

// Rules converts the configured category overrides to extractor rules.
// Returns nil when no overrides are set, which selects the built-in table.
func (c *Config) Rules() []extract.Rule {
	if len(c.Categories) == 0 {
		return nil
	}
	rules := make([]extract.Rule, 0, len(c.Categories))
	for _, cr := range c.Categories {
		rules = append(rules, extract.Rule{
			Category: model.Category(cr.Category),
			Keywords: cr.Keywords,
		})
	}
	return rules
}
