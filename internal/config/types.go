// Package config loads linter configuration from .sqlint.yaml files,
// environment variables and CLI flags, and maps it onto the engine's
// configuration model.
package config

import (
	"github.com/sqlint-dev/sqlint/pkg/lint"
)

// Default configuration values.
const (
	DefaultOutput = "text"
)

// Config holds all CLI configuration options.
type Config struct {
	Rules        string                    `koanf:"rules"`
	ExcludeRules string                    `koanf:"exclude_rules"`
	RunawayLimit int                       `koanf:"runaway_limit"`
	Verbose      bool                      `koanf:"verbose"`
	NoColor      bool                      `koanf:"no_color"`
	OutputFormat string                    `koanf:"output"`
	Defaults     map[string]any            `koanf:"defaults"`
	RuleConfigs  map[string]map[string]any `koanf:"rule_configs"`

	// ProjectRoot is the directory the config file was found in, or the
	// working directory when running without one.
	ProjectRoot string `koanf:"-"`
}

// ToLintConfig maps the file-level configuration onto the engine's
// configuration, layering file values over the stock defaults.
func (c *Config) ToLintConfig() *lint.Config {
	cfg := lint.NewConfig().
		WithRules(c.Rules).
		WithExcludeRules(c.ExcludeRules)
	if c.RunawayLimit > 0 {
		cfg.WithRunawayLimit(c.RunawayLimit)
	}
	for k, v := range c.Defaults {
		cfg.SetDefault(k, v)
	}
	for code, opts := range c.RuleConfigs {
		for k, v := range opts {
			cfg.SetRuleOption(code, k, v)
		}
	}
	return cfg
}
