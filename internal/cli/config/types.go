// Package config provides configuration management for the jqlint CLI.
//
// Configuration is read from jqlint.yaml, jqlint.yml or jqlint.toml, from
// JQLINT_ environment variables and from command-line flags. The settings
// block is shared by every collection rule; the lint block controls which
// rules run and how.
package config

import (
	"github.com/leapstack-labs/jqlint/pkg/lint"
)

// Default configuration values.
const (
	DefaultRulesDir = ".jqlint/rules"
	DefaultCache    = ".jqlint/cache.db"
	DefaultOutput   = "auto" // Auto-detect: TTY=styled text, non-TTY=plain text
)

// Output formats accepted by the output key.
const (
	OutputAuto = "auto"
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot is the directory relative paths are resolved against.
	// It is not read from configuration.
	ProjectRoot string `koanf:"-"`

	Settings lint.SettingsConfig `koanf:"settings"`
	Lint     LintConfig          `koanf:"lint"`
	RulesDir string              `koanf:"rules_dir"`
	Cache    string              `koanf:"cache"`
	Output   string              `koanf:"output" validate:"omitempty,oneof=auto text json yaml"`
	Verbose  bool                `koanf:"verbose"`
}

// LintConfig selects rules and adjusts their severity and options.
type LintConfig struct {
	Disabled []string                  `koanf:"disabled" validate:"omitempty,dive,required"`
	Severity map[string]string         `koanf:"severity" validate:"omitempty,dive,keys,required,endkeys,oneof=error warning warn info hint"`
	Rules    map[string]map[string]any `koanf:"rules"`
}

// CacheEnabled reports whether lint results should be cached.
func (c *Config) CacheEnabled() bool {
	return c.Cache != "" && c.Cache != "off"
}
