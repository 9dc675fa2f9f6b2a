// Package engine lints JavaScript sources with a fixed set of rules.
// It handles file discovery, parallel linting, the result cache and fixes.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"

	"github.com/leapstack-labs/jqlint/internal/state"
	"github.com/leapstack-labs/jqlint/pkg/lint"
)

// Engine lints files with one rule set and one configuration.
type Engine struct {
	rules       []lint.Rule
	runner      *lint.Runner
	settings    *lint.Settings
	store       *state.Store
	fingerprint string
	version     string
	jobs        int

	// Structured logger
	logger *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Rules is the rule set applied to every file
	Rules []lint.Rule
	// Lint controls disabled rules, severities and rule options
	Lint *lint.Config
	// Settings is shared by every collection rule
	Settings *lint.Settings
	// CachePath is the path to the SQLite result cache. Empty or "off" disables it.
	CachePath string
	// Version is recorded with each run and invalidates cached results on upgrade
	Version string
	// FingerprintParts are extra inputs that change what rules report,
	// such as the contents of project rule files
	FingerprintParts []string
	// Jobs bounds parallel linting; zero means GOMAXPROCS
	Jobs int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine. The result cache is opened when a cache path is set.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Lint == nil {
		cfg.Lint = lint.NewConfig()
	}
	if cfg.Settings == nil {
		cfg.Settings = lint.DefaultSettings()
	}
	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	e := &Engine{
		rules:    slices.Clone(cfg.Rules),
		runner:   lint.NewRunner(cfg.Lint, cfg.Settings, lint.WithLogger(logger)),
		settings: cfg.Settings,
		version:  cfg.Version,
		jobs:     jobs,
		logger:   logger,
	}
	e.fingerprint = fingerprint(cfg)

	logger.Debug("initializing engine",
		"rules", len(e.rules),
		"jobs", jobs,
		"cache", cfg.CachePath)

	if cfg.CachePath != "" && cfg.CachePath != "off" {
		store, err := state.Open(ctx, cfg.CachePath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open lint cache: %w", err)
		}
		e.store = store
	}
	return e, nil
}

// fingerprint identifies everything besides file content that affects the
// diagnostics of a file.
func fingerprint(cfg Config) string {
	parts := []string{cfg.Version, cfg.Settings.Fingerprint()}
	for _, rule := range cfg.Rules {
		parts = append(parts, fmt.Sprintf("%s:%t:%s:%v",
			rule.Name,
			cfg.Lint.IsDisabled(rule.Name),
			cfg.Lint.GetSeverity(rule.Name, rule.DefaultSeverity()),
			cfg.Lint.GetRuleOptions(rule.Name)))
	}
	parts = append(parts, cfg.FingerprintParts...)
	return state.Fingerprint(parts...)
}

// Close releases all resources.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			return fmt.Errorf("errors closing engine: %w", err)
		}
	}
	return nil
}

// Rules returns the rule set of the engine.
func (e *Engine) Rules() []lint.Rule {
	return e.rules
}

// Settings returns the settings shared by the rules.
func (e *Engine) Settings() *lint.Settings {
	return e.settings
}

// Fingerprint returns the cache fingerprint of the engine configuration.
func (e *Engine) Fingerprint() string {
	return e.fingerprint
}

// CacheEnabled reports whether results are cached.
func (e *Engine) CacheEnabled() bool {
	return e.store != nil
}

// GetStateStore returns the result cache, or nil when caching is off.
func (e *Engine) GetStateStore() *state.Store {
	return e.store
}
