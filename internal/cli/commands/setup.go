package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/jqlint/internal/cli/config"
	"github.com/leapstack-labs/jqlint/internal/cli/output"
	"github.com/leapstack-labs/jqlint/internal/starlark"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	_ "github.com/leapstack-labs/jqlint/pkg/lint/jquery/rules" // register built-in rules
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext. format overrides the
// configured output mode when non-empty.
func NewCommandContext(cmd *cobra.Command, format string) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.Output)
	if format != "" {
		mode = output.Mode(format)
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to defaults
// with the cache turned off.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		RulesDir: config.DefaultRulesDir,
		Cache:    "off",
		Output:   config.DefaultOutput,
	}
}

// loadRules returns the built-in rules followed by the rules declared in
// the project's rules directory. A project rule may not reuse a built-in
// name.
func loadRules(cfg *config.Config, logger *slog.Logger) ([]lint.Rule, error) {
	rules := lint.All()
	if cfg.RulesDir == "" {
		return rules, nil
	}

	custom, err := starlark.NewLoader(cfg.RulesDir, logger).Load()
	if err != nil {
		return nil, err
	}
	for _, rule := range custom {
		if _, ok := lint.Get(rule.Name); ok {
			return nil, fmt.Errorf("rule %q in %s conflicts with a built-in rule", rule.Name, cfg.RulesDir)
		}
	}
	if len(custom) > 0 {
		logger.Debug("loaded project rules", slog.Int("count", len(custom)), slog.String("dir", cfg.RulesDir))
	}
	return append(rules, custom...), nil
}
