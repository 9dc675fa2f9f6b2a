package lint

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/leapstack-labs/jqlint/pkg/ast"
)

// Runner dispatches AST events to rule visitors.
type Runner struct {
	config   *Config
	settings *Settings
	logger   *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger handed to rule contexts.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner. Nil config and settings fall back to defaults.
func NewRunner(config *Config, settings *Settings, opts ...RunnerOption) *Runner {
	if config == nil {
		config = NewConfig()
	}
	if settings == nil {
		settings = DefaultSettings()
	}
	r := &Runner{
		config:   config,
		settings: settings,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Settings returns the settings shared by every rule of this runner.
func (r *Runner) Settings() *Settings {
	return r.settings
}

// Run lints f with rules in a single traversal. Rules are dispatched in
// name order; disabled rules are skipped. Diagnostics are returned sorted
// by position.
func (r *Runner) Run(f *ast.File, rules []Rule) []Diagnostic {
	if f == nil || f.Root == nil {
		return nil
	}

	active := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if r.config.IsDisabled(rule.Name) {
			continue
		}
		active = append(active, rule)
	}
	slices.SortStableFunc(active, func(a, b Rule) int {
		return cmp.Compare(a.Name, b.Name)
	})

	var diagnostics []Diagnostic
	handlers := make(map[Selector][]func(ast.Node))
	for _, rule := range active {
		ctx := &Context{
			RuleID:   rule.Name,
			File:     f,
			Settings: r.settings,
			Options:  r.config.GetRuleOptions(rule.Name),
			Logger:   r.logger.With("rule", rule.Name),
			rule:     rule,
			severity: r.config.GetSeverity(rule.Name, rule.DefaultSeverity()),
			sink:     &diagnostics,
		}
		if rule.Create == nil {
			continue
		}
		for sel, fn := range rule.Create(ctx) {
			if fn != nil {
				handlers[sel] = append(handlers[sel], fn)
			}
		}
	}
	if len(handlers) == 0 {
		return nil
	}

	ast.Inspect(f.Root, func(n ast.Node) bool {
		for _, fn := range handlers[Selector(n.Kind())] {
			fn(n)
		}
		return true
	}, func(n ast.Node) {
		for _, fn := range handlers[Selector(n.Kind()+":exit")] {
			fn(n)
		}
	})

	r.logger.Debug("linted file",
		"path", f.Path,
		"rules", len(active),
		"diagnostics", len(diagnostics))

	SortDiagnostics(diagnostics)
	return diagnostics
}

// RunRegistered lints f with every rule in the global registry.
func (r *Runner) RunRegistered(f *ast.File) []Diagnostic {
	return r.Run(f, All())
}

// SortDiagnostics orders diagnostics by position, then rule name.
func SortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Pos.Offset, b.Pos.Offset); c != 0 {
			return c
		}
		return cmp.Compare(a.RuleID, b.RuleID)
	})
}

// sortEdits orders edits from the end of the file to the start.
func sortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		return cmp.Compare(b.Pos.Offset, a.Pos.Offset)
	})
}
