package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/jqlint/internal/cli/config"
	"github.com/leapstack-labs/jqlint/internal/cli/output"
	"github.com/leapstack-labs/jqlint/internal/engine"
	"github.com/leapstack-labs/jqlint/internal/state"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/spf13/cobra"
)

// ErrLintIssues is returned when a lint run reports diagnostics at or above
// the severity threshold. The root command maps it to exit status 1 without
// printing it.
var ErrLintIssues = errors.New("lint issues found")

// LintOptions holds options for the lint command.
type LintOptions struct {
	Paths    []string // Files or directories to lint
	Format   string   // Output format: text, json, yaml
	Disable  []string // Rule names to disable
	Severity string   // Minimum severity: error, warning, info, hint
	Rules    []string // Run only specific rules
	Fix      bool     // Write fixes back to files
	Watch    bool     // Re-lint on change
	Jobs     int      // Parallel workers
	NoCache  bool     // Ignore the result cache
}

// NewLintCommand creates the lint command.
func NewLintCommand(version string) *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Report jQuery usage in JavaScript sources",
		Long: `Analyze JavaScript and TypeScript files for jQuery calls that have
native replacements.

Directories are searched recursively; node_modules and hidden directories
are skipped. Rules can be configured in jqlint.yaml, and project rules are
loaded from the rules directory.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Plain text
  - JSON/YAML: Machine-readable format`,
		Example: `  # Lint the current directory
  jqlint lint

  # Lint specific paths
  jqlint lint src/app.js src/widgets

  # Output as JSON
  jqlint lint --format json

  # Disable specific rules
  jqlint lint --disable no-ajax,no-css

  # Only report errors
  jqlint lint --severity error

  # Apply available fixes
  jqlint lint --fix`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return runLint(cmd, opts, version)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, yaml")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule names to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().BoolVar(&opts.Fix, "fix", false, "Write available fixes to files")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-lint when files change")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Number of files linted in parallel (default: number of CPUs)")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Ignore the result cache")

	return cmd
}

func runLint(cmd *cobra.Command, opts *LintOptions, version string) error {
	if _, ok := lint.ParseSeverity(opts.Severity); !ok {
		return fmt.Errorf("invalid severity %q: must be one of error, warning, info, hint", opts.Severity)
	}

	if opts.Watch && opts.Fix {
		return fmt.Errorf("--fix cannot be combined with --watch")
	}

	cmdCtx := NewCommandContext(cmd, opts.Format)
	eng, err := newEngine(cmd.Context(), cmdCtx, opts, version)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	if opts.Watch {
		return watchLint(cmd, cmdCtx, eng, opts)
	}
	return lintOnce(cmd, cmdCtx, eng, opts)
}

// newEngine builds a lint engine from the loaded configuration and the
// command line.
func newEngine(ctx context.Context, cmdCtx *CommandContext, opts *LintOptions, version string) (*engine.Engine, error) {
	cfg := cmdCtx.Cfg

	rules, err := loadRules(cfg, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	if err := checkRuleNames(rules, opts.Rules, opts.Disable); err != nil {
		return nil, err
	}

	lintCfg, err := buildLintConfig(cfg, opts, rules)
	if err != nil {
		return nil, err
	}
	settings, err := cfg.LintSettings()
	if err != nil {
		return nil, err
	}

	cachePath := cfg.Cache
	if opts.NoCache {
		cachePath = ""
	}

	return engine.New(ctx, engine.Config{
		Rules:            rules,
		Lint:             lintCfg,
		Settings:         settings,
		CachePath:        cachePath,
		Version:          version,
		FingerprintParts: rulesDigest(cfg.RulesDir),
		Jobs:             opts.Jobs,
		Logger:           cmdCtx.Logger,
	})
}

// buildLintConfig merges the project lint block with command line options.
// Command line options take precedence.
func buildLintConfig(cfg *config.Config, opts *LintOptions, rules []lint.Rule) (*lint.Config, error) {
	lintCfg := lint.NewConfig()

	// Apply project config first (lower precedence)
	if cfg != nil {
		projectCfg, err := cfg.RuleConfig()
		if err != nil {
			return nil, err
		}
		lintCfg = projectCfg
	}

	// Apply CLI overrides (higher precedence)
	for _, name := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(name))
	}

	// If --rule specified, disable all others
	if len(opts.Rules) > 0 {
		enabled := make(map[string]bool)
		for _, name := range opts.Rules {
			enabled[strings.TrimSpace(name)] = true
		}
		for _, rule := range rules {
			if !enabled[rule.Name] {
				lintCfg.Disable(rule.Name)
			}
		}
	}

	return lintCfg, nil
}

// checkRuleNames rejects rule names that match no loaded rule.
func checkRuleNames(rules []lint.Rule, lists ...[]string) error {
	known := make([]string, 0, len(rules))
	for _, rule := range rules {
		known = append(known, rule.Name)
	}
	for _, list := range lists {
		for _, name := range list {
			name = strings.TrimSpace(name)
			if !slices.Contains(known, name) {
				return unknownRuleError(name, known)
			}
		}
	}
	return nil
}

// rulesDigest returns the content hashes of the project rule files so that
// editing a rule invalidates cached results.
func rulesDigest(dir string) []string {
	if dir == "" {
		return nil
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*.star"))
	slices.Sort(matches)
	parts := make([]string, 0, len(matches))
	for _, path := range matches {
		src, err := os.ReadFile(path) //nolint:gosec // G304: path comes from Glob over the rules dir
		if err != nil {
			continue
		}
		parts = append(parts, filepath.Base(path)+"="+state.HashContent(src))
	}
	return parts
}

// lintOnce discovers, lints and renders one time.
func lintOnce(cmd *cobra.Command, cmdCtx *CommandContext, eng *engine.Engine, opts *LintOptions) error {
	ctx := cmd.Context()

	files, err := engine.Discover(opts.Paths)
	if err != nil {
		return err
	}

	res, err := eng.Run(ctx, files)
	if err != nil {
		return err
	}

	fixed := 0
	if opts.Fix {
		fixed, err = eng.Fix(ctx, res)
		if err != nil {
			return err
		}
		if fixed > 0 {
			// Report what is left after fixing.
			if res, err = eng.Run(ctx, files); err != nil {
				return err
			}
		}
	}

	threshold, _ := lint.ParseSeverity(opts.Severity)
	results := filterBySeverity(res.Files, threshold)

	if err := renderLintResults(cmdCtx.Renderer, results, lintSummary(res, results, fixed)); err != nil {
		return err
	}
	if len(results) > 0 {
		return ErrLintIssues
	}
	return nil
}

// filterBySeverity keeps the diagnostics at or above threshold and drops
// files left without any.
func filterBySeverity(files []engine.FileResult, threshold lint.Severity) []engine.FileResult {
	var filtered []engine.FileResult
	for _, f := range files {
		var diags []lint.Diagnostic
		for _, d := range f.Diagnostics {
			if d.Severity <= threshold {
				diags = append(diags, d)
			}
		}
		if len(diags) > 0 {
			filtered = append(filtered, engine.FileResult{
				Path:        f.Path,
				Diagnostics: diags,
			})
		}
	}
	return filtered
}

// LintSummary counts the reported diagnostics.
type LintSummary struct {
	FilesLinted int `json:"files_linted" yaml:"files_linted"`
	FilesCached int `json:"files_cached" yaml:"files_cached"`
	TotalIssues int `json:"total_issues" yaml:"total_issues"`
	Errors      int `json:"errors" yaml:"errors"`
	Warnings    int `json:"warnings" yaml:"warnings"`
	Info        int `json:"info" yaml:"info"`
	Hints       int `json:"hints" yaml:"hints"`
	Fixed       int `json:"fixed,omitempty" yaml:"fixed,omitempty"`
}

// LintOutput is the structured output of the lint command.
type LintOutput struct {
	Files   []engine.FileResult `json:"files" yaml:"files"`
	Summary LintSummary         `json:"summary" yaml:"summary"`
}

func lintSummary(res *engine.Result, results []engine.FileResult, fixed int) LintSummary {
	summary := LintSummary{
		FilesLinted: len(res.Files),
		FilesCached: res.Cached(),
		Fixed:       fixed,
	}
	for _, f := range results {
		summary.TotalIssues += len(f.Diagnostics)
		for _, d := range f.Diagnostics {
			switch d.Severity {
			case lint.SeverityError:
				summary.Errors++
			case lint.SeverityWarning:
				summary.Warnings++
			case lint.SeverityInfo:
				summary.Info++
			case lint.SeverityHint:
				summary.Hints++
			}
		}
	}
	return summary
}

func renderLintResults(r *output.Renderer, results []engine.FileResult, summary LintSummary) error {
	if results == nil {
		results = []engine.FileResult{}
	}
	if ok, err := r.Structured(LintOutput{Files: results, Summary: summary}); ok {
		return err
	}

	styles := r.Styles()
	if summary.Fixed > 0 {
		r.Println(styles.Success.Render(fmt.Sprintf("Fixed %d problems", summary.Fixed)))
	}
	if len(results) == 0 {
		r.Println(styles.Success.Render(fmt.Sprintf("No lint issues found in %d files", summary.FilesLinted)))
		return nil
	}

	for _, res := range results {
		r.Println(styles.Path.Render(displayPath(res.Path)))
		for _, d := range res.Diagnostics {
			loc := fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)
			if d.Pos.Line == 0 {
				loc = "-"
			}
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", loc)),
				styles.Severity(d.Severity).Render(fmt.Sprintf("%-7s", d.Severity.String())),
				d.Message,
				styles.Muted.Render(d.RuleID),
			)
		}
		r.Println("")
	}

	// Print summary
	summaryParts := []string{fmt.Sprintf("%d problems", summary.TotalIssues)}
	if summary.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d hints", summary.Hints))
	}
	r.Printf("Summary: %s in %d files\n", strings.Join(summaryParts, ", "), len(results))
	return nil
}

// displayPath shortens path relative to the working directory when it lies
// below it.
func displayPath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
