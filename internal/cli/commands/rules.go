package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/jqlint/internal/cli/output"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

// maxSuggestions bounds the "did you mean" list for unknown rule names.
const maxSuggestions = 3

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Type       string // Filter by type: problem, suggestion, layout
	Deprecated bool   // Only deprecated rules
	Verbose    bool   // Show descriptions
	Format     string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-name]",
		Short: "List available lint rules",
		Long: `List the built-in lint rules and the rules declared in the project
rules directory.

Use --verbose to include rule descriptions, or pass a rule name to see
its full documentation.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Plain text
  - JSON/YAML: Machine-readable format`,
		Example: `  # List all rules
  jqlint rules

  # Show details for a specific rule
  jqlint rules no-bind

  # List deprecated rules only
  jqlint rules --deprecated

  # Output as JSON
  jqlint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "Filter by type: problem, suggestion, layout")
	cmd.Flags().BoolVar(&opts.Deprecated, "deprecated", false, "Only list deprecated rules")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show rule descriptions")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, yaml")

	return cmd
}

// ruleInfos returns the metadata of every loaded rule.
func ruleInfos(cmdCtx *CommandContext) ([]lint.RuleInfo, error) {
	rules, err := loadRules(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	infos := make([]lint.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, lint.GetRuleInfo(rule))
	}
	return infos, nil
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	infos, err := ruleInfos(cmdCtx)
	if err != nil {
		return err
	}
	infos = filterRulesByOptions(infos, opts)

	if ok, err := r.Structured(RulesOutput{Rules: infos, Count: len(infos)}); ok {
		return err
	}
	return listRulesText(r, infos, opts.Verbose)
}

func filterRulesByOptions(infos []lint.RuleInfo, opts *RulesOptions) []lint.RuleInfo {
	if opts.Type == "" && !opts.Deprecated {
		return infos
	}

	var filtered []lint.RuleInfo
	for _, info := range infos {
		if opts.Type != "" && string(info.Type) != opts.Type {
			continue
		}
		if opts.Deprecated && !info.Deprecated {
			continue
		}
		filtered = append(filtered, info)
	}
	return filtered
}

// RulesOutput is the structured output for rules listing.
type RulesOutput struct {
	Rules []lint.RuleInfo `json:"rules" yaml:"rules"`
	Count int             `json:"count" yaml:"count"`
}

// listRulesText outputs rules as a table.
func listRulesText(r *output.Renderer, infos []lint.RuleInfo, verbose bool) error {
	styles := r.Styles()

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	header := table.Row{"Rule", "Type", "Severity", "Fixable"}
	if verbose {
		header = append(header, "Description")
	}
	t.AppendHeader(header)

	for _, info := range infos {
		name := info.Name
		if info.Deprecated {
			name += " (deprecated)"
		}
		fixable := ""
		if info.Fixable {
			fixable = "yes"
		}
		row := table.Row{
			name,
			string(info.Type),
			styles.Severity(info.DefaultSeverity).Render(info.DefaultSeverity.String()),
			fixable,
		}
		if verbose {
			row = append(row, info.Description)
		}
		t.AppendRow(row)
	}
	t.Render()

	r.Println("")
	r.Println(styles.Muted.Render(fmt.Sprintf("%d rules. Use 'jqlint rules <rule-name>' for details.", len(infos))))
	return nil
}

func showRule(cmd *cobra.Command, name string, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	infos, err := ruleInfos(cmdCtx)
	if err != nil {
		return err
	}

	var info *lint.RuleInfo
	names := make([]string, 0, len(infos))
	for i := range infos {
		names = append(names, infos[i].Name)
		if infos[i].Name == name {
			info = &infos[i]
		}
	}
	if info == nil {
		return unknownRuleError(name, names)
	}

	if ok, err := r.Structured(info); ok {
		return err
	}
	return showRuleText(r, info)
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, info *lint.RuleInfo) error {
	styles := r.Styles()

	r.Println(styles.Header.Render(info.Name))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Type"), info.Type)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), styles.Severity(info.DefaultSeverity).Render(info.DefaultSeverity.String()))
	r.Printf("  %s: %t\n", styles.Bold.Render("Fixable"), info.Fixable)
	if info.Deprecated {
		replaced := "none"
		if len(info.ReplacedBy) > 0 {
			replaced = strings.Join(info.ReplacedBy, ", ")
		}
		r.Printf("  %s: replaced by %s\n", styles.Bold.Render("Deprecated"), replaced)
	}
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + info.Description)
	r.Println("")

	if len(info.Options) > 0 {
		r.Println(styles.Bold.Render("Options"))
		r.Println("  " + strings.Join(info.Options, ", "))
		r.Println("")
	}

	r.Printf("  %s: %s\n", styles.Bold.Render("Docs"), info.URL)
	return nil
}

// unknownRuleError reports an unknown rule name with the closest matches.
func unknownRuleError(name string, known []string) error {
	matches := fuzzy.Find(name, known)
	if len(matches) == 0 {
		return fmt.Errorf("unknown rule %q", name)
	}
	suggestions := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	return fmt.Errorf("unknown rule %q (did you mean %s?)", name, strings.Join(suggestions, ", "))
}
