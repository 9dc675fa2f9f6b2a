package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/jqlint/pkg/lint"
	_ "github.com/leapstack-labs/jqlint/pkg/lint/jquery/rules"
)

// typeOrder is the order rule types appear in on the rules page.
var typeOrder = []lint.RuleType{lint.TypeProblem, lint.TypeSuggestion, lint.TypeLayout}

// typeDescriptions provides human-readable descriptions for rule types.
var typeDescriptions = map[lint.RuleType]string{
	lint.TypeProblem:    "jQuery APIs that were removed or break in current jQuery releases. Reported as errors.",
	lint.TypeSuggestion: "jQuery APIs with a native DOM or JavaScript replacement. Reported as warnings.",
	lint.TypeLayout:     "Formatting of jQuery code.",
}

// generateRuleDocs generates the rule index and one page per rule.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := lint.All()
	slices.SortFunc(rules, func(a, b lint.Rule) int { return strings.Compare(a.Name, b.Name) })

	if err := generateRulesIndex(outDir, rules); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, rule := range rules {
		if err := generateRulePage(outDir, rule); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", rule.Name, err)
		}
	}
	log.Printf("  Generated %d rule pages", len(rules))

	return nil
}

// generateRulesIndex generates the rule overview page, grouped by type.
func generateRulesIndex(outDir string, rules []lint.Rule) error {
	w := NewMarkdownWriter()
	title := cases.Title(language.English)

	w.Frontmatter("Rules", "Built-in jQuery lint rules")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("jqlint ships %d built-in rules. Every rule is enabled by default.", len(rules)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Default for problem rules"},
			{InlineCode("warning"), "Default for suggestion rules"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules are configured in the `lint` section of `jqlint.yaml`:")
	w.CodeBlock("yaml", `lint:
  disabled: [no-ajax]          # disable rules
  severity:
    no-bind: error             # override severity
  rules:
    no-attr:
      allowGetOrSet: get       # rule-specific option`)

	grouped := make(map[lint.RuleType][]lint.Rule)
	for _, r := range rules {
		grouped[r.Meta.Type] = append(grouped[r.Meta.Type], r)
	}

	for _, typ := range typeOrder {
		group := grouped[typ]
		if len(group) == 0 {
			continue
		}

		w.Line(fmt.Sprintf("## %s {#%s}", title.String(string(typ)), typ))
		w.Newline()
		w.Paragraph(typeDescriptions[typ])

		var rows [][]string
		for _, r := range group {
			name := fmt.Sprintf("[%s](/rules/%s)", InlineCode(r.Name), r.Name)
			var flags []string
			if r.Meta.Fixable {
				flags = append(flags, "fixable")
			}
			if r.Meta.Deprecated {
				flags = append(flags, "deprecated")
			}
			rows = append(rows, []string{name, cleanDescription(r.Meta.Docs.Description), strings.Join(flags, ", ")})
		}
		w.Table([]string{"Rule", "Description", ""}, rows)
	}

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateRulePage writes the page of a single rule.
func generateRulePage(outDir string, rule lint.Rule) error {
	w := NewMarkdownWriter()
	info := lint.GetRuleInfo(rule)

	w.Frontmatter(rule.Name, info.Description)
	w.GeneratedMarker()

	w.Header(1, rule.Name)

	if rule.Meta.Deprecated {
		msg := "This rule is deprecated."
		if len(rule.Meta.ReplacedBy) > 0 {
			links := make([]string, 0, len(rule.Meta.ReplacedBy))
			for _, r := range rule.Meta.ReplacedBy {
				links = append(links, fmt.Sprintf("[%s](/rules/%s)", InlineCode(r), r))
			}
			msg += " Use " + strings.Join(links, ", ") + " instead."
		}
		w.Paragraph("> " + msg)
	}

	w.Line(fmt.Sprintf("%s %s", Bold("Type:"), InlineCode(string(rule.Meta.Type))))
	w.Newline()
	w.Line(fmt.Sprintf("%s %s", Bold("Default severity:"), InlineCode(rule.DefaultSeverity().String())))
	w.Newline()
	if rule.Meta.Fixable {
		w.Paragraph("Problems reported by this rule can be fixed automatically with `jqlint lint --fix`.")
	}

	w.Paragraph(info.Description)

	if len(rule.Meta.Schema) > 0 {
		w.Header(2, "Options")
		var rows [][]string
		for _, opt := range rule.Meta.Schema {
			values := strings.Join(opt.Enum, ", ")
			def := ""
			if opt.Default != nil {
				def = InlineCode(fmt.Sprint(opt.Default))
			}
			rows = append(rows, []string{InlineCode(opt.Name), opt.Type, values, def})
		}
		w.Table([]string{"Option", "Type", "Values", "Default"}, rows)
	}

	w.Header(2, "Disabling")
	w.CodeBlock("yaml", fmt.Sprintf("lint:\n  disabled: [%s]", rule.Name))

	return os.WriteFile(filepath.Join(outDir, rule.Name+".md"), w.Bytes(), 0600)
}
