package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/jqlint/internal/cli/config"
	"github.com/leapstack-labs/jqlint/pkg/lint"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "project", "lint", "settings"
}

// getConfigSchema returns the configuration schema definition.
// This is based on internal/cli/config/types.go Config and lint.SettingsConfig.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		// Project settings
		{Name: "rules_dir", Type: "string", Default: config.DefaultRulesDir, Description: "Directory of project rule files (*.star)", Category: "project"},
		{Name: "cache", Type: "string", Default: config.DefaultCache, Description: `Path to the result cache, or "off"`, Category: "project"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: auto, text, json, yaml", Category: "project"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Enable debug logging", Category: "project"},

		// Lint selection
		{Name: "lint.disabled", Type: "[]string", Description: "Rules that are not run", Category: "lint"},
		{Name: "lint.severity", Type: "map[string]string", Description: "Severity override per rule: error, warning, info, hint", Category: "lint"},
		{Name: "lint.rules", Type: "map[string]map[string]any", Description: "Options per rule", Category: "lint"},

		// Collection detection
		{Name: "settings.constructorAliases", Type: "[]string", Default: strings.Join(lint.DefaultConstructorAliases, ", "), Description: "Names that construct a jQuery collection when called", Category: "settings"},
		{Name: "settings.variablePattern", Type: "string", Default: lint.DefaultVariablePattern, Description: "Regular expression for variable names that hold a collection", Category: "settings"},
		{Name: "settings.collectionReturningPlugins", Type: "map[string]string", Description: "Plugin methods and what they return: never, accessor, valueAccessor", Category: "settings"},
	}
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()

	// Frontmatter
	w.Frontmatter("Configuration", "jqlint configuration reference")
	w.GeneratedMarker()

	// Title and intro
	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("jqlint is configured via %s in your project root. %s and %s are read the same way. The file is searched for upward from the working directory.",
		InlineCode("jqlint.yaml"), InlineCode("jqlint.yml"), InlineCode("jqlint.toml")))
	w.Paragraph(fmt.Sprintf("Every key can also be set through an environment variable prefixed with %s. Nested keys use a double underscore, for example %s.",
		InlineCode(config.EnvPrefix), InlineCode(config.EnvPrefix+"LINT__DISABLED")))

	sections := []struct {
		category string
		title    string
		intro    string
	}{
		{"project", "Project Settings", "Paths are resolved relative to the directory of the configuration file."},
		{"lint", "Lint", "Rule selection and tuning. Rule names are checked against the built-in and project rules."},
		{"settings", "Collection Detection", "Settings shared by every rule that decides whether an expression is a jQuery collection."},
	}

	fields := getConfigSchema()
	for _, sec := range sections {
		w.Header(2, sec.title)
		w.Paragraph(sec.intro)

		var rows [][]string
		for _, f := range fields {
			if f.Category != sec.category {
				continue
			}
			defVal := "-"
			if f.Default != "" {
				defVal = InlineCode(f.Default)
			}
			rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, f.Description})
		}
		w.Table([]string{"Field", "Type", "Default", "Description"}, rows)
	}

	w.Header(2, "Example")
	w.CodeBlock("yaml", `rules_dir: .jqlint/rules
cache: .jqlint/cache.db

lint:
  disabled: [no-ajax]
  severity:
    no-bind: error
  rules:
    no-attr:
      allowGetOrSet: get

settings:
  constructorAliases: ["$", "jQuery"]
  variablePattern: "^\\$."
  collectionReturningPlugins:
    datepicker: never`)

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
