package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/jqlint/internal/cli"
	"github.com/leapstack-labs/jqlint/internal/cli/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagsWithEnv are the root flags that also read a JQLINT_* variable.
var flagsWithEnv = map[string]bool{
	"output":    true,
	"rules-dir": true,
	"cache":     true,
	"verbose":   true,
}

// generateCLIDocs writes index.md plus one page per command. Nested
// commands get a hyphenated page name, e.g. cache-prune.md.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	root := cli.NewRootCmd()

	if err := writeDoc(filepath.Join(outDir, "index.md"), cliIndex(root)); err != nil {
		return err
	}

	var walk func(parent *cobra.Command) error
	walk = func(parent *cobra.Command) error {
		for _, cmd := range documented(parent) {
			if err := writeDoc(filepath.Join(outDir, pageName(cmd)+".md"), commandPage(cmd)); err != nil {
				return err
			}
			if err := walk(cmd); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}

func writeDoc(path string, w *MarkdownWriter) error {
	if err := os.WriteFile(path, w.Bytes(), 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("  Generated %s", filepath.Base(path))
	return nil
}

// documented lists the subcommands that get a page.
func documented(parent *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range parent.Commands() {
		if cmd.Hidden || !cmd.IsAvailableCommand() || cmd.Name() == "help" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// pageName is the command path without the binary name.
func pageName(cmd *cobra.Command) string {
	parts := strings.Fields(cmd.CommandPath())
	return strings.Join(parts[1:], "-")
}

func cliIndex(root *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for jqlint")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/jqlint/cmd/jqlint@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documented(root) {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), pageName(cmd)),
			cleanDescription(cmd.Short),
		})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	flagTable(w, root.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Each variable sets the config key of the same name. Flags win over variables, variables win over " +
		InlineCode("jqlint.yaml") + ".")
	var env [][]string
	root.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if flagsWithEnv[f.Name] {
			env = append(env, []string{InlineCode(envName(f.Name)), cleanDescription(f.Usage)})
		}
	})
	w.Table([]string{"Variable", "Description"}, env)
	w.Paragraph("Nested keys use a double underscore: " + InlineCode(config.EnvPrefix+"SETTINGS__VARIABLEPATTERN") + ".")

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "No problems at error severity"},
		{InlineCode("1"), "Problems reported, or the run failed"},
	})
	return w
}

func envName(flag string) string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	title := strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" ")
	w.Frontmatter(title, cmd.Short)
	w.GeneratedMarker()

	w.Header(1, title)
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	if subs := documented(cmd); len(subs) > 0 {
		w.CodeBlock("bash", cmd.CommandPath()+" <subcommand> [options]")
		w.Header(2, "Subcommands")
		rows := make([][]string, 0, len(subs))
		for _, sub := range subs {
			rows = append(rows, []string{
				fmt.Sprintf("[%s](/cli/%s)", InlineCode(sub.Name()), pageName(sub)),
				cleanDescription(sub.Short),
			})
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	} else {
		w.CodeBlock("bash", cmd.UseLine())
	}

	if len(cmd.Aliases) > 0 {
		w.Header(2, "Aliases")
		aliases := make([]string, len(cmd.Aliases))
		for i, a := range cmd.Aliases {
			aliases[i] = InlineCode(a)
		}
		w.BulletList(aliases)
	}
	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		flagTable(w, cmd.LocalFlags())
	}
	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
	return w
}

func flagTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		def := f.DefValue
		if def != "" && f.Value.Type() != "bool" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{name, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Default", "Description"}, rows)
}

// dedent strips the indentation shared by every non-blank line.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	common := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		if n := len(line) - len(trimmed); common < 0 || n < common {
			common = n
		}
	}
	for i, line := range lines {
		if len(line) >= common && common > 0 {
			lines[i] = line[common:]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
