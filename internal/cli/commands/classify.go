package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/jqlint/internal/cli/output"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/lint/jquery"
	"github.com/leapstack-labs/jqlint/pkg/parser"
	"github.com/spf13/cobra"
)

const replPrompt = "jqlint> "

// ClassifyOptions holds options for the classify command.
type ClassifyOptions struct {
	Format string // Output format
}

// ClassifyResult is the classification of one expression.
type ClassifyResult struct {
	Expression string `json:"expression" yaml:"expression"`
	Kind       string `json:"kind" yaml:"kind"`
	Collection bool   `json:"collection" yaml:"collection"`
	Util       bool   `json:"util" yaml:"util"`
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand() *cobra.Command {
	opts := &ClassifyOptions{}
	cmd := &cobra.Command{
		Use:   "classify [expression]",
		Short: "Show how an expression is classified",
		Long: `Show whether a JavaScript expression is known to hold a jQuery
collection, and whether it hangs directly off a constructor alias.

The project settings (constructor aliases, variable pattern and plugins)
apply. Without an argument an interactive prompt is started.`,
		Example: `  # Classify one expression
  jqlint classify "\$('li').find('a')"

  # Interactive prompt
  jqlint classify`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd, opts.Format)
			settings, err := cmdCtx.Cfg.LintSettings()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return runClassifyREPL(cmd, cmdCtx, settings)
			}
			res, err := classifyExpression(args[0], settings)
			if err != nil {
				return err
			}
			return renderClassification(cmdCtx.Renderer, res)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, yaml")

	return cmd
}

// classifyExpression parses src as a single expression and classifies it.
func classifyExpression(src string, settings *lint.Settings) (*ClassifyResult, error) {
	src = strings.TrimSuffix(strings.TrimSpace(src), ";")
	f, n, err := parser.ParseExpression(src)
	if err != nil {
		return nil, err
	}
	return &ClassifyResult{
		Expression: src,
		Kind:       n.Kind(),
		Collection: jquery.Classify(f, n, settings, jquery.ModeCollection),
		Util:       jquery.Classify(f, n, settings, jquery.ModeUtil),
	}, nil
}

func renderClassification(r *output.Renderer, res *ClassifyResult) error {
	if ok, err := r.Structured(res); ok {
		return err
	}
	styles := r.Styles()
	r.Println(styles.Bold.Render(res.Expression) + " " + styles.Muted.Render("("+res.Kind+")"))
	r.Printf("  collection: %s\n", yesNo(styles, res.Collection))
	r.Printf("  util:       %s\n", yesNo(styles, res.Util))
	return nil
}

func yesNo(styles *output.Styles, v bool) string {
	if v {
		return styles.Success.Render("yes")
	}
	return styles.Muted.Render("no")
}

func runClassifyREPL(cmd *cobra.Command, cmdCtx *CommandContext, settings *lint.Settings) error {
	// Setup history file (project-local)
	historyFile := ""
	if root := cmdCtx.Cfg.ProjectRoot; root != "" {
		dir := filepath.Join(root, ".jqlint")
		if err := os.MkdirAll(dir, 0750); err == nil {
			historyFile = filepath.Join(dir, "classify_history")
		}
	}

	// Configure readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newClassifyCompleter(settings),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// Print welcome message
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "jqlint classify (aliases: "+strings.Join(settings.ConstructorAliases, ", ")+")")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	return classifyLoop(rl, cmd, cmdCtx.Renderer, settings)
}

// lineReader is the part of readline the prompt loop uses.
type lineReader interface {
	Readline() (string, error)
}

func classifyLoop(rl lineReader, cmd *cobra.Command, r *output.Renderer, settings *lint.Settings) error {
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Handle dot-commands
		if strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(cmd, line); quit {
				return nil
			}
			continue
		}

		res, err := classifyExpression(line, settings)
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			continue
		}
		if err := renderClassification(r, res); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}
}

// handleDotCommand runs a prompt command and reports whether the prompt
// should exit.
func handleDotCommand(cmd *cobra.Command, line string) bool {
	command := strings.ToLower(strings.Fields(line)[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())

	case ".clear":
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .clear          Clear the screen
  .quit / .exit   Exit the prompt

Anything else is read as a JavaScript expression, for example:
  $('li').find('a')
  $.ajax
  $items.first()
`
	_, _ = fmt.Fprintln(w, help)
}

// newClassifyCompleter completes dot-commands and constructor aliases.
func newClassifyCompleter(settings *lint.Settings) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, alias := range settings.ConstructorAliases {
		items = append(items, readline.PcItem(alias))
	}

	// Add dot-commands
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
