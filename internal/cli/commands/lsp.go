package commands

import (
	"github.com/leapstack-labs/jqlint/internal/lsp"
	"github.com/spf13/cobra"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC. Open
JavaScript and TypeScript documents are linted on every change with
the project's rules and lint configuration. The result cache is
not used.`,
		Example: `  # Start LSP server (usually called by an editor)
  jqlint lsp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, version)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command, version string) error {
	cmdCtx := NewCommandContext(cmd, "")
	eng, err := newEngine(cmd.Context(), cmdCtx, &LintOptions{NoCache: true}, version)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.Options{
		Engine:  eng,
		Version: version,
		Logger:  cmdCtx.Logger,
	})
	return server.Run()
}
