package commands

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Print the jqlint version, the toolchain it was built with and
the number of built-in rules.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if short {
				_, err := fmt.Fprintln(w, version)
				return err
			}
			_, _ = fmt.Fprintf(w, "jqlint v%s\n", version)
			_, _ = fmt.Fprintf(w, "  built-in rules: %d\n", lint.Count())
			_, _ = fmt.Fprintf(w, "  go:             %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			if rev := vcsRevision(); rev != "" {
				_, _ = fmt.Fprintf(w, "  commit:         %s\n", rev)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}

// vcsRevision is the commit the binary was built from, when stamped.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 12 {
			return s.Value[:12]
		}
	}
	return ""
}
