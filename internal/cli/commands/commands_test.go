package commands

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/jqlint/internal/cli/config"
	"github.com/leapstack-labs/jqlint/internal/cli/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// setupProject creates a sample project, makes it the working directory
// and clears any configuration loaded by an earlier test.
func setupProject(t *testing.T) string {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	root := testutil.SetupTestProject(t)
	t.Chdir(root)
	return root
}

// loadProjectConfig loads the configuration of the working directory the
// way the root command does.
func loadProjectConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// executeCommand runs cmd with args and returns stdout and stderr.
func executeCommand(cmd *cobra.Command, args ...string) (string, string, error) {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestGetConfig_Fallback(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cfg := getConfig()
	require.NotNil(t, cfg)
	require.Equal(t, config.DefaultRulesDir, cfg.RulesDir)
	require.False(t, cfg.CacheEnabled())
}

func TestLoadRules(t *testing.T) {
	root := setupProject(t)

	t.Run("built-in only", func(t *testing.T) {
		rules, err := loadRules(getConfig(), discardLogger())
		require.NoError(t, err)
		require.NotEmpty(t, rules)
	})

	t.Run("project rules appended", func(t *testing.T) {
		testutil.WriteFile(t, root, ".jqlint/rules/custom.star",
			`collection_method_rule("no-toggle", ["toggle"], "Prefer classList.toggle")`+"\n")
		t.Cleanup(func() { _ = os.Remove(filepath.Join(root, ".jqlint", "rules", "custom.star")) })

		rules, err := loadRules(getConfig(), discardLogger())
		require.NoError(t, err)
		require.Equal(t, "no-toggle", rules[len(rules)-1].Name)
	})

	t.Run("conflict with built-in", func(t *testing.T) {
		testutil.WriteFile(t, root, ".jqlint/rules/custom.star",
			`collection_method_rule("no-bind", ["bind"])`+"\n")
		t.Cleanup(func() { _ = os.Remove(filepath.Join(root, ".jqlint", "rules", "custom.star")) })

		_, err := loadRules(getConfig(), discardLogger())
		require.Error(t, err)
		require.Contains(t, err.Error(), "conflicts with a built-in rule")
	})
}
