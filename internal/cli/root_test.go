package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/jqlint/internal/cli/commands"
	"github.com/leapstack-labs/jqlint/internal/cli/config"
	"github.com/leapstack-labs/jqlint/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"version", "lint", "rules", "classify", "cache", "lsp", "completion"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
	for _, flag := range []string{"config", "verbose", "output", "rules-dir", "cache"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCmd_Version(t *testing.T) {
	t.Chdir(testutil.SetupTestProject(t))

	out, err := runRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "jqlint v"+Version)
}

func TestRootCmd_Lint(t *testing.T) {
	root := testutil.SetupTestProject(t)
	t.Chdir(root)

	out, err := runRoot(t, "lint", "--format", "json")
	require.ErrorIs(t, err, commands.ErrLintIssues)

	var result commands.LintOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Summary.FilesLinted)

	_, err = os.Stat(filepath.Join(root, config.DefaultCache))
	require.NoError(t, err, "the default cache lives in the project")
}

func TestRootCmd_LintNoCache(t *testing.T) {
	root := testutil.SetupTestProject(t)
	t.Chdir(root)

	_, err := runRoot(t, "lint", "--no-cache", "src/clean.js")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, config.DefaultCache))
	assert.True(t, os.IsNotExist(err))
}

func TestRootCmd_ConfigFile(t *testing.T) {
	root := testutil.SetupTestProject(t)
	t.Chdir(root)
	testutil.WriteFile(t, root, "jqlint.yaml", `cache: "off"
lint:
  disabled: [no-bind, no-find, no-size, no-parse-json]
`)

	out, err := runRoot(t, "lint", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "No lint issues found in 2 files")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	root := testutil.SetupTestProject(t)
	t.Chdir(root)
	testutil.WriteFile(t, root, "jqlint.yaml", "output: fancy\n")

	_, err := runRoot(t, "rules")
	require.Error(t, err)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := runRoot(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "jqlint")
		})
	}

	_, err := runRoot(t, "completion", "tcsh")
	require.Error(t, err)
}
