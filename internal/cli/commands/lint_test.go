package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/jqlint/internal/cli/config"
	"github.com/leapstack-labs/jqlint/internal/cli/output"
	"github.com/leapstack-labs/jqlint/internal/cli/testutil"
	"github.com/leapstack-labs/jqlint/internal/engine"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLintCommand(t *testing.T) {
	cmd := NewLintCommand("test")

	assert.Equal(t, "lint [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Verify flags exist
	flags := []string{"format", "disable", "severity", "rule", "fix", "watch", "jobs", "no-cache"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestLintCommand_Text(t *testing.T) {
	setupProject(t)

	out, _, err := executeCommand(NewLintCommand("test"))
	require.ErrorIs(t, err, ErrLintIssues)

	testutil.AssertNoANSI(t, out)
	testutil.AssertContains(t, out, filepath.Join("src", "app.js"))
	testutil.AssertContains(t, out, "no-bind")
	testutil.AssertContains(t, out, "no-parse-json")
	testutil.AssertContains(t, out, "Summary:")
	testutil.AssertNotContains(t, out, "clean.js")
	testutil.AssertNotContains(t, out, "node_modules")
}

func TestLintCommand_Clean(t *testing.T) {
	setupProject(t)

	out, _, err := executeCommand(NewLintCommand("test"), filepath.Join("src", "clean.js"))
	require.NoError(t, err)
	assert.Contains(t, out, "No lint issues found in 1 files")
}

func TestLintCommand_JSON(t *testing.T) {
	setupProject(t)

	out, _, err := executeCommand(NewLintCommand("test"), "--format", "json")
	require.ErrorIs(t, err, ErrLintIssues)

	var result LintOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Files, 1)
	assert.Equal(t, filepath.Join("src", "app.js"), result.Files[0].Path)
	assert.Equal(t, 2, result.Summary.FilesLinted)
	assert.Equal(t, len(result.Files[0].Diagnostics), result.Summary.TotalIssues)
	assert.Equal(t, 1, result.Summary.Errors, "no-size is a problem")
}

func TestLintCommand_YAML(t *testing.T) {
	setupProject(t)

	out, _, err := executeCommand(NewLintCommand("test"), "--format", "yaml")
	require.ErrorIs(t, err, ErrLintIssues)
	assert.Contains(t, out, "files:")
	assert.Contains(t, out, "rule: no-bind")
	assert.Contains(t, out, "summary:")
}

func TestLintCommand_Severity(t *testing.T) {
	setupProject(t)

	out, _, err := executeCommand(NewLintCommand("test"), "--severity", "error", "--format", "json")
	require.ErrorIs(t, err, ErrLintIssues)

	var result LintOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Files, 1)
	for _, d := range result.Files[0].Diagnostics {
		assert.Equal(t, lint.SeverityError, d.Severity)
	}

	_, _, err = executeCommand(NewLintCommand("test"), "--severity", "fatal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid severity")
}

func TestLintCommand_RuleFilters(t *testing.T) {
	setupProject(t)

	t.Run("only", func(t *testing.T) {
		out, _, err := executeCommand(NewLintCommand("test"), "--rule", "no-bind", "--format", "json")
		require.ErrorIs(t, err, ErrLintIssues)

		var result LintOutput
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Len(t, result.Files, 1)
		require.Len(t, result.Files[0].Diagnostics, 1)
		assert.Equal(t, "no-bind", result.Files[0].Diagnostics[0].RuleID)
	})

	t.Run("disable", func(t *testing.T) {
		out, _, err := executeCommand(NewLintCommand("test"), "--disable", "no-bind,no-find", "--format", "json")
		require.ErrorIs(t, err, ErrLintIssues)
		assert.NotContains(t, out, `"no-bind"`)
		assert.NotContains(t, out, `"no-find"`)
		assert.Contains(t, out, `"no-size"`)
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := executeCommand(NewLintCommand("test"), "--rule", "bind")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown rule "bind"`)
		assert.Contains(t, err.Error(), "did you mean")
		assert.Contains(t, err.Error(), "no-bind")
	})
}

func TestLintCommand_Fix(t *testing.T) {
	root := setupProject(t)

	out, _, err := executeCommand(NewLintCommand("test"), "--fix")
	require.ErrorIs(t, err, ErrLintIssues, "no-find has no fix")
	assert.Contains(t, out, "Fixed 3 problems")
	assert.Contains(t, out, "no-find")
	assert.NotContains(t, out, "no-bind")

	fixed, err := os.ReadFile(filepath.Join(root, "src", "app.js"))
	require.NoError(t, err)
	assert.Contains(t, string(fixed), "$list.on('click', onClick);")
	assert.Contains(t, string(fixed), "JSON.parse(raw)")
}

func TestLintCommand_FixWithWatch(t *testing.T) {
	setupProject(t)

	_, _, err := executeCommand(NewLintCommand("test"), "--fix", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be combined")
}

func TestLintCommand_ProjectRules(t *testing.T) {
	root := setupProject(t)
	testutil.WriteFile(t, root, filepath.Join(".jqlint", "rules", "custom.star"),
		`collection_method_rule("no-find-custom", ["find"], "Use querySelectorAll")`+"\n")

	out, _, err := executeCommand(NewLintCommand("test"), "--rule", "no-find-custom", "--format", "json")
	require.ErrorIs(t, err, ErrLintIssues)

	var result LintOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Files, 1)
	require.Len(t, result.Files[0].Diagnostics, 1)
	assert.Equal(t, "Use querySelectorAll", result.Files[0].Diagnostics[0].Message)
}

func TestLintCommand_ProjectRuleError(t *testing.T) {
	root := setupProject(t)
	testutil.WriteFile(t, root, filepath.Join(".jqlint", "rules", "bad.star"),
		`collection_method_rule("", ["find"])`+"\n")

	_, _, err := executeCommand(NewLintCommand("test"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.star:1")
}

func TestLintCommand_Cache(t *testing.T) {
	root := setupProject(t)
	cfg := loadProjectConfig(t)
	require.True(t, cfg.CacheEnabled())

	_, _, err := executeCommand(NewLintCommand("test"), "--format", "json")
	require.ErrorIs(t, err, ErrLintIssues)
	_, err = os.Stat(filepath.Join(root, ".jqlint", "cache.db"))
	require.NoError(t, err)

	out, _, err := executeCommand(NewLintCommand("test"), "--format", "json")
	require.ErrorIs(t, err, ErrLintIssues)
	var result LintOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Summary.FilesCached)

	out, _, err = executeCommand(NewLintCommand("test"), "--format", "json", "--no-cache")
	require.ErrorIs(t, err, ErrLintIssues)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 0, result.Summary.FilesCached)
}

func TestBuildLintConfig(t *testing.T) {
	rules := lint.All()

	t.Run("empty options", func(t *testing.T) {
		cfg, err := buildLintConfig(nil, &LintOptions{}, rules)
		require.NoError(t, err)
		assert.False(t, cfg.IsDisabled("no-bind"))
	})

	t.Run("disable rules", func(t *testing.T) {
		cfg, err := buildLintConfig(nil, &LintOptions{Disable: []string{"no-bind", " no-css"}}, rules)
		require.NoError(t, err)
		assert.True(t, cfg.IsDisabled("no-bind"))
		assert.True(t, cfg.IsDisabled("no-css"))
		assert.False(t, cfg.IsDisabled("no-ajax"))
	})

	t.Run("enable only specific rules", func(t *testing.T) {
		cfg, err := buildLintConfig(nil, &LintOptions{Rules: []string{"no-bind", "no-css"}}, rules)
		require.NoError(t, err)
		for _, r := range rules {
			want := r.Name != "no-bind" && r.Name != "no-css"
			assert.Equal(t, want, cfg.IsDisabled(r.Name), "rule %q", r.Name)
		}
	})

	t.Run("project config", func(t *testing.T) {
		projectCfg := &config.Config{
			Lint: config.LintConfig{
				Disabled: []string{"no-ajax"},
				Severity: map[string]string{"no-bind": "error"},
				Rules:    map[string]map[string]any{"no-css": {"allowGetOrSet": "get"}},
			},
		}
		cfg, err := buildLintConfig(projectCfg, &LintOptions{Disable: []string{"no-find"}}, rules)
		require.NoError(t, err)
		assert.True(t, cfg.IsDisabled("no-ajax"))
		assert.True(t, cfg.IsDisabled("no-find"))
		assert.Equal(t, lint.SeverityError, cfg.GetSeverity("no-bind", lint.SeverityWarning))
		assert.Equal(t, "get", cfg.GetRuleOptions("no-css")["allowGetOrSet"])
	})

	t.Run("invalid project severity", func(t *testing.T) {
		projectCfg := &config.Config{
			Lint: config.LintConfig{Severity: map[string]string{"no-bind": "fatal"}},
		}
		_, err := buildLintConfig(projectCfg, &LintOptions{}, rules)
		require.Error(t, err)
	})
}

func TestFilterBySeverity(t *testing.T) {
	files := []engine.FileResult{
		{
			Path: "a.js",
			Diagnostics: []lint.Diagnostic{
				{RuleID: "no-size", Severity: lint.SeverityError},
				{RuleID: "no-bind", Severity: lint.SeverityWarning},
				{RuleID: "custom", Severity: lint.SeverityHint},
			},
		},
		{
			Path:        "b.js",
			Diagnostics: []lint.Diagnostic{{RuleID: "no-bind", Severity: lint.SeverityWarning}},
		},
	}

	tests := []struct {
		name      string
		threshold lint.Severity
		wantFiles int
		wantDiags int
	}{
		{"error", lint.SeverityError, 1, 1},
		{"warning", lint.SeverityWarning, 2, 3},
		{"info", lint.SeverityInfo, 2, 3},
		{"hint", lint.SeverityHint, 2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterBySeverity(files, tt.threshold)
			assert.Len(t, got, tt.wantFiles)
			n := 0
			for _, f := range got {
				n += len(f.Diagnostics)
			}
			assert.Equal(t, tt.wantDiags, n)
		})
	}
}

func TestRenderLintResults_Summary(t *testing.T) {
	tr := testutil.NewTestRenderer(output.ModeText)
	results := []engine.FileResult{{
		Path: "a.js",
		Diagnostics: []lint.Diagnostic{
			{RuleID: "no-size", Severity: lint.SeverityError, Message: "Prefer .length to .size"},
			{RuleID: "no-bind", Severity: lint.SeverityWarning, Message: "Prefer .on to .bind"},
		},
	}}
	summary := lintSummary(&engine.Result{Files: results}, results, 0)

	require.NoError(t, renderLintResults(tr.Renderer, results, summary))
	out := tr.Output()
	testutil.AssertNoANSI(t, out)
	testutil.AssertContains(t, out, "a.js")
	testutil.AssertContains(t, out, "Prefer .length to .size")
	testutil.AssertContains(t, out, "Summary: 2 problems, 1 errors, 1 warnings in 1 files")
}

func TestRulesDigest(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, rulesDigest(filepath.Join(dir, "missing")))
	assert.Empty(t, rulesDigest(""))

	testutil.WriteFile(t, dir, "b.star", "b")
	testutil.WriteFile(t, dir, "a.star", "a")
	first := rulesDigest(dir)
	require.Len(t, first, 2)
	assert.Contains(t, first[0], "a.star=")

	testutil.WriteFile(t, dir, "a.star", "changed")
	assert.NotEqual(t, first, rulesDigest(dir))
}
