package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, GetConfigFileUsed())
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultRulesDir), cfg.RulesDir)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultCache), cfg.Cache)
	assert.True(t, cfg.CacheEnabled())

	settings, err := cfg.LintSettings()
	require.NoError(t, err)
	assert.Equal(t, lint.DefaultConstructorAliases, settings.ConstructorAliases)
}

func TestLoadConfig_YAML(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "jqlint.yaml", `settings:
  constructorAliases: ["$", "jQuery", "$j"]
  variablePattern: "^\\$[a-z]"
  collectionReturningPlugins:
    tooltip: accessor
    countItems: never
lint:
  disabled: [no-ajax, no-param]
  severity:
    no-bind: error
    no-html: hint
  rules:
    no-html:
      allowGetOrSet: get
output: json
cache: "off"
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, filepath.Dir(path), cfg.ProjectRoot)
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.False(t, cfg.CacheEnabled())

	settings, err := cfg.LintSettings()
	require.NoError(t, err)
	assert.Equal(t, []string{"$", "jQuery", "$j"}, settings.ConstructorAliases)
	assert.True(t, settings.MatchesVariable("$el"))
	assert.False(t, settings.MatchesVariable("$El"))
	kind, ok := settings.Plugin("tooltip")
	require.True(t, ok)
	assert.Equal(t, lint.PluginAccessor, kind)

	rc, err := cfg.RuleConfig()
	require.NoError(t, err)
	assert.True(t, rc.IsDisabled("no-ajax"))
	assert.True(t, rc.IsDisabled("no-param"))
	assert.False(t, rc.IsDisabled("no-bind"))
	assert.Equal(t, lint.SeverityError, rc.GetSeverity("no-bind", lint.SeverityWarning))
	assert.Equal(t, lint.SeverityHint, rc.GetSeverity("no-html", lint.SeverityWarning))
	assert.Equal(t, "get", rc.GetRuleOptions("no-html")["allowGetOrSet"])
}

func TestLoadConfig_TOML(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "jqlint.toml", `output = "yaml"
rules_dir = "custom/rules"

[settings]
constructorAliases = ["jQuery"]

[settings.collectionReturningPlugins]
datepicker = "valueAccessor"

[lint]
disabled = ["no-size"]
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, OutputYAML, cfg.Output)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "custom", "rules"), cfg.RulesDir)
	assert.Equal(t, []string{"no-size"}, cfg.Lint.Disabled)

	settings, err := cfg.LintSettings()
	require.NoError(t, err)
	assert.Equal(t, []string{"jQuery"}, settings.ConstructorAliases)
	kind, ok := settings.Plugin("datepicker")
	require.True(t, ok)
	assert.Equal(t, lint.PluginValueAccessor, kind)
}

func TestLoadConfig_UpwardSearch(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "jqlint.yml"), []byte("verbose: true\n"), 0600))
	nested := filepath.Join(root, "src", "app")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "jqlint.yml", filepath.Base(GetConfigFileUsed()))
	assert.Equal(t, filepath.Base(root), filepath.Base(cfg.ProjectRoot))
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{
			name:      "unknown output",
			content:   "output: html\n",
			errSubstr: "output",
		},
		{
			name:      "unknown plugin kind",
			content:   "settings:\n  collectionReturningPlugins:\n    foo: sometimes\n",
			errSubstr: "collectionReturningPlugins",
		},
		{
			name:      "bad variable pattern",
			content:   "settings:\n  variablePattern: \"([\"\n",
			errSubstr: "variablePattern",
		},
		{
			name:      "unknown severity",
			content:   "lint:\n  severity:\n    no-bind: fatal\n",
			errSubstr: "severity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			path := writeConfig(t, "jqlint.yaml", tt.content)
			_, err := LoadConfig(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "jqlint.yaml", "output: text\n")
	t.Setenv("JQLINT_OUTPUT", "yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "output format")
	require.NoError(t, flags.Set("output", "json"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, cfg.Output, "flag value should override config file and env var")
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "jqlint.yaml", "output: text\nrules_dir: from_file\n")
	t.Setenv("JQLINT_OUTPUT", "yaml")
	t.Setenv("JQLINT_RULES_DIR", "from_env")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, OutputYAML, cfg.Output)
	assert.Equal(t, "from_env", filepath.Base(cfg.RulesDir))
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "jqlint.yaml", "output: text\n")
	t.Setenv("JQLINT_OUTPUT", "yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "output format")

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, OutputYAML, cfg.Output, "env var should be used when flag is not set")
}

func TestLoadConfig_NoCacheFlag(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "jqlint.yaml", "cache: state.db\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("no-cache", false, "disable cache")
	require.NoError(t, flags.Set("no-cache", "true"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.False(t, cfg.CacheEnabled())
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"JQLINT_OUTPUT", "output"},
		{"JQLINT_RULES_DIR", "rules_dir"},
		{"JQLINT_LINT__DISABLED", "lint.disabled"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, envKey(tt.in), tt.in)
	}
}

func TestTOMLParser_RoundTrip(t *testing.T) {
	p := TOML()
	out, err := p.Unmarshal([]byte("output = \"json\"\n[lint]\ndisabled = [\"no-ajax\"]\n"))
	require.NoError(t, err)
	assert.Equal(t, "json", out["output"])

	b, err := p.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `output = "json"`)
}

func TestGetLogger_Fallback(t *testing.T) {
	logger := GetLogger(context.Background())
	require.NotNil(t, logger)
	logger.Info("discarded")
}
