package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
// This key is shared with root.go via both using the same type.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "JQLINT_"

// configNames lists the config file names searched for, in priority order.
var configNames = []string{"jqlint.yaml", "jqlint.yml", "jqlint.toml"}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"verbose":   "verbose",
	"output":    "output",
	"rules-dir": "rules_dir",
	"cache":     "cache",
}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}()

// configIn returns the config file in dir, or "" if there is none.
func configIn(dir string) string {
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findConfigUpward searches upward from startDir for a jqlint config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if found := configIn(dir); found != "" {
			return found
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// findConfigFile finds the config file to use and the project root it
// anchors. Priority: explicit path > upward search from CWD > none.
func findConfigFile(explicit string) (path, root string) {
	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		cwd = "."
	}
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			abs = filepath.Clean(explicit)
		}
		return abs, filepath.Dir(abs)
	}
	if found := findConfigUpward(cwd); found != "" {
		return found, filepath.Dir(found)
	}
	return "", cwd
}

// parserFor picks the koanf parser for a config file by extension.
func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOML()
	}
	return yaml.Parser()
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == "off" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// envKey maps JQLINT_RULES_DIR to rules_dir and JQLINT_LINT__DISABLED to
// lint.disabled.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"rules_dir": DefaultRulesDir,
		"cache":     DefaultCache,
		"output":    DefaultOutput,
		"verbose":   false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	var projectRoot string
	configFileUsed, projectRoot = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), parserFor(configFileUsed)); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (JQLINT_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
		if noCache, _ := flags.GetBool("no-cache"); noCache {
			if err := k.Set("cache", "off"); err != nil {
				return nil, fmt.Errorf("failed to disable cache: %w", err)
			}
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve paths against the directory holding the config file
	cfg.ProjectRoot = projectRoot
	cfg.RulesDir = resolvePathRelativeTo(cfg.RulesDir, projectRoot)
	cfg.Cache = resolvePathRelativeTo(cfg.Cache, projectRoot)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := fe.Namespace()
			if i := strings.IndexByte(field, '.'); i >= 0 {
				field = field[i+1:]
			}
			if fe.Param() != "" {
				return fmt.Errorf("invalid %s: must be one of [%s], got %q", field, fe.Param(), fe.Value())
			}
			return fmt.Errorf("invalid %s: failed %q check", field, fe.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := lint.NewSettings(c.Settings); err != nil {
		return err
	}
	return nil
}

// LintSettings builds the shared rule settings from the settings block.
func (c *Config) LintSettings() (*lint.Settings, error) {
	return lint.NewSettings(c.Settings)
}

// RuleConfig builds the runner configuration from the lint block.
func (c *Config) RuleConfig() (*lint.Config, error) {
	rc := lint.NewConfig()
	for _, name := range c.Lint.Disabled {
		rc.Disable(name)
	}
	for name, raw := range c.Lint.Severity {
		sev, ok := lint.ParseSeverity(raw)
		if !ok {
			return nil, fmt.Errorf("invalid lint.severity.%s: unknown severity %q", name, raw)
		}
		rc.SetSeverity(name, sev)
	}
	for name, opts := range c.Lint.Rules {
		rc.SetRuleOptions(name, opts)
	}
	return rc, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// Koanf returns the koanf instance holding the last loaded configuration.
func Koanf() *koanf.Koanf {
	return k
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
