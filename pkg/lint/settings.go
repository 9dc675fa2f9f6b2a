package lint

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PluginKind classifies the return type of a third-party collection method.
type PluginKind int

// Plugin kinds accepted in collectionReturningPlugins.
const (
	// PluginNever marks a method that never returns a collection.
	PluginNever PluginKind = iota
	// PluginAccessor marks a method that returns a value when called
	// without arguments and the collection otherwise.
	PluginAccessor
	// PluginValueAccessor marks a method that returns a value when called
	// without arguments or with one non-object argument.
	PluginValueAccessor
)

// String returns the configuration spelling of the kind.
func (k PluginKind) String() string {
	switch k {
	case PluginNever:
		return "never"
	case PluginAccessor:
		return "accessor"
	case PluginValueAccessor:
		return "valueAccessor"
	default:
		return "unknown"
	}
}

// ParsePluginKind converts a configuration value to a PluginKind.
func ParsePluginKind(s string) (PluginKind, bool) {
	switch s {
	case "never":
		return PluginNever, true
	case "accessor":
		return PluginAccessor, true
	case "valueAccessor":
		return PluginValueAccessor, true
	default:
		return PluginNever, false
	}
}

// Defaults for the settings block.
const DefaultVariablePattern = `^\$.`

// DefaultConstructorAliases are the names recognized as the collection
// constructor when none are configured.
var DefaultConstructorAliases = []string{"$", "jQuery"}

// Settings is the per-run configuration shared by every collection rule.
// A Settings value must not be modified after NewSettings returns it.
type Settings struct {
	ConstructorAliases         []string
	VariablePattern            *regexp.Regexp
	CollectionReturningPlugins map[string]PluginKind
}

// SettingsConfig is the raw settings block as read from configuration.
// Zero-valued fields fall back to defaults.
type SettingsConfig struct {
	ConstructorAliases         []string          `koanf:"constructorAliases" json:"constructorAliases,omitempty" yaml:"constructorAliases,omitempty" validate:"omitempty,dive,required"`
	VariablePattern            string            `koanf:"variablePattern" json:"variablePattern,omitempty" yaml:"variablePattern,omitempty"`
	CollectionReturningPlugins map[string]string `koanf:"collectionReturningPlugins" json:"collectionReturningPlugins,omitempty" yaml:"collectionReturningPlugins,omitempty" validate:"omitempty,dive,keys,required,endkeys,oneof=never accessor valueAccessor"`
}

// ValidationError reports an invalid settings field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid settings.%s: %s", e.Field, e.Message)
}

var validate = newValidator()

// newValidator reports fields by their configuration key.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// DefaultSettings returns the settings used when no configuration is given.
func DefaultSettings() *Settings {
	return &Settings{
		ConstructorAliases:         slices.Clone(DefaultConstructorAliases),
		VariablePattern:            regexp.MustCompile(DefaultVariablePattern),
		CollectionReturningPlugins: map[string]PluginKind{},
	}
}

// NewSettings validates a raw settings block and builds Settings from it.
func NewSettings(cfg SettingsConfig) (*Settings, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, validationError(err)
	}

	s := DefaultSettings()
	if len(cfg.ConstructorAliases) > 0 {
		s.ConstructorAliases = slices.Clone(cfg.ConstructorAliases)
	}
	if cfg.VariablePattern != "" {
		re, err := regexp.Compile(cfg.VariablePattern)
		if err != nil {
			return nil, &ValidationError{Field: "variablePattern", Message: err.Error()}
		}
		s.VariablePattern = re
	}
	for name, raw := range cfg.CollectionReturningPlugins {
		kind, ok := ParsePluginKind(raw)
		if !ok {
			return nil, &ValidationError{
				Field:   "collectionReturningPlugins." + name,
				Message: fmt.Sprintf("unknown kind %q", raw),
			}
		}
		s.CollectionReturningPlugins[name] = kind
	}
	return s, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate settings: %w", err)
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	msg := fmt.Sprintf("failed %q check", fe.Tag())
	if fe.Param() != "" {
		msg = fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	}
	return &ValidationError{Field: field, Message: msg}
}

// IsConstructorAlias reports whether name is a configured constructor alias.
func (s *Settings) IsConstructorAlias(name string) bool {
	return slices.Contains(s.ConstructorAliases, name)
}

// MatchesVariable reports whether name follows the collection variable
// naming convention.
func (s *Settings) MatchesVariable(name string) bool {
	return s.VariablePattern != nil && s.VariablePattern.MatchString(name)
}

// Plugin returns the configured kind for a plugin method.
func (s *Settings) Plugin(name string) (PluginKind, bool) {
	kind, ok := s.CollectionReturningPlugins[name]
	return kind, ok
}

// Fingerprint returns a canonical rendering of the settings. Two Settings
// with the same fingerprint classify every node identically.
func (s *Settings) Fingerprint() string {
	var sb strings.Builder
	sb.WriteString("aliases=")
	sb.WriteString(strings.Join(s.ConstructorAliases, ","))
	sb.WriteString(";pattern=")
	if s.VariablePattern != nil {
		sb.WriteString(s.VariablePattern.String())
	}
	sb.WriteString(";plugins=")
	names := make([]string, 0, len(s.CollectionReturningPlugins))
	for name := range s.CollectionReturningPlugins {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "%s:%s,", name, s.CollectionReturningPlugins[name])
	}
	return sb.String()
}
