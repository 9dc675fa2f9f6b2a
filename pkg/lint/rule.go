package lint

import "github.com/leapstack-labs/jqlint/pkg/ast"

// Selector names the AST event a visitor callback subscribes to.
type Selector string

// Selectors understood by the Runner. Plain kinds fire when a node is
// entered, the ":exit" variants after its children have been visited.
const (
	OnCallExpression       Selector = "CallExpression"
	OnCallExpressionExit   Selector = "CallExpression:exit"
	OnMemberExpression     Selector = "MemberExpression"
	OnMemberExpressionExit Selector = "MemberExpression:exit"
	OnIdentifier           Selector = "Identifier"
)

// Visitor maps selectors to callbacks.
type Visitor map[Selector]func(ast.Node)

// Rule is an immutable rule descriptor. Create is called once per file and
// returns the callbacks for that file.
type Rule struct {
	Name   string
	Meta   Meta
	Create func(ctx *Context) Visitor
}

// Meta is the static description of a rule.
type Meta struct {
	Type       RuleType
	Docs       Docs
	Fixable    bool
	Deprecated bool
	ReplacedBy []string
	Schema     []OptionSchema
}

// Docs is the documentation block of a rule.
type Docs struct {
	Description string
	URL         string
	Deprecated  bool
	ReplacedBy  []string
}

// OptionSchema describes one configurable rule option.
type OptionSchema struct {
	Name    string
	Type    string   // "string", "boolean", "integer" or "array"
	Enum    []string // allowed values for string options
	Default any
}

// DefaultSeverity returns the severity used when configuration does not
// override it. Problems are errors; everything else is a warning.
func (r Rule) DefaultSeverity() Severity {
	if r.Meta.Type == TypeProblem {
		return SeverityError
	}
	return SeverityWarning
}

// Option returns the schema of the named option.
func (r Rule) Option(name string) (OptionSchema, bool) {
	for _, opt := range r.Meta.Schema {
		if opt.Name == name {
			return opt, true
		}
	}
	return OptionSchema{}, false
}

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	Name            string   `json:"name" yaml:"name"`
	Type            RuleType `json:"type" yaml:"type"`
	Description     string   `json:"description" yaml:"description"`
	DefaultSeverity Severity `json:"default_severity" yaml:"default_severity"`
	Fixable         bool     `json:"fixable" yaml:"fixable"`
	Deprecated      bool     `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	ReplacedBy      []string `json:"replaced_by,omitempty" yaml:"replaced_by,omitempty"`
	Options         []string `json:"options,omitempty" yaml:"options,omitempty"`
	URL             string   `json:"url" yaml:"url"`
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) RuleInfo {
	info := RuleInfo{
		Name:            r.Name,
		Type:            r.Meta.Type,
		Description:     r.Meta.Docs.Description,
		DefaultSeverity: r.DefaultSeverity(),
		Fixable:         r.Meta.Fixable,
		Deprecated:      r.Meta.Deprecated,
		ReplacedBy:      r.Meta.ReplacedBy,
		URL:             r.Meta.Docs.URL,
	}
	if info.URL == "" {
		info.URL = BuildDocURL(r.Name)
	}
	for _, opt := range r.Meta.Schema {
		info.Options = append(info.Options, opt.Name)
	}
	return info
}
