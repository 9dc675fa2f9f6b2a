package starlark

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/lint/jquery"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// Builtin names available to rule files.
const (
	BuiltinCollectionMethod       = "collection_method_rule"
	BuiltinCollectionProperty     = "collection_property_rule"
	BuiltinUtilMethod             = "util_method_rule"
	BuiltinUtilProperty           = "util_property_rule"
	BuiltinCollectionOrUtilMethod = "collection_or_util_method_rule"
)

const collectorKey = "jqlint.collector"

// collector accumulates the rules declared by one file.
type collector struct {
	rules []lint.Rule
}

func (c *collector) add(rule lint.Rule) error {
	for _, r := range c.rules {
		if r.Name == rule.Name {
			return fmt.Errorf("rule %q declared twice", rule.Name)
		}
	}
	c.rules = append(c.rules, rule)
	return nil
}

// ruleArgs are the arguments shared by every factory builtin.
type ruleArgs struct {
	name       string
	names      []string
	message    jquery.Message
	deprecated bool
	replacedBy []string
	getAndSet  bool
	ruleType   lint.RuleType
}

func (a ruleArgs) options() jquery.Options {
	return jquery.Options{
		Deprecated:       a.deprecated,
		ReplacedBy:       a.replacedBy,
		GetAndSetOptions: a.getAndSet,
		Type:             a.ruleType,
	}
}

type factory func(a ruleArgs) lint.Rule

// Predeclared returns the factory builtins. Message callables run on
// threads taken from pool; their failures are logged to logger.
func Predeclared(pool *ThreadPool, logger *slog.Logger) starlark.StringDict {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	methods := func(build func(name string, methods []string, msg jquery.Message, opts jquery.Options) lint.Rule) factory {
		return func(a ruleArgs) lint.Rule {
			return build(a.name, a.names, a.message, a.options())
		}
	}
	property := func(build func(name string, property string, msg jquery.Message, opts jquery.Options) lint.Rule) factory {
		return func(a ruleArgs) lint.Rule {
			return build(a.name, a.names[0], a.message, a.options())
		}
	}

	return starlark.StringDict{
		BuiltinCollectionMethod:       newRuleBuiltin(BuiltinCollectionMethod, "methods", pool, logger, methods(jquery.CollectionMethodRule)),
		BuiltinCollectionProperty:     newRuleBuiltin(BuiltinCollectionProperty, "property", pool, logger, property(jquery.CollectionPropertyRule)),
		BuiltinUtilMethod:             newRuleBuiltin(BuiltinUtilMethod, "methods", pool, logger, methods(jquery.UtilMethodRule)),
		BuiltinUtilProperty:           newRuleBuiltin(BuiltinUtilProperty, "property", pool, logger, property(jquery.UtilPropertyRule)),
		BuiltinCollectionOrUtilMethod: newRuleBuiltin(BuiltinCollectionOrUtilMethod, "methods", pool, logger, methods(jquery.CollectionOrUtilMethodRule)),
	}
}

func newRuleBuiltin(name, namesParam string, pool *ThreadPool, logger *slog.Logger, build factory) *starlark.Builtin {
	isProperty := namesParam == "property"
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			ruleName   string
			names      starlark.Value
			message    starlark.Value = starlark.None
			deprecated bool
			replacedBy starlark.Value = starlark.None
			getAndSet  bool
			ruleType   string
		)
		pairs := []any{
			"name", &ruleName,
			namesParam, &names,
			"message?", &message,
			"deprecated?", &deprecated,
			"replaced_by?", &replacedBy,
			"type?", &ruleType,
		}
		if !isProperty {
			pairs = append(pairs, "get_and_set?", &getAndSet)
		}
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, pairs...); err != nil {
			return nil, err
		}

		a := ruleArgs{
			name:       ruleName,
			deprecated: deprecated,
			getAndSet:  getAndSet,
			ruleType:   lint.RuleType(ruleType),
		}
		if a.name == "" {
			return nil, fmt.Errorf("%s: name must not be empty", b.Name())
		}
		if !slices.Contains([]lint.RuleType{"", lint.TypeProblem, lint.TypeSuggestion, lint.TypeLayout}, a.ruleType) {
			return nil, fmt.Errorf("%s: unknown type %q", b.Name(), ruleType)
		}

		var err error
		if isProperty {
			prop, ok := starlark.AsString(names)
			if !ok || prop == "" {
				return nil, fmt.Errorf("%s: property must be a non-empty string", b.Name())
			}
			a.names = []string{prop}
		} else {
			if a.names, err = ToStrings(names); err != nil {
				return nil, fmt.Errorf("%s: methods: %w", b.Name(), err)
			}
			if len(a.names) == 0 {
				return nil, fmt.Errorf("%s: methods must not be empty", b.Name())
			}
		}
		if a.replacedBy, err = ToStrings(replacedBy); err != nil {
			return nil, fmt.Errorf("%s: replaced_by: %w", b.Name(), err)
		}
		if a.message, err = toMessage(message, a.name, pool, logger); err != nil {
			return nil, fmt.Errorf("%s: message: %w", b.Name(), err)
		}

		c, ok := thread.Local(collectorKey).(*collector)
		if !ok {
			return nil, fmt.Errorf("%s: rules can only be declared while loading a rule file", b.Name())
		}
		if err := c.add(build(a)); err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}

		return starlarkstruct.FromStringDict(starlark.String("rule"), starlark.StringDict{
			"name":       starlark.String(a.name),
			"deprecated": starlark.Bool(a.deprecated || len(a.replacedBy) > 0),
		}), nil
	})
}

// toMessage converts a message argument: None, a string, or a callable
// taking a node description dict (None when rendering docs).
func toMessage(v starlark.Value, ruleName string, pool *ThreadPool, logger *slog.Logger) (jquery.Message, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return jquery.Message{}, nil
	case starlark.String:
		return jquery.Static(string(val)), nil
	case starlark.Callable:
		val.Freeze()
		return jquery.Templated(func(n ast.Node) string {
			arg := starlark.Value(starlark.None)
			if n != nil {
				arg = describeNode(n)
			}
			thread := pool.Get("message:" + ruleName)
			defer pool.Put(thread)
			out, err := starlark.Call(thread, val, starlark.Tuple{arg}, nil)
			if err != nil {
				trace := err.Error()
				var evalErr *starlark.EvalError
				if errors.As(err, &evalErr) {
					trace = evalErr.Backtrace()
				}
				logger.Warn("message callable failed",
					slog.String("rule", ruleName),
					slog.String("backtrace", trace))
				return ""
			}
			s, ok := starlark.AsString(out)
			if !ok && out != starlark.None {
				logger.Warn("message callable returned a non-string",
					slog.String("rule", ruleName),
					slog.String("type", out.Type()))
			}
			return s
		}), nil
	default:
		return jquery.Message{}, fmt.Errorf("want string, callable or None, got %s", v.Type())
	}
}

// describeNode builds the frozen dict handed to message callables.
func describeNode(n ast.Node) *starlark.Dict {
	name := ""
	arguments := -1
	switch n := n.(type) {
	case *ast.CallExpression:
		arguments = len(n.Arguments)
		if m, ok := n.Callee.(*ast.MemberExpression); ok {
			name = m.PropertyName()
		}
	case *ast.MemberExpression:
		name = n.PropertyName()
	case *ast.Identifier:
		name = n.Name
	}

	d := starlark.NewDict(3)
	_ = d.SetKey(starlark.String("kind"), starlark.String(n.Kind()))
	_ = d.SetKey(starlark.String("name"), starlark.String(name))
	if arguments >= 0 {
		_ = d.SetKey(starlark.String("arguments"), starlark.MakeInt(arguments))
	}
	d.Freeze()
	return d
}
