package jquery

import (
	"slices"

	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/lint"
)

// FixFunc builds the edits for a reported node: the call for method rules,
// the member expression for property rules.
type FixFunc func(node ast.Node, f *lint.Fixer) []lint.TextEdit

// Options tune a generated rule.
type Options struct {
	// Deprecated marks the rule as deprecated. A non-empty ReplacedBy
	// implies it.
	Deprecated bool
	ReplacedBy []string

	Fixable bool
	Fix     FixFunc // Implies Fixable

	// GetAndSetOptions adds the allowGetOrSet option to collection method
	// rules.
	GetAndSetOptions bool

	// Type defaults to lint.TypeSuggestion.
	Type lint.RuleType
}

func (o Options) isDeprecated() bool {
	return o.Deprecated || len(o.ReplacedBy) > 0
}

// Values of the allowGetOrSet option.
const (
	OptionAllowGetOrSet = "allowGetOrSet"

	AllowNone = "none"
	AllowGet  = "get"
	AllowSet  = "set"
)

var allowGetOrSetValues = []string{AllowNone, AllowGet, AllowSet}

func buildMeta(mode Mode, target Target, names []string, msg Message, opts Options) lint.Meta {
	typ := opts.Type
	if typ == "" {
		typ = lint.TypeSuggestion
	}
	deprecated := opts.isDeprecated()
	replacedBy := slices.Clone(opts.ReplacedBy)

	meta := lint.Meta{
		Type: typ,
		Docs: lint.Docs{
			Description: Describe(mode, target, names, msg, opts),
			Deprecated:  deprecated,
			ReplacedBy:  replacedBy,
		},
		Fixable:    opts.Fixable || opts.Fix != nil,
		Deprecated: deprecated,
		ReplacedBy: replacedBy,
	}
	if opts.GetAndSetOptions {
		meta.Schema = append(meta.Schema, lint.OptionSchema{
			Name:    OptionAllowGetOrSet,
			Type:    "string",
			Enum:    allowGetOrSetValues,
			Default: AllowNone,
		})
	}
	return meta
}

func report(ctx *lint.Context, n ast.Node, name string, mode Mode, msg Message, fix FixFunc) {
	r := lint.Report{
		Node:    n,
		Message: Compose(msg, mode, []string{name}, n),
	}
	if fix != nil {
		r.Fix = func(f *lint.Fixer) []lint.TextEdit { return fix(n, f) }
	}
	ctx.Report(r)
}

// calledMethod returns the call's member callee and its static name.
func calledMethod(n ast.Node) (*ast.CallExpression, *ast.MemberExpression, string) {
	call, ok := n.(*ast.CallExpression)
	if !ok {
		return nil, nil, ""
	}
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		return nil, nil, ""
	}
	return call, member, member.PropertyName()
}

// CollectionMethodRule reports calls of methods on a collection.
func CollectionMethodRule(name string, methods []string, msg Message, opts Options) lint.Rule {
	methods = slices.Clone(methods)
	return lint.Rule{
		Name: name,
		Meta: buildMeta(ModeCollection, TargetMethod, methods, msg, opts),
		Create: func(ctx *lint.Context) lint.Visitor {
			allow := AllowNone
			if opts.GetAndSetOptions {
				allow = lint.GetEnumOption(ctx.Options, OptionAllowGetOrSet, allowGetOrSetValues, AllowNone)
			}
			return lint.Visitor{
				lint.OnCallExpressionExit: func(n ast.Node) {
					call, member, method := calledMethod(n)
					if call == nil || !slices.Contains(methods, method) {
						return
					}
					if allow != AllowNone {
						getter := isGetterCall(method, call.Arguments, ctx.Settings)
						if (allow == AllowGet) == getter {
							return
						}
					}
					if !Classify(ctx.File, member, ctx.Settings, ModeCollection) {
						return
					}
					report(ctx, call, method, ModeCollection, msg, opts.Fix)
				},
			}
		},
	}
}

// CollectionPropertyRule reports reads of property on a collection.
func CollectionPropertyRule(name string, property string, msg Message, opts Options) lint.Rule {
	return lint.Rule{
		Name: name,
		Meta: buildMeta(ModeCollection, TargetProperty, []string{property}, msg, opts),
		Create: func(ctx *lint.Context) lint.Visitor {
			return lint.Visitor{
				lint.OnMemberExpressionExit: func(n ast.Node) {
					member, ok := n.(*ast.MemberExpression)
					if !ok || member.PropertyName() != property || ctx.File.IsCallee(member) {
						return
					}
					if !Classify(ctx.File, member.Object, ctx.Settings, ModeCollection) {
						return
					}
					report(ctx, member, property, ModeCollection, msg, opts.Fix)
				},
			}
		},
	}
}

// UtilMethodRule reports calls of methods directly on a constructor alias.
func UtilMethodRule(name string, methods []string, msg Message, opts Options) lint.Rule {
	methods = slices.Clone(methods)
	return lint.Rule{
		Name: name,
		Meta: buildMeta(ModeUtil, TargetMethod, methods, msg, opts),
		Create: func(ctx *lint.Context) lint.Visitor {
			return lint.Visitor{
				lint.OnCallExpression: func(n ast.Node) {
					call, member, method := calledMethod(n)
					if call == nil || !slices.Contains(methods, method) {
						return
					}
					if !IsUtil(member, ctx.Settings) {
						return
					}
					report(ctx, call, method, ModeUtil, msg, opts.Fix)
				},
			}
		},
	}
}

// UtilPropertyRule reports reads of property directly on a constructor alias.
func UtilPropertyRule(name string, property string, msg Message, opts Options) lint.Rule {
	return lint.Rule{
		Name: name,
		Meta: buildMeta(ModeUtil, TargetProperty, []string{property}, msg, opts),
		Create: func(ctx *lint.Context) lint.Visitor {
			return lint.Visitor{
				lint.OnMemberExpression: func(n ast.Node) {
					member, ok := n.(*ast.MemberExpression)
					if !ok || member.PropertyName() != property || ctx.File.IsCallee(member) {
						return
					}
					if !IsUtil(member, ctx.Settings) {
						return
					}
					report(ctx, member, property, ModeUtil, msg, opts.Fix)
				},
			}
		},
	}
}

// CollectionOrUtilMethodRule reports calls of methods that exist both on
// collections and on the constructor, such as each and map.
func CollectionOrUtilMethodRule(name string, methods []string, msg Message, opts Options) lint.Rule {
	methods = slices.Clone(methods)
	return lint.Rule{
		Name: name,
		Meta: buildMeta(ModeBoth, TargetMethod, methods, msg, opts),
		Create: func(ctx *lint.Context) lint.Visitor {
			return lint.Visitor{
				lint.OnCallExpressionExit: func(n ast.Node) {
					call, member, method := calledMethod(n)
					if call == nil || !slices.Contains(methods, method) {
						return
					}
					if !Classify(ctx.File, member, ctx.Settings, ModeBoth) {
						return
					}
					report(ctx, call, method, ModeBoth, msg, opts.Fix)
				},
			}
		},
	}
}
