package jquery

import (
	"log/slog"
	"sync/atomic"

	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/lint"
)

// Mode selects what a positive classification requires.
type Mode int

// Classification modes.
const (
	// ModeCollection requires the chain to hold a collection.
	ModeCollection Mode = iota
	// ModeUtil requires the chain to hang directly off a constructor alias,
	// as in $.ajax.
	ModeUtil
	// ModeBoth accepts either.
	ModeBoth
)

func (m Mode) String() string {
	switch m {
	case ModeCollection:
		return "collection"
	case ModeUtil:
		return "util"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.DiscardHandler))
}

// SetLogger sets the logger used to report chains the classifier could
// not resolve. A nil logger discards them.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger.Store(l)
}

// IsConstructor reports whether name is a configured constructor alias.
func IsConstructor(name string, s *lint.Settings) bool {
	return s.IsConstructorAlias(name)
}

// IsCollection reports whether the chain ending at n necessarily holds a
// collection. Anything the walk cannot prove resolves to false.
func IsCollection(f *ast.File, n ast.Node, s *lint.Settings) bool {
	start := n
	for n != nil {
		switch node := n.(type) {
		case *ast.CallExpression:
			if member, ok := node.Callee.(*ast.MemberExpression); ok {
				if !returnsCollection(member.PropertyName(), node.Arguments, s) {
					return false
				}
			}
			n = node.Callee

		case *ast.MemberExpression:
			if node.Computed {
				return false
			}
			prop, ok := node.Property.(*ast.Identifier)
			if !ok {
				return false
			}
			if s.MatchesVariable(prop.Name) {
				return true
			}
			n = node.Object

		case *ast.Identifier:
			if f.IsCallee(node) {
				return IsConstructor(node.Name, s)
			}
			return s.MatchesVariable(node.Name) || IsConstructor(node.Name, s)

		default:
			return false
		}
	}

	logger.Load().Debug("collection walk ended without a terminal node",
		"path", pathOf(f),
		"start", kindOf(start))
	return false
}

// returnsCollection reports whether calling method with args can still
// yield a collection. Plugin settings take precedence over the built-in
// tables.
func returnsCollection(method string, args []ast.Node, s *lint.Settings) bool {
	switch methodClass(method, s) {
	case MethodNever:
		return false
	case MethodAccessor:
		return len(args) != 0
	case MethodValueAccessor:
		return !valueAccessorGets(args)
	case MethodSizing:
		return !(len(args) == 0 || (len(args) == 1 && ast.IsBool(args[0])))
	case MethodQueue:
		return !(len(args) == 0 || (len(args) == 1 && ast.IsString(args[0])))
	case MethodUnknown:
		return false
	default:
		return true
	}
}

// methodClass is the table class of method, overridden by plugin settings.
func methodClass(method string, s *lint.Settings) MethodClass {
	if kind, ok := s.Plugin(method); ok {
		return pluginClass(kind)
	}
	return LookupMethod(method)
}

// valueAccessorGets reports whether args select the getter form of a
// value accessor: no arguments, or a single non-object key.
func valueAccessorGets(args []ast.Node) bool {
	return len(args) == 0 || (len(args) == 1 && !ast.IsComposite(args[0]))
}

// isGetterCall reports whether a call of method with args reads rather
// than writes. Value accessors take a key when reading; everything else
// reads only when called without arguments.
func isGetterCall(method string, args []ast.Node, s *lint.Settings) bool {
	if methodClass(method, s) == MethodValueAccessor {
		return valueAccessorGets(args)
	}
	return len(args) == 0
}

func pluginClass(kind lint.PluginKind) MethodClass {
	switch kind {
	case lint.PluginAccessor:
		return MethodAccessor
	case lint.PluginValueAccessor:
		return MethodValueAccessor
	default:
		return MethodNever
	}
}

// IsUtil reports whether n accesses a member of a constructor alias
// directly, as $.each does, or is the alias itself.
func IsUtil(n ast.Node, s *lint.Settings) bool {
	switch node := n.(type) {
	case *ast.CallExpression:
		member, ok := node.Callee.(*ast.MemberExpression)
		return ok && IsUtil(member, s)
	case *ast.MemberExpression:
		id, ok := node.Object.(*ast.Identifier)
		return ok && IsConstructor(id.Name, s)
	case *ast.Identifier:
		return IsConstructor(node.Name, s)
	default:
		return false
	}
}

// Classify combines IsCollection and IsUtil according to mode. In
// ModeCollection a chain hanging directly off a constructor alias does not
// count, so $.each(...) is left to util rules.
func Classify(f *ast.File, n ast.Node, s *lint.Settings, mode Mode) bool {
	switch mode {
	case ModeUtil:
		return IsUtil(n, s)
	case ModeBoth:
		return IsUtil(n, s) || IsCollection(f, n, s)
	default:
		return !IsUtil(n, s) && IsCollection(f, n, s)
	}
}

func pathOf(f *ast.File) string {
	if f == nil {
		return ""
	}
	return f.Path
}

func kindOf(n ast.Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Kind()
}
