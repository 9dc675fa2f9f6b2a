// Package ast defines the closed set of JavaScript syntax nodes that jqlint
// rules inspect.
//
// Only the shapes consulted by the collection classifier get their own type:
// calls, member accesses, identifiers and literals. Every other construct is
// an *Other carrying its ESTree kind and its children, so traversal still
// reaches nested calls inside function bodies, object literals and so on.
//
// Nodes do not point at their parents. Parent links live in a File, built
// once per file by NewFile.
package ast

import "github.com/leapstack-labs/jqlint/pkg/token"

// ESTree kinds of the dedicated node types.
const (
	KindCallExpression   = "CallExpression"
	KindMemberExpression = "MemberExpression"
	KindIdentifier       = "Identifier"
	KindLiteral          = "Literal"
)

// ESTree kinds carried by *Other nodes that rules and the classifier look at.
const (
	KindProgram          = "Program"
	KindObjectExpression = "ObjectExpression"
	KindArrayExpression  = "ArrayExpression"
	KindThisExpression   = "ThisExpression"
	KindNewExpression    = "NewExpression"
	KindTemplateLiteral  = "TemplateLiteral"
	KindFunction         = "FunctionExpression"
	KindArrowFunction    = "ArrowFunctionExpression"
)

// Node is implemented by every syntax node. The set of implementations is
// closed: CallExpression, MemberExpression, Identifier, Literal and Other.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	// End returns the position of the character immediately after the node.
	End() token.Position
	// Span returns the source range of the node.
	Span() token.Span
	// Kind returns the ESTree type name.
	Kind() string

	node()
}

// CallExpression is a function or method invocation: callee(arguments...).
type CallExpression struct {
	Loc       token.Span
	Callee    Node
	Arguments []Node
	Optional  bool // callee?.()
}

// MemberExpression is a property access: object.property or object[property].
type MemberExpression struct {
	Loc      token.Span
	Object   Node
	Property Node
	Computed bool // object[property]
	Optional bool // object?.property
}

// Identifier is a plain name.
type Identifier struct {
	Loc  token.Span
	Name string
}

// Literal is a scalar literal. Value holds a string, float64, bool or nil.
type Literal struct {
	Loc   token.Span
	Value any
	Raw   string
}

// Other is any syntax form the classifier does not inspect directly.
type Other struct {
	Loc      token.Span
	Type     string // ESTree kind, e.g. "ObjectExpression"
	Children []Node
}

func (n *CallExpression) Pos() token.Position   { return n.Loc.Start }
func (n *MemberExpression) Pos() token.Position { return n.Loc.Start }
func (n *Identifier) Pos() token.Position       { return n.Loc.Start }
func (n *Literal) Pos() token.Position          { return n.Loc.Start }
func (n *Other) Pos() token.Position            { return n.Loc.Start }

func (n *CallExpression) End() token.Position   { return n.Loc.End }
func (n *MemberExpression) End() token.Position { return n.Loc.End }
func (n *Identifier) End() token.Position       { return n.Loc.End }
func (n *Literal) End() token.Position          { return n.Loc.End }
func (n *Other) End() token.Position            { return n.Loc.End }

func (n *CallExpression) Span() token.Span   { return n.Loc }
func (n *MemberExpression) Span() token.Span { return n.Loc }
func (n *Identifier) Span() token.Span       { return n.Loc }
func (n *Literal) Span() token.Span          { return n.Loc }
func (n *Other) Span() token.Span            { return n.Loc }

func (n *CallExpression) Kind() string   { return KindCallExpression }
func (n *MemberExpression) Kind() string { return KindMemberExpression }
func (n *Identifier) Kind() string       { return KindIdentifier }
func (n *Literal) Kind() string          { return KindLiteral }
func (n *Other) Kind() string            { return n.Type }

func (*CallExpression) node()   {}
func (*MemberExpression) node() {}
func (*Identifier) node()       {}
func (*Literal) node()          {}
func (*Other) node()            {}

// PropertyName returns the static name of a member access, or "" when the
// access is computed or keyed by something other than an identifier.
func (n *MemberExpression) PropertyName() string {
	if n.Computed {
		return ""
	}
	if id, ok := n.Property.(*Identifier); ok {
		return id.Name
	}
	return ""
}

// IsComposite reports whether n is an object-shaped literal.
func IsComposite(n Node) bool {
	o, ok := n.(*Other)
	return ok && o.Type == KindObjectExpression
}

// IsString reports whether n is a string literal.
func IsString(n Node) bool {
	lit, ok := n.(*Literal)
	if !ok {
		return false
	}
	_, ok = lit.Value.(string)
	return ok
}

// IsBool reports whether n is a boolean literal.
func IsBool(n Node) bool {
	lit, ok := n.(*Literal)
	if !ok {
		return false
	}
	_, ok = lit.Value.(bool)
	return ok
}

// Callee returns the callee of a call as a member expression, if it is one.
func Callee(call *CallExpression) (*MemberExpression, bool) {
	m, ok := call.Callee.(*MemberExpression)
	return m, ok
}
