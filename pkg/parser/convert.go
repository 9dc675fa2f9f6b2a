package parser

import (
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/token"
)

// ESTree names for tree-sitter kinds that do not follow the plain
// snake_case to PascalCase rule.
var kindNames = map[string]string{
	"program":              ast.KindProgram,
	"object":               ast.KindObjectExpression,
	"array":                ast.KindArrayExpression,
	"this":                 ast.KindThisExpression,
	"new_expression":       ast.KindNewExpression,
	"template_string":      ast.KindTemplateLiteral,
	"function_expression":  ast.KindFunction,
	"function":             ast.KindFunction,
	"arrow_function":       ast.KindArrowFunction,
	"pair":                 "Property",
	"spread_element":       "SpreadElement",
	"lexical_declaration":  "VariableDeclaration",
	"variable_declaration": "VariableDeclaration",
	"variable_declarator":  "VariableDeclarator",
	"statement_block":      "BlockStatement",
	"non_null_expression":  "TSNonNullExpression",
	"as_expression":        "TSAsExpression",

	"private_property_identifier": "PrivateIdentifier",
}

var droppedKinds = map[string]bool{
	"comment":        true,
	"html_comment":   true,
	"hash_bang_line": true,
}

type converter struct {
	source []byte
}

func (c *converter) span(n *tree_sitter.Node) token.Span {
	return token.Span{Start: position(n), End: endPosition(n)}
}

func (c *converter) convert(n *tree_sitter.Node) ast.Node {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "parenthesized_expression":
		if inner := c.namedChildren(n); len(inner) == 1 {
			return inner[0]
		}
	case "call_expression":
		return c.convertCall(n)
	case "member_expression":
		return &ast.MemberExpression{
			Loc:      c.span(n),
			Object:   c.convert(n.ChildByFieldName("object")),
			Property: c.convert(n.ChildByFieldName("property")),
			Optional: n.ChildByFieldName("optional_chain") != nil,
		}
	case "subscript_expression":
		return &ast.MemberExpression{
			Loc:      c.span(n),
			Object:   c.convert(n.ChildByFieldName("object")),
			Property: c.convert(n.ChildByFieldName("index")),
			Computed: true,
			Optional: n.ChildByFieldName("optional_chain") != nil,
		}
	case "identifier", "property_identifier", "shorthand_property_identifier", "undefined":
		return &ast.Identifier{Loc: c.span(n), Name: n.Utf8Text(c.source)}
	case "string":
		return c.convertString(n)
	case "number":
		raw := n.Utf8Text(c.source)
		return &ast.Literal{Loc: c.span(n), Value: parseNumber(raw), Raw: raw}
	case "true", "false":
		raw := n.Utf8Text(c.source)
		return &ast.Literal{Loc: c.span(n), Value: raw == "true", Raw: raw}
	case "null", "regex":
		return &ast.Literal{Loc: c.span(n), Raw: n.Utf8Text(c.source)}
	}
	return &ast.Other{
		Loc:      c.span(n),
		Type:     kindName(n.Kind()),
		Children: c.namedChildren(n),
	}
}

func (c *converter) convertCall(n *tree_sitter.Node) ast.Node {
	callee := c.convert(n.ChildByFieldName("function"))
	args := n.ChildByFieldName("arguments")
	if args != nil && args.Kind() == "template_string" {
		// tag`...` is not a call with an argument list.
		return &ast.Other{
			Loc:      c.span(n),
			Type:     "TaggedTemplateExpression",
			Children: []ast.Node{callee, c.convert(args)},
		}
	}
	call := &ast.CallExpression{
		Loc:      c.span(n),
		Callee:   callee,
		Optional: n.ChildByFieldName("optional_chain") != nil,
	}
	if args != nil {
		call.Arguments = c.namedChildren(args)
	}
	return call
}

func (c *converter) convertString(n *tree_sitter.Node) ast.Node {
	var sb strings.Builder
	for i := uint(0); i < n.NamedChildCount(); i++ {
		part := n.NamedChild(i)
		text := part.Utf8Text(c.source)
		switch part.Kind() {
		case "string_fragment":
			sb.WriteString(text)
		case "escape_sequence":
			sb.WriteString(unescape(text))
		}
	}
	return &ast.Literal{Loc: c.span(n), Value: sb.String(), Raw: n.Utf8Text(c.source)}
}

func (c *converter) namedChildren(n *tree_sitter.Node) []ast.Node {
	count := n.NamedChildCount()
	if count == 0 {
		return nil
	}
	out := make([]ast.Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || droppedKinds[child.Kind()] {
			continue
		}
		out = append(out, c.convert(child))
	}
	return out
}

// kindName maps a tree-sitter kind to its ESTree spelling.
func kindName(kind string) string {
	if name, ok := kindNames[kind]; ok {
		return name
	}
	parts := strings.Split(kind, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}

func parseNumber(raw string) any {
	s := strings.ReplaceAll(raw, "_", "")
	s = strings.TrimSuffix(s, "n") // BigInt
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return float64(i)
	}
	return nil
}

func unescape(seq string) string {
	if s, err := strconv.Unquote(`"` + seq + `"`); err == nil {
		return s
	}
	switch seq {
	case `\'`:
		return "'"
	case "\\\n", "\\\r\n":
		return ""
	}
	return strings.TrimPrefix(seq, `\`)
}
