package rules

import (
	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/token"
)

// spanFrom covers from the start of a to the end of b.
func spanFrom(a, b ast.Node) token.Span {
	return token.Span{Start: a.Pos(), End: b.End()}
}

// replaceCallee returns a fix that swaps the callee of a call for a native
// function and keeps the arguments.
func replaceCallee(native string) func(ast.Node, *lint.Fixer) []lint.TextEdit {
	return func(n ast.Node, f *lint.Fixer) []lint.TextEdit {
		call, ok := n.(*ast.CallExpression)
		if !ok {
			return nil
		}
		return []lint.TextEdit{f.ReplaceText(call.Callee, native)}
	}
}

// asReceiver renders n so that a method can be called on it.
func asReceiver(f *lint.Fixer, n ast.Node) string {
	switch n.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.CallExpression:
		return f.Text(n)
	default:
		return "(" + f.Text(n) + ")"
	}
}
