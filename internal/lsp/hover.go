package lsp

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/lint/jquery"
	"github.com/leapstack-labs/jqlint/pkg/parser"
)

// getHover describes how the expression under the cursor is classified.
// It returns nil when the cursor is not on a call, member access or name.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil || !isLintable(doc) {
		return nil
	}

	f, err := parser.ParseFile(doc.Path(), []byte(doc.Content))
	if err != nil {
		return nil
	}

	n := expressionAt(f, doc.PositionToOffset(params.Position))
	if n == nil {
		return nil
	}

	text := snippet(f.Text(n), 80)

	var b strings.Builder
	fmt.Fprintf(&b, "```javascript\n%s\n```\n\n", text)
	fmt.Fprintf(&b, "**%s**\n\n", n.Kind())
	fmt.Fprintf(&b, "- jQuery collection: %s\n", yesNo(jquery.Classify(f, n, s.settings, jquery.ModeCollection)))
	fmt.Fprintf(&b, "- jQuery utility: %s\n", yesNo(jquery.Classify(f, n, s.settings, jquery.ModeUtil)))

	r := doc.SpanToRange(n.Pos(), n.End())
	return &Hover{
		Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: b.String()},
		Range:    &r,
	}
}

// expressionAt returns the expression the cursor at offset refers to: the
// innermost call, member access or name, widened from a property name to
// its member access and from a callee to its call.
func expressionAt(f *ast.File, offset int) ast.Node {
	var found ast.Node
	ast.Walk(f.Root, func(n ast.Node) bool {
		if !n.Span().Contains(offset) {
			return false
		}
		switch n.(type) {
		case *ast.CallExpression, *ast.MemberExpression, *ast.Identifier:
			found = n
		}
		return true
	})
	if found == nil {
		return nil
	}

	if m, ok := f.Parent(found).(*ast.MemberExpression); ok && m.Property == found && !m.Computed {
		found = m
	}
	if f.IsCallee(found) {
		found = f.Parent(found)
	}
	return found
}

// snippet shortens text to at most limit runes, marking the cut with "...".
func snippet(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-3]) + "..."
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
