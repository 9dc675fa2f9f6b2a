// Package parser turns JavaScript and TypeScript source into the jqlint AST.
//
// Parsing is delegated to tree-sitter; this package only converts the
// concrete syntax tree into the small closed node set of package ast.
package parser

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/token"
)

var (
	languagesOnce sync.Once
	languages     map[Language]*tree_sitter.Language
	parserPools   map[Language]*sync.Pool
)

func initLanguages() {
	languagesOnce.Do(func() {
		languages = map[Language]*tree_sitter.Language{
			JavaScript: tree_sitter.NewLanguage(tree_sitter_javascript.Language()),
			TypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			TSX:        tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
		}

		parserPools = make(map[Language]*sync.Pool, len(languages))
		for l, tsLang := range languages {
			tsLang := tsLang
			parserPools[l] = &sync.Pool{
				New: func() any {
					p := tree_sitter.NewParser()
					if err := p.SetLanguage(tsLang); err != nil {
						panic(fmt.Sprintf("set language: %v", err))
					}
					return p
				},
			}
		}
	})
}

// parseTree runs tree-sitter over source. The caller must close the tree.
func parseTree(l Language, source []byte) (*tree_sitter.Tree, error) {
	initLanguages()

	pool, ok := parserPools[l]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", l)
	}

	p, _ := pool.Get().(*tree_sitter.Parser)
	if p == nil {
		return nil, fmt.Errorf("failed to get parser for language %s", l)
	}
	tree := p.Parse(source, nil)
	pool.Put(p)

	if tree == nil {
		return nil, fmt.Errorf("parse failed for language %s", l)
	}
	return tree, nil
}

// ParseFile parses a source file and builds its parent index.
// The grammar is chosen from the file extension.
func ParseFile(path string, source []byte) (*ast.File, error) {
	l, ok := LanguageForPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
	return Parse(l, path, source)
}

// Parse parses source with an explicit grammar.
func Parse(l Language, path string, source []byte) (*ast.File, error) {
	tree, err := parseTree(l, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		perr := firstError(root, source)
		perr.Path = path
		return nil, perr
	}

	c := converter{source: source}
	return ast.NewFile(path, source, c.convert(root)), nil
}

// ParseExpression parses a single JavaScript expression, as typed at the
// classify prompt. It returns the file holding the expression so callers
// can consult parent links.
func ParseExpression(src string) (*ast.File, ast.Node, error) {
	f, err := Parse(JavaScript, "<expr>", []byte(src))
	if err != nil {
		return nil, nil, err
	}
	prog, ok := f.Root.(*ast.Other)
	if !ok || len(prog.Children) != 1 {
		return nil, nil, &ParseError{Message: errNoExpression}
	}
	stmt, ok := prog.Children[0].(*ast.Other)
	if !ok || stmt.Type != "ExpressionStatement" || len(stmt.Children) != 1 {
		return nil, nil, &ParseError{Pos: prog.Children[0].Pos(), Message: errNoExpression}
	}
	return f, stmt.Children[0], nil
}

// firstError finds the earliest ERROR or MISSING node in a tree that
// reports HasError.
func firstError(n *tree_sitter.Node, source []byte) *ParseError {
	if n.IsError() {
		text := n.Utf8Text(source)
		if len(text) > 20 {
			text = text[:20]
		}
		return &ParseError{Pos: position(n), Message: fmt.Sprintf(errUnexpectedSyntax, text)}
	}
	if n.IsMissing() {
		return &ParseError{Pos: position(n), Message: fmt.Sprintf(errMissingToken, n.Kind())}
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.HasError() {
			return firstError(child, source)
		}
	}
	return &ParseError{Pos: position(n), Message: "syntax error"}
}

func position(n *tree_sitter.Node) token.Position {
	p := n.StartPosition()
	return token.Position{
		Line:   int(p.Row) + 1,
		Column: int(p.Column) + 1,
		Offset: int(n.StartByte()),
	}
}

func endPosition(n *tree_sitter.Node) token.Position {
	p := n.EndPosition()
	return token.Position{
		Line:   int(p.Row) + 1,
		Column: int(p.Column) + 1,
		Offset: int(n.EndByte()),
	}
}
