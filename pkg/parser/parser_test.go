package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/parser"
)

func TestLanguageForPath(t *testing.T) {
	tests := []struct {
		path string
		want parser.Language
		ok   bool
	}{
		{"app.js", parser.JavaScript, true},
		{"lib/util.MJS", parser.JavaScript, true},
		{"component.jsx", parser.JavaScript, true},
		{"main.ts", parser.TypeScript, true},
		{"view.tsx", parser.TSX, true},
		{"style.css", "", false},
		{"Makefile", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := parser.LanguageForPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, parser.IsSupported(tt.path))
		})
	}
}

func TestParseExpression_Chain(t *testing.T) {
	f, expr, err := parser.ParseExpression(`$('div').find('p').focus`)
	require.NoError(t, err)

	member, ok := expr.(*ast.MemberExpression)
	require.True(t, ok, "expected member expression, got %T", expr)
	assert.Equal(t, "focus", member.PropertyName())
	assert.False(t, member.Computed)

	call, ok := member.Object.(*ast.CallExpression)
	require.True(t, ok)
	require.Len(t, call.Arguments, 1)
	assert.Equal(t, "p", call.Arguments[0].(*ast.Literal).Value)

	find, ok := call.Callee.(*ast.MemberExpression)
	require.True(t, ok)
	assert.Equal(t, "find", find.PropertyName())

	ctor, ok := find.Object.(*ast.CallExpression)
	require.True(t, ok)
	id, ok := ctor.Callee.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "$", id.Name)
	assert.True(t, f.IsCallee(id))

	assert.Equal(t, "$('div').find('p')", f.Text(call))
}

func TestParseExpression_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, n ast.Node)
	}{
		{
			name: "computed access",
			src:  `$div[0]`,
			check: func(t *testing.T, n ast.Node) {
				m := n.(*ast.MemberExpression)
				assert.True(t, m.Computed)
				assert.Equal(t, float64(0), m.Property.(*ast.Literal).Value)
			},
		},
		{
			name: "parentheses unwrapped",
			src:  `($div).show()`,
			check: func(t *testing.T, n ast.Node) {
				call := n.(*ast.CallExpression)
				m := call.Callee.(*ast.MemberExpression)
				assert.Equal(t, "$div", m.Object.(*ast.Identifier).Name)
			},
		},
		{
			name: "object literal argument",
			src:  `$div.data('foo', {a: 1})`,
			check: func(t *testing.T, n ast.Node) {
				call := n.(*ast.CallExpression)
				require.Len(t, call.Arguments, 2)
				assert.True(t, ast.IsComposite(call.Arguments[1]))
				assert.True(t, ast.IsString(call.Arguments[0]))
			},
		},
		{
			name: "boolean literal",
			src:  `$div.outerHeight(true)`,
			check: func(t *testing.T, n ast.Node) {
				call := n.(*ast.CallExpression)
				require.Len(t, call.Arguments, 1)
				assert.Equal(t, true, call.Arguments[0].(*ast.Literal).Value)
			},
		},
		{
			name: "optional chaining",
			src:  `$div?.hide()`,
			check: func(t *testing.T, n ast.Node) {
				call := n.(*ast.CallExpression)
				assert.True(t, call.Callee.(*ast.MemberExpression).Optional)
			},
		},
		{
			name: "string escapes",
			src:  `'a\'b\n'`,
			check: func(t *testing.T, n ast.Node) {
				lit := n.(*ast.Literal)
				assert.Equal(t, "a'b\n", lit.Value)
				assert.Equal(t, `'a\'b\n'`, lit.Raw)
			},
		},
		{
			name: "tagged template is not a call",
			src:  "html`<p>`",
			check: func(t *testing.T, n ast.Node) {
				assert.Equal(t, "TaggedTemplateExpression", n.Kind())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, n, err := parser.ParseExpression(tt.src)
			require.NoError(t, err)
			tt.check(t, n)
		})
	}
}

func TestParseFile(t *testing.T) {
	src := []byte(`// toggles the menu
import $ from 'jquery';

function toggle() {
	const $menu = $('#menu');
	$menu.slideToggle(200);
}
`)
	f, err := parser.ParseFile("menu.js", src)
	require.NoError(t, err)
	assert.Equal(t, "menu.js", f.Path)
	assert.Equal(t, ast.KindProgram, f.Root.Kind())

	var calls []string
	ast.Walk(f.Root, func(n ast.Node) bool {
		if call, ok := n.(*ast.CallExpression); ok {
			calls = append(calls, f.Text(call.Callee))
		}
		return true
	})
	assert.Equal(t, []string{"$", "$menu.slideToggle"}, calls)
}

func TestParseFile_TypeScript(t *testing.T) {
	src := []byte(`const $el: JQuery = $('.item');
$el.addClass('active');
`)
	f, err := parser.ParseFile("item.ts", src)
	require.NoError(t, err)

	found := false
	ast.Walk(f.Root, func(n ast.Node) bool {
		if m, ok := n.(*ast.MemberExpression); ok && m.PropertyName() == "addClass" {
			found = true
			assert.Equal(t, 2, m.Pos().Line)
		}
		return true
	})
	assert.True(t, found)
}

func TestParseFile_SyntaxError(t *testing.T) {
	_, err := parser.ParseFile("broken.js", []byte("$div.find(\n"))
	require.Error(t, err)

	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "broken.js", perr.Path)
	assert.True(t, perr.Pos.IsValid())
}

func TestParseFile_Unsupported(t *testing.T) {
	_, err := parser.ParseFile("notes.txt", []byte("hello"))
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestParseExpression_NotExpression(t *testing.T) {
	_, _, err := parser.ParseExpression("var a = 1;")
	assert.Error(t, err)
}
