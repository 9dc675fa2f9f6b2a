package jquery_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/lint/jquery"
	"github.com/leapstack-labs/jqlint/pkg/parser"
)

func expr(t *testing.T, src string) (*ast.File, ast.Node) {
	t.Helper()
	f, n, err := parser.ParseExpression(src)
	require.NoError(t, err, "parse %q", src)
	return f, n
}

func settings(t *testing.T, cfg lint.SettingsConfig) *lint.Settings {
	t.Helper()
	s, err := lint.NewSettings(cfg)
	require.NoError(t, err)
	return s
}

func TestIsCollection_Defaults(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{`$('div').find('p').focus`, true},
		{`div.focus`, false},
		{`$div[0].focus`, false},
		{`$method('foo').focus`, false},
		{`$div`, true},
		{`$div.focus`, true},
		{`$`, true},
		{`jQuery`, true},
		{`$('div')`, true},
		{`jQuery('div').parent()`, true},
		{`foo('div').parent()`, false},
		{`this.$el.find('a')`, true},
		{`this.el.find('a')`, false},
		{`$div['find']('a')`, false},
		{`$div.unknownPlugin()`, false},
		{`$div.find('a').unknownPlugin().show()`, false},
		{`($div).show()`, true},
		{`(a, $div).show()`, false},
		{`$div.val()`, false},
		{`$div.val('x')`, true},
		{`$div.html()`, false},
		{`$div.html('<p>')`, true},
		{`$div.data('foo', {a: 1})`, true},
		{`$div.data('foo')`, false},
		{`$div.data({a: 1})`, true},
		{`$div.data()`, false},
		{`$div.css('color', 'red')`, true},
		{`$div.outerHeight()`, false},
		{`$div.outerHeight(true)`, false},
		{`$div.outerHeight(10)`, true},
		{`$div.outerWidth(false)`, false},
		{`$div.queue()`, false},
		{`$div.queue('fx')`, false},
		{`$div.queue('fx', next)`, true},
		{`$div.queue(fn)`, true},
	}

	s := lint.DefaultSettings()
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, n := expr(t, tt.src)
			assert.Equal(t, tt.want, jquery.IsCollection(f, n, s))
		})
	}
}

func TestIsCollection_NeverMethods(t *testing.T) {
	s := lint.DefaultSettings()
	never := []string{"hasClass", "is", "index", "get", "serialize", "serializeArray", "size", "toArray", "triggerHandler", "promise"}

	for _, method := range never {
		assert.Equal(t, jquery.MethodNever, jquery.LookupMethod(method), method)
		for _, prefix := range []string{"$div", "$('div').find('p')", "jQuery(this).parent()"} {
			src := prefix + "." + method + "()"
			f, n := expr(t, src)
			assert.False(t, jquery.IsCollection(f, n, s), src)

			src = prefix + "." + method + "('x', 1)"
			f, n = expr(t, src)
			assert.False(t, jquery.IsCollection(f, n, s), src)
		}
	}
}

func TestIsCollection_Pure(t *testing.T) {
	s := lint.DefaultSettings()
	f, n := expr(t, `$('div').find('p').data('k', {}).focus`)

	first := jquery.IsCollection(f, n, s)
	for range 10 {
		assert.Equal(t, first, jquery.IsCollection(f, n, s))
	}
	assert.True(t, first)
}

func TestIsCollection_Plugins(t *testing.T) {
	s := settings(t, lint.SettingsConfig{
		CollectionReturningPlugins: map[string]string{
			"myPlugin":   "never",
			"tooltip":    "accessor",
			"dataset":    "valueAccessor",
			"find":       "never",
			"chainMaker": "valueAccessor",
		},
	})

	tests := []struct {
		src  string
		want bool
	}{
		{`$div`, true},
		{`$div.myPlugin()`, false},
		{`$div.myPlugin().show()`, false},
		{`$div.tooltip()`, false},
		{`$div.tooltip('open')`, true},
		{`$div.dataset('k')`, false},
		{`$div.dataset('k', 1)`, true},
		{`$div.dataset({k: 1})`, true},
		{`$div.find('a')`, false},
		{`$div.chainMaker(1, 2).show()`, true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, n := expr(t, tt.src)
			assert.Equal(t, tt.want, jquery.IsCollection(f, n, s))
		})
	}
}

func TestIsCollection_CustomSettings(t *testing.T) {
	s := settings(t, lint.SettingsConfig{
		ConstructorAliases: []string{"jq"},
		VariablePattern:    "^jq[A-Z]",
	})

	tests := []struct {
		src  string
		want bool
	}{
		{`jq('a').show()`, true},
		{`$('a').show()`, false},
		{`jqMenu.show()`, true},
		{`$menu.show()`, false},
		{`this.jqMenu.show()`, true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, n := expr(t, tt.src)
			assert.Equal(t, tt.want, jquery.IsCollection(f, n, s))
		})
	}
}

func TestIsCollection_UnterminatedWalk(t *testing.T) {
	var buf bytes.Buffer
	jquery.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { jquery.SetLogger(nil) })

	f := ast.NewFile("x.js", nil, nil)
	assert.False(t, jquery.IsCollection(f, &ast.CallExpression{}, lint.DefaultSettings()))
	assert.Contains(t, buf.String(), "collection walk ended without a terminal node")
	assert.Contains(t, buf.String(), "start=CallExpression")
}

func TestIsConstructor(t *testing.T) {
	s := lint.DefaultSettings()
	assert.True(t, jquery.IsConstructor("$", s))
	assert.True(t, jquery.IsConstructor("jQuery", s))
	assert.False(t, jquery.IsConstructor("$div", s))
	assert.False(t, jquery.IsConstructor("jquery", s))
}

func TestClassify_Modes(t *testing.T) {
	s := lint.DefaultSettings()

	tests := []struct {
		src        string
		collection bool
		util       bool
	}{
		{`$div.each`, true, false},
		{`$.each`, false, true},
		{`jQuery.ajax`, false, true},
		{`$('a').each`, true, false},
		{`arr.each`, false, false},
		{`$.fn.each`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, n := expr(t, tt.src)
			assert.Equal(t, tt.collection, jquery.Classify(f, n, s, jquery.ModeCollection), "collection")
			assert.Equal(t, tt.util, jquery.Classify(f, n, s, jquery.ModeUtil), "util")
			assert.Equal(t, tt.collection || tt.util, jquery.Classify(f, n, s, jquery.ModeBoth), "both")
		})
	}
}

func TestLookupMethod(t *testing.T) {
	tests := []struct {
		name string
		want jquery.MethodClass
	}{
		{"find", jquery.MethodChainable},
		{"hasClass", jquery.MethodNever},
		{"val", jquery.MethodAccessor},
		{"attr", jquery.MethodValueAccessor},
		{"outerWidth", jquery.MethodSizing},
		{"queue", jquery.MethodQueue},
		{"frobnicate", jquery.MethodUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jquery.LookupMethod(tt.name))
			assert.Equal(t, tt.want != jquery.MethodUnknown, jquery.IsKnownMethod(tt.name))
		})
	}

	assert.Contains(t, jquery.KnownMethods(), "wrapInner")
}
