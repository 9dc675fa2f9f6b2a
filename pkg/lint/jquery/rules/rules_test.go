package rules_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/jqlint/pkg/lint"
	_ "github.com/leapstack-labs/jqlint/pkg/lint/jquery/rules" // register rules
	"github.com/leapstack-labs/jqlint/pkg/parser"
)

// Helper to run analysis and filter by rule name
func runRule(t *testing.T, src string, rule string) []lint.Diagnostic {
	t.Helper()
	f, err := parser.ParseFile("test.js", []byte(src))
	require.NoError(t, err)

	r, ok := lint.Get(rule)
	require.True(t, ok, "rule %s not registered", rule)
	return lint.NewRunner(nil, nil).Run(f, []lint.Rule{r})
}

func TestRegistered(t *testing.T) {
	want := []string{
		"no-ajax", "no-and-self", "no-andself", "no-animate", "no-attr",
		"no-bind", "no-browser", "no-class", "no-closest", "no-context-prop",
		"no-css", "no-data", "no-deferred", "no-delegate", "no-die", "no-each",
		"no-each-util", "no-event-shorthand", "no-extend", "no-fade", "no-find",
		"no-fx", "no-grep", "no-html", "no-in-array", "no-is", "no-is-array",
		"no-is-function", "no-live", "no-load", "no-map", "no-map-util",
		"no-now", "no-param", "no-parents", "no-parse-json", "no-prop",
		"no-proxy", "no-selector-prop", "no-serialize", "no-size", "no-slide",
		"no-support", "no-text", "no-trigger", "no-trim", "no-type",
		"no-unique", "no-val", "no-visibility", "no-when", "no-wrap",
	}
	assert.Equal(t, want, lint.Names())

	for _, rule := range lint.All() {
		assert.True(t, strings.HasPrefix(rule.Meta.Docs.Description, "Disallows the "), rule.Name)
		assert.NotNil(t, rule.Create, rule.Name)
	}
}

func TestDeprecatedRules(t *testing.T) {
	tests := []struct {
		name       string
		replacedBy []string
	}{
		{"no-andself", []string{"no-and-self"}},
		{"no-browser", []string{"no-support"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := lint.Get(tt.name)
			require.True(t, ok)
			assert.True(t, rule.Meta.Docs.Deprecated)
			assert.Equal(t, tt.replacedBy, rule.Meta.Docs.ReplacedBy)

			replacement, ok := lint.Get(tt.replacedBy[0])
			require.True(t, ok)
			assert.False(t, replacement.Meta.Deprecated)
		})
	}
}

func TestRules(t *testing.T) {
	tests := []struct {
		rule     string
		src      string
		wantDiag bool
		message  string
	}{
		{"no-animate", "$el.animate({opacity: 0});", true, "Prefer CSS transitions or the Web Animations API to .animate"},
		{"no-fade", "$('#x').fadeIn();", true, "Prefer CSS transitions to fade effects"},
		{"no-slide", "menu.slideUp();", false, ""},
		{"no-visibility", "$el.show();", true, "Prefer Element#hidden or a CSS class to toggling visibility"},
		{"no-bind", "$el.unbind('click');", true, "Prefer .off to .unbind"},
		{"no-bind", "el.bind(this);", false, ""},
		{"no-delegate", "$(document).delegate('a', 'click', fn);", true, "Prefer .on/.off to .delegate/.undelegate"},
		{"no-die", "$el.die();", true, "Prefer .off to .die"},
		{"no-live", "$('a').live('click', fn);", true, "Prefer .on to .live"},
		{"no-trigger", "$el.trigger('change');", true, "Prefer EventTarget#dispatchEvent to .trigger"},
		{"no-load", "$('#box').load('/part.html');", true, "Prefer fetch to .load"},
		{"no-event-shorthand", "$el.click(fn);", true, "Prefer .on or .trigger to .click"},
		{"no-event-shorthand", "$el.on('click', fn);", false, ""},
		{"no-attr", "$el.attr('id');", true, "Prefer Element#getAttribute/setAttribute/removeAttribute"},
		{"no-prop", "$el.prop('checked', true);", true, "Prefer direct property access to .prop"},
		{"no-html", "$el.html();", true, "Prefer Element#innerHTML to .html"},
		{"no-text", "$el.find('p').text('x');", true, "Prefer Node#textContent to .text"},
		{"no-val", "$input.val();", true, "Prefer HTMLInputElement#value to .val"},
		{"no-class", "$el.toggleClass('on');", true, "Prefer Element#classList"},
		{"no-css", "$el.css('color');", true, "Prefer getComputedStyle/Element#style to .css"},
		{"no-closest", "$el.closest('form');", true, "Prefer Element#closest to .closest"},
		{"no-closest", "el.closest('form');", false, ""},
		{"no-find", "$('ul').find('li');", true, "Prefer Element#querySelectorAll to .find"},
		{"no-parents", "$el.parentsUntil('.root');", true, "Prefer Element#closest or a parentElement loop to .parents"},
		{"no-is", "$el.is(':visible');", true, "Prefer Element#matches to .is"},
		{"no-serialize", "$form.serializeArray();", true, "Prefer FormData or URLSearchParams to .serialize"},
		{"no-size", "$items.size();", true, "Prefer .length to .size"},
		{"no-wrap", "$el.wrapInner('<b>');", true, "Prefer DOM building and Element#replaceWith to wrapping helpers"},
		{"no-and-self", "$el.find('a').andSelf();", true, "Prefer .addBack to .andSelf"},
		{"no-ajax", "$.getJSON('/api');", true, "Prefer fetch to $.ajax"},
		{"no-ajax", "$el.get(0);", false, ""},
		{"no-param", "jQuery.param({a: 1});", true, "Prefer URLSearchParams to $.param"},
		{"no-extend", "$.extend({}, a, b);", true, "Prefer Object.assign or the spread operator to $.extend"},
		{"no-grep", "$.grep(list, fn);", true, "Prefer Array#filter to $.grep"},
		{"no-in-array", "$.inArray(x, list);", true, "Prefer Array#indexOf or Array#includes to $.inArray"},
		{"no-proxy", "$.proxy(fn, this);", true, "Prefer Function#bind to $.proxy"},
		{"no-type", "$.type(x);", true, "Prefer typeof/instanceof to $.type"},
		{"no-is-function", "$.isFunction(fn);", true, "Prefer typeof fn === 'function' to $.isFunction"},
		{"no-deferred", "const d = $.Deferred();", true, "Prefer Promise to $.Deferred"},
		{"no-when", "$.when(a, b);", true, "Prefer Promise.all to $.when"},
		{"no-unique", "$.uniqueSort(nodes);", true, "Prefer new Set(array) to $.unique"},
		{"no-each-util", "$.each(list, fn);", true, "Prefer Array#forEach to $.each"},
		{"no-each-util", "$list.each(fn);", false, ""},
		{"no-map-util", "$.map(list, fn);", true, "Prefer Array#map to $.map"},
		{"no-context-prop", "x = $el.context;", true, ".context was removed in jQuery 3.0"},
		{"no-selector-prop", "x = $('a').selector;", true, ".selector was removed in jQuery 3.0"},
		{"no-support", "if ($.support.opacity) {}", true, "Prefer feature detection to $.support"},
		{"no-browser", "if ($.browser.msie) {}", true, "$.browser was removed in jQuery 1.9"},
		{"no-fx", "$.fx.off = true;", true, "Prefer CSS transitions to tuning $.fx"},
		{"no-each", "$list.each(fn);", true, "Prefer Array#forEach to .each/$.each"},
		{"no-each", "$.each(list, fn);", true, "Prefer Array#forEach to .each/$.each"},
		{"no-map", "$('li').map(fn);", true, "Prefer Array#map to .map/$.map"},
		{"no-data", "$.removeData(el, 'k');", true, "Prefer WeakMap or Element#dataset to .data/$.data"},
		{"no-data", "cache.data('k');", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.rule+" "+tt.src, func(t *testing.T) {
			diags := runRule(t, tt.src, tt.rule)
			if !tt.wantDiag {
				assert.Empty(t, diags, "unexpected diagnostics for %q", tt.src)
				return
			}
			require.Len(t, diags, 1, "expected one diagnostic for %q", tt.src)
			assert.Equal(t, tt.rule, diags[0].RuleID)
			assert.Equal(t, tt.message, diags[0].Message)
		})
	}
}

func TestFixes(t *testing.T) {
	tests := []struct {
		rule string
		src  string
		want string
	}{
		{"no-bind", "$el.bind('click', fn);", "$el.on('click', fn);"},
		{"no-bind", "$el.unbind('click');", "$el.off('click');"},
		{"no-size", "n = $items.size();", "n = $items.length;"},
		{"no-and-self", "$el.find('a').andSelf();", "$el.find('a').addBack();"},
		{"no-parse-json", "$.parseJSON(text);", "JSON.parse(text);"},
		{"no-is-array", "jQuery.isArray(x);", "Array.isArray(x);"},
		{"no-now", "t = $.now();", "t = Date.now();"},
		{"no-trim", "$.trim(name);", "name.trim();"},
		{"no-trim", "$.trim(a + b);", "(a + b).trim();"},
	}

	for _, tt := range tests {
		t.Run(tt.rule+" "+tt.src, func(t *testing.T) {
			diags := runRule(t, tt.src, tt.rule)
			require.Len(t, diags, 1)
			require.True(t, diags[0].AutoFixable, "expected a fix")
			got := lint.ApplyEdits([]byte(tt.src), diags[0].Fixes[0].TextEdits)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNoFixWhenUnsafe(t *testing.T) {
	diags := runRule(t, "$.trim(a, b);", "no-trim")
	require.Len(t, diags, 1)
	assert.False(t, diags[0].AutoFixable)

	diags = runRule(t, "$el.delegate('a', 'click', fn);", "no-delegate")
	require.Len(t, diags, 1)
	assert.False(t, diags[0].AutoFixable)
}

func TestAllowGetOrSet(t *testing.T) {
	f, err := parser.ParseFile("test.js", []byte("$a.val();\n$a.val('x');\n$a.text();\n"))
	require.NoError(t, err)

	cfg := lint.NewConfig().
		SetRuleOptions("no-val", map[string]any{"allowGetOrSet": "get"}).
		SetRuleOptions("no-text", map[string]any{"allowGetOrSet": "set"})
	noVal, _ := lint.Get("no-val")
	noText, _ := lint.Get("no-text")

	diags := lint.NewRunner(cfg, nil).Run(f, []lint.Rule{noVal, noText})
	require.Len(t, diags, 2)
	assert.Equal(t, "no-val", diags[0].RuleID)
	assert.Equal(t, 2, diags[0].Pos.Line)
	assert.Equal(t, "no-text", diags[1].RuleID)
	assert.Equal(t, 3, diags[1].Pos.Line)
}

func TestAllowGetOrSet_KeyedAccessors(t *testing.T) {
	f, err := parser.ParseFile("test.js", []byte("$div.attr('id');\n$div.prop('checked');\n$div.attr('id', 'x');\n$div.prop({checked: true});\n"))
	require.NoError(t, err)

	cfg := lint.NewConfig().
		SetRuleOptions("no-attr", map[string]any{"allowGetOrSet": "get"}).
		SetRuleOptions("no-prop", map[string]any{"allowGetOrSet": "get"})

	noAttr, _ := lint.Get("no-attr")
	noProp, _ := lint.Get("no-prop")

	diags := lint.NewRunner(cfg, nil).Run(f, []lint.Rule{noAttr, noProp})
	require.Len(t, diags, 2)
	assert.Equal(t, "no-attr", diags[0].RuleID)
	assert.Equal(t, 3, diags[0].Pos.Line)
	assert.Equal(t, "no-prop", diags[1].RuleID)
	assert.Equal(t, 4, diags[1].Pos.Line)
}
