package rules

import (
	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/lint/jquery"
)

func init() {
	lint.Register(NoAttr)
	lint.Register(NoProp)
	lint.Register(NoHTML)
	lint.Register(NoText)
	lint.Register(NoVal)
	lint.Register(NoClass)
	lint.Register(NoCSS)
	lint.Register(NoClosest)
	lint.Register(NoFind)
	lint.Register(NoParents)
	lint.Register(NoIs)
	lint.Register(NoSerialize)
	lint.Register(NoSize)
	lint.Register(NoWrap)
	lint.Register(NoAndSelf)
	lint.Register(NoAndself)
}

// NoAttr disallows .attr and .removeAttr.
var NoAttr = jquery.CollectionMethodRule("no-attr",
	[]string{"attr", "removeAttr"},
	jquery.Static("Prefer `Element#getAttribute`/`setAttribute`/`removeAttribute`"),
	jquery.Options{GetAndSetOptions: true})

// NoProp disallows .prop and .removeProp.
var NoProp = jquery.CollectionMethodRule("no-prop",
	[]string{"prop", "removeProp"},
	jquery.Static("Prefer direct property access to `.prop`"),
	jquery.Options{GetAndSetOptions: true})

// NoHTML disallows .html.
var NoHTML = jquery.CollectionMethodRule("no-html",
	[]string{"html"},
	jquery.Static("Prefer `Element#innerHTML` to `.html`"),
	jquery.Options{GetAndSetOptions: true})

// NoText disallows .text.
var NoText = jquery.CollectionMethodRule("no-text",
	[]string{"text"},
	jquery.Static("Prefer `Node#textContent` to `.text`"),
	jquery.Options{GetAndSetOptions: true})

// NoVal disallows .val.
var NoVal = jquery.CollectionMethodRule("no-val",
	[]string{"val"},
	jquery.Static("Prefer `HTMLInputElement#value` to `.val`"),
	jquery.Options{GetAndSetOptions: true})

// NoClass disallows the class helpers.
var NoClass = jquery.CollectionMethodRule("no-class",
	[]string{"addClass", "hasClass", "removeClass", "toggleClass"},
	jquery.Static("Prefer `Element#classList`"),
	jquery.Options{})

// NoCSS disallows .css.
var NoCSS = jquery.CollectionMethodRule("no-css",
	[]string{"css"},
	jquery.Static("Prefer `getComputedStyle`/`Element#style` to `.css`"),
	jquery.Options{})

// NoClosest disallows .closest.
var NoClosest = jquery.CollectionMethodRule("no-closest",
	[]string{"closest"},
	jquery.Static("Prefer `Element#closest` to `.closest`"),
	jquery.Options{})

// NoFind disallows .find.
var NoFind = jquery.CollectionMethodRule("no-find",
	[]string{"find"},
	jquery.Static("Prefer `Element#querySelectorAll` to `.find`"),
	jquery.Options{})

// NoParents disallows .parents and .parentsUntil.
var NoParents = jquery.CollectionMethodRule("no-parents",
	[]string{"parents", "parentsUntil"},
	jquery.Static("Prefer `Element#closest` or a `parentElement` loop to `.parents`"),
	jquery.Options{})

// NoIs disallows .is.
var NoIs = jquery.CollectionMethodRule("no-is",
	[]string{"is"},
	jquery.Static("Prefer `Element#matches` to `.is`"),
	jquery.Options{})

// NoSerialize disallows form serialization helpers.
var NoSerialize = jquery.CollectionMethodRule("no-serialize",
	[]string{"serialize", "serializeArray"},
	jquery.Static("Prefer `FormData` or `URLSearchParams` to `.serialize`"),
	jquery.Options{})

// NoSize disallows .size, removed in jQuery 3.0. Calls without arguments
// are rewritten to .length.
var NoSize = jquery.CollectionMethodRule("no-size",
	[]string{"size"},
	jquery.Static("Prefer `.length` to `.size`"),
	jquery.Options{
		Type: lint.TypeProblem,
		Fix: func(n ast.Node, f *lint.Fixer) []lint.TextEdit {
			call, ok := n.(*ast.CallExpression)
			if !ok || len(call.Arguments) != 0 {
				return nil
			}
			member := call.Callee.(*ast.MemberExpression)
			return []lint.TextEdit{f.ReplaceRange(spanFrom(member.Property, call), "length")}
		},
	})

// NoWrap disallows the wrapping helpers.
var NoWrap = jquery.CollectionMethodRule("no-wrap",
	[]string{"wrap", "wrapAll", "wrapInner", "unwrap"},
	jquery.Static("Prefer DOM building and `Element#replaceWith` to wrapping helpers"),
	jquery.Options{})

// NoAndSelf disallows .andSelf, removed in jQuery 3.0.
var NoAndSelf = jquery.CollectionMethodRule("no-and-self",
	[]string{"andSelf"},
	jquery.Static("Prefer `.addBack` to `.andSelf`"),
	jquery.Options{
		Type: lint.TypeProblem,
		Fix: func(n ast.Node, f *lint.Fixer) []lint.TextEdit {
			member := n.(*ast.CallExpression).Callee.(*ast.MemberExpression)
			return []lint.TextEdit{f.ReplaceText(member.Property, "addBack")}
		},
	})

// NoAndself is the former name of NoAndSelf.
var NoAndself = jquery.CollectionMethodRule("no-andself",
	[]string{"andSelf"},
	jquery.Static("Prefer `.addBack` to `.andSelf`"),
	jquery.Options{ReplacedBy: []string{"no-and-self"}})
