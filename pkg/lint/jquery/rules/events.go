package rules

import (
	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/lint/jquery"
)

func init() {
	lint.Register(NoBind)
	lint.Register(NoDelegate)
	lint.Register(NoDie)
	lint.Register(NoLive)
	lint.Register(NoTrigger)
	lint.Register(NoLoad)
	lint.Register(NoEventShorthand)
}

// renames maps deprecated binding methods to their replacement.
var renames = map[string]string{
	"bind":       "on",
	"unbind":     "off",
	"delegate":   "on",
	"undelegate": "off",
}

// renameMethod rewrites the property of a method call in place.
func renameMethod(n ast.Node, f *lint.Fixer) []lint.TextEdit {
	call, ok := n.(*ast.CallExpression)
	if !ok {
		return nil
	}
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		return nil
	}
	to, ok := renames[member.PropertyName()]
	if !ok {
		return nil
	}
	return []lint.TextEdit{f.ReplaceText(member.Property, to)}
}

// NoBind disallows .bind and .unbind, deprecated since jQuery 3.0.
var NoBind = jquery.CollectionMethodRule("no-bind",
	[]string{"bind", "unbind"},
	jquery.Templated(func(n ast.Node) string {
		switch calledName(n) {
		case "bind":
			return "Prefer `.on` to `.bind`"
		case "unbind":
			return "Prefer `.off` to `.unbind`"
		}
		return "Prefer `.on`/`.off` to `.bind`/`.unbind`"
	}),
	jquery.Options{Fix: renameMethod})

// NoDelegate disallows .delegate and .undelegate. The argument order
// differs from .on, so no fix is offered.
var NoDelegate = jquery.CollectionMethodRule("no-delegate",
	[]string{"delegate", "undelegate"},
	jquery.Static("Prefer `.on`/`.off` to `.delegate`/`.undelegate`"),
	jquery.Options{})

// NoDie disallows .die, removed in jQuery 1.9.
var NoDie = jquery.CollectionMethodRule("no-die",
	[]string{"die"},
	jquery.Static("Prefer `.off` to `.die`"),
	jquery.Options{Type: lint.TypeProblem})

// NoLive disallows .live, removed in jQuery 1.9.
var NoLive = jquery.CollectionMethodRule("no-live",
	[]string{"live"},
	jquery.Static("Prefer `.on` to `.live`"),
	jquery.Options{Type: lint.TypeProblem})

// NoTrigger disallows .trigger.
var NoTrigger = jquery.CollectionMethodRule("no-trigger",
	[]string{"trigger"},
	jquery.Static("Prefer `EventTarget#dispatchEvent` to `.trigger`"),
	jquery.Options{})

// NoLoad disallows the ajax .load method.
var NoLoad = jquery.CollectionMethodRule("no-load",
	[]string{"load"},
	jquery.Static("Prefer `fetch` to `.load`"),
	jquery.Options{})

var eventShorthands = []string{
	"ajaxComplete", "ajaxError", "ajaxSend", "ajaxStart", "ajaxStop",
	"ajaxSuccess", "blur", "change", "click", "contextmenu", "dblclick",
	"error", "focus", "focusin", "focusout", "hover", "keydown", "keypress",
	"keyup", "mousedown", "mouseenter", "mouseleave", "mousemove",
	"mouseout", "mouseover", "mouseup", "resize", "scroll", "select",
	"submit", "unload",
}

// NoEventShorthand disallows event shorthand methods such as .click(fn).
var NoEventShorthand = jquery.CollectionMethodRule("no-event-shorthand",
	eventShorthands,
	jquery.Templated(func(n ast.Node) string {
		name := calledName(n)
		if name == "" {
			return "Prefer `.on` or `.trigger` to event shorthands"
		}
		return "Prefer `.on` or `.trigger` to `." + name + "`"
	}),
	jquery.Options{GetAndSetOptions: true})

// calledName returns the method name of a reported call, or "" when the
// message is rendered for documentation.
func calledName(n ast.Node) string {
	call, ok := n.(*ast.CallExpression)
	if !ok {
		return ""
	}
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		return ""
	}
	return member.PropertyName()
}
