package rules

import (
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/lint/jquery"
)

func init() {
	lint.Register(NoContextProp)
	lint.Register(NoSelectorProp)
	lint.Register(NoSupport)
	lint.Register(NoBrowser)
	lint.Register(NoFx)
}

// NoContextProp disallows the .context property, removed in jQuery 3.0.
var NoContextProp = jquery.CollectionPropertyRule("no-context-prop",
	"context",
	jquery.Static("`.context` was removed in jQuery 3.0"),
	jquery.Options{Type: lint.TypeProblem})

// NoSelectorProp disallows the .selector property, removed in jQuery 3.0.
var NoSelectorProp = jquery.CollectionPropertyRule("no-selector-prop",
	"selector",
	jquery.Static("`.selector` was removed in jQuery 3.0"),
	jquery.Options{Type: lint.TypeProblem})

// NoSupport disallows $.support.
var NoSupport = jquery.UtilPropertyRule("no-support",
	"support",
	jquery.Static("Prefer feature detection to `$.support`"),
	jquery.Options{})

// NoBrowser disallows $.browser. It is superseded by NoSupport.
var NoBrowser = jquery.UtilPropertyRule("no-browser",
	"browser",
	jquery.Static("`$.browser` was removed in jQuery 1.9"),
	jquery.Options{Type: lint.TypeProblem, ReplacedBy: []string{"no-support"}})

// NoFx disallows $.fx.
var NoFx = jquery.UtilPropertyRule("no-fx",
	"fx",
	jquery.Static("Prefer CSS transitions to tuning `$.fx`"),
	jquery.Options{})
