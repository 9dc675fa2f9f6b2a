package rules

import (
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/lint/jquery"
)

func init() {
	lint.Register(NoEach)
	lint.Register(NoMap)
	lint.Register(NoData)
}

// NoEach disallows both .each and $.each.
var NoEach = jquery.CollectionOrUtilMethodRule("no-each",
	[]string{"each"},
	jquery.Static("Prefer `Array#forEach` to `.each`/`$.each`"),
	jquery.Options{})

// NoMap disallows both .map and $.map.
var NoMap = jquery.CollectionOrUtilMethodRule("no-map",
	[]string{"map"},
	jquery.Static("Prefer `Array#map` to `.map`/`$.map`"),
	jquery.Options{})

// NoData disallows the data helpers in both forms.
var NoData = jquery.CollectionOrUtilMethodRule("no-data",
	[]string{"data", "removeData"},
	jquery.Static("Prefer `WeakMap` or `Element#dataset` to `.data`/`$.data`"),
	jquery.Options{})
