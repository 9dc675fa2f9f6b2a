// Package jquery decides whether an expression chain holds a jQuery
// collection and builds lint rules on top of that decision.
//
// The classifier walks a call/member chain inward toward its origin. Each
// method call along the way is looked up in a table of the $.fn API:
// methods that never return a collection end the walk with false, getter
// forms of accessors do the same, and unknown methods are assumed not to
// return a collection. The walk succeeds when it reaches a constructor
// call such as $('div') or a name following the collection variable
// convention (by default a leading $).
//
// No type information is used, so the classifier prefers false negatives:
// whatever it cannot prove is not reported.
//
// The rule constructors wrap the classifier:
//
//	lint.Register(jquery.CollectionMethodRule("no-bind", []string{"bind"},
//		jquery.Static("Prefer `.on` to `.bind`"), jquery.Options{}))
package jquery
