// Package rules contains the jqlint rule set.
// Import this package to register all rules with the global registry.
//
// Rules are automatically registered via init() functions when this package is imported:
//
//	import _ "github.com/leapstack-labs/jqlint/pkg/lint/jquery/rules"
//
// Rule files:
//   - effects.go: animation and visibility helpers
//   - events.go: event binding and shorthand methods
//   - dom.go: traversal, attributes and content manipulation
//   - ajax.go: $.ajax and friends
//   - utils.go: $.* helpers with native replacements
//   - properties.go: collection and constructor properties
//   - combined.go: names that exist as both $.fn and $.* members
package rules
