// Package lint provides the rule host used by jqlint: rule descriptors,
// visitors, the single-pass Runner, the global rule registry and the
// settings shared by collection rules.
//
// # Rule Registration
//
// Rules are automatically registered via init() functions when their
// packages are imported:
//
//	import _ "github.com/leapstack-labs/jqlint/pkg/lint/jquery/rules"
//
// # Writing Rules
//
// A Rule is a name, metadata and a Create function. Create receives a
// Context per file and returns a Visitor keyed by AST selector:
//
//	lint.Register(lint.Rule{
//		Name: "no-foo",
//		Meta: lint.Meta{Type: lint.TypeSuggestion},
//		Create: func(ctx *lint.Context) lint.Visitor {
//			return lint.Visitor{
//				lint.OnCallExpression: func(n ast.Node) {
//					ctx.Report(lint.Report{Node: n, Message: "no foo"})
//				},
//			}
//		},
//	})
//
// Most rules are not written by hand; package jquery builds them from a
// method list and a message.
//
// # Running
//
// A Runner visits each file once and dispatches every node to the
// callbacks subscribed to its kind:
//
//	settings, err := lint.NewSettings(cfg.Settings)
//	runner := lint.NewRunner(lint.NewConfig(), settings)
//	diags := runner.RunRegistered(file)
//
// # Configuration
//
// Use Config to control which rules are enabled, their severity and options:
//
//	config := lint.NewConfig()
//	config.Disable("no-ajax")
//	config.SetSeverity("no-bind", lint.SeverityError)
//	config.SetRuleOptions("no-html", map[string]any{"allowGetOrSet": "get"})
package lint
