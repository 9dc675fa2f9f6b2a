package rules

import (
	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/lint/jquery"
)

func init() {
	lint.Register(NoExtend)
	lint.Register(NoGrep)
	lint.Register(NoInArray)
	lint.Register(NoProxy)
	lint.Register(NoParseJSON)
	lint.Register(NoIsArray)
	lint.Register(NoNow)
	lint.Register(NoTrim)
	lint.Register(NoType)
	lint.Register(NoIsFunction)
	lint.Register(NoDeferred)
	lint.Register(NoWhen)
	lint.Register(NoUnique)
	lint.Register(NoEachUtil)
	lint.Register(NoMapUtil)
}

// NoExtend disallows $.extend.
var NoExtend = jquery.UtilMethodRule("no-extend",
	[]string{"extend"},
	jquery.Static("Prefer `Object.assign` or the spread operator to `$.extend`"),
	jquery.Options{})

// NoGrep disallows $.grep.
var NoGrep = jquery.UtilMethodRule("no-grep",
	[]string{"grep"},
	jquery.Static("Prefer `Array#filter` to `$.grep`"),
	jquery.Options{})

// NoInArray disallows $.inArray.
var NoInArray = jquery.UtilMethodRule("no-in-array",
	[]string{"inArray"},
	jquery.Static("Prefer `Array#indexOf` or `Array#includes` to `$.inArray`"),
	jquery.Options{})

// NoProxy disallows $.proxy, deprecated since jQuery 3.3.
var NoProxy = jquery.UtilMethodRule("no-proxy",
	[]string{"proxy"},
	jquery.Static("Prefer `Function#bind` to `$.proxy`"),
	jquery.Options{})

// NoParseJSON disallows $.parseJSON, deprecated since jQuery 3.0.
var NoParseJSON = jquery.UtilMethodRule("no-parse-json",
	[]string{"parseJSON"},
	jquery.Static("Prefer `JSON.parse` to `$.parseJSON`"),
	jquery.Options{Fix: replaceCallee("JSON.parse")})

// NoIsArray disallows $.isArray, deprecated since jQuery 3.2.
var NoIsArray = jquery.UtilMethodRule("no-is-array",
	[]string{"isArray"},
	jquery.Static("Prefer `Array.isArray` to `$.isArray`"),
	jquery.Options{Fix: replaceCallee("Array.isArray")})

// NoNow disallows $.now, deprecated since jQuery 3.3.
var NoNow = jquery.UtilMethodRule("no-now",
	[]string{"now"},
	jquery.Static("Prefer `Date.now` to `$.now`"),
	jquery.Options{Fix: replaceCallee("Date.now")})

// NoTrim disallows $.trim, deprecated since jQuery 3.5. Single-argument
// calls are rewritten to String#trim.
var NoTrim = jquery.UtilMethodRule("no-trim",
	[]string{"trim"},
	jquery.Static("Prefer `String#trim` to `$.trim`"),
	jquery.Options{
		Fix: func(n ast.Node, f *lint.Fixer) []lint.TextEdit {
			call, ok := n.(*ast.CallExpression)
			if !ok || len(call.Arguments) != 1 {
				return nil
			}
			return []lint.TextEdit{f.ReplaceText(call, asReceiver(f, call.Arguments[0])+".trim()")}
		},
	})

// NoType disallows $.type, deprecated since jQuery 3.3.
var NoType = jquery.UtilMethodRule("no-type",
	[]string{"type"},
	jquery.Static("Prefer `typeof`/`instanceof` to `$.type`"),
	jquery.Options{})

// NoIsFunction disallows $.isFunction, deprecated since jQuery 3.3.
var NoIsFunction = jquery.UtilMethodRule("no-is-function",
	[]string{"isFunction"},
	jquery.Static("Prefer `typeof fn === 'function'` to `$.isFunction`"),
	jquery.Options{})

// NoDeferred disallows $.Deferred.
var NoDeferred = jquery.UtilMethodRule("no-deferred",
	[]string{"Deferred"},
	jquery.Static("Prefer `Promise` to `$.Deferred`"),
	jquery.Options{})

// NoWhen disallows $.when.
var NoWhen = jquery.UtilMethodRule("no-when",
	[]string{"when"},
	jquery.Static("Prefer `Promise.all` to `$.when`"),
	jquery.Options{})

// NoUnique disallows $.unique and $.uniqueSort.
var NoUnique = jquery.UtilMethodRule("no-unique",
	[]string{"unique", "uniqueSort"},
	jquery.Static("Prefer `new Set(array)` to `$.unique`"),
	jquery.Options{})

// NoEachUtil disallows $.each.
var NoEachUtil = jquery.UtilMethodRule("no-each-util",
	[]string{"each"},
	jquery.Static("Prefer `Array#forEach` to `$.each`"),
	jquery.Options{})

// NoMapUtil disallows $.map.
var NoMapUtil = jquery.UtilMethodRule("no-map-util",
	[]string{"map"},
	jquery.Static("Prefer `Array#map` to `$.map`"),
	jquery.Options{})
