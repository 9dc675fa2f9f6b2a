package rules

import (
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/lint/jquery"
)

func init() {
	lint.Register(NoAjax)
	lint.Register(NoParam)
}

// NoAjax disallows $.ajax and its shorthands.
var NoAjax = jquery.UtilMethodRule("no-ajax",
	[]string{"ajax", "get", "getJSON", "getScript", "post"},
	jquery.Static("Prefer `fetch` to `$.ajax`"),
	jquery.Options{})

// NoParam disallows $.param.
var NoParam = jquery.UtilMethodRule("no-param",
	[]string{"param"},
	jquery.Static("Prefer `URLSearchParams` to `$.param`"),
	jquery.Options{})
