package rules

import (
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/leapstack-labs/jqlint/pkg/lint/jquery"
)

func init() {
	lint.Register(NoAnimate)
	lint.Register(NoFade)
	lint.Register(NoSlide)
	lint.Register(NoVisibility)
}

// NoAnimate disallows scripted animation.
var NoAnimate = jquery.CollectionMethodRule("no-animate",
	[]string{"animate", "stop", "finish"},
	jquery.Static("Prefer CSS transitions or the Web Animations API to `.animate`"),
	jquery.Options{})

// NoFade disallows the fade effects.
var NoFade = jquery.CollectionMethodRule("no-fade",
	[]string{"fadeIn", "fadeOut", "fadeTo", "fadeToggle"},
	jquery.Static("Prefer CSS transitions to fade effects"),
	jquery.Options{})

// NoSlide disallows the slide effects.
var NoSlide = jquery.CollectionMethodRule("no-slide",
	[]string{"slideDown", "slideToggle", "slideUp"},
	jquery.Static("Prefer CSS transitions to slide effects"),
	jquery.Options{})

// NoVisibility disallows show/hide/toggle.
var NoVisibility = jquery.CollectionMethodRule("no-visibility",
	[]string{"show", "hide", "toggle"},
	jquery.Static("Prefer `Element#hidden` or a CSS class to toggling visibility"),
	jquery.Options{})
