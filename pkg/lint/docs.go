package lint

import (
	"strings"
	"sync"
)

// DefaultDocsBaseURL is where rule pages are published.
const DefaultDocsBaseURL = "https://jqlint.dev/docs/rules"

var docsBase = struct {
	sync.RWMutex
	url string
}{url: DefaultDocsBaseURL}

// BuildDocURL returns the documentation page for rule. Rule names are
// case-insensitive.
func BuildDocURL(rule string) string {
	docsBase.RLock()
	base := docsBase.url
	docsBase.RUnlock()
	return base + "/" + strings.ToLower(rule)
}

// SetDocsBaseURL points rule links at another site, e.g. a local docs build.
func SetDocsBaseURL(url string) {
	docsBase.Lock()
	docsBase.url = strings.TrimRight(url, "/")
	docsBase.Unlock()
}

// ResetDocsBaseURL restores DefaultDocsBaseURL.
func ResetDocsBaseURL() {
	SetDocsBaseURL(DefaultDocsBaseURL)
}

// Impact scores, 0 to 100, attached to diagnostics for sorting in reports.
const (
	impactLayout     = 10
	impactSuggestion = 30
	impactProblem    = 70
)

// Impact returns the score given to diagnostics of rules of type t.
func (t RuleType) Impact() int {
	switch t {
	case TypeProblem:
		return impactProblem
	case TypeLayout:
		return impactLayout
	default:
		return impactSuggestion
	}
}
