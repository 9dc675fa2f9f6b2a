package jquery

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/lint"
)

// Message is either fixed text or a template evaluated per reported node.
// Text may contain `inline code`, which PlainText strips for terminals.
type Message struct {
	text string
	tmpl func(ast.Node) string
}

// Static returns a message with fixed text.
func Static(text string) Message {
	return Message{text: text}
}

// Templated returns a message computed from the reported node. The
// template is also called with a nil node when rule documentation is
// generated and should then describe the problem in general terms.
func Templated(fn func(node ast.Node) string) Message {
	return Message{tmpl: fn}
}

// IsZero reports whether no message was declared.
func (m Message) IsZero() bool {
	return m.text == "" && m.tmpl == nil
}

// Render resolves the message for a reported node.
func (m Message) Render(n ast.Node) string {
	if m.tmpl != nil {
		return m.tmpl(n)
	}
	return m.text
}

// RenderDoc resolves the message for documentation.
func (m Message) RenderDoc() string {
	return m.Render(nil)
}

// PlainText strips inline code delimiters.
func PlainText(s string) string {
	return strings.ReplaceAll(s, "`", "")
}

// Target is what a rule matches: a method call or a property read.
type Target int

// Rule targets.
const (
	TargetMethod Target = iota
	TargetProperty
)

const apiBaseURL = "https://api.jquery.com/"

// Names whose API page does not follow the default pattern.
var (
	collectionDocPaths = map[string]string{
		"andSelf":  "andself/",
		"load":     "load/",
		"context":  "context/",
		"selector": "selector/",
	}
	utilDocPaths = map[string]string{
		"Deferred": "category/deferred-object/",
		"fx":       "jQuery.fx.off/",
		"now":      "jQuery.now/",
		"support":  "jQuery.support/",
		"browser":  "jQuery.browser/",
	}
)

// CollectionLink returns a markdown link to the docs of a $.fn member.
func CollectionLink(name string) string {
	path, ok := collectionDocPaths[name]
	if !ok {
		path = name + "/"
	}
	return fmt.Sprintf("[`.%s`](%s%s)", name, apiBaseURL, path)
}

// UtilLink returns a markdown link to the docs of a $.* member.
func UtilLink(name string) string {
	path, ok := utilDocPaths[name]
	if !ok {
		path = "jQuery." + name + "/"
	}
	return fmt.Sprintf("[`$.%s`](%s%s)", name, apiBaseURL, path)
}

// DeprecationClause returns the sentence appended to the docs of a
// deprecated rule.
func DeprecationClause(replacedBy []string) string {
	if len(replacedBy) == 0 {
		return "This rule is deprecated."
	}
	links := make([]string, len(replacedBy))
	for i, name := range replacedBy {
		links[i] = fmt.Sprintf("[`%s`](%s)", name, lint.BuildDocURL(name))
	}
	return fmt.Sprintf("This rule is deprecated. Use %s instead.", strings.Join(links, " or "))
}

func label(mode Mode, name string) string {
	switch mode {
	case ModeUtil:
		return "`$." + name + "`"
	case ModeBoth:
		return "`." + name + "`/`$." + name + "`"
	default:
		return "`." + name + "`"
	}
}

// GenericMessage is the diagnostic used by rules declared without one.
func GenericMessage(mode Mode, names []string) string {
	labels := make([]string, len(names))
	for i, name := range names {
		labels[i] = label(mode, name)
	}
	return strings.Join(labels, "/") + " is not allowed"
}

// Compose returns the plain-text diagnostic for n.
func Compose(m Message, mode Mode, names []string, n ast.Node) string {
	text := m.Render(n)
	if text == "" {
		text = GenericMessage(mode, names)
	}
	return PlainText(text)
}

// Describe synthesizes the documentation of a generated rule.
func Describe(mode Mode, target Target, names []string, m Message, opts Options) string {
	var links []string
	for _, name := range names {
		switch mode {
		case ModeUtil:
			links = append(links, UtilLink(name))
		case ModeBoth:
			links = append(links, CollectionLink(name)+" and "+UtilLink(name))
		default:
			links = append(links, CollectionLink(name))
		}
	}

	noun := "method"
	switch {
	case target == TargetProperty:
		noun = "property"
	case mode == ModeUtil:
		noun = "utility"
	case mode == ModeBoth:
		noun = "method and utility"
	}
	if len(names) > 1 {
		noun = plural(noun)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Disallows the %s %s.", strings.Join(links, "/"), noun)

	doc := m.RenderDoc()
	if doc == "" {
		doc = GenericMessage(mode, names)
	}
	sb.WriteString("\n\n")
	sb.WriteString(doc)
	if !strings.HasSuffix(doc, ".") {
		sb.WriteString(".")
	}

	if opts.isDeprecated() {
		sb.WriteString("\n\n")
		sb.WriteString(DeprecationClause(opts.ReplacedBy))
	}
	return sb.String()
}

func plural(noun string) string {
	switch noun {
	case "property":
		return "properties"
	case "utility":
		return "utilities"
	case "method and utility":
		return "methods and utilities"
	default:
		return noun + "s"
	}
}
