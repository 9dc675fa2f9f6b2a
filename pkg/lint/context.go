package lint

import (
	"log/slog"

	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/token"
)

// FixFunc builds the text edits for a reported problem.
type FixFunc func(f *Fixer) []TextEdit

// Report is what a rule passes to Context.Report.
type Report struct {
	Node    ast.Node
	Message string
	Fix     FixFunc // Optional
}

// Context is handed to Rule.Create for each file.
type Context struct {
	RuleID   string
	File     *ast.File
	Settings *Settings
	Options  map[string]any
	Logger   *slog.Logger

	rule     Rule
	severity Severity
	sink     *[]Diagnostic
}

// Report records a diagnostic for the current rule.
func (c *Context) Report(r Report) {
	d := Diagnostic{
		RuleID:           c.RuleID,
		Severity:         c.severity,
		Message:          r.Message,
		Node:             r.Node,
		DocumentationURL: c.rule.Meta.Docs.URL,
		ImpactScore:      c.rule.Meta.Type.Impact(),
	}
	if d.DocumentationURL == "" {
		d.DocumentationURL = BuildDocURL(c.RuleID)
	}
	if r.Node != nil {
		d.Pos = r.Node.Pos()
		d.EndPos = r.Node.End()
	}
	if r.Fix != nil && c.rule.Meta.Fixable {
		if edits := r.Fix(&Fixer{file: c.File}); len(edits) > 0 {
			d.Fixes = []Fix{{Description: "Fix " + c.RuleID, TextEdits: edits}}
			d.AutoFixable = true
		}
	}
	*c.sink = append(*c.sink, d)
}

// Fixer builds text edits against the file being linted.
type Fixer struct {
	file *ast.File
}

// NewFixer returns a Fixer for f.
func NewFixer(f *ast.File) *Fixer {
	return &Fixer{file: f}
}

// Text returns the source text of n.
func (f *Fixer) Text(n ast.Node) string {
	return f.file.Text(n)
}

// ReplaceText replaces the whole of n with text.
func (f *Fixer) ReplaceText(n ast.Node, text string) TextEdit {
	return f.ReplaceRange(n.Span(), text)
}

// ReplaceRange replaces an arbitrary span with text.
func (f *Fixer) ReplaceRange(span token.Span, text string) TextEdit {
	return TextEdit{Pos: span.Start, EndPos: span.End, NewText: text}
}

// InsertBefore inserts text immediately before n.
func (f *Fixer) InsertBefore(n ast.Node, text string) TextEdit {
	return TextEdit{Pos: n.Pos(), EndPos: n.Pos(), NewText: text}
}

// InsertAfter inserts text immediately after n.
func (f *Fixer) InsertAfter(n ast.Node, text string) TextEdit {
	return TextEdit{Pos: n.End(), EndPos: n.End(), NewText: text}
}

// Remove deletes n.
func (f *Fixer) Remove(n ast.Node) TextEdit {
	return f.ReplaceText(n, "")
}

// ApplyEdits applies non-overlapping edits to src. Edits are applied from
// the end of the file backwards so earlier offsets stay valid; overlapping
// edits after the first are skipped.
func ApplyEdits(src []byte, edits []TextEdit) []byte {
	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sortEdits(sorted)

	out := append([]byte(nil), src...)
	limit := len(out)
	for _, e := range sorted {
		start, end := e.Pos.Offset, e.EndPos.Offset
		if start < 0 || end > limit || start > end {
			continue
		}
		out = append(out[:start], append([]byte(e.NewText), out[end:]...)...)
		limit = start
	}
	return out
}
