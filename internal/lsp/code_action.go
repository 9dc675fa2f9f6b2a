package lsp

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/jqlint/pkg/lint"
)

// getCodeActions returns a quick fix for every fixable diagnostic the
// client asked about, plus a fix-all action when any fix applies.
func (s *Server) getCodeActions(params CodeActionParams) []CodeAction {
	actions := []CodeAction{}

	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil || !isLintable(doc) {
		return actions
	}

	if wants(params.Context.Only, CodeActionKindQuickFix) {
		known := s.diagnosticsFor(doc.URI)
		for _, requested := range params.Context.Diagnostics {
			if requested.Source != diagnosticSource {
				continue
			}
			d, ok := matchDiagnostic(doc, known, requested)
			if !ok {
				continue
			}
			for _, fix := range d.Fixes {
				actions = append(actions, CodeAction{
					Title:       fix.Description,
					Kind:        CodeActionKindQuickFix,
					Diagnostics: []Diagnostic{requested},
					IsPreferred: len(d.Fixes) == 1,
					Edit: &WorkspaceEdit{Changes: map[string][]TextEdit{
						doc.URI: toLSPEdits(doc, fix.TextEdits),
					}},
				})
			}
		}
	}

	if wants(params.Context.Only, CodeActionKindSourceFixAll) {
		if action, ok := s.fixAllAction(doc); ok {
			actions = append(actions, action)
		}
	}

	return actions
}

// fixAllAction replaces the whole document with its fully fixed form.
func (s *Server) fixAllAction(doc *Document) (CodeAction, bool) {
	fixed, n := s.engine.FixSource(doc.Path(), []byte(doc.Content))
	if n == 0 {
		return CodeAction{}, false
	}
	whole := Range{End: doc.OffsetToPosition(len(doc.Content))}
	return CodeAction{
		Title: "Fix all auto-fixable jQuery problems",
		Kind:  CodeActionKindSourceFixAll,
		Edit: &WorkspaceEdit{Changes: map[string][]TextEdit{
			doc.URI: {{Range: whole, NewText: string(fixed)}},
		}},
	}, true
}

// matchDiagnostic finds the lint diagnostic a client diagnostic was
// published from, by rule and range.
func matchDiagnostic(doc *Document, known []lint.Diagnostic, requested Diagnostic) (lint.Diagnostic, bool) {
	for _, d := range known {
		if d.RuleID == requested.Code && doc.SpanToRange(d.Pos, d.EndPos) == requested.Range {
			return d, true
		}
	}
	return lint.Diagnostic{}, false
}

func toLSPEdits(doc *Document, edits []lint.TextEdit) []TextEdit {
	out := make([]TextEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, TextEdit{
			Range:   doc.SpanToRange(e.Pos, e.EndPos),
			NewText: e.NewText,
		})
	}
	return out
}

// wants reports whether kind passes the client's "only" filter. Kinds are
// hierarchical, so "source" admits "source.fixAll".
func wants(only []CodeActionKind, kind CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	return slices.ContainsFunc(only, func(k CodeActionKind) bool {
		return k == kind || strings.HasPrefix(string(kind), string(k)+".")
	})
}
