package lsp

import (
	"github.com/leapstack-labs/jqlint/internal/engine"
	"github.com/leapstack-labs/jqlint/pkg/lint"
)

// publishDiagnostics lints the document and publishes the results.
// Documents that are not JavaScript or TypeScript get an empty list.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	diagnostics := []Diagnostic{}
	if isLintable(doc) {
		found := s.engine.LintSource(doc.Path(), []byte(doc.Content))
		s.rememberDiagnostics(uri, found)
		for _, d := range found {
			diagnostics = append(diagnostics, toLSPDiagnostic(doc, d))
		}
		s.logger.Debug("linted", "uri", uri, "diagnostics", len(found))
	}

	version := doc.Version
	s.notify("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

// toLSPDiagnostic converts a lint diagnostic to its protocol form.
func toLSPDiagnostic(doc *Document, d lint.Diagnostic) Diagnostic {
	out := Diagnostic{
		Range:    doc.SpanToRange(d.Pos, d.EndPos),
		Severity: toLSPSeverity(d.Severity),
		Code:     d.RuleID,
		Source:   diagnosticSource,
		Message:  d.Message,
	}
	if d.RuleID != engine.ParseErrorRule {
		href := d.DocumentationURL
		if href == "" {
			href = lint.BuildDocURL(d.RuleID)
		}
		out.CodeDescription = &CodeDescription{Href: href}
	}
	return out
}

// toLSPSeverity maps lint severities onto the protocol's scale.
func toLSPSeverity(sev lint.Severity) DiagnosticSeverity {
	switch sev {
	case lint.SeverityError:
		return DiagnosticSeverityError
	case lint.SeverityWarning:
		return DiagnosticSeverityWarning
	case lint.SeverityInfo:
		return DiagnosticSeverityInformation
	default:
		return DiagnosticSeverityHint
	}
}

func (s *Server) rememberDiagnostics(uri string, diags []lint.Diagnostic) {
	s.lastDiagsMu.Lock()
	defer s.lastDiagsMu.Unlock()
	s.lastDiags[uri] = diags
}

func (s *Server) forgetDiagnostics(uri string) {
	s.lastDiagsMu.Lock()
	defer s.lastDiagsMu.Unlock()
	delete(s.lastDiags, uri)
}

func (s *Server) diagnosticsFor(uri string) []lint.Diagnostic {
	s.lastDiagsMu.RLock()
	defer s.lastDiagsMu.RUnlock()
	return s.lastDiags[uri]
}
