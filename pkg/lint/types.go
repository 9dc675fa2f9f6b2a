package lint

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/jqlint/pkg/ast"
	"github.com/leapstack-labs/jqlint/pkg/token"
)

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError indicates a critical issue that should be fixed.
	SeverityError Severity = iota
	// SeverityWarning indicates a potential issue that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityHint indicates a suggestion for improvement.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to Severity.
// Returns SeverityWarning and false if the string is not recognized.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	default:
		return SeverityWarning, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("unknown severity %q", text)
	}
	*s = sev
	return nil
}

// RuleType classifies a rule the way editors group them.
type RuleType string

// Rule types.
const (
	TypeProblem    RuleType = "problem"
	TypeSuggestion RuleType = "suggestion"
	TypeLayout     RuleType = "layout"
)

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string         `json:"rule" yaml:"rule" msgpack:"rule"`
	Severity Severity       `json:"severity" yaml:"severity" msgpack:"severity"`
	Message  string         `json:"message" yaml:"message" msgpack:"message"`
	Pos      token.Position `json:"pos" yaml:"pos" msgpack:"pos"`
	EndPos   token.Position `json:"end_pos" yaml:"end_pos" msgpack:"end_pos"` // Optional: end of the problematic range
	Fixes    []Fix          `json:"fixes,omitempty" yaml:"fixes,omitempty" msgpack:"fixes,omitempty"`

	// Node is the reported node. Only set for diagnostics produced in this
	// process; it is not serialized.
	Node ast.Node `json:"-" yaml:"-" msgpack:"-"`

	// Remediation metadata
	DocumentationURL string `json:"docs,omitempty" yaml:"docs,omitempty" msgpack:"docs,omitempty"`
	ImpactScore      int    `json:"impact,omitempty" yaml:"impact,omitempty" msgpack:"impact,omitempty"` // 0-100
	AutoFixable      bool   `json:"fixable,omitempty" yaml:"fixable,omitempty" msgpack:"fixable,omitempty"`
}

// Fix represents a suggested code fix.
type Fix struct {
	Description string     `json:"description" yaml:"description" msgpack:"description"`
	TextEdits   []TextEdit `json:"edits" yaml:"edits" msgpack:"edits"`
}

// TextEdit represents a text replacement.
type TextEdit struct {
	Pos     token.Position `json:"pos" yaml:"pos" msgpack:"pos"`
	EndPos  token.Position `json:"end_pos" yaml:"end_pos" msgpack:"end_pos"`
	NewText string         `json:"new_text" yaml:"new_text" msgpack:"new_text"`
}
