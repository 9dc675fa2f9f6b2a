package parser

import (
	"fmt"

	"github.com/leapstack-labs/jqlint/pkg/token"
)

// ParseError represents a syntax error with position information.
type ParseError struct {
	Path    string
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: parse error: %s", e.Path, e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	errUnexpectedSyntax = "unexpected %q"
	errMissingToken     = "missing %s"
	errNoExpression     = "input is not an expression"
)
