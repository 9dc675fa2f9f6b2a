package lint_test

import "github.com/leapstack-labs/jqlint/pkg/token"

func pos(offset int) token.Position {
	return token.Position{Line: 1, Column: offset + 1, Offset: offset}
}
