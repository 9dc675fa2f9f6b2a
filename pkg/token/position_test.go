package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosition(t *testing.T) {
	assert.False(t, Position{}.IsValid())
	assert.Equal(t, "-", Position{}.String())

	p := Position{Line: 3, Column: 7, Offset: 42}
	assert.True(t, p.IsValid())
	assert.Equal(t, "3:7", p.String())
	assert.True(t, Position{Offset: 1}.Before(p))
}

func TestSpan(t *testing.T) {
	s := Span{
		Start: Position{Line: 1, Column: 1, Offset: 0},
		End:   Position{Line: 1, Column: 6, Offset: 5},
	}

	assert.True(t, s.IsValid())
	assert.Equal(t, 5, s.Len())
	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(5))

	other := Span{Start: Position{Offset: 4}, End: Position{Offset: 9}}
	assert.True(t, s.Overlaps(other))

	disjoint := Span{Start: Position{Offset: 5}, End: Position{Offset: 9}}
	assert.False(t, s.Overlaps(disjoint))
}
