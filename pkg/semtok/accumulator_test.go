package semtok

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twee-tools/chapbook-ls/pkg/position"
)

func TestAccumulatorKeepsInsertionOrder(t *testing.T) {
	a := NewAccumulator()
	a.Set(Token{Type: TokenFunction, Range: position.NewToken("if", 1)})
	a.Set(Token{Type: TokenVariable, Range: position.NewToken("foo", 4)})
	a.Set(Token{Type: TokenString, Range: position.NewToken("'x'", 12)})

	got := a.Flush()
	assert.Len(t, got, 3)
	assert.Equal(t, 1, got[0].Range.At)
	assert.Equal(t, 4, got[1].Range.At)
	assert.Equal(t, 12, got[2].Range.At)
	assert.Equal(t, 0, a.Len(), "flush should reset the accumulator")
}

func TestAccumulatorReplacesSameOffset(t *testing.T) {
	a := NewAccumulator()
	a.Set(Token{Type: TokenVariable, Range: position.NewToken("foo", 4)})
	a.Set(Token{Type: TokenProperty, Range: position.NewToken("foo.bar", 4)})

	got := a.Flush()
	assert.Len(t, got, 1)
	assert.Equal(t, TokenProperty, got[0].Type)
	assert.Equal(t, "foo.bar", got[0].Range.Text)
}
