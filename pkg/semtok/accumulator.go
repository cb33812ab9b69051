package semtok

// Accumulator collects semantic tokens keyed by start offset during a
// single top-to-bottom scan. Insertion order stands in for source order:
// the scan visits the passage front to back, so flushing in insertion
// order yields document order.
type Accumulator struct {
	byOffset map[int]Token
	order    []int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{byOffset: make(map[int]Token)}
}

// Set records a token at its start offset. A later token at the same
// offset replaces the earlier one without disturbing the order.
func (a *Accumulator) Set(tok Token) {
	if _, ok := a.byOffset[tok.Range.At]; !ok {
		a.order = append(a.order, tok.Range.At)
	}
	a.byOffset[tok.Range.At] = tok
}

func (a *Accumulator) Len() int {
	return len(a.order)
}

// Flush returns the accumulated tokens in insertion order and resets the
// accumulator.
func (a *Accumulator) Flush() []Token {
	out := make([]Token, 0, len(a.order))
	for _, off := range a.order {
		out = append(out, a.byOffset[off])
	}
	a.byOffset = make(map[int]Token)
	a.order = nil
	return out
}
