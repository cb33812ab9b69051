package position

// TokensSeenMap tracks tokens that have already been emitted so a single
// pass never reports the same occurrence twice.
type TokensSeenMap struct {
	seen map[string]bool
}

func NewTokensSeenMap() *TokensSeenMap {
	return &TokensSeenMap{seen: make(map[string]bool)}
}

func (m *TokensSeenMap) Has(t Token) bool {
	return m.seen[t.ID()]
}

func (m *TokensSeenMap) Add(t Token) {
	m.seen[t.ID()] = true
}
