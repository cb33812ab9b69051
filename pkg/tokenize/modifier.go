package tokenize

import (
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/registry"
	"github.com/twee-tools/chapbook-ls/pkg/scanner"
)

// Modifier tokenizes one sub-modifier (already split off from its
// ;-delimited siblings and the surrounding brackets) against the registry.
// When matched, the matched prefix becomes the name token and the
// remainder, if non-empty, a single first-argument token. When unmatched,
// the whole trimmed text is the name and info is nil.
func Modifier(tok position.Token, reg *registry.Registry) (*parsing.ModifierCall, *registry.ModifierInfo) {
	trimmed := scanner.TrimWhitespace(tok)

	info, ok := reg.FindModifier(trimmed.Text)
	if !ok {
		return &parsing.ModifierCall{Name: trimmed}, nil
	}

	matchLen := info.MatchLength(trimmed.Text)
	name := trimRight(trimmed.Sub(0, matchLen))
	call := &parsing.ModifierCall{Name: name}

	arg := scanner.TrimWhitespace(trimmed.Sub(matchLen, trimmed.Length()))
	if arg.Length() > 0 {
		call.FirstArgument = &arg
	}

	return call, info
}

// trimRight drops trailing whitespace a match like `if\s` swallowed into
// the name, without moving the start offset.
func trimRight(tok position.Token) position.Token {
	end := len(tok.Text)
	for end > 0 && (tok.Text[end-1] == ' ' || tok.Text[end-1] == '\t') {
		end--
	}
	return tok.Sub(0, end)
}
