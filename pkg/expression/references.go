package expression

import (
	"strings"

	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

// globals are ambient names a story never has to set itself. Identifier
// chains rooted at one of these never produce variable references.
var globals = map[string]bool{
	"engine": true, "window": true, "document": true, "console": true,
	"Math": true, "JSON": true, "Object": true, "Array": true,
	"String": true, "Number": true, "Boolean": true, "Date": true,
	"RegExp": true, "parseInt": true, "parseFloat": true, "isNaN": true,
}

// References harvests variable and property read references from the
// expression. For a chain a.b.c it emits a Variable reference for a, then
// Property references for a.b and a.b.c — each located at its own segment
// but carrying the full dotted path as contents, so the validation layer
// can match by dotted prefix.
func References(tok position.Token) []symbols.Symbol {
	lexed := Lex(tok)
	seen := position.NewTokensSeenMap()
	var out []symbols.Symbol

	for i := 0; i < len(lexed); {
		if lexed[i].Kind != LexIdent || chainContinues(lexed, i) {
			i++
			continue
		}
		head := lexed[i]
		segments := []LexToken{head}
		j := i + 1
		for j+1 < len(lexed) && isDot(lexed[j]) && lexed[j+1].Kind == LexIdent {
			segments = append(segments, lexed[j+1])
			j += 2
		}

		if globals[head.Token.Text] || isObjectKey(lexed, i, j) || isCallName(lexed, j) {
			i = j
			continue
		}

		if !seen.Has(head.Token) {
			seen.Add(head.Token)
			out = append(out, symbols.Symbol{
				Contents: head.Token.Text,
				Token:    head.Token,
				Kind:     symbols.Variable,
			})
		}
		path := head.Token.Text
		for _, seg := range segments[1:] {
			path += "." + seg.Token.Text
			if seen.Has(seg.Token) {
				continue
			}
			seen.Add(seg.Token)
			out = append(out, symbols.Symbol{
				Contents: path,
				Token:    seg.Token,
				Kind:     symbols.Property,
			})
		}
		i = j
	}
	return out
}

func isDot(t LexToken) bool {
	return t.Kind == LexPunct && t.Token.Text == "."
}

// chainContinues reports whether the identifier at i is a later segment of
// a dotted chain rather than its head.
func chainContinues(lexed []LexToken, i int) bool {
	return i > 0 && isDot(lexed[i-1])
}

// isObjectKey reports whether the chain starting at i is an object-literal
// key: a single identifier followed by a colon, opening the literal or
// following a comma.
func isObjectKey(lexed []LexToken, i, end int) bool {
	if end != i+1 || end >= len(lexed) {
		return false
	}
	next := lexed[end]
	if next.Kind != LexPunct || next.Token.Text != ":" {
		return false
	}
	if i == 0 {
		return true
	}
	prev := lexed[i-1]
	return prev.Kind == LexPunct && (prev.Token.Text == "{" || prev.Token.Text == ",")
}

// isCallName reports whether the chain ending just before end is invoked
// as a function.
func isCallName(lexed []LexToken, end int) bool {
	return end < len(lexed) && lexed[end].Kind == LexPunct && lexed[end].Token.Text == "("
}

// PathSegments splits a dotted variable path into cumulative paths:
// "a.b.c" yields ["a", "a.b", "a.b.c"].
func PathSegments(path string) []string {
	parts := strings.Split(path, ".")
	out := make([]string, 0, len(parts))
	for i := range parts {
		out = append(out, strings.Join(parts[:i+1], "."))
	}
	return out
}
