// Package scanner provides low-level delimiter-aware scanning over passage
// text. Every higher-level splitter uses it so that a separator character
// sitting inside a quoted string or a nested bracket is never split on.
package scanner

import (
	"github.com/twee-tools/chapbook-ls/pkg/position"
)

var closers = map[byte]byte{
	'{': '}',
	'[': ']',
	'(': ')',
}

// IsOpenDelimiter reports whether c opens a span MatchingDelimiter can close.
func IsOpenDelimiter(c byte) bool {
	if c == '\'' || c == '"' {
		return true
	}
	_, ok := closers[c]
	return ok
}

// MatchingDelimiter returns the offset just past the delimiter matching the
// opening delimiter at open, skipping over nested delimiters and quoted
// strings (including backslash-escaped quote characters). If the span is
// unterminated it returns len(text) — callers decide whether that is fatal.
func MatchingDelimiter(text string, open int) int {
	if open >= len(text) {
		return len(text)
	}
	switch c := text[open]; c {
	case '\'', '"':
		return matchingQuote(text, open, c)
	case '{', '[', '(':
		return matchingBracket(text, open, closers[c])
	}
	return open + 1
}

func matchingQuote(text string, open int, quote byte) int {
	for i := open + 1; i < len(text); {
		switch text[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1
		default:
			i++
		}
	}
	return len(text)
}

func matchingBracket(text string, open int, close byte) int {
	for i := open + 1; i < len(text); {
		c := text[i]
		if c == close {
			return i + 1
		}
		if IsOpenDelimiter(c) {
			i = MatchingDelimiter(text, i)
			continue
		}
		i++
	}
	return len(text)
}

// NextTopLevel returns the offset of the first byte at or after start that
// satisfies stop and is not inside a quoted string or nested bracket pair.
// Returns len(text) if no such byte exists.
func NextTopLevel(text string, start int, stop func(byte) bool) int {
	for i := start; i < len(text); {
		c := text[i]
		if stop(c) {
			return i
		}
		if IsOpenDelimiter(c) {
			i = MatchingDelimiter(text, i)
			continue
		}
		i++
	}
	return len(text)
}

// Split divides the token on sep, honoring all five delimiter kinds, so a
// separator inside a matching quote or bracket pair never splits. Offsets
// of the returned tokens stay absolute.
func Split(tok position.Token, sep byte) []position.Token {
	var parts []position.Token
	start := 0
	for start <= len(tok.Text) {
		end := NextTopLevel(tok.Text, start, func(c byte) bool { return c == sep })
		parts = append(parts, tok.Sub(start, end))
		start = end + 1
	}
	return parts
}

// SplitOutsideDoubleQuotes divides the token on sep, protecting only
// double-quoted spans. Single quotes deliberately do not protect: modifier
// names may contain contractions like "cont'd".
func SplitOutsideDoubleQuotes(tok position.Token, sep byte) []position.Token {
	var parts []position.Token
	start := 0
	inQuote := false
	for i := 0; i < len(tok.Text); i++ {
		switch tok.Text[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case sep:
			if !inQuote {
				parts = append(parts, tok.Sub(start, i))
				start = i + 1
			}
		}
	}
	parts = append(parts, tok.Sub(start, len(tok.Text)))
	return parts
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// TrimWhitespace trims leading and trailing whitespace by skip-counting,
// advancing the token's offset so it always points at real characters.
func TrimWhitespace(tok position.Token) position.Token {
	start := 0
	for start < len(tok.Text) && isSpace(tok.Text[start]) {
		start++
	}
	end := len(tok.Text)
	for end > start && isSpace(tok.Text[end-1]) {
		end--
	}
	return tok.Sub(start, end)
}
