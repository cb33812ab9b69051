// Package expression scans JavaScript-ish expression text for lexical
// tokens and variable/property read references. Expressions are tokenized
// and harvested for references only — never evaluated or type-checked.
package expression

import (
	"strings"

	"github.com/twee-tools/chapbook-ls/pkg/position"
)

type LexKind int

const (
	LexIdent LexKind = iota + 1
	LexKeyword
	LexNumber
	LexString
	LexOperator
	LexPunct
	LexComment
)

// LexToken is one lexical token of an expression, offset-absolute.
type LexToken struct {
	Kind  LexKind
	Token position.Token
}

var keywords = map[string]bool{
	"true": true, "false": true, "null": true, "undefined": true,
	"function": true, "return": true, "var": true, "let": true,
	"const": true, "new": true, "typeof": true, "instanceof": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"in": true, "of": true, "this": true, "delete": true, "void": true,
	"switch": true, "case": true, "break": true, "continue": true,
	"try": true, "catch": true, "finally": true, "throw": true,
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Lex tokenizes the expression text. It never fails: bytes it does not
// understand become single-character punctuation tokens so scanning always
// reaches the end of the span.
func Lex(tok position.Token) []LexToken {
	text := tok.Text
	var out []LexToken
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '\'' || c == '"' || c == '`':
			end := scanString(text, i, c)
			out = append(out, LexToken{Kind: LexString, Token: tok.Sub(i, end)})
			i = end
		case isDigit(c):
			end := i + 1
			for end < len(text) && (isDigit(text[end]) || text[end] == '.') {
				end++
			}
			out = append(out, LexToken{Kind: LexNumber, Token: tok.Sub(i, end)})
			i = end
		case isIdentStart(c):
			end := i + 1
			for end < len(text) && isIdentPart(text[end]) {
				end++
			}
			kind := LexIdent
			if keywords[text[i:end]] {
				kind = LexKeyword
			}
			out = append(out, LexToken{Kind: kind, Token: tok.Sub(i, end)})
			i = end
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				end = len(text)
			} else {
				end += i
			}
			out = append(out, LexToken{Kind: LexComment, Token: tok.Sub(i, end)})
			i = end
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				end = len(text)
			} else {
				end += i + 4
			}
			out = append(out, LexToken{Kind: LexComment, Token: tok.Sub(i, end)})
			i = end
		case strings.IndexByte("+-*/%<>=!&|^~?", c) >= 0:
			end := i + 1
			for end < len(text) && strings.IndexByte("+-*/%<>=!&|^~?", text[end]) >= 0 {
				end++
			}
			out = append(out, LexToken{Kind: LexOperator, Token: tok.Sub(i, end)})
			i = end
		default:
			out = append(out, LexToken{Kind: LexPunct, Token: tok.Sub(i, i+1)})
			i++
		}
	}
	return out
}

func scanString(text string, open int, quote byte) int {
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
