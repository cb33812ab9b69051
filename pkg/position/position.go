package position

import (
	"fmt"
)

type Place struct {
	Line      int
	Character int
}

type Range struct {
	Start Place
	End   Place
}

// Token is a substring of the source document together with its absolute
// zero-based byte offset. Tokens are immutable once created.
type Token struct {
	// Text is the exact text at this position
	Text string
	// At is the byte offset of Text in the source document
	At int
}

func NewToken(text string, at int) Token {
	return Token{Text: text, At: at}
}

// ID returns a unique identifier for this token based on text and offset
func (t Token) ID() string {
	return fmt.Sprintf("%s@%d", t.Text, t.At)
}

func (t Token) Length() int {
	return len(t.Text)
}

// End returns the offset just past the last byte of the token
func (t Token) End() int {
	return t.At + len(t.Text)
}

func (t Token) String() string {
	return t.ID()
}

// Sub re-slices the token, keeping offsets absolute. from and to are
// relative to the token's own text.
func (t Token) Sub(from, to int) Token {
	return Token{Text: t.Text[from:to], At: t.At + from}
}

// OverlapsWith reports whether the two tokens' ranges overlap. Zero-length
// tokens overlap when they fall within the other range.
func (t Token) OverlapsWith(other Token) bool {
	if t.Length() == 0 {
		return t.At >= other.At && t.At <= other.End()
	}
	if other.Length() == 0 {
		return other.At >= t.At && other.At <= t.End()
	}
	return other.At < t.End() && other.End() > t.At
}

// Contains reports whether the given offset falls inside the token.
func (t Token) Contains(offset int) bool {
	return offset >= t.At && offset < t.End()
}

// LineAndColumn calculates zero-based line and column numbers for the
// token's start offset in the given document text.
func (t Token) LineAndColumn(text string) (line, col int) {
	if t.At == 0 {
		return 0, 0
	}
	lastNewline := -1
	for i := 0; i < t.At && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	col = t.At - lastNewline - 1
	return line, col
}

// Range calculates the line/column range covered by the token.
func (t Token) Range(text string) Range {
	startLine, startCol := t.LineAndColumn(text)
	endLine, endCol := Token{At: t.End()}.LineAndColumn(text)
	return Range{
		Start: Place{Line: startLine, Character: startCol},
		End:   Place{Line: endLine, Character: endCol},
	}
}

type TokenArray []Token

func (me TokenArray) ToStrings() []string {
	var texts []string
	for _, tok := range me {
		texts = append(texts, tok.String())
	}
	return texts
}
