// Package parser implements the passage-text parsing core: it divides a
// passage into its vars and content sections, parses variable assignments,
// and walks the content one modifier block at a time, emitting symbols,
// semantic tokens, diagnostics, and embedded sub-documents with absolute
// document offsets throughout.
package parser

import (
	"regexp"

	"github.com/twee-tools/chapbook-ls/pkg/position"
)

// varsSepPattern matches the vars separator: a line consisting of exactly
// two hyphens, optionally followed by a line terminator.
var varsSepPattern = regexp.MustCompile(`(?m)^--(\r?\n|$)`)

// DividedPassage is a passage split into its optional vars section and the
// remaining content.
type DividedPassage struct {
	// Vars is the leading assignment section, including its trailing
	// newline; valid only when HasVars is set.
	Vars    position.Token
	HasVars bool

	// Content is everything after the separator line (or the whole
	// passage when no separator exists).
	Content position.Token
}

// Divide splits passage text on the first line matching ^--$. When absent,
// the whole passage is content with no vars section.
func Divide(passage position.Token) DividedPassage {
	loc := varsSepPattern.FindStringIndex(passage.Text)
	if loc == nil {
		return DividedPassage{Content: passage}
	}
	return DividedPassage{
		Vars:    passage.Sub(0, loc[0]),
		HasVars: true,
		Content: passage.Sub(loc[1], passage.Length()),
	}
}
