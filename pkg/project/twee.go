// Package project loads a story's .twee files from disk, splits them into
// passages, runs the passage parser over each, and maintains the project
// index and custom-function registry for the whole story.
package project

import (
	"regexp"
	"strings"

	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/scanner"
)

// headerPattern matches a Twee passage header line: "::" at the start of a
// line, followed by the passage name and optional [tags] and {metadata}.
var headerPattern = regexp.MustCompile(`(?m)^::[ \t]*`)

// Passage is one passage of a Twee document: its name token (absolute in
// the document), its tags, and its body.
type Passage struct {
	Name position.Token
	Tags []string

	// Body is everything between this header line and the next one.
	Body position.Token
}

// SplitPassages divides a Twee document into passages. Text before the
// first header has no passage semantics and is skipped.
func SplitPassages(doc position.Token) []Passage {
	locs := headerPattern.FindAllStringIndex(doc.Text, -1)
	var passages []Passage
	for i, loc := range locs {
		lineEnd := strings.IndexByte(doc.Text[loc[1]:], '\n')
		bodyStart := len(doc.Text)
		headerEnd := len(doc.Text)
		if lineEnd >= 0 {
			headerEnd = loc[1] + lineEnd
			bodyStart = headerEnd + 1
		}

		bodyEnd := len(doc.Text)
		if i+1 < len(locs) {
			bodyEnd = locs[i+1][0]
		}
		if bodyStart > bodyEnd {
			bodyStart = bodyEnd
		}

		name, tags := parseHeader(doc.Sub(loc[1], headerEnd))
		passages = append(passages, Passage{
			Name: name,
			Tags: tags,
			Body: doc.Sub(bodyStart, bodyEnd),
		})
	}
	return passages
}

// parseHeader splits a header's remainder into the passage name, tag list,
// and (discarded) metadata block. Backslash escapes protect bracket
// characters inside names.
func parseHeader(rest position.Token) (position.Token, []string) {
	cut := len(rest.Text)
scan:
	for i := 0; i < len(rest.Text); i++ {
		switch rest.Text[i] {
		case '\\':
			i++
		case '[', '{':
			cut = i
			break scan
		}
	}

	name := scanner.TrimWhitespace(rest.Sub(0, cut))

	var tags []string
	if open := strings.IndexByte(rest.Text[cut:], '['); open >= 0 {
		open += cut
		end := scanner.MatchingDelimiter(rest.Text, open)
		inner := rest.Text[open+1 : end]
		inner = strings.TrimSuffix(inner, "]")
		for _, tag := range strings.Fields(inner) {
			tags = append(tags, tag)
		}
	}
	return name, tags
}
