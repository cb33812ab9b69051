package parser

import (
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/registry"
)

// ParsePassage parses one passage's full text and returns everything the
// pass produced. The token's offset anchors the passage inside its
// document, so all emitted positions are document-absolute. Custom
// definitions discovered in JavaScript blocks land in reg.
func ParsePassage(passage position.Token, reg *registry.Registry, opts parsing.Options) *parsing.ParseResult {
	result := parsing.NewParseResult()
	st := parsing.NewState(opts, result)
	ParsePassageInto(passage, reg, st)
	result.Tokens = st.Tokens.Flush()
	return result
}

// ParsePassageInto is the streaming form: callbacks fire on the state's
// sink as parsing progresses. Semantic tokens stay in the state's
// accumulator for the caller to flush.
func ParsePassageInto(passage position.Token, reg *registry.Registry, st *parsing.State) {
	div := Divide(passage)
	if div.HasVars {
		parseVars(div.Vars, st)
	}
	parseTextSection(div.Content, reg, st)
}
