package index

import (
	"strings"

	"github.com/twee-tools/chapbook-ls/pkg/diagnostic"
	"github.com/twee-tools/chapbook-ls/pkg/format"
	"github.com/twee-tools/chapbook-ls/pkg/parser"
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/registry"
	"github.com/twee-tools/chapbook-ls/pkg/scanner"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
	"github.com/twee-tools/chapbook-ls/pkg/tokenize"
)

// ValidateOptions configure the whole-project validation pass.
type ValidateOptions struct {
	FormatVersion *format.Version

	// WarnUnknownFunctions turns on "doesn't match" warnings for custom
	// uses that no definition in the story resolves.
	WarnUnknownFunctions bool
}

// Validate runs the cross-document checks that only make sense once every
// document has been parsed: unset-variable warnings, custom insert and
// modifier uses validated against their (possibly cross-passage)
// definitions, and broken passage links. Returned diagnostics are keyed by
// URI and separate from each document's parse-time diagnostics.
func Validate(ix *Index, reg *registry.Registry, opts ValidateOptions) map[string][]diagnostic.Diagnostic {
	out := make(map[string][]diagnostic.Diagnostic)

	defined := definedPaths(ix)
	passages := map[string]bool{}
	for _, name := range ix.PassageNames() {
		passages[name] = true
	}

	for _, uri := range ix.URIs() {
		doc, _ := ix.Document(uri)
		result := parsing.NewParseResult()
		st := parsing.NewState(parsing.Options{
			FormatVersion:        opts.FormatVersion,
			WarnUnknownFunctions: opts.WarnUnknownFunctions,
		}, result)

		for _, ref := range doc.References {
			switch ref.Kind {
			case symbols.Variable, symbols.Property:
				if !defined[ref.Contents] {
					st.Warn(ref.Token, "\"%s\" isn't set in any vars section", ref.Contents)
				}
			case symbols.CustomInsert:
				validateCustomInsertUse(doc, ref, reg, st)
			case symbols.CustomModifier:
				validateCustomModifierUse(ref, reg, st)
			case symbols.Passage:
				if len(passages) > 0 && !passages[ref.Contents] {
					st.Warn(ref.Token, "there is no passage named \"%s\"", ref.Contents)
				}
			}
		}

		if len(result.Diagnostics) > 0 {
			out[uri] = result.Diagnostics
		}
	}

	return out
}

// definedPaths collects every dotted path the project assigns somewhere.
// The vars parser emits every cumulative segment of a dotted assignment, so
// exact-path lookup doubles as dotted-prefix scoping.
func definedPaths(ix *Index) map[string]bool {
	defined := map[string]bool{}
	for _, kind := range []symbols.Kind{symbols.VariableSet, symbols.PropertySet} {
		for _, def := range ix.DefinitionsByKind(kind) {
			defined[def.Symbol.Contents] = true
		}
	}
	return defined
}

// validateCustomInsertUse re-tokenizes the {...} span around the use site
// and checks it against whatever definition now resolves it. At parse time
// the definition may not have existed yet; by validation time the registry
// holds every custom definition in the project.
func validateCustomInsertUse(doc *Document, ref symbols.Symbol, reg *registry.Registry, st *parsing.State) {
	span, ok := insertSpanAround(doc.Text, ref.Token.At)
	if !ok {
		return
	}

	discard := parsing.NewState(parsing.Options{}, parsing.NewParseResult())
	call := tokenize.Insert(span, discard)

	info, ok := reg.FindInsert(call.Name.Text)
	if !ok {
		if st.Options.WarnUnknownFunctions {
			st.Warn(ref.Token, "\"%s\" doesn't match any insert in this story", ref.Contents)
		}
		return
	}
	parser.ValidateInsertCall(call, info, st)
}

func validateCustomModifierUse(ref symbols.Symbol, reg *registry.Registry, st *parsing.State) {
	call, info := tokenize.Modifier(ref.Token, reg)
	if info == nil {
		if st.Options.WarnUnknownFunctions {
			st.Warn(ref.Token, "\"%s\" doesn't match any modifier in this story", ref.Contents)
		}
		return
	}
	parser.ValidateModifierCall(call, info, st)
}

// insertSpanAround recovers the full insert span whose name token starts at
// the given offset.
func insertSpanAround(text string, at int) (position.Token, bool) {
	if at > len(text) {
		return position.Token{}, false
	}
	open := strings.LastIndexByte(text[:at], '{')
	if open < 0 {
		return position.Token{}, false
	}
	end := scanner.MatchingDelimiter(text, open)
	return position.NewToken(text[open:end], open), true
}
