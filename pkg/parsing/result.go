package parsing

import (
	"github.com/twee-tools/chapbook-ls/pkg/diagnostic"
	"github.com/twee-tools/chapbook-ls/pkg/semtok"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

// ParseResult aggregates everything one parse pass over one passage
// produced. It implements Sink so the core can stream into it; hosts that
// want true streaming supply their own Sink instead.
type ParseResult struct {
	Definitions []symbols.Symbol
	References  []symbols.Symbol
	Diagnostics []diagnostic.Diagnostic
	Embedded    []symbols.EmbeddedDocument

	// Tokens is the flat semantic token stream, in source order.
	Tokens []semtok.Token
}

var _ Sink = (*ParseResult)(nil)

func NewParseResult() *ParseResult {
	return &ParseResult{}
}

func (r *ParseResult) SymbolDefinition(sym symbols.Symbol) {
	r.Definitions = append(r.Definitions, sym)
}

func (r *ParseResult) SymbolReference(sym symbols.Symbol) {
	r.References = append(r.References, sym)
}

func (r *ParseResult) ParseError(d diagnostic.Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

func (r *ParseResult) EmbeddedDocument(doc symbols.EmbeddedDocument) {
	r.Embedded = append(r.Embedded, doc)
}

// Errors returns only the error-severity diagnostics.
func (r *ParseResult) Errors() []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == diagnostic.Error {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the warning-severity diagnostics.
func (r *ParseResult) Warnings() []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == diagnostic.Warning {
			out = append(out, d)
		}
	}
	return out
}
