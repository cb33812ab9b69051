// Package parsing holds the mutable passage-scoped state threaded through
// the Chapbook parsers, and the result/sink types they emit into. State is
// created fresh at the top-level entry point for each passage and never
// survives past one parse call.
package parsing

import (
	"github.com/twee-tools/chapbook-ls/pkg/diagnostic"
	"github.com/twee-tools/chapbook-ls/pkg/format"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/semtok"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

// ModifierKind is the parsing mode a modifier sets for the text block that
// follows it. Exactly one is active per block; it resets to ModifierNone at
// each new modifier line.
type ModifierKind int

const (
	ModifierNone ModifierKind = iota
	ModifierJavascript
	ModifierCss
	ModifierNote
	ModifierOther
)

func (k ModifierKind) String() string {
	switch k {
	case ModifierNone:
		return "none"
	case ModifierJavascript:
		return "javascript"
	case ModifierCss:
		return "css"
	case ModifierNote:
		return "note"
	case ModifierOther:
		return "other"
	default:
		return "unknown"
	}
}

// Sink receives everything a parse pass produces. Callbacks are invoked
// synchronously during the pass; semantic tokens arrive in source order,
// other callback kinds carry no cross-kind ordering guarantee.
type Sink interface {
	SymbolDefinition(sym symbols.Symbol)
	SymbolReference(sym symbols.Symbol)
	ParseError(d diagnostic.Diagnostic)
	EmbeddedDocument(doc symbols.EmbeddedDocument)
}

// Options configure one parse pass.
type Options struct {
	// FormatVersion is the story's declared format version; nil disables
	// version gating.
	FormatVersion *format.Version

	// WarnUnknownFunctions enables "not recognized" warnings for inserts
	// and modifiers that match no definition.
	WarnUnknownFunctions bool
}

// State is the mutable per-passage parsing state.
type State struct {
	// ModifierKind is the mode the most recent modifier put the current
	// text block into.
	ModifierKind ModifierKind

	// Tokens accumulates semantic tokens during the single scan; flushed
	// in document order at the end of the pass.
	Tokens *semtok.Accumulator

	Options Options

	sink Sink
}

func NewState(opts Options, sink Sink) *State {
	return &State{
		Tokens:  semtok.NewAccumulator(),
		Options: opts,
		sink:    sink,
	}
}

func (s *State) EmitDefinition(sym symbols.Symbol) {
	s.sink.SymbolDefinition(sym)
}

func (s *State) EmitReference(sym symbols.Symbol) {
	s.sink.SymbolReference(sym)
}

func (s *State) Error(tok position.Token, format string, args ...any) {
	s.sink.ParseError(diagnostic.NewError(tok, format, args...))
}

func (s *State) Warn(tok position.Token, format string, args ...any) {
	s.sink.ParseError(diagnostic.NewWarning(tok, format, args...))
}

func (s *State) Embed(lang symbols.EmbeddedLanguage, tok position.Token) {
	s.sink.EmbeddedDocument(symbols.NewEmbeddedDocument(lang, tok))
}

// SetToken records a semantic token for syntax highlighting.
func (s *State) SetToken(tok position.Token, tt semtok.TokenType, mods semtok.TokenModifier) {
	if tok.Length() == 0 {
		return
	}
	s.Tokens.Set(semtok.Token{Type: tt, Modifier: mods, Range: tok})
}
