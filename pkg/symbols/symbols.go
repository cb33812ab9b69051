// Package symbols defines the symbol definitions and references a parse
// pass emits into the project index.
package symbols

import (
	"github.com/google/uuid"
	"github.com/twee-tools/chapbook-ls/pkg/position"
)

// Kind classifies a symbol occurrence. The "Set" kinds mark the assigning
// occurrence in a vars section; the plain kinds mark read occurrences.
type Kind int

const (
	BuiltInModifier Kind = iota + 1
	BuiltInInsert
	CustomModifier
	CustomInsert
	Variable
	VariableSet
	Property
	PropertySet
	Passage
)

func (k Kind) String() string {
	switch k {
	case BuiltInModifier:
		return "built-in modifier"
	case BuiltInInsert:
		return "built-in insert"
	case CustomModifier:
		return "custom modifier"
	case CustomInsert:
		return "custom insert"
	case Variable:
		return "variable"
	case VariableSet:
		return "variable set"
	case Property:
		return "property"
	case PropertySet:
		return "property set"
	case Passage:
		return "passage"
	default:
		return "unknown"
	}
}

// IsDefinition reports whether the kind marks an assigning occurrence.
func (k Kind) IsDefinition() bool {
	return k == VariableSet || k == PropertySet
}

// Symbol is one occurrence of a named thing in a document.
type Symbol struct {
	// Contents is the symbol's name; for properties the full dotted path
	Contents string
	Token    position.Token
	Kind     Kind
}

func New(kind Kind, tok position.Token) Symbol {
	return Symbol{Contents: tok.Text, Token: tok, Kind: kind}
}

// EmbeddedLanguage identifies the sub-parser an embedded document is for.
type EmbeddedLanguage string

const (
	LanguageCSS        EmbeddedLanguage = "css"
	LanguageJavaScript EmbeddedLanguage = "javascript"
	LanguageHTML       EmbeddedLanguage = "html"
)

// EmbeddedDocument is a region of passage text handed off to an embedded
// language sub-parser. The core only decides where the region starts and
// ends; the text is opaque beyond that.
type EmbeddedDocument struct {
	ID       string
	Language EmbeddedLanguage
	Token    position.Token
}

func NewEmbeddedDocument(lang EmbeddedLanguage, tok position.Token) EmbeddedDocument {
	return EmbeddedDocument{
		ID:       uuid.NewString(),
		Language: lang,
		Token:    tok,
	}
}
