package semtok

import (
	"github.com/twee-tools/chapbook-ls/pkg/position"
)

// TokenType represents the semantic meaning of a token
type TokenType uint32

const (
	// TokenVariable represents a variable read or assignment target
	TokenVariable TokenType = iota + 1

	// TokenProperty represents a dotted property on a variable
	TokenProperty

	// TokenFunction represents an insert or modifier name
	TokenFunction

	// TokenKeyword represents a structural keyword (e.g. a condition guard)
	TokenKeyword

	// TokenParameter represents an insert/modifier argument value
	TokenParameter

	// TokenString represents a string literal
	TokenString

	// TokenComment represents suppressed note text
	TokenComment

	// TokenNumber represents a numeric literal
	TokenNumber

	// TokenOperator represents an expression operator
	TokenOperator
)

// TokenModifier represents additional characteristics of a token
type TokenModifier uint32

const (
	// ModifierNone indicates no special characteristics
	ModifierNone TokenModifier = 0

	// ModifierDeclaration indicates the assigning occurrence of a variable
	ModifierDeclaration TokenModifier = 1 << iota

	// ModifierDeprecated indicates use of a deprecated function
	ModifierDeprecated

	// ModifierDefaultLibrary indicates a built-in insert or modifier
	ModifierDefaultLibrary
)

// Token is a semantic token with its type, modifiers, and position.
type Token struct {
	Type     TokenType
	Modifier TokenModifier
	Range    position.Token
}

// String returns a human-readable representation of the token type
func (t TokenType) String() string {
	switch t {
	case TokenVariable:
		return "variable"
	case TokenProperty:
		return "property"
	case TokenFunction:
		return "function"
	case TokenKeyword:
		return "keyword"
	case TokenParameter:
		return "parameter"
	case TokenString:
		return "string"
	case TokenComment:
		return "comment"
	case TokenNumber:
		return "number"
	case TokenOperator:
		return "operator"
	default:
		return "unknown"
	}
}
