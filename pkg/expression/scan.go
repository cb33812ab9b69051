package expression

import (
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/semtok"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

// Scan tokenizes the expression into the state's semantic token stream and,
// when emitRefs is set, emits variable/property read references. JavaScript
// blocks scan with emitRefs false so code living outside a vars section
// never triggers false "unset variable" warnings.
func Scan(tok position.Token, st *parsing.State, emitRefs bool) {
	refs := References(tok)
	refAt := make(map[int]symbols.Kind, len(refs))
	for _, r := range refs {
		refAt[r.Token.At] = r.Kind
	}

	for _, lt := range Lex(tok) {
		switch lt.Kind {
		case LexString:
			st.SetToken(lt.Token, semtok.TokenString, semtok.ModifierNone)
		case LexNumber:
			st.SetToken(lt.Token, semtok.TokenNumber, semtok.ModifierNone)
		case LexKeyword:
			st.SetToken(lt.Token, semtok.TokenKeyword, semtok.ModifierNone)
		case LexOperator:
			st.SetToken(lt.Token, semtok.TokenOperator, semtok.ModifierNone)
		case LexComment:
			st.SetToken(lt.Token, semtok.TokenComment, semtok.ModifierNone)
		case LexIdent:
			switch refAt[lt.Token.At] {
			case symbols.Variable:
				st.SetToken(lt.Token, semtok.TokenVariable, semtok.ModifierNone)
			case symbols.Property:
				st.SetToken(lt.Token, semtok.TokenProperty, semtok.ModifierNone)
			default:
				st.SetToken(lt.Token, semtok.TokenProperty, semtok.ModifierNone)
			}
		}
	}

	if emitRefs {
		for _, r := range refs {
			st.EmitReference(r)
		}
	}
}
