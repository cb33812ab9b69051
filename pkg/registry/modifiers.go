package registry

import (
	"regexp"

	"github.com/twee-tools/chapbook-ls/pkg/expression"
	"github.com/twee-tools/chapbook-ls/pkg/format"
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
)

func since(v string) format.Window {
	return format.Window{Since: format.MustParse(v)}
}

func modifierMatch(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(?:` + pattern + `)`)
}

func setKind(kind parsing.ModifierKind) ModifierParseFunc {
	return func(call *parsing.ModifierCall, st *parsing.State) {
		st.ModifierKind = kind
	}
}

// scanCondition harvests variable reads from a condition argument and
// leaves the block in default prose mode.
func scanCondition(call *parsing.ModifierCall, st *parsing.State) {
	st.ModifierKind = parsing.ModifierOther
	if call.FirstArgument != nil {
		expression.Scan(*call.FirstArgument, st, true)
	}
}

// builtinModifiers returns the built-in modifier catalog. Order matters:
// lookup is first-match-wins, so the condition variants with longer names
// precede the bare "if".
func builtinModifiers() []*ModifierInfo {
	return []*ModifierInfo{
		{
			FunctionInfo: FunctionInfo{
				Match:       modifierMatch(`after\s`),
				Name:        "after",
				Syntax:      "[after 1s]",
				Description: "Delays showing the text block until a timespan elapses.",
				Completions: []string{"after"},
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "1s"},
			Parse:         setKind(parsing.ModifierOther),
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       modifierMatch(`align\s+(left|right|center)\b`),
				Name:        "align",
				Syntax:      "[align center]",
				Description: "Aligns the text block.",
				Completions: []string{"align left", "align center", "align right"},
			},
			FirstArgument: FirstArgument{Required: Ignored},
			Parse:         setKind(parsing.ModifierOther),
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       modifierMatch(`append\b`),
				Name:        "append",
				Syntax:      "[append]",
				Description: "Appends the text block to the previous one without a paragraph break.",
				Completions: []string{"append"},
			},
			FirstArgument: FirstArgument{Required: Ignored},
			Parse:         setKind(parsing.ModifierOther),
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       modifierMatch(`cont(inued?|'d)?\b`),
				Name:        "continue",
				Syntax:      "[continued]",
				Description: "Clears all active modifiers for the text block.",
				Completions: []string{"continue", "continued", "cont'd"},
			},
			FirstArgument: FirstArgument{Required: Ignored},
			Parse:         setKind(parsing.ModifierNone),
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       modifierMatch(`css\b`),
				Name:        "CSS",
				Syntax:      "[CSS]",
				Description: "Treats the text block as a stylesheet added to the page.",
				Completions: []string{"CSS"},
			},
			FirstArgument: FirstArgument{Required: Ignored},
			Parse:         setKind(parsing.ModifierCss),
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       modifierMatch(`javascript\b`),
				Name:        "JavaScript",
				Syntax:      "[JavaScript]",
				Description: "Runs the text block as JavaScript when the passage is visited.",
				Completions: []string{"JavaScript"},
			},
			FirstArgument: FirstArgument{Required: Ignored},
			Parse:         setKind(parsing.ModifierJavascript),
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       modifierMatch(`(note(\s+to\s+myself)?\b|n\.b\.|todo\b|fixme\b)`),
				Name:        "note",
				Syntax:      "[note]",
				Description: "Omits the text block from the rendered passage.",
				Completions: []string{"note", "note to myself", "todo", "fixme"},
			},
			FirstArgument: FirstArgument{Required: Ignored},
			Parse:         setKind(parsing.ModifierNote),
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       modifierMatch(`ifalways\s`),
				Name:        "ifalways",
				Syntax:      "[ifalways condition]",
				Description: "Testing aid: shows the text block regardless of the condition.",
				Completions: []string{"ifalways"},
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "condition", Type: ValueExpression},
			Parse:         scanCondition,
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       modifierMatch(`ifnever\s`),
				Name:        "ifnever",
				Syntax:      "[ifnever condition]",
				Description: "Testing aid: hides the text block regardless of the condition.",
				Completions: []string{"ifnever"},
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "condition", Type: ValueExpression},
			Parse:         scanCondition,
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       modifierMatch(`if\s`),
				Name:        "if",
				Syntax:      "[if condition]",
				Description: "Shows the text block only when the condition is truthy.",
				Completions: []string{"if"},
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "condition", Type: ValueExpression},
			Parse:         scanCondition,
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       modifierMatch(`unless\s`),
				Name:        "unless",
				Syntax:      "[unless condition]",
				Description: "Shows the text block only when the condition is falsy.",
				Completions: []string{"unless"},
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "condition", Type: ValueExpression},
			Parse:         scanCondition,
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       modifierMatch(`else\b`),
				Name:        "else",
				Syntax:      "[else]",
				Description: "Shows the text block when the preceding condition did not.",
				Completions: []string{"else"},
			},
			FirstArgument: FirstArgument{Required: Ignored},
			Parse:         setKind(parsing.ModifierOther),
		},
	}
}
