package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/semtok"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

func parseVarsText(t *testing.T, text string) *parsing.ParseResult {
	t.Helper()
	result := parsing.NewParseResult()
	st := parsing.NewState(parsing.Options{}, result)
	parseVars(position.NewToken(text, 0), st)
	result.Tokens = st.Tokens.Flush()
	return result
}

func TestParseVarsAssignment(t *testing.T) {
	result := parseVarsText(t, "score: 10")

	require.Len(t, result.Definitions, 1)
	def := result.Definitions[0]
	assert.Equal(t, symbols.VariableSet, def.Kind)
	assert.Equal(t, "score", def.Contents)
	assert.Equal(t, 0, def.Token.At)
	assert.Empty(t, result.Diagnostics)

	require.NotEmpty(t, result.Tokens)
	assert.Equal(t, semtok.TokenVariable, result.Tokens[0].Type)
	assert.Equal(t, semtok.ModifierDeclaration, result.Tokens[0].Modifier&semtok.ModifierDeclaration)
}

func TestParseVarsDottedPath(t *testing.T) {
	result := parseVarsText(t, "player.name: 'Al'")

	require.Len(t, result.Definitions, 2)
	assert.Equal(t, symbols.VariableSet, result.Definitions[0].Kind)
	assert.Equal(t, "player", result.Definitions[0].Contents)
	assert.Equal(t, 0, result.Definitions[0].Token.At)
	assert.Equal(t, symbols.PropertySet, result.Definitions[1].Kind)
	assert.Equal(t, "player.name", result.Definitions[1].Contents)
	assert.Equal(t, "name", result.Definitions[1].Token.Text)
	assert.Equal(t, 7, result.Definitions[1].Token.At)
}

func TestParseVarsValueReferences(t *testing.T) {
	result := parseVarsText(t, "total: price + tax.rate")

	var contents []string
	for _, ref := range result.References {
		contents = append(contents, ref.Contents)
	}
	assert.Contains(t, contents, "price")
	assert.Contains(t, contents, "tax")
	assert.Contains(t, contents, "tax.rate")
}

func TestParseVarsCondition(t *testing.T) {
	result := parseVarsText(t, "mood (time > 3): 'tired'")

	require.Len(t, result.Definitions, 1)
	assert.Equal(t, "mood", result.Definitions[0].Contents)

	require.Len(t, result.References, 1)
	assert.Equal(t, symbols.Variable, result.References[0].Kind)
	assert.Equal(t, "time", result.References[0].Contents)
	assert.Equal(t, 6, result.References[0].Token.At)
	assert.Empty(t, result.Diagnostics)
}

func TestParseVarsConditionProtectsColon(t *testing.T) {
	result := parseVarsText(t, "mood (late ? 'a' : 'b'): 1")

	require.Len(t, result.Definitions, 1)
	assert.Equal(t, "mood", result.Definitions[0].Contents)
	assert.Empty(t, result.Errors())
}

func TestParseVarsDiagnostics(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantError   string
		wantWarning string
	}{
		{
			name:        "missing colon",
			line:        "just some text",
			wantWarning: "colon",
		},
		{
			name:      "unclosed parenthesis swallows the colon",
			line:      "bad (x: 1",
			wantError: "unclosed",
		},
		{
			name:      "name starting with a digit",
			line:      "3bad: 1",
			wantError: "must start with",
		},
		{
			name:      "hyphen in name",
			line:      "my-var: 1",
			wantError: `"-"`,
		},
		{
			name:        "text after condition",
			line:        "mood (x > 1) huh: 2",
			wantWarning: "ignored",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseVarsText(t, tt.line)
			if tt.wantError != "" {
				require.NotEmpty(t, result.Errors())
				assert.Contains(t, result.Errors()[0].Message, tt.wantError)
			}
			if tt.wantWarning != "" {
				require.NotEmpty(t, result.Warnings())
				assert.Contains(t, result.Warnings()[0].Message, tt.wantWarning)
			}
		})
	}
}

func TestParseVarsLeadingDotName(t *testing.T) {
	result := parseVarsText(t, ".a: 1")

	require.NotEmpty(t, result.Errors())
	assert.Contains(t, result.Errors()[0].Message, "must start with")

	require.Len(t, result.Definitions, 1)
	assert.Equal(t, symbols.VariableSet, result.Definitions[0].Kind)
	assert.Equal(t, "a", result.Definitions[0].Contents)
	assert.Equal(t, 1, result.Definitions[0].Token.At)
}

func TestParseVarsBadLineDoesNotStopSection(t *testing.T) {
	result := parseVarsText(t, "no colon here\nscore: 10\n")

	require.Len(t, result.Definitions, 1)
	assert.Equal(t, "score", result.Definitions[0].Contents)
	assert.Len(t, result.Warnings(), 1)
}
