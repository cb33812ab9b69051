package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twee-tools/chapbook-ls/pkg/format"
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/registry"
	"github.com/twee-tools/chapbook-ls/pkg/semtok"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

func parse(t *testing.T, text string, opts parsing.Options) *parsing.ParseResult {
	t.Helper()
	return ParsePassage(position.NewToken(text, 0), registry.NewRegistry(), opts)
}

func TestParsePassageIsRepeatable(t *testing.T) {
	const text = "name: 'Al'\nscore: 0\n--\n" +
		"Hello {name}. {link to: 'Cave', label: 'Go'}\n" +
		"[if score > 0]\nYou scored. [[Cave]]\n" +
		"[JavaScript]\nengine.extend('2.0.0', () => {\n" +
		"engine.template.inserts.add({match: /smiley\\s+face/i, name: 'smiley face'});\n});\n"

	reg := registry.NewRegistry()
	first := ParsePassage(position.NewToken(text, 0), reg, parsing.Options{})
	second := ParsePassage(position.NewToken(text, 0), reg, parsing.Options{})

	// Embedded document ids are freshly generated each pass.
	for i := range first.Embedded {
		first.Embedded[i].ID = ""
	}
	for i := range second.Embedded {
		second.Embedded[i].ID = ""
	}

	assert.Equal(t, first, second)
	assert.Len(t, reg.CustomInserts(), 2,
		"each pass registers the story definition again")
}

func refsOf(r *parsing.ParseResult, kind symbols.Kind) []symbols.Symbol {
	var out []symbols.Symbol
	for _, ref := range r.References {
		if ref.Kind == kind {
			out = append(out, ref)
		}
	}
	return out
}

func TestParsePassageEndToEnd(t *testing.T) {
	result := parse(t, "name: 'Al'\n--\nHello {name}!", parsing.Options{})

	require.Len(t, result.Definitions, 1)
	assert.Equal(t, symbols.VariableSet, result.Definitions[0].Kind)
	assert.Equal(t, "name", result.Definitions[0].Contents)
	assert.Equal(t, 0, result.Definitions[0].Token.At)

	reads := refsOf(result, symbols.Variable)
	require.Len(t, reads, 1)
	assert.Equal(t, "name", reads[0].Contents)
	assert.Equal(t, 21, reads[0].Token.At)

	assert.Empty(t, result.Diagnostics)
}

func TestModifierScope(t *testing.T) {
	result := parse(t, "[javascript]\ncode()\n[css]\nbody {}\n", parsing.Options{})

	require.Len(t, result.Embedded, 2)
	assert.Equal(t, symbols.LanguageJavaScript, result.Embedded[0].Language)
	assert.Equal(t, "code()", result.Embedded[0].Token.Text)
	assert.Equal(t, 13, result.Embedded[0].Token.At)
	assert.Equal(t, symbols.LanguageCSS, result.Embedded[1].Language)
	assert.Equal(t, "body {}", result.Embedded[1].Token.Text)

	assert.Len(t, refsOf(result, symbols.BuiltInModifier), 2)
	assert.Empty(t, refsOf(result, symbols.Variable),
		"neither block should be scanned as prose")
}

func TestNoteBlock(t *testing.T) {
	result := parse(t, "[note]\nfix this section {later}\nand this one too\n", parsing.Options{})

	assert.Empty(t, result.Embedded)
	assert.Empty(t, refsOf(result, symbols.Variable))

	var comments []semtok.Token
	for _, tok := range result.Tokens {
		if tok.Type == semtok.TokenComment {
			comments = append(comments, tok)
		}
	}
	require.Len(t, comments, 1, "the whole note block is one comment span")
	assert.Equal(t, "fix this section {later}\nand this one too", comments[0].Range.Text)
	assert.Equal(t, 7, comments[0].Range.At)
}

func TestSubModifiers(t *testing.T) {
	t.Run("only the first sets the block mode", func(t *testing.T) {
		result := parse(t, "[css; if hidden]\nbody {}\n", parsing.Options{})

		require.Len(t, result.Embedded, 1)
		assert.Equal(t, symbols.LanguageCSS, result.Embedded[0].Language)

		reads := refsOf(result, symbols.Variable)
		require.Len(t, reads, 1)
		assert.Equal(t, "hidden", reads[0].Contents)
	})

	t.Run("later mode changes are discarded", func(t *testing.T) {
		result := parse(t, "[if hidden; css]\nsome text\n", parsing.Options{})
		assert.Empty(t, result.Embedded)
	})
}

func TestModifierWhitespaceInsideBrackets(t *testing.T) {
	result := parse(t, "[ note ]\nhidden\n", parsing.Options{})

	require.Len(t, result.Errors(), 1)
	assert.Contains(t, result.Errors()[0].Message, "whitespace")

	var comment bool
	for _, tok := range result.Tokens {
		comment = comment || tok.Type == semtok.TokenComment
	}
	assert.True(t, comment, "the modifier still applies after the error")
}

func TestUnknownModifierBecomesCustomReference(t *testing.T) {
	result := parse(t, "[sparkle]\ntext\n", parsing.Options{})

	refs := refsOf(result, symbols.CustomModifier)
	require.Len(t, refs, 1)
	assert.Equal(t, "sparkle", refs[0].Contents)
	assert.Empty(t, result.Diagnostics)
}

func TestInsertValidation(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		opts        parsing.Options
		wantError   string
		wantWarning string
	}{
		{
			name:      "missing required property",
			text:      "{cycling link for: 'fruit'}",
			wantError: "missing expected properties: choices",
		},
		{
			name:      "missing required first argument",
			text:      "{embed image}",
			wantError: `"embed image" requires a value`,
		},
		{
			name:        "ignored first argument",
			text:        "{no ambient sound: 'x'}",
			wantWarning: "ignores this value",
		},
		{
			name:        "unknown property",
			text:        "{back link, speed: 2}",
			wantWarning: `"speed" will be ignored`,
		},
		{
			name:      "too early for the story format",
			text:      "{sound effect: 'boom'}",
			opts:      parsing.Options{FormatVersion: format.MustParse("1.0.0")},
			wantError: "1.1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parse(t, tt.text, tt.opts)
			if tt.wantError != "" {
				require.NotEmpty(t, result.Errors())
				assert.Contains(t, result.Errors()[0].Message, tt.wantError)
			} else {
				assert.Empty(t, result.Errors())
			}
			if tt.wantWarning != "" {
				require.NotEmpty(t, result.Warnings())
				assert.Contains(t, result.Warnings()[0].Message, tt.wantWarning)
			}
		})
	}
}

func TestInsertHooksRun(t *testing.T) {
	result := parse(t, "{cycling link for: 'fruit', choices: ['apple']}", parsing.Options{})

	require.Len(t, result.Definitions, 1)
	assert.Equal(t, symbols.VariableSet, result.Definitions[0].Kind)
	assert.Equal(t, "fruit", result.Definitions[0].Contents)
	assert.Empty(t, result.Errors())
}

func TestBareInsertResolvesBeforeVariableFallback(t *testing.T) {
	t.Run("argument-less call", func(t *testing.T) {
		result := parse(t, "{restart link}", parsing.Options{})
		require.Len(t, refsOf(result, symbols.BuiltInInsert), 1)
		assert.Empty(t, refsOf(result, symbols.Variable))
	})

	t.Run("spaced bare span is a function use, not a variable", func(t *testing.T) {
		result := parse(t, "{totally unknown}", parsing.Options{})
		refs := refsOf(result, symbols.CustomInsert)
		require.Len(t, refs, 1)
		assert.Equal(t, "totally unknown", refs[0].Contents)
		assert.Empty(t, refsOf(result, symbols.Variable))
	})

	t.Run("variable read", func(t *testing.T) {
		result := parse(t, "{ myVar }", parsing.Options{})
		reads := refsOf(result, symbols.Variable)
		require.Len(t, reads, 1)
		assert.Equal(t, "myVar", reads[0].Contents)
		assert.Equal(t, 2, reads[0].Token.At)
	})
}

func TestBareVariableArrayIndex(t *testing.T) {
	t.Run("index at the end", func(t *testing.T) {
		result := parse(t, "{inventory[2]}", parsing.Options{})
		reads := refsOf(result, symbols.Variable)
		require.Len(t, reads, 1)
		assert.Equal(t, "inventory", reads[0].Contents)
		assert.Empty(t, result.Errors())
	})

	t.Run("index mid-path", func(t *testing.T) {
		result := parse(t, "{inventory[2].label}", parsing.Options{})
		require.NotEmpty(t, result.Errors())
		assert.Contains(t, result.Errors()[0].Message, "end of a variable name")
	})
}

func TestUnknownInsert(t *testing.T) {
	t.Run("becomes a custom reference", func(t *testing.T) {
		result := parse(t, "{frobnicate: 1}", parsing.Options{})
		refs := refsOf(result, symbols.CustomInsert)
		require.Len(t, refs, 1)
		assert.Equal(t, "frobnicate", refs[0].Contents)
		assert.Empty(t, result.Warnings())
	})

	t.Run("warns when asked to", func(t *testing.T) {
		result := parse(t, "{frobnicate: 1}", parsing.Options{WarnUnknownFunctions: true})
		require.Len(t, result.Warnings(), 1)
		assert.Contains(t, result.Warnings()[0].Message, "frobnicate")
	})
}

func TestLinks(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantRef string
	}{
		{name: "bare target", text: "Go [[east]].", wantRef: "east"},
		{name: "arrow right", text: "[[Go west->West]]", wantRef: "West"},
		{name: "arrow left", text: "[[West<-Go west]]", wantRef: "West"},
		{name: "pipe", text: "[[Go west|West]]", wantRef: "West"},
		{name: "url target", text: "[[https://example.com]]", wantRef: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parse(t, tt.text, parsing.Options{})
			refs := refsOf(result, symbols.Passage)
			if tt.wantRef == "" {
				assert.Empty(t, refs)
				return
			}
			require.Len(t, refs, 1)
			assert.Equal(t, tt.wantRef, refs[0].Contents)
		})
	}
}

func TestLinkLabelBraceIsNotAnInsert(t *testing.T) {
	result := parse(t, "[[{weird}|Target]]", parsing.Options{})

	refs := refsOf(result, symbols.Passage)
	require.Len(t, refs, 1)
	assert.Equal(t, "Target", refs[0].Contents)
	assert.Empty(t, refsOf(result, symbols.Variable))
}

func TestHTMLIslands(t *testing.T) {
	t.Run("style", func(t *testing.T) {
		result := parse(t, "x <style>.a{color:red}</style> y", parsing.Options{})
		require.Len(t, result.Embedded, 1)
		assert.Equal(t, symbols.LanguageCSS, result.Embedded[0].Language)
		assert.Equal(t, ".a{color:red}", result.Embedded[0].Token.Text)
		assert.Empty(t, result.References, "braces inside the stylesheet are not inserts")
	})

	t.Run("script", func(t *testing.T) {
		result := parse(t, "<script>init()</script>", parsing.Options{})
		require.Len(t, result.Embedded, 1)
		assert.Equal(t, symbols.LanguageJavaScript, result.Embedded[0].Language)
		assert.Equal(t, "init()", result.Embedded[0].Token.Text)
	})
}

func TestInsertBraceScanning(t *testing.T) {
	t.Run("a later open brace supersedes an earlier one", func(t *testing.T) {
		result := parse(t, "oops { noise {embed image: 'u'} after", parsing.Options{})
		require.Len(t, refsOf(result, symbols.BuiltInInsert), 1)
		assert.Empty(t, refsOf(result, symbols.CustomInsert))
	})

	t.Run("a quoted close brace does not end the span", func(t *testing.T) {
		result := parse(t, "{link to: 'a}b'}", parsing.Options{})
		refs := refsOf(result, symbols.Passage)
		require.Len(t, refs, 1)
		assert.Equal(t, "a}b", refs[0].Contents)
	})
}

func TestJavascriptBlockCollectsExtensions(t *testing.T) {
	text := "[JavaScript]\nengine.extend('2.0.0', () => {\n" +
		"engine.template.inserts.add({match: /smiley\\s+face/i, name: 'smiley face'});\n});\n"

	reg := registry.NewRegistry()
	result := ParsePassage(position.NewToken(text, 0), reg, parsing.Options{})

	require.Len(t, reg.CustomInserts(), 1)
	assert.Equal(t, "smiley face", reg.CustomInserts()[0].Name)
	assert.Empty(t, refsOf(result, symbols.Variable),
		"javascript code is not scanned for variable reads")
}

func TestParsePassageBaseOffset(t *testing.T) {
	result := ParsePassage(position.NewToken("x: 1\n--\n{x}", 100), registry.NewRegistry(), parsing.Options{})

	require.Len(t, result.Definitions, 1)
	assert.Equal(t, 100, result.Definitions[0].Token.At)

	reads := refsOf(result, symbols.Variable)
	require.Len(t, reads, 1)
	assert.Equal(t, 109, reads[0].Token.At)
}

func TestSemanticTokensInDocumentOrder(t *testing.T) {
	result := parse(t, "a: 1\nb: 2\n--\n{a} and {b}", parsing.Options{})

	last := -1
	for _, tok := range result.Tokens {
		assert.Greater(t, tok.Range.At, last)
		last = tok.Range.At
	}
}
