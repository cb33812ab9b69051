package registry

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twee-tools/chapbook-ls/pkg/format"
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

func TestFindInsert(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name     string
		text     string
		wantName string
		wantOK   bool
	}{
		{name: "link to", text: "link to", wantName: "link to", wantOK: true},
		{name: "case insensitive", text: "Link To", wantName: "link to", wantOK: true},
		{name: "embed flickr wins over embed image", text: "embed Flickr image", wantName: "embed Flickr image", wantOK: true},
		{name: "embed image", text: "embed image", wantName: "embed image", wantOK: true},
		{name: "cycling link with for", text: "cycling link for", wantName: "cycling link", wantOK: true},
		{name: "bare variable does not match", text: "myVar", wantOK: false},
		{name: "unknown function", text: "frobnicate widget", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := reg.FindInsert(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.NotNil(t, info)
				assert.Equal(t, tt.wantName, info.Name)
			}
		})
	}
}

func TestFindModifier(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name     string
		text     string
		wantName string
		wantOK   bool
	}{
		{name: "if with condition", text: "if score > 1", wantName: "if", wantOK: true},
		{name: "ifnever", text: "ifnever debugging", wantName: "ifnever", wantOK: true},
		{name: "css", text: "CSS", wantName: "CSS", wantOK: true},
		{name: "note to myself", text: "note to myself", wantName: "note", wantOK: true},
		{name: "nb abbreviation", text: "n.b. check this", wantName: "note", wantOK: true},
		{name: "append prefix does not match appendix", text: "appendix", wantOK: false},
		{name: "unknown", text: "sparkle", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := reg.FindModifier(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.NotNil(t, info)
				assert.Equal(t, tt.wantName, info.Name)
			}
		})
	}
}

func TestFindModifierByName(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name     string
		bare     string
		wantName string
		wantOK   bool
	}{
		{name: "if without its condition", bare: "if", wantName: "if", wantOK: true},
		{name: "unless without its condition", bare: "unless", wantName: "unless", wantOK: true},
		{name: "after without its delay", bare: "after", wantName: "after", wantOK: true},
		{name: "ifalways", bare: "ifalways", wantName: "ifalways", wantOK: true},
		{name: "append matches directly", bare: "append", wantName: "append", wantOK: true},
		{name: "unknown stays unknown", bare: "sparkle", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := reg.FindModifierByName(tt.bare)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.NotNil(t, info)
				assert.Equal(t, tt.wantName, info.Name)
			}
		})
	}
}

func TestCustomLookupAfterBuiltins(t *testing.T) {
	reg := NewRegistry()
	reg.AddCustomInsert(&CustomInsert{
		InsertInfo: InsertInfo{
			FunctionInfo: FunctionInfo{
				Match: regexp.MustCompile(`(?i)^(?:smiley\s+face)`),
				Name:  "smiley face",
			},
		},
	})

	info, ok := reg.FindInsert("smiley face")
	require.True(t, ok)
	assert.Equal(t, "smiley face", info.Name)
	assert.False(t, reg.IsBuiltinInsert(info))

	builtin, ok := reg.FindInsert("link to")
	require.True(t, ok)
	assert.True(t, reg.IsBuiltinInsert(builtin))
}

func TestNilMatchNeverMatches(t *testing.T) {
	info := &FunctionInfo{Name: "broken"}
	assert.False(t, info.Matches("broken"))
	assert.Equal(t, 0, info.MatchLength("broken"))
}

func TestMatchLength(t *testing.T) {
	reg := NewRegistry()
	info, ok := reg.FindModifier("after 1s")
	require.True(t, ok)
	assert.Equal(t, len("after "), info.MatchLength("after 1s"))
}

func TestVersionWindows(t *testing.T) {
	reg := NewRegistry()

	sound, ok := reg.FindInsert("sound effect")
	require.True(t, ok)
	assert.Equal(t, format.TooEarly, sound.Window.Check(format.MustParse("1.0.0")))
	assert.Equal(t, format.Available, sound.Window.Check(format.MustParse("1.1.0")))

	link, ok := reg.FindInsert("link to")
	require.True(t, ok)
	assert.Equal(t, format.Available, link.Window.Check(format.MustParse("1.0.0")))
}

func TestVariableSetFromArg(t *testing.T) {
	result := parsing.NewParseResult()
	st := parsing.NewState(parsing.Options{}, result)

	variableSetFromArg(position.NewToken("'player.name'", 20), st)

	require.Len(t, result.Definitions, 2)
	assert.Equal(t, symbols.VariableSet, result.Definitions[0].Kind)
	assert.Equal(t, "player", result.Definitions[0].Contents)
	assert.Equal(t, 21, result.Definitions[0].Token.At)
	assert.Equal(t, symbols.PropertySet, result.Definitions[1].Kind)
	assert.Equal(t, "player.name", result.Definitions[1].Contents)
	assert.Equal(t, "name", result.Definitions[1].Token.Text)
	assert.Equal(t, 28, result.Definitions[1].Token.At)
}

func TestPassageRefFromArg(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		wantRef string
	}{
		{name: "quoted passage name", arg: "'Start'", wantRef: "Start"},
		{name: "url is not a passage", arg: "'https://example.com'", wantRef: ""},
		{name: "unquoted expression left alone", arg: "target", wantRef: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parsing.NewParseResult()
			st := parsing.NewState(parsing.Options{}, result)
			passageRefFromArg(position.NewToken(tt.arg, 0), st)

			if tt.wantRef == "" {
				assert.Empty(t, result.References)
				return
			}
			require.Len(t, result.References, 1)
			assert.Equal(t, symbols.Passage, result.References[0].Kind)
			assert.Equal(t, tt.wantRef, result.References[0].Contents)
		})
	}
}
