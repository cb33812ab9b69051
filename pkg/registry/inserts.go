package registry

import (
	"regexp"
	"strings"

	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

// StripQuotes returns the inner token of a quoted argument value, with its
// offset advanced past the opening quote.
func StripQuotes(tok position.Token) (position.Token, bool) {
	t := tok.Text
	if len(t) >= 2 && (t[0] == '\'' || t[0] == '"') && t[len(t)-1] == t[0] {
		return tok.Sub(1, len(t)-1), true
	}
	return tok, false
}

var urlSchemePattern = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://`)

// LooksLikeURL reports whether text is a URL rather than a passage name.
func LooksLikeURL(text string) bool {
	return urlSchemePattern.MatchString(text)
}

// passageRefFromArg emits a passage reference for a quoted argument value
// naming a passage. URL values and unquoted expressions are left alone.
func passageRefFromArg(arg position.Token, st *parsing.State) {
	inner, quoted := StripQuotes(arg)
	if !quoted || inner.Length() == 0 || LooksLikeURL(inner.Text) {
		return
	}
	st.EmitReference(symbols.New(symbols.Passage, inner))
}

// variableSetFromArg emits assigning occurrences for a quoted argument
// naming a variable (or dotted property path) the insert will write to.
func variableSetFromArg(arg position.Token, st *parsing.State) {
	inner, quoted := StripQuotes(arg)
	if !quoted || inner.Length() == 0 {
		return
	}
	at := 0
	path := ""
	for i, part := range strings.Split(inner.Text, ".") {
		seg := inner.Sub(at, at+len(part))
		if i == 0 {
			path = part
			st.EmitDefinition(symbols.Symbol{Contents: path, Token: seg, Kind: symbols.VariableSet})
		} else {
			path += "." + part
			st.EmitDefinition(symbols.Symbol{Contents: path, Token: seg, Kind: symbols.PropertySet})
		}
		at += len(part) + 1
	}
}

func insertMatch(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(?:` + pattern + `)`)
}

// builtinInserts returns the built-in insert catalog. Order matters:
// lookup is first-match-wins.
func builtinInserts() []*InsertInfo {
	return []*InsertInfo{
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`ambient\s+sound`),
				Name:        "ambient sound",
				Syntax:      "{ambient sound: 'sound name', volume: 0.5}",
				Description: "Begins playing a previously-defined ambient sound.",
				Completions: []string{"ambient sound"},
				Window:      since("1.1.0"),
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "'sound name'"},
			OptionalProps: map[string]PropertySpec{
				"volume": {Placeholder: "0.5", Type: ValueExpression},
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`no\s+ambient\s+sound`),
				Name:        "no ambient sound",
				Syntax:      "{no ambient sound}",
				Description: "Stops any playing ambient sound.",
				Completions: []string{"no ambient sound"},
				Window:      since("1.1.0"),
			},
			FirstArgument: FirstArgument{Required: Ignored},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`back\s+link`),
				Name:        "back link",
				Syntax:      "{back link, label: 'Back'}",
				Description: "Renders a link that undoes the last passage visit.",
				Completions: []string{"back link"},
			},
			FirstArgument: FirstArgument{Required: Ignored},
			OptionalProps: map[string]PropertySpec{
				"label": {Placeholder: "'Back'"},
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`cycling\s+link(\s+for)?`),
				Name:        "cycling link",
				Syntax:      "{cycling link for: 'variable name', choices: ['one', 'two']}",
				Description: "Renders a link that cycles through choices, optionally saving the choice to a variable.",
				Completions: []string{"cycling link", "cycling link for"},
			},
			FirstArgument: FirstArgument{Required: Optional, Placeholder: "'variable name'"},
			RequiredProps: map[string]PropertySpec{
				"choices": {Placeholder: "['one', 'two']", Type: ValueExpression},
			},
			Parse: func(call *parsing.InsertCall, st *parsing.State) {
				if call.FirstArgument != nil {
					variableSetFromArg(*call.FirstArgument, st)
				}
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`dropdown\s+menu(\s+for)?`),
				Name:        "dropdown menu",
				Syntax:      "{dropdown menu for: 'variable name', choices: ['one', 'two']}",
				Description: "Renders a dropdown menu that saves the selection to a variable.",
				Completions: []string{"dropdown menu", "dropdown menu for"},
			},
			FirstArgument: FirstArgument{Required: Optional, Placeholder: "'variable name'"},
			RequiredProps: map[string]PropertySpec{
				"choices": {Placeholder: "['one', 'two']", Type: ValueExpression},
			},
			Parse: func(call *parsing.InsertCall, st *parsing.State) {
				if call.FirstArgument != nil {
					variableSetFromArg(*call.FirstArgument, st)
				}
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`embed\s+passage(\s+named)?`),
				Name:        "embed passage",
				Syntax:      "{embed passage named: 'passage name'}",
				Description: "Renders the named passage's text in place.",
				Completions: []string{"embed passage", "embed passage named"},
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "'passage name'", Type: ValuePassage},
			Parse: func(call *parsing.InsertCall, st *parsing.State) {
				if call.FirstArgument != nil {
					passageRefFromArg(*call.FirstArgument, st)
				}
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`embed\s+flickr(\s+image)?`),
				Name:        "embed Flickr image",
				Syntax:      "{embed Flickr image: 'embed code', alt: 'alternate text'}",
				Description: "Embeds an image hosted on Flickr.",
				Completions: []string{"embed Flickr image"},
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "'embed code'"},
			OptionalProps: map[string]PropertySpec{
				"alt": {Placeholder: "'alternate text'"},
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`embed\s+image`),
				Name:        "embed image",
				Syntax:      "{embed image: 'url', alt: 'alternate text'}",
				Description: "Embeds an image from a URL.",
				Completions: []string{"embed image"},
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "'url'"},
			OptionalProps: map[string]PropertySpec{
				"alt": {Placeholder: "'alternate text'"},
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`embed\s+unsplash(\s+image)?`),
				Name:        "embed Unsplash image",
				Syntax:      "{embed Unsplash image: 'url', alt: 'alternate text'}",
				Description: "Embeds an image hosted on Unsplash.",
				Completions: []string{"embed Unsplash image"},
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "'url'"},
			OptionalProps: map[string]PropertySpec{
				"alt": {Placeholder: "'alternate text'"},
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`embed\s+youtube(\s+video)?`),
				Name:        "embed YouTube video",
				Syntax:      "{embed YouTube video: 'url', autoplay: false}",
				Description: "Embeds a YouTube player.",
				Completions: []string{"embed YouTube video"},
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "'url'"},
			OptionalProps: map[string]PropertySpec{
				"autoplay": {Placeholder: "false", Type: ValueExpression},
				"loop":     {Placeholder: "false", Type: ValueExpression},
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`link\s+to`),
				Name:        "link to",
				Syntax:      "{link to: 'passage name or URL', label: 'label text'}",
				Description: "Renders a link to a passage or an external URL.",
				Completions: []string{"link to"},
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "'passage name or URL'", Type: ValueUrlOrPassage},
			OptionalProps: map[string]PropertySpec{
				"label": {Placeholder: "'label text'"},
			},
			Parse: func(call *parsing.InsertCall, st *parsing.State) {
				if call.FirstArgument != nil {
					passageRefFromArg(*call.FirstArgument, st)
				}
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`restart\s+link`),
				Name:        "restart link",
				Syntax:      "{restart link, label: 'label text'}",
				Description: "Renders a link that restarts the story.",
				Completions: []string{"restart link"},
			},
			FirstArgument: FirstArgument{Required: Ignored},
			OptionalProps: map[string]PropertySpec{
				"label": {Placeholder: "'label text'"},
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`reveal\s+link`),
				Name:        "reveal link",
				Syntax:      "{reveal link: 'label text', text: 'revealed text'}",
				Description: "Renders a link that replaces itself with text or a passage's contents.",
				Completions: []string{"reveal link"},
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "'label text'"},
			OptionalProps: map[string]PropertySpec{
				"text":    {Placeholder: "'revealed text'"},
				"passage": {Placeholder: "'passage name'", Type: ValuePassage},
			},
			Parse: func(call *parsing.InsertCall, st *parsing.State) {
				_, hasText := call.Props["text"]
				pass, hasPassage := call.Props["passage"]
				if hasText == hasPassage {
					st.Warn(call.Name, "reveal link should have exactly one of \"text\" or \"passage\" properties")
				}
				if hasPassage {
					passageRefFromArg(pass.Value, st)
				}
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`sound\s+effect`),
				Name:        "sound effect",
				Syntax:      "{sound effect: 'sound name', volume: 0.5}",
				Description: "Plays a previously-defined sound effect.",
				Completions: []string{"sound effect"},
				Window:      since("1.1.0"),
			},
			FirstArgument: FirstArgument{Required: Required, Placeholder: "'sound name'"},
			OptionalProps: map[string]PropertySpec{
				"volume": {Placeholder: "0.5", Type: ValueExpression},
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`text\s+input(\s+for)?`),
				Name:        "text input",
				Syntax:      "{text input for: 'variable name', required: true}",
				Description: "Renders a text field, optionally saving the entered text to a variable.",
				Completions: []string{"text input", "text input for"},
			},
			FirstArgument: FirstArgument{Required: Optional, Placeholder: "'variable name'"},
			OptionalProps: map[string]PropertySpec{
				"required": {Placeholder: "true", Type: ValueExpression},
			},
			Parse: func(call *parsing.InsertCall, st *parsing.State) {
				if call.FirstArgument != nil {
					variableSetFromArg(*call.FirstArgument, st)
				}
			},
		},
		{
			FunctionInfo: FunctionInfo{
				Match:       insertMatch(`theme\s+switcher`),
				Name:        "theme switcher",
				Syntax:      "{theme switcher, darkLabel: 'Dark', lightLabel: 'Light'}",
				Description: "Renders a link that toggles between dark and light themes.",
				Completions: []string{"theme switcher"},
				Window:      since("1.2.0"),
			},
			FirstArgument: FirstArgument{Required: Ignored},
			OptionalProps: map[string]PropertySpec{
				"darkLabel":  {Placeholder: "'Dark'"},
				"lightLabel": {Placeholder: "'Light'"},
			},
		},
	}
}
