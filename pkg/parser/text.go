package parser

import (
	"regexp"
	"strings"

	"github.com/twee-tools/chapbook-ls/pkg/expression"
	"github.com/twee-tools/chapbook-ls/pkg/extend"
	"github.com/twee-tools/chapbook-ls/pkg/format"
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/registry"
	"github.com/twee-tools/chapbook-ls/pkg/scanner"
	"github.com/twee-tools/chapbook-ls/pkg/semtok"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
	"github.com/twee-tools/chapbook-ls/pkg/tokenize"
)

// modifierLinePattern matches a line that is nothing but one bracketed
// modifier expression, with optional surrounding spaces and tabs. The
// second character must not be another bracket so wiki-style [[links]]
// never read as modifier lines.
var modifierLinePattern = regexp.MustCompile(`(?m)^[ \t]*\[[^\[](?:.*[^\]])?\][ \t]*\r?$`)

// parseTextSection walks the content section block by block. Each modifier
// line resets the block mode to default prose, then lets its sub-modifiers
// change it; the text up to the next modifier line is parsed in that mode.
func parseTextSection(content position.Token, reg *registry.Registry, st *parsing.State) {
	prev := 0
	for _, loc := range modifierLinePattern.FindAllStringIndex(content.Text, -1) {
		if loc[0] > prev {
			dispatchBlock(content.Sub(prev, loc[0]), reg, st)
		}
		parseModifierLine(content.Sub(loc[0], loc[1]), reg, st)
		prev = loc[1]
		if prev < len(content.Text) && content.Text[prev] == '\n' {
			prev++
		}
	}
	if prev < len(content.Text) {
		dispatchBlock(content.Sub(prev, content.Length()), reg, st)
	}
}

// parseModifierLine parses one [mod; mod; ...] line. The split protects
// only double quotes: single quotes appear mid-name in modifiers like
// cont'd and must not swallow a semicolon.
func parseModifierLine(line position.Token, reg *registry.Registry, st *parsing.State) {
	st.ModifierKind = parsing.ModifierNone

	open := strings.IndexByte(line.Text, '[')
	close := strings.LastIndexByte(line.Text, ']')
	if open < 0 || close <= open {
		return
	}
	inner := line.Sub(open+1, close)

	if trimmed := scanner.TrimWhitespace(inner); trimmed.Length() != inner.Length() {
		st.Error(inner, "modifiers can't begin or end with whitespace")
		inner = trimmed
	}

	for i, sub := range scanner.SplitOutsideDoubleQuotes(inner, ';') {
		parseSubModifier(sub, i == 0, reg, st)
	}
}

// parseSubModifier resolves and validates one sub-modifier. Only the first
// sub-modifier on a line gets to change the block mode; later ones still
// run their hooks for reference harvesting, with the mode saved around the
// call.
func parseSubModifier(tok position.Token, first bool, reg *registry.Registry, st *parsing.State) {
	call, info := tokenize.Modifier(tok, reg)
	if call.Name.Length() == 0 {
		return
	}

	if info == nil {
		st.EmitReference(symbols.New(symbols.CustomModifier, call.Name))
		st.SetToken(call.Name, semtok.TokenFunction, semtok.ModifierNone)
		if st.Options.WarnUnknownFunctions {
			st.Warn(call.Name, "\"%s\" doesn't match any modifier", call.Name.Text)
		}
		return
	}

	refKind := symbols.CustomModifier
	mods := semtok.ModifierNone
	if reg.IsBuiltinModifier(info) {
		refKind = symbols.BuiltInModifier
		mods = semtok.ModifierDefaultLibrary
	}
	if ValidateModifierCall(call, info, st) {
		mods |= semtok.ModifierDeprecated
	}
	st.EmitReference(symbols.New(refKind, call.Name))
	st.SetToken(call.Name, semtok.TokenFunction, mods)

	if call.FirstArgument != nil && info.FirstArgument.Type != registry.ValueExpression {
		st.SetToken(*call.FirstArgument, semtok.TokenParameter, semtok.ModifierNone)
	}

	if info.Parse == nil {
		return
	}
	if first {
		info.Parse(call, st)
		return
	}
	saved := st.ModifierKind
	info.Parse(call, st)
	st.ModifierKind = saved
}

// dispatchBlock hands a text block to the parser the current mode calls
// for.
func dispatchBlock(block position.Token, reg *registry.Registry, st *parsing.State) {
	trimmed := scanner.TrimWhitespace(block)
	if trimmed.Length() == 0 {
		return
	}

	switch st.ModifierKind {
	case parsing.ModifierJavascript:
		extend.ScanJavaScript(trimmed, reg, st)
		expression.Scan(trimmed, st, false)
		st.Embed(symbols.LanguageJavaScript, trimmed)
	case parsing.ModifierCss:
		st.Embed(symbols.LanguageCSS, trimmed)
	case parsing.ModifierNote:
		st.SetToken(trimmed, semtok.TokenComment, semtok.ModifierNone)
	default:
		parseProse(block, reg, st)
	}
}

// ValidateInsertCall checks a tokenized call against an insert's declared
// contract: availability window, first-argument requirement, and named
// properties. Returns whether the insert is deprecated for the story's
// format version. The validation layer reuses this for custom-insert uses
// once all definitions have been collected.
func ValidateInsertCall(call *parsing.InsertCall, info *registry.InsertInfo, st *parsing.State) bool {
	deprecated := checkWindow(info.Name, info.Window, call.Name, st)
	checkFirstArgument(info.Name, info.FirstArgument, call.Name, call.FirstArgument, st)
	checkProps(call, info, st)
	return deprecated
}

// ValidateModifierCall is the modifier counterpart of ValidateInsertCall.
func ValidateModifierCall(call *parsing.ModifierCall, info *registry.ModifierInfo, st *parsing.State) bool {
	deprecated := checkWindow(info.Name, info.Window, call.Name, st)
	checkFirstArgument(info.Name, info.FirstArgument, call.Name, call.FirstArgument, st)
	return deprecated
}

// checkWindow reports availability problems against the story's declared
// format version and returns whether the function is deprecated there.
func checkWindow(name string, w format.Window, tok position.Token, st *parsing.State) bool {
	switch w.Check(st.Options.FormatVersion) {
	case format.TooEarly:
		st.Error(tok, "\"%s\" requires story format version %s or later", name, w.Since)
	case format.Gone:
		st.Error(tok, "\"%s\" was removed in story format version %s", name, w.Removed)
	case format.AvailableDeprecated:
		st.Warn(tok, "\"%s\" is deprecated as of story format version %s", name, w.Deprecated)
		return true
	}
	return false
}

func checkFirstArgument(name string, spec registry.FirstArgument, nameTok position.Token, arg *position.Token, st *parsing.State) {
	switch {
	case spec.Required == registry.Required && arg == nil:
		st.Error(nameTok, "\"%s\" requires a value", name)
	case spec.Required == registry.Ignored && arg != nil:
		st.Warn(*arg, "\"%s\" ignores this value", name)
	}
}
