package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/twee-tools/chapbook-ls/pkg/expression"
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/registry"
	"github.com/twee-tools/chapbook-ls/pkg/scanner"
	"github.com/twee-tools/chapbook-ls/pkg/semtok"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
	"github.com/twee-tools/chapbook-ls/pkg/tokenize"
)

var (
	linkPattern   = regexp.MustCompile(`\[\[(.+?)\]\]`)
	stylePattern  = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
	scriptPattern = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)
)

// parseProse scans a default-mode text block: wiki links first, then raw
// HTML style/script islands, then inserts. Handled spans are blanked out of
// a working copy so a brace inside a link label or a stylesheet never
// starts an insert; offsets are unaffected because the blanks are
// one-for-one.
func parseProse(block position.Token, reg *registry.Registry, st *parsing.State) {
	work := []byte(block.Text)

	for _, loc := range linkPattern.FindAllStringSubmatchIndex(block.Text, -1) {
		parseLink(block.Sub(loc[2], loc[3]), st)
		blank(work, loc[0], loc[1])
	}

	for _, loc := range stylePattern.FindAllStringSubmatchIndex(string(work), -1) {
		st.Embed(symbols.LanguageCSS, block.Sub(loc[2], loc[3]))
		blank(work, loc[0], loc[1])
	}
	for _, loc := range scriptPattern.FindAllStringSubmatchIndex(string(work), -1) {
		st.Embed(symbols.LanguageJavaScript, block.Sub(loc[2], loc[3]))
		blank(work, loc[0], loc[1])
	}

	scanInserts(block, string(work), reg, st)
}

func blank(b []byte, from, to int) {
	for i := from; i < to; i++ {
		if b[i] != '\n' {
			b[i] = ' '
		}
	}
}

// parseLink parses the inside of one [[...]] span. All three Twee target
// forms are recognized; a bare target doubles as its own label. URL targets
// produce no passage reference.
func parseLink(inner position.Token, st *parsing.State) {
	target := inner
	var label position.Token
	if i := strings.Index(inner.Text, "->"); i >= 0 {
		label = inner.Sub(0, i)
		target = inner.Sub(i+2, inner.Length())
	} else if i := strings.Index(inner.Text, "<-"); i >= 0 {
		target = inner.Sub(0, i)
		label = inner.Sub(i+2, inner.Length())
	} else if i := strings.IndexByte(inner.Text, '|'); i >= 0 {
		label = inner.Sub(0, i)
		target = inner.Sub(i+1, inner.Length())
	}

	st.SetToken(scanner.TrimWhitespace(label), semtok.TokenString, semtok.ModifierNone)

	target = scanner.TrimWhitespace(target)
	if target.Length() == 0 {
		return
	}
	st.SetToken(target, semtok.TokenString, semtok.ModifierNone)
	if !registry.LooksLikeURL(target.Text) {
		st.EmitReference(symbols.New(symbols.Passage, target))
	}
}

// scanInserts finds {...} spans using the last-unmatched-open-brace rule: a
// fresh { always supersedes an earlier candidate, and quoted strings are
// skipped only while a candidate is open, so apostrophes in plain prose
// stay inert.
func scanInserts(block position.Token, work string, reg *registry.Registry, st *parsing.State) {
	candidate := -1
	for i := 0; i < len(work); {
		switch c := work[i]; {
		case c == '{':
			candidate = i
			i++
		case candidate >= 0 && (c == '\'' || c == '"'):
			i = scanner.MatchingDelimiter(work, i)
		case candidate >= 0 && c == '}':
			parseInsertSpan(block.Sub(candidate, i+1), reg, st)
			candidate = -1
			i++
		default:
			i++
		}
	}
}

// parseInsertSpan tokenizes and validates one complete {...} span. A bare
// span is tried against the registry first so argument-less calls like
// {restart link} resolve; an unmatched bare span reads as a variable unless
// its name has spaces, which only a function name can.
func parseInsertSpan(span position.Token, reg *registry.Registry, st *parsing.State) {
	call := tokenize.Insert(span, st)

	info, ok := reg.FindInsert(call.Name.Text)
	if !ok && call.Bare && !strings.ContainsAny(call.Name.Text, " \t") {
		parseBareVariable(call.Name, st)
		return
	}
	if !ok {
		st.EmitReference(symbols.New(symbols.CustomInsert, call.Name))
		st.SetToken(call.Name, semtok.TokenFunction, semtok.ModifierNone)
		if st.Options.WarnUnknownFunctions {
			st.Warn(call.Name, "\"%s\" doesn't match any insert", call.Name.Text)
		}
		scanCallValues(call, st)
		return
	}

	refKind := symbols.CustomInsert
	mods := semtok.ModifierNone
	if reg.IsBuiltinInsert(info) {
		refKind = symbols.BuiltInInsert
		mods = semtok.ModifierDefaultLibrary
	}
	if ValidateInsertCall(call, info, st) {
		mods |= semtok.ModifierDeprecated
	}
	st.EmitReference(symbols.New(refKind, call.Name))
	st.SetToken(call.Name, semtok.TokenFunction, mods)

	scanCallValues(call, st)

	if info.Parse != nil {
		info.Parse(call, st)
	}
}

// checkProps enforces the insert's property contract: required properties
// must all be present, anything unknown draws a warning.
func checkProps(call *parsing.InsertCall, info *registry.InsertInfo, st *parsing.State) {
	var missing []string
	for name := range info.RequiredProps {
		if _, ok := call.Props[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		st.Error(call.Name, "missing expected properties: %s", strings.Join(missing, ", "))
	}

	for _, name := range call.PropOrder {
		if _, ok := info.RequiredProps[name]; ok {
			continue
		}
		if _, ok := info.OptionalProps[name]; ok {
			continue
		}
		st.Warn(call.Props[name].Name, "insert property \"%s\" will be ignored", name)
	}
}

// scanCallValues tokenizes property names and scans every value as an
// expression, so variable reads inside insert arguments surface as
// references.
func scanCallValues(call *parsing.InsertCall, st *parsing.State) {
	if call.FirstArgument != nil {
		expression.Scan(*call.FirstArgument, st, true)
	}
	for _, name := range call.PropOrder {
		p := call.Props[name]
		st.SetToken(p.Name, semtok.TokenProperty, semtok.ModifierNone)
		expression.Scan(p.Value, st, true)
	}
}

// parseBareVariable handles the { varname } form: a single variable read,
// optionally with one trailing array index.
func parseBareVariable(name position.Token, st *parsing.State) {
	if name.Length() == 0 {
		return
	}

	base := name
	if i := strings.IndexByte(name.Text, '['); i >= 0 {
		end := scanner.MatchingDelimiter(name.Text, i)
		if end < name.Length() {
			st.Error(name, "array indexes can only appear at the end of a variable name")
		}
		base = name.Sub(0, i)
		index := name.Sub(i+1, end)
		if strings.HasSuffix(index.Text, "]") {
			index = index.Sub(0, index.Length()-1)
		}
		expression.Scan(index, st, true)
	}

	if base.Length() > 0 {
		expression.Scan(base, st, true)
	}
}
