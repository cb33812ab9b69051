// Package tokenize splits insert and modifier spans into positioned
// tokens, honoring quoting and nested delimiters throughout.
package tokenize

import (
	"strings"

	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/scanner"
)

func isSep(c byte) bool {
	return c == ',' || c == ':'
}

func isComma(c byte) bool {
	return c == ','
}

// Insert tokenizes one {...} span (inclusive of braces). Two shapes exist:
// a bare variable read ({ varname }) and a function call
// ({name: firstArg, prop: val}). Malformed properties are reported and
// dropped; tokenizing always completes.
func Insert(span position.Token, st *parsing.State) *parsing.InsertCall {
	inner := span.Sub(1, len(span.Text))
	if strings.HasSuffix(inner.Text, "}") {
		inner = inner.Sub(0, inner.Length()-1)
	}

	// The delimiter scanner runs before any separator test, so a comma or
	// colon inside quotes or nested brackets never splits.
	sep := scanner.NextTopLevel(inner.Text, 0, isSep)
	if sep == len(inner.Text) {
		return &parsing.InsertCall{
			Name: scanner.TrimWhitespace(inner),
			Bare: true,
		}
	}

	call := &parsing.InsertCall{
		Name: scanner.TrimWhitespace(inner.Sub(0, sep)),
	}

	rest := inner.Sub(sep, inner.Length())
	if rest.Text[0] == ':' {
		end := scanner.NextTopLevel(rest.Text, 1, isComma)
		arg := scanner.TrimWhitespace(rest.Sub(1, end))
		if arg.Length() > 0 {
			call.FirstArgument = &arg
		}
		rest = rest.Sub(end, rest.Length())
	}

	for rest.Length() > 0 {
		// rest begins with the separating comma
		end := scanner.NextTopLevel(rest.Text, 1, isComma)
		addProp(call, rest.Sub(1, end), st)
		rest = rest.Sub(end, rest.Length())
	}

	return call
}

// addProp splits one ",..."-separated segment into a name: value pair.
func addProp(call *parsing.InsertCall, segment position.Token, st *parsing.State) {
	trimmed := scanner.TrimWhitespace(segment)
	if trimmed.Length() == 0 {
		return
	}

	colon := scanner.NextTopLevel(trimmed.Text, 0, func(c byte) bool { return c == ':' })
	if colon == len(trimmed.Text) {
		st.Error(trimmed, "insert property \"%s\" is missing a value", trimmed.Text)
		return
	}

	name := scanner.TrimWhitespace(trimmed.Sub(0, colon))
	value := scanner.TrimWhitespace(trimmed.Sub(colon+1, trimmed.Length()))

	if strings.ContainsAny(name.Text, " \t") {
		st.Error(name, "insert property \"%s\" can't contain spaces", name.Text)
		return
	}
	if name.Length() == 0 {
		st.Error(trimmed, "insert property is missing a name")
		return
	}

	call.AddProp(name, value)
}
