package parser

import (
	"strings"

	"github.com/twee-tools/chapbook-ls/pkg/expression"
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/scanner"
	"github.com/twee-tools/chapbook-ls/pkg/semtok"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

// parseVars parses the assignment section line by line. Each line is
// "name: value" with an optional parenthesized condition between the name
// and the colon. Malformed lines are reported and skipped; one bad line
// never stops the rest of the section from parsing.
func parseVars(vars position.Token, st *parsing.State) {
	for _, line := range splitLines(vars) {
		parseVarsLine(line, st)
	}
}

// splitLines divides the section into lines, keeping offsets absolute and
// dropping line terminators.
func splitLines(tok position.Token) []position.Token {
	var lines []position.Token
	start := 0
	for i := 0; i <= len(tok.Text); i++ {
		if i == len(tok.Text) || tok.Text[i] == '\n' {
			end := i
			if end > start && tok.Text[end-1] == '\r' {
				end--
			}
			lines = append(lines, tok.Sub(start, end))
			start = i + 1
		}
	}
	return lines
}

func parseVarsLine(line position.Token, st *parsing.State) {
	trimmed := scanner.TrimWhitespace(line)
	if trimmed.Length() == 0 {
		return
	}

	// The colon search is delimiter-aware so a ternary colon inside a
	// condition's parentheses never ends the name.
	colon := scanner.NextTopLevel(trimmed.Text, 0, func(c byte) bool { return c == ':' })
	if colon == len(trimmed.Text) {
		// A raw colon swallowed by an unclosed delimiter is a different
		// mistake than a missing one.
		if strings.IndexByte(trimmed.Text, ':') >= 0 {
			st.Error(trimmed, "this line has an unclosed parenthesis, bracket, or quote before its colon")
		} else {
			st.Warn(trimmed, "this line doesn't contain a colon, so it will be ignored")
		}
		return
	}

	name := scanner.TrimWhitespace(trimmed.Sub(0, colon))
	value := scanner.TrimWhitespace(trimmed.Sub(colon+1, trimmed.Length()))

	if open := scanner.NextTopLevel(name.Text, 0, func(c byte) bool { return c == '(' }); open < len(name.Text) {
		parseCondition(name.Sub(open, name.Length()), st)
		name = scanner.TrimWhitespace(name.Sub(0, open))
	}

	if name.Length() == 0 {
		st.Error(trimmed, "this line is missing a variable name")
		return
	}

	validateVarName(name, st)
	emitVarSets(name, st)

	if value.Length() > 0 {
		expression.Scan(value, st, true)
	}
}

// parseCondition handles the "(condition)" clause of a guarded assignment.
// clause starts at the opening parenthesis and runs to the end of the name
// portion.
func parseCondition(clause position.Token, st *parsing.State) {
	end := scanner.MatchingDelimiter(clause.Text, 0)
	if end > clause.Length() || clause.Text[end-1] != ')' {
		st.Error(clause, "this condition is missing a closing parenthesis")
		return
	}

	trailing := scanner.TrimWhitespace(clause.Sub(end, clause.Length()))
	if trailing.Length() > 0 {
		st.Warn(trailing, "text after a condition is ignored")
	}

	cond := scanner.TrimWhitespace(clause.Sub(1, end-1))
	if cond.Length() > 0 {
		expression.Scan(cond, st, true)
	}
}

func isNameStart(c byte) bool {
	return c == '$' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isNameByte(c byte) bool {
	return isNameStart(c) || c == '.' || (c >= '0' && c <= '9')
}

// validateVarName reports every offending character; parsing proceeds with
// the name as written so later references still resolve to something.
func validateVarName(name position.Token, st *parsing.State) {
	for i := 0; i < len(name.Text); i++ {
		c := name.Text[i]
		if i == 0 && !isNameStart(c) {
			st.Error(name.Sub(0, 1), "variable names must start with a letter, $, or _")
			continue
		}
		if i > 0 && !isNameByte(c) {
			st.Error(name.Sub(i, i+1), "variable names can't include \"%s\"", string(c))
		}
	}
}

// emitVarSets emits the assigning occurrences for a dotted path: the root
// segment as a variable set, each further segment as a property set carrying
// its full dotted path.
func emitVarSets(name position.Token, st *parsing.State) {
	at := 0
	path := ""
	for at <= len(name.Text) {
		end := at
		for end < len(name.Text) && name.Text[end] != '.' {
			end++
		}
		seg := name.Sub(at, end)
		at = end + 1
		if seg.Length() == 0 {
			continue
		}
		if path == "" {
			path = seg.Text
			st.EmitDefinition(symbols.Symbol{Contents: path, Token: seg, Kind: symbols.VariableSet})
			st.SetToken(seg, semtok.TokenVariable, semtok.ModifierDeclaration)
		} else {
			path += "." + seg.Text
			st.EmitDefinition(symbols.Symbol{Contents: path, Token: seg, Kind: symbols.PropertySet})
			st.SetToken(seg, semtok.TokenProperty, semtok.ModifierDeclaration)
		}
	}
}
