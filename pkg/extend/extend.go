// Package extend discovers story-defined inserts and modifiers declared
// through engine.extend(...) calls in JavaScript blocks. Definitions are
// extracted with a small object-literal subset parser rather than by
// evaluating the script; only the well-known properties (match, name,
// description, syntax, completions, arguments) are read.
package extend

import (
	"regexp"
	"strings"

	"github.com/twee-tools/chapbook-ls/pkg/format"
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/registry"
	"github.com/twee-tools/chapbook-ls/pkg/scanner"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

var (
	extendCallPattern = regexp.MustCompile(`engine\s*\.\s*extend\s*\(`)
	insertAddPattern  = regexp.MustCompile(`engine\s*\.\s*template\s*\.\s*inserts\s*\.\s*add\s*\(`)
	modAddPattern     = regexp.MustCompile(`engine\s*\.\s*template\s*\.\s*modifiers\s*\.\s*add\s*\(`)
)

// ScanJavaScript finds engine.extend calls in a JavaScript block and
// registers the custom inserts/modifiers they declare. Definitions from a
// version-gated block whose minimum engine version exceeds the story's
// format version are skipped with a warning.
func ScanJavaScript(block position.Token, reg *registry.Registry, st *parsing.State) {
	for _, loc := range extendCallPattern.FindAllStringIndex(block.Text, -1) {
		openParen := loc[1] - 1
		end := scanner.MatchingDelimiter(block.Text, openParen)
		bodyEnd := end
		if bodyEnd > openParen+1 && bodyEnd <= len(block.Text) && block.Text[bodyEnd-1] == ')' {
			bodyEnd--
		}
		callTok := block.Sub(loc[0], loc[1])
		scanExtendCall(callTok, block.Sub(loc[1], bodyEnd), reg, st)
	}
}

func scanExtendCall(callTok, args position.Token, reg *registry.Registry, st *parsing.State) {
	minVersion, ok := extendMinVersion(args, st)
	if !ok {
		return
	}

	if current := st.Options.FormatVersion; current != nil && minVersion != nil && current.LessThan(minVersion) {
		st.Warn(callTok, "engine.extend requires version %s or later, but the story format is %s; definitions are ignored",
			minVersion.String(), current.String())
		return
	}

	for _, loc := range insertAddPattern.FindAllStringIndex(args.Text, -1) {
		if obj, ok := objectArgument(args, loc[1]-1); ok {
			addInsert(obj, reg, st)
		} else {
			st.Error(args.Sub(loc[0], loc[1]), "engine.template.inserts.add must be called with an object")
		}
	}
	for _, loc := range modAddPattern.FindAllStringIndex(args.Text, -1) {
		if obj, ok := objectArgument(args, loc[1]-1); ok {
			addModifier(obj, reg, st)
		} else {
			st.Error(args.Sub(loc[0], loc[1]), "engine.template.modifiers.add must be called with an object")
		}
	}
}

// extendMinVersion reads the leading version-string argument of an
// engine.extend call. A malformed version is reported and treated as no
// gate rather than aborting the scan.
func extendMinVersion(args position.Token, st *parsing.State) (*format.Version, bool) {
	i := skipWhitespace(args.Text, 0)
	if i >= len(args.Text) || (args.Text[i] != '\'' && args.Text[i] != '"') {
		st.Error(args, "engine.extend must be called with a version string as its first argument")
		return nil, false
	}
	end := scanner.MatchingDelimiter(args.Text, i)
	raw := args.Sub(i, end)
	inner, _ := registry.StripQuotes(raw)
	v, err := format.Parse(inner.Text)
	if err != nil {
		st.Error(raw, "engine.extend version %s isn't a valid version", raw.Text)
		return nil, true
	}
	return v, true
}

// objectArgument locates the object literal following the call's opening
// paren at openParen.
func objectArgument(args position.Token, openParen int) (position.Token, bool) {
	i := skipWhitespace(args.Text, openParen+1)
	if i >= len(args.Text) || args.Text[i] != '{' {
		return position.Token{}, false
	}
	end := scanner.MatchingDelimiter(args.Text, i)
	return args.Sub(i, end), true
}

func addInsert(obj position.Token, reg *registry.Registry, st *parsing.State) {
	fields := parseObjectLiteral(obj)

	matchField, ok := fields["match"]
	if !ok {
		st.Error(obj, "a custom insert must have a \"match\" property")
		return
	}

	match, source := compileMatch(matchField.Value, st)
	if !strings.Contains(source, " ") && !strings.Contains(source, `\s`) {
		st.Error(matchField.Value, "a custom insert's match must require at least one space")
	}

	ins := &registry.CustomInsert{
		InsertInfo: registry.InsertInfo{
			FunctionInfo: functionInfo(match, source, fields),
			FirstArgument: registry.FirstArgument{
				Required: registry.Optional,
			},
		},
		Definition: symbols.Symbol{
			Contents: displayName(source, fields),
			Token:    matchField.Value,
			Kind:     symbols.CustomInsert,
		},
	}
	applyArguments(&ins.InsertInfo, fields, st)

	reg.AddCustomInsert(ins)
	st.EmitDefinition(ins.Definition)
}

func addModifier(obj position.Token, reg *registry.Registry, st *parsing.State) {
	fields := parseObjectLiteral(obj)

	matchField, ok := fields["match"]
	if !ok {
		st.Error(obj, "a custom modifier must have a \"match\" property")
		return
	}

	match, source := compileMatch(matchField.Value, st)

	mod := &registry.CustomModifier{
		ModifierInfo: registry.ModifierInfo{
			FunctionInfo: functionInfo(match, source, fields),
			FirstArgument: registry.FirstArgument{
				Required: registry.Optional,
			},
		},
		Definition: symbols.Symbol{
			Contents: displayName(source, fields),
			Token:    matchField.Value,
			Kind:     symbols.CustomModifier,
		},
	}

	reg.AddCustomModifier(mod)
	st.EmitDefinition(mod.Definition)
}

func functionInfo(match *regexp.Regexp, source string, fields map[string]objectField) registry.FunctionInfo {
	info := registry.FunctionInfo{
		Match: match,
		Name:  displayName(source, fields),
	}
	if f, ok := fields["description"]; ok {
		info.Description = unquoteString(f.Value.Text)
	}
	if f, ok := fields["syntax"]; ok {
		info.Syntax = unquoteString(f.Value.Text)
	}
	if f, ok := fields["completions"]; ok {
		info.Completions = stringArray(f.Value)
	}
	return info
}

func displayName(matchSource string, fields map[string]objectField) string {
	if f, ok := fields["name"]; ok {
		if name := unquoteString(f.Value.Text); name != "" {
			return name
		}
	}
	return matchSource
}

// applyArguments reads the declared argument contract from the arguments
// property, when present.
func applyArguments(info *registry.InsertInfo, fields map[string]objectField, st *parsing.State) {
	argsField, ok := fields["arguments"]
	if !ok {
		return
	}
	args := parseObjectLiteral(argsField.Value)

	if f, ok := args["firstArgument"]; ok {
		first := parseObjectLiteral(f.Value)
		if r, ok := first["required"]; ok {
			info.FirstArgument.Required = parseRequirement(r.Value, st)
		}
		if p, ok := first["placeholder"]; ok {
			info.FirstArgument.Placeholder = unquoteString(p.Value.Text)
		}
	}
	if f, ok := args["requiredProps"]; ok {
		info.RequiredProps = propSpecs(f.Value)
	}
	if f, ok := args["optionalProps"]; ok {
		info.OptionalProps = propSpecs(f.Value)
	}
}

func parseRequirement(tok position.Token, st *parsing.State) registry.Requirement {
	switch strings.Trim(tok.Text, `'"`) {
	case "required", "true":
		return registry.Required
	case "optional":
		return registry.Optional
	case "ignored", "false":
		return registry.Ignored
	default:
		st.Error(tok, "unrecognized first argument requirement %s", tok.Text)
		return registry.Optional
	}
}

func propSpecs(obj position.Token) map[string]registry.PropertySpec {
	out := make(map[string]registry.PropertySpec)
	for name, field := range parseObjectLiteral(obj) {
		spec := registry.PropertySpec{}
		if field.Value.Text != "null" && field.Value.Text != "undefined" {
			spec.Placeholder = unquoteString(field.Value.Text)
		}
		out[name] = spec
	}
	return out
}

func stringArray(tok position.Token) []string {
	text := tok.Text
	if !strings.HasPrefix(text, "[") {
		return nil
	}
	inner := tok.Sub(1, len(text))
	if strings.HasSuffix(inner.Text, "]") {
		inner = inner.Sub(0, inner.Length()-1)
	}
	var out []string
	for _, part := range scanner.Split(inner, ',') {
		part = scanner.TrimWhitespace(part)
		if part.Length() > 0 {
			out = append(out, unquoteString(part.Text))
		}
	}
	return out
}

func skipWhitespace(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\r' || text[i] == '\n') {
		i++
	}
	return i
}

func unquoteString(text string) string {
	if len(text) >= 2 && (text[0] == '\'' || text[0] == '"' || text[0] == '`') && text[len(text)-1] == text[0] {
		text = text[1 : len(text)-1]
	}
	replacer := strings.NewReplacer(`\'`, `'`, `\"`, `"`, `\\`, `\`, `\n`, "\n", `\t`, "\t")
	return replacer.Replace(text)
}
