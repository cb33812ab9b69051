// Package completion suggests insert, modifier, variable, and passage
// names based on the cursor's syntactic context.
package completion

import (
	"sort"
	"strings"

	"github.com/twee-tools/chapbook-ls/pkg/index"
	"github.com/twee-tools/chapbook-ls/pkg/registry"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

// Item is a single completion suggestion.
type Item struct {
	Label         string `json:"label"`
	Kind          string `json:"kind"`
	Detail        string `json:"detail,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

// Inserts returns completions for every insert the registry knows,
// built-in and custom.
func Inserts(reg *registry.Registry) []Item {
	var out []Item
	for _, info := range reg.Inserts() {
		out = append(out, functionItems(info.FunctionInfo, "insert")...)
	}
	for _, ins := range reg.CustomInserts() {
		out = append(out, functionItems(ins.FunctionInfo, "insert")...)
	}
	return out
}

// Modifiers returns completions for every modifier the registry knows.
func Modifiers(reg *registry.Registry) []Item {
	var out []Item
	for _, info := range reg.Modifiers() {
		out = append(out, functionItems(info.FunctionInfo, "modifier")...)
	}
	for _, mod := range reg.CustomModifiers() {
		out = append(out, functionItems(mod.FunctionInfo, "modifier")...)
	}
	return out
}

func functionItems(info registry.FunctionInfo, kind string) []Item {
	labels := info.Completions
	if len(labels) == 0 && info.Name != "" {
		labels = []string{info.Name}
	}
	var out []Item
	for _, label := range labels {
		out = append(out, Item{
			Label:         label,
			Kind:          kind,
			Detail:        info.Syntax,
			Documentation: info.Description,
		})
	}
	return out
}

// Variables returns one completion per distinct variable path the story
// sets somewhere.
func Variables(ix *index.Index) []Item {
	seen := map[string]string{}
	for _, def := range ix.DefinitionsByKind(symbols.VariableSet) {
		seen[def.Symbol.Contents] = "variable"
	}
	for _, def := range ix.DefinitionsByKind(symbols.PropertySet) {
		seen[def.Symbol.Contents] = "property"
	}

	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	out := make([]Item, 0, len(paths))
	for _, path := range paths {
		out = append(out, Item{Label: path, Kind: seen[path], Detail: "set in a vars section"})
	}
	return out
}

// Passages returns one completion per passage name.
func Passages(ix *index.Index) []Item {
	var out []Item
	for _, name := range ix.PassageNames() {
		out = append(out, Item{Label: name, Kind: "passage"})
	}
	return out
}

// At inspects the text around the offset and returns the suggestions that
// make sense there: passage names inside [[...]], inserts and variables
// after an open brace, modifiers on a bracket line.
func At(ix *index.Index, reg *registry.Registry, uri string, offset int) []Item {
	doc, ok := ix.Document(uri)
	if !ok || offset > len(doc.Text) {
		return nil
	}

	lineStart := strings.LastIndexByte(doc.Text[:offset], '\n') + 1
	line := doc.Text[lineStart:offset]

	if open := strings.LastIndex(line, "[["); open >= 0 && !strings.Contains(line[open:], "]]") {
		return Passages(ix)
	}
	if open := strings.LastIndexByte(line, '{'); open >= 0 && !strings.ContainsRune(line[open:], '}') {
		return append(Inserts(reg), Variables(ix)...)
	}
	if trimmed := strings.TrimLeft(line, " \t"); strings.HasPrefix(trimmed, "[") {
		return Modifiers(reg)
	}
	return nil
}
