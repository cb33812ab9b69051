// Package hover renders markdown hover cards for the symbol under the
// cursor.
package hover

import (
	"fmt"
	"strings"

	"github.com/twee-tools/chapbook-ls/pkg/index"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/registry"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

// Hover is a markdown snippet anchored to the hovered token.
type Hover struct {
	Contents string
	Token    position.Token
}

// At builds hover content for the symbol at the offset, if any.
func At(ix *index.Index, reg *registry.Registry, uri string, offset int) (*Hover, bool) {
	sym, ok := ix.SymbolAt(uri, offset)
	if !ok {
		return nil, false
	}

	switch sym.Kind {
	case symbols.BuiltInInsert, symbols.CustomInsert:
		if info, ok := reg.FindInsert(sym.Contents); ok {
			return &Hover{Contents: functionCard(info.FunctionInfo), Token: sym.Token}, true
		}
	case symbols.BuiltInModifier, symbols.CustomModifier:
		if info, ok := reg.FindModifierByName(sym.Contents); ok {
			return &Hover{Contents: functionCard(info.FunctionInfo), Token: sym.Token}, true
		}
	case symbols.Variable, symbols.VariableSet, symbols.Property, symbols.PropertySet:
		return &Hover{Contents: variableCard(ix, sym), Token: sym.Token}, true
	case symbols.Passage:
		return &Hover{Contents: passageCard(ix, sym), Token: sym.Token}, true
	}
	return nil, false
}

func functionCard(info registry.FunctionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", info.Name)
	if info.Syntax != "" {
		fmt.Fprintf(&b, "\n\n```\n%s\n```", info.Syntax)
	}
	if info.Description != "" {
		fmt.Fprintf(&b, "\n\n%s", info.Description)
	}
	return b.String()
}

func variableCard(ix *index.Index, sym symbols.Symbol) string {
	kind := "variable"
	defKind := symbols.VariableSet
	if sym.Kind == symbols.Property || sym.Kind == symbols.PropertySet {
		kind = "property"
		defKind = symbols.PropertySet
	}

	var b strings.Builder
	fmt.Fprintf(&b, "`%s` — %s", sym.Contents, kind)

	var uris []string
	seen := map[string]bool{}
	for _, def := range ix.DefinitionsByKind(defKind) {
		if def.Symbol.Contents == sym.Contents && !seen[def.URI] {
			seen[def.URI] = true
			uris = append(uris, def.URI)
		}
	}
	if len(uris) > 0 {
		fmt.Fprintf(&b, "\n\nSet in %s", strings.Join(uris, ", "))
	} else {
		b.WriteString("\n\nNot set in any vars section.")
	}
	return b.String()
}

func passageCard(ix *index.Index, sym symbols.Symbol) string {
	if def, ok := ix.PassageDefinition(sym.Contents); ok {
		return fmt.Sprintf("Passage **%s** (%s)", sym.Contents, def.URI)
	}
	return fmt.Sprintf("Passage **%s** — not found in this story", sym.Contents)
}
