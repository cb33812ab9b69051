// Package definition resolves a use site to its defining occurrences.
package definition

import (
	"github.com/twee-tools/chapbook-ls/pkg/index"
	"github.com/twee-tools/chapbook-ls/pkg/registry"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

// At returns every definition site for the symbol at the offset. Variables
// can be set in several vars sections, so more than one result is normal.
func At(ix *index.Index, reg *registry.Registry, uri string, offset int) []index.Located {
	sym, ok := ix.SymbolAt(uri, offset)
	if !ok {
		return nil
	}

	switch sym.Kind {
	case symbols.Variable, symbols.VariableSet:
		return matching(ix, symbols.VariableSet, sym.Contents)
	case symbols.Property, symbols.PropertySet:
		return matching(ix, symbols.PropertySet, sym.Contents)
	case symbols.Passage:
		if def, ok := ix.PassageDefinition(sym.Contents); ok {
			return []index.Located{def}
		}
	case symbols.CustomInsert:
		if ins, ok := reg.FindInsert(sym.Contents); ok {
			return matching(ix, symbols.CustomInsert, ins.Name)
		}
	case symbols.CustomModifier:
		if mod, ok := reg.FindModifierByName(sym.Contents); ok {
			return matching(ix, symbols.CustomModifier, mod.Name)
		}
	}
	return nil
}

// matching returns project-wide definitions of the kind with the given
// contents.
func matching(ix *index.Index, kind symbols.Kind, contents string) []index.Located {
	var out []index.Located
	for _, def := range ix.DefinitionsByKind(kind) {
		if def.Symbol.Contents == contents {
			out = append(out, def)
		}
	}
	return out
}
