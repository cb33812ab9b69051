// Package index is the project-wide symbol store. Each parsed document
// replaces its previous entry wholesale; queries run over the current
// snapshot. The index is externally owned: the parsing core writes into it
// once per document and never reads it back except during validation.
package index

import (
	"sort"
	"sync"

	"github.com/twee-tools/chapbook-ls/pkg/diagnostic"
	"github.com/twee-tools/chapbook-ls/pkg/semtok"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

// Document is one indexed story file: its full text plus everything the
// parse pass produced for it.
type Document struct {
	URI  string
	Text string

	Definitions []symbols.Symbol
	References  []symbols.Symbol
	Diagnostics []diagnostic.Diagnostic
	Embedded    []symbols.EmbeddedDocument
	Tokens      []semtok.Token
}

// Located is a symbol together with the document it lives in.
type Located struct {
	URI    string
	Symbol symbols.Symbol
}

type Index struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

func New() *Index {
	return &Index{docs: make(map[string]*Document)}
}

// Put replaces the document's entry. Prior symbols for the URI are fully
// discarded, never merged.
func (ix *Index) Put(doc *Document) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.docs[doc.URI] = doc
}

func (ix *Index) Delete(uri string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.docs, uri)
}

func (ix *Index) Document(uri string) (*Document, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	doc, ok := ix.docs[uri]
	return doc, ok
}

// URIs returns every indexed document URI, sorted for stable output.
func (ix *Index) URIs() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]string, 0, len(ix.docs))
	for uri := range ix.docs {
		out = append(out, uri)
	}
	sort.Strings(out)
	return out
}

// DefinitionsByKind returns every definition of the kind across the
// project, in URI order.
func (ix *Index) DefinitionsByKind(kind symbols.Kind) []Located {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	var out []Located
	for _, uri := range ix.sortedURIs() {
		for _, sym := range ix.docs[uri].Definitions {
			if sym.Kind == kind {
				out = append(out, Located{URI: uri, Symbol: sym})
			}
		}
	}
	return out
}

// ReferencesByKind returns every reference of the kind across the project,
// in URI order.
func (ix *Index) ReferencesByKind(kind symbols.Kind) []Located {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	var out []Located
	for _, uri := range ix.sortedURIs() {
		for _, sym := range ix.docs[uri].References {
			if sym.Kind == kind {
				out = append(out, Located{URI: uri, Symbol: sym})
			}
		}
	}
	return out
}

// ReferencesTo returns every reference whose contents match, across kinds
// that read the named thing.
func (ix *Index) ReferencesTo(contents string) []Located {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	var out []Located
	for _, uri := range ix.sortedURIs() {
		for _, sym := range ix.docs[uri].References {
			if sym.Contents == contents {
				out = append(out, Located{URI: uri, Symbol: sym})
			}
		}
	}
	return out
}

// PassageNames returns the distinct names of every passage defined in the
// project, sorted.
func (ix *Index) PassageNames() []string {
	seen := map[string]bool{}
	for _, def := range ix.DefinitionsByKind(symbols.Passage) {
		seen[def.Symbol.Contents] = true
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// PassageDefinition finds where the named passage is defined.
func (ix *Index) PassageDefinition(name string) (Located, bool) {
	for _, def := range ix.DefinitionsByKind(symbols.Passage) {
		if def.Symbol.Contents == name {
			return def, true
		}
	}
	return Located{}, false
}

// SymbolAt returns the reference or definition covering the offset in the
// document, references first since providers mostly start from a use site.
func (ix *Index) SymbolAt(uri string, offset int) (symbols.Symbol, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	doc, ok := ix.docs[uri]
	if !ok {
		return symbols.Symbol{}, false
	}
	for _, sym := range doc.References {
		if sym.Token.Contains(offset) {
			return sym, true
		}
	}
	for _, sym := range doc.Definitions {
		if sym.Token.Contains(offset) {
			return sym, true
		}
	}
	return symbols.Symbol{}, false
}

// sortedURIs must be called with the lock held.
func (ix *Index) sortedURIs() []string {
	out := make([]string, 0, len(ix.docs))
	for uri := range ix.docs {
		out = append(out, uri)
	}
	sort.Strings(out)
	return out
}
