package project

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/twee-tools/chapbook-ls/pkg/diagnostic"
	"github.com/twee-tools/chapbook-ls/pkg/format"
	"github.com/twee-tools/chapbook-ls/pkg/index"
	"github.com/twee-tools/chapbook-ls/pkg/parser"
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/registry"
	"github.com/twee-tools/chapbook-ls/pkg/symbols"
)

// Project owns one story: its files, its index, and the registry holding
// built-in plus story-defined functions.
type Project struct {
	fs   afero.Fs
	root string
	cfg  Config

	version *format.Version
	reg     *registry.Registry
	ix      *index.Index
}

func New(fs afero.Fs, root string, cfg Config) (*Project, error) {
	p := &Project{
		fs:   fs,
		root: root,
		cfg:  cfg,
		reg:  registry.NewRegistry(),
		ix:   index.New(),
	}
	if cfg.FormatVersion != "" {
		v, err := format.Parse(cfg.FormatVersion)
		if err != nil {
			return nil, errors.Errorf("configured format version: %w", err)
		}
		p.version = v
	}
	return p, nil
}

func (p *Project) Index() *index.Index         { return p.ix }
func (p *Project) Registry() *registry.Registry { return p.reg }
func (p *Project) FormatVersion() *format.Version { return p.version }

// Load walks the project root, parses every story file the include globs
// select, and fills the index. Unreadable files are collected rather than
// aborting the load; the partial index is still usable.
func (p *Project) Load(ctx context.Context) error {
	log := zerolog.Ctx(ctx)

	var result *multierror.Error
	count := 0
	err := afero.Walk(p.fs, p.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			result = multierror.Append(result, errors.Errorf("walking %s: %w", path, err))
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != p.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !p.included(path) {
			return nil
		}

		data, err := afero.ReadFile(p.fs, path)
		if err != nil {
			result = multierror.Append(result, errors.Errorf("reading %s: %w", path, err))
			return nil
		}
		p.UpdateDocument(ctx, p.uriFor(path), string(data))
		count++
		return nil
	})
	if err != nil {
		result = multierror.Append(result, err)
	}

	log.Debug().Int("documents", count).Str("root", p.root).Msg("loaded story files")
	return result.ErrorOrNil()
}

func (p *Project) included(path string) bool {
	rel, err := filepath.Rel(p.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range p.cfg.Include {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (p *Project) uriFor(path string) string {
	rel, err := filepath.Rel(p.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// UpdateDocument reparses one document and replaces its index entry. Custom
// definitions the document declares are added to the project registry;
// definitions from a previous version of the document stay until
// RefreshAll, since the registry only ever accumulates within one load
// cycle.
func (p *Project) UpdateDocument(ctx context.Context, uri, text string) {
	doc := &index.Document{URI: uri, Text: text}
	opts := parsing.Options{FormatVersion: p.version}

	for _, passage := range SplitPassages(position.NewToken(text, 0)) {
		if passage.Name.Length() > 0 {
			doc.Definitions = append(doc.Definitions, symbols.Symbol{
				Contents: passage.Name.Text,
				Token:    passage.Name,
				Kind:     symbols.Passage,
			})
		}

		result := parser.ParsePassage(passage.Body, p.reg, opts)
		doc.Definitions = append(doc.Definitions, result.Definitions...)
		doc.References = append(doc.References, result.References...)
		doc.Diagnostics = append(doc.Diagnostics, result.Diagnostics...)
		doc.Embedded = append(doc.Embedded, result.Embedded...)
		doc.Tokens = append(doc.Tokens, result.Tokens...)
	}

	zerolog.Ctx(ctx).Trace().
		Str("uri", uri).
		Int("definitions", len(doc.Definitions)).
		Int("diagnostics", len(doc.Diagnostics)).
		Msg("document parsed")

	p.ix.Put(doc)
}

// RefreshAll rebuilds the registry from scratch and reparses every indexed
// document against it. Needed after an edit removes or changes a custom
// definition, since parsing only ever adds registry entries.
func (p *Project) RefreshAll(ctx context.Context) {
	p.reg = registry.NewRegistry()
	for _, uri := range p.ix.URIs() {
		if doc, ok := p.ix.Document(uri); ok {
			p.UpdateDocument(ctx, uri, doc.Text)
		}
	}
}

// Validate runs the cross-document validation pass over the current index.
func (p *Project) Validate() map[string][]diagnostic.Diagnostic {
	return index.Validate(p.ix, p.reg, index.ValidateOptions{
		FormatVersion:        p.version,
		WarnUnknownFunctions: p.cfg.WarnUnknownFunctions,
	})
}

// Diagnostics merges parse-time and validation diagnostics per URI.
func (p *Project) Diagnostics() map[string][]diagnostic.Diagnostic {
	out := p.Validate()
	for _, uri := range p.ix.URIs() {
		doc, _ := p.ix.Document(uri)
		if len(doc.Diagnostics) > 0 {
			out[uri] = append(doc.Diagnostics, out[uri]...)
		}
	}
	return out
}
