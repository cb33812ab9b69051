// Package tokens prints the semantic token stream for one story file,
// mainly for debugging highlighting problems.
package tokens

import (
	"context"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/twee-tools/chapbook-ls/pkg/parser"
	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/project"
	"github.com/twee-tools/chapbook-ls/pkg/registry"
	"github.com/twee-tools/chapbook-ls/pkg/semtok"
)

type Handler struct {
	file string
}

func NewTokensCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the semantic tokens of one story file",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.file = args[0]
		cmd.SilenceUsage = true
		return me.Run(cmd.Context(), cmd)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, cmd *cobra.Command) error {
	fs := afero.NewOsFs()

	data, err := afero.ReadFile(fs, me.file)
	if err != nil {
		return errors.Errorf("reading %s: %w", me.file, err)
	}
	text := string(data)

	reg := registry.NewRegistry()
	var toks []semtok.Token
	for _, passage := range project.SplitPassages(position.NewToken(text, 0)) {
		result := parser.ParsePassage(passage.Body, reg, parsing.Options{})
		toks = append(toks, result.Tokens...)
	}

	for _, tok := range toks {
		r := tok.Range.Range(text)
		cmd.Printf("%d:%d\t%s%s\t%s\n",
			r.Start.Line+1, r.Start.Character+1,
			tok.Type, modifierSuffix(tok.Modifier),
			tok.Range.Text)
	}
	return nil
}

func modifierSuffix(mod semtok.TokenModifier) string {
	if mod == semtok.ModifierNone {
		return ""
	}
	var parts []string
	if mod&semtok.ModifierDeclaration != 0 {
		parts = append(parts, "declaration")
	}
	if mod&semtok.ModifierDeprecated != 0 {
		parts = append(parts, "deprecated")
	}
	if mod&semtok.ModifierDefaultLibrary != 0 {
		parts = append(parts, "defaultLibrary")
	}
	return "." + strings.Join(parts, ".")
}
