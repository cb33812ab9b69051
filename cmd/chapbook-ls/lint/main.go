// Package lint checks every story file in a project and reports
// diagnostics in a compiler-style format.
package lint

import (
	"context"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/twee-tools/chapbook-ls/pkg/diagnostic"
	"github.com/twee-tools/chapbook-ls/pkg/project"
)

type Handler struct {
	root          string
	formatVersion string
	warnUnknown   bool
	jsonOutput    bool
}

func NewLintCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "lint [dir]",
		Short: "Check a story project and report diagnostics",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.Flags().StringVar(&me.formatVersion, "format-version", "", "Chapbook version to check against (overrides config)")
	cmd.Flags().BoolVar(&me.warnUnknown, "warn-unknown", false, "warn on inserts and modifiers nothing defines (overrides config)")
	cmd.Flags().BoolVar(&me.jsonOutput, "json", false, "emit diagnostics as editor JSON instead of text")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.root = "."
		if len(args) > 0 {
			me.root = args[0]
		}
		cmd.SilenceUsage = true
		return me.Run(cmd.Context(), cmd)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, cmd *cobra.Command) error {
	fs := afero.NewOsFs()

	cfg, err := project.LoadConfig(fs, me.root)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	if me.formatVersion != "" {
		cfg.FormatVersion = me.formatVersion
	}
	if cmd.Flags().Changed("warn-unknown") {
		cfg.WarnUnknownFunctions = me.warnUnknown
	}

	p, err := project.New(fs, me.root, cfg)
	if err != nil {
		return errors.Errorf("opening project: %w", err)
	}
	if err := p.Load(ctx); err != nil {
		// A partial index still produces useful diagnostics.
		zerolog.Ctx(ctx).Warn().Err(err).Msg("some files could not be read")
	}

	diags := p.Diagnostics()
	if me.jsonOutput {
		return me.printJSON(cmd, p, diags)
	}
	return me.printText(cmd, p, diags)
}

func (me *Handler) printText(cmd *cobra.Command, p *project.Project, diags map[string][]diagnostic.Diagnostic) error {
	uris := make([]string, 0, len(diags))
	for uri := range diags {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	errCount := 0
	warnCount := 0
	for _, uri := range uris {
		doc, ok := p.Index().Document(uri)
		if !ok {
			continue
		}

		ds := diags[uri]
		sort.SliceStable(ds, func(i, j int) bool { return ds[i].Token.At < ds[j].Token.At })

		for _, d := range ds {
			label := color.YellowString("warning")
			if d.Severity == diagnostic.Error {
				label = color.RedString("error")
				errCount++
			} else {
				warnCount++
			}
			r := d.Token.Range(doc.Text)
			cmd.Printf("%s:%d:%d: %s: %s\n", uri, r.Start.Line+1, r.Start.Character+1, label, d.Message)
		}
	}

	if errCount == 0 && warnCount == 0 {
		cmd.Println("no problems found")
		return nil
	}
	cmd.Printf("%d error(s), %d warning(s)\n", errCount, warnCount)
	if errCount > 0 {
		return errors.Errorf("lint found %d error(s)", errCount)
	}
	return nil
}

// printJSON emits one JSON array per file, keyed by URI, in the same shape
// editors consume.
func (me *Handler) printJSON(cmd *cobra.Command, p *project.Project, diags map[string][]diagnostic.Diagnostic) error {
	uris := make([]string, 0, len(diags))
	for uri := range diags {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	cmd.Println("{")
	for i, uri := range uris {
		doc, ok := p.Index().Document(uri)
		if !ok {
			continue
		}
		data, err := diagnostic.FormatJSON(diags[uri], doc.Text)
		if err != nil {
			return errors.Errorf("formatting diagnostics for %s: %w", uri, err)
		}
		sep := ","
		if i == len(uris)-1 {
			sep = ""
		}
		cmd.Printf("%s: %s%s\n", jsonKey(uri), data, sep)
	}
	cmd.Println("}")
	return nil
}

func jsonKey(uri string) string {
	return fmt.Sprintf("%q", uri)
}
