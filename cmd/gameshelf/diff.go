package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/render"
	"github.com/alexisbeaulieu97/gameshelf/internal/ui/terminal"
	"github.com/alexisbeaulieu97/gameshelf/pkg/diff"
)

type diffOptions struct {
	route string
	width int
}

func newDiffCmd(root *rootOptions) *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <theme-a> <theme-b>",
		Short: "Compare how two themes render a route",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, root, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.route, "route", "/", "Route to compare")
	cmd.Flags().IntVar(&opts.width, "width", defaultRenderWidth, "Render width in columns")

	return cmd
}

func runDiff(cmd *cobra.Command, root *rootOptions, opts *diffOptions, nameA, nameB string) error {
	cfg, err := root.loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, logging.Discard(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	screens := make([]string, 2)
	for i, name := range []string{nameA, nameB} {
		doc, err := a.themes.Load(ctx, name)
		if err != nil {
			return newCommandError("diff", "loading theme "+name, err, "Run 'gameshelf themes list' to see installed themes.")
		}
		prepared, _ := prepare(doc)
		el := a.renderer.RenderDocument(ctx, prepared, render.Inherited{Route: opts.route})
		painter := terminal.New(terminal.WithPalette(terminal.MonochromePalette()), terminal.WithWidth(opts.width))
		screens[i] = painter.Paint(el)
	}

	out := cmd.OutOrStdout()
	unified := diff.Unified(screens[0], screens[1], nameA, nameB)
	if unified == "" {
		fmt.Fprintln(out, "no differences")
		return nil
	}
	added, removed := diff.Stats(screens[0], screens[1])
	fmt.Fprint(out, unified)
	fmt.Fprintf(out, "\n%d line(s) added, %d line(s) removed\n", added, removed)
	return nil
}
