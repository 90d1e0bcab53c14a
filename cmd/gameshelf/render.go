package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const defaultRenderWidth = 80

type renderOptions struct {
	route  string
	format string
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one route of the active theme and exit",
		Long: `Fetch the active theme, render the given route once and print it.
Text output is painted for the terminal; json prints the rendered element tree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.route, "route", "/", "Route to render")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.Flags().Int("width", 0, "Output width in columns (0 detects the terminal)")

	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return newCommandError("render", "checking flags", fmt.Errorf("unknown format %q", opts.format), "Use --format text or --format json.")
	}

	cfg, err := root.loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cmd, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	a, err := newApp(cfg, log, out)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := a.store.Load(ctx); err != nil {
		return newCommandError("render", "loading the theme", err, "Run 'gameshelf validate' to inspect the theme.")
	}
	snap := a.store.Snapshot()

	width := cfg.Render.Width
	if width <= 0 {
		width = terminalWidth(out, defaultRenderWidth)
	}
	painted, tree := a.paint(ctx, snap.Document, opts.route, width)

	if opts.format == "json" {
		return writeJSON(out, tree)
	}
	fmt.Fprintln(out, painted)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
