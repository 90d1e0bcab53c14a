package main

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/gameshelf/internal/config"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
	"github.com/alexisbeaulieu97/gameshelf/internal/store"
)

type rootOptions struct {
	configFile string
	envFiles   []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "gameshelf",
		Short:         "gameshelf renders themeable game launcher layouts in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}

	defaults := config.Defaults()
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Config file (default: ./gameshelf.yaml or the user config dir)")
	pf.String("log-level", defaults["log.level"].(string), "Log level: debug, info, warn, error")
	pf.String("log-format", defaults["log.format"].(string), "Log format: text, json, logfmt")
	pf.String("themes-dir", defaults["theme.dir"].(string), "Directory holding theme documents")
	pf.String("theme", defaults["theme.active"].(string), "Active theme name")
	pf.Bool("strict", false, "Fail loading when the theme has error issues")
	pf.String("source", defaults["source.kind"].(string), "Theme source: dir or http")
	pf.String("source-url", "", "Server URL when --source=http")
	pf.String("session", defaults["session.path"].(string), "Session snapshot file (json or yaml)")
	pf.Int("attempts", store.DefaultAttempts, "Theme fetch attempts")
	pf.Duration("backoff", store.DefaultBackoff, "Initial delay between fetch attempts")
	pf.Int("max-depth", defaults["render.max_depth"].(int), "Maximum render depth")

	cmd.Flags().Bool("watch", true, "Reload when theme files change")

	cmd.AddCommand(newRenderCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newThemesCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newDiffCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig resolves configuration for cmd. Flags the user set win over
// every other source.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loaderOpts := []config.LoaderOption{config.WithConfigFile(o.configFile)}
	if o.envFiles != nil {
		loaderOpts = append(loaderOpts, config.WithEnvFiles(o.envFiles...))
	}
	loader := config.NewLoader(loaderOpts...)
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return nil, newCommandError(cmd.Name(), "binding flags", err, "Report this as a bug.")
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, newCommandError(cmd.Name(), "loading configuration", err,
			"Check gameshelf.yaml, GAMESHELF_* environment variables and command flags.")
	}
	return cfg, nil
}

// newLogger builds the application logger writing to w.
func newLogger(cmd *cobra.Command, cfg *config.Config, w io.Writer) (ports.Logger, error) {
	log, err := logging.New(logging.Options{
		Writer:     w,
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		TimeFormat: time.Kitchen,
	})
	if err != nil {
		return nil, newCommandError(cmd.Name(), "creating logger", err, "Use one of the documented log levels and formats.")
	}
	return log, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w when it is a terminal, else def.
func terminalWidth(w io.Writer, def int) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return def
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return def
	}
	return width
}
