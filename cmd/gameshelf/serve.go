package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/gameshelf/internal/config"
	"github.com/alexisbeaulieu97/gameshelf/internal/logger"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var jsonAccess bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve themes and backend commands over HTTP",
		Long: `Serve the themes directory and the backend command table so that shells
started with --source=http can fetch themes and invoke commands remotely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			errOut := cmd.ErrOrStderr()
			log, err := newLogger(cmd, cfg, errOut)
			if err != nil {
				return err
			}
			access, err := logger.New(logger.Options{
				Level:         cfg.Log.Level,
				HumanReadable: !jsonAccess,
				Writer:        errOut,
			})
			if err != nil {
				return newCommandError("serve", "creating the access log", err, "Use one of the documented log levels.")
			}

			// Remote shells only read from the directory.
			cfg.Source.Kind = config.SourceDir
			a, err := newApp(cfg, log, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := a.themes.Ensure(ctx); err != nil {
				return newCommandError("serve", "preparing the themes directory", err, "Check permissions on "+cfg.Theme.Dir+".")
			}

			srv := a.localServer(access)
			if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
				return newCommandError("serve", "listening on "+cfg.Server.Addr, err, "Pick another address with --addr.")
			}
			return nil
		},
	}

	cmd.Flags().String("addr", "", "Listen address (host:port)")
	cmd.Flags().BoolVar(&jsonAccess, "json-access-log", false, "Write the access log as JSON lines")

	return cmd
}
