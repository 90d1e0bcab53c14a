package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/gameshelf/internal/actions"
	"github.com/alexisbeaulieu97/gameshelf/internal/config"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/system"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/themesource"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
	"github.com/alexisbeaulieu97/gameshelf/internal/tui"
)

// LogFileName is the shell's log file inside the config directory.
const LogFileName = "gameshelf.log"

func runShell(cmd *cobra.Command, opts *rootOptions) error {
	out := cmd.OutOrStdout()
	if !isTerminal(out) {
		return newCommandError("start shell", "checking the terminal", errors.New("stdout is not a terminal"),
			"Use 'gameshelf render' for non-interactive output.")
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	logFile, err := openLogFile()
	if err != nil {
		return newCommandError("start shell", "opening the log file", err, "Check permissions on "+config.DefaultDir()+".")
	}
	defer logFile.Close()

	log, err := newLogger(cmd, cfg, logFile)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, log, out)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := tui.NewHost("/")
	a.window.SetExitHook(host.RequestExit)
	dispatcher := actions.New(actions.Collaborators{
		Router:  host,
		Alerter: host,
		Backend: a.backend,
		Links:   system.NewLinkOpener(nil, log),
		Window:  a.window,
	}, actions.WithLogger(log), actions.WithEvents(a.events))

	if cfg.Theme.Watch && cfg.Source.Kind == config.SourceDir {
		watcher := themesource.NewWatcher(cfg.Theme.Dir, 0, func(ctx context.Context) {
			_ = a.store.Reload(ctx)
		}, log)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				log.Warn(ctx, "theme watcher disabled", "error", err)
			}
		}()
	}

	model := tui.NewModel(ctx, tui.Options{
		Store:      a.store,
		Renderer:   a.renderer,
		Dispatcher: dispatcher,
		Host:       host,
		Window:     a.window,
		Palette:    a.palette(),
		Logger:     log,
	})

	log.Info(ctx, "shell starting", "source", cfg.Source.Kind, "theme", cfg.Theme.Active)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	if sub, err := a.events.Subscribe(ports.EventActionFailed, failureAlerts(program.Send)); err == nil {
		defer sub.Unsubscribe()
	}
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Error(ctx, "shell exited with error", "error", err)
		return newCommandError("run shell", "running the terminal UI", err, "See "+logFile.Name()+" for details.")
	}
	log.Info(ctx, "shell closed")
	return nil
}

// failureAlerts turns failed action events into shell alerts. Events can be
// published from inside the program's update loop, so send runs detached.
func failureAlerts(send func(tea.Msg)) ports.EventHandler {
	return func(_ context.Context, event ports.DomainEvent) error {
		data, _ := event.Payload().(map[string]interface{})
		command, _ := data["command"].(string)
		go send(tui.AlertMsg{Style: "error", Content: command + " failed, see " + LogFileName})
		return nil
	}
}

func openLogFile() (*os.File, error) {
	dir := config.DefaultDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
