package main

import (
	"context"
	"fmt"
	"io"

	"github.com/alexisbeaulieu97/gameshelf/internal/config"
	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/remote"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/system"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/themesource"
	"github.com/alexisbeaulieu97/gameshelf/internal/logger"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
	"github.com/alexisbeaulieu97/gameshelf/internal/render"
	"github.com/alexisbeaulieu97/gameshelf/internal/render/widgets"
	"github.com/alexisbeaulieu97/gameshelf/internal/server"
	"github.com/alexisbeaulieu97/gameshelf/internal/session"
	"github.com/alexisbeaulieu97/gameshelf/internal/store"
	"github.com/alexisbeaulieu97/gameshelf/internal/ui/terminal"
)

// app bundles the long-lived services built from configuration.
type app struct {
	cfg      *config.Config
	logger   ports.Logger
	events   *events.LoggingPublisher
	themes   *themesource.Directory
	fetcher  ports.ThemeFetcher
	backend  ports.Backend
	session  *session.Snapshot
	window   *system.Window
	renderer *render.Renderer
	store    *store.Store
	tty      bool
}

func newApp(cfg *config.Config, log ports.Logger, out io.Writer) (*app, error) {
	snap, err := session.Load(cfg.Session.Path)
	if err != nil {
		return nil, newCommandError("start", "reading session", err, "Fix or remove "+cfg.Session.Path+".")
	}

	a := &app{
		cfg:     cfg,
		logger:  log,
		events:  events.NewLoggingPublisher(log),
		themes:  themesource.NewDirectory(cfg.Theme.Dir, cfg.Theme.Active, log),
		session: snap,
		window:  system.NewWindow(nil, log),
		tty:     isTerminal(out),
	}

	switch cfg.Source.Kind {
	case config.SourceHTTP:
		client, err := remote.New(cfg.Source.URL, remote.WithLogger(log))
		if err != nil {
			return nil, newCommandError("start", "creating theme client", err, "Set source.url to the address of `gameshelf serve`.")
		}
		a.fetcher = client
		a.backend = client
	default:
		a.fetcher = a.themes
		a.backend = a.localServer(nil)
	}

	markdownStyle := "notty"
	if a.tty {
		markdownStyle = "dark"
	}
	reg, err := widgets.NewRegistry(widgets.Env{
		Session:       a.sessionSnapshot,
		Window:        a.window,
		MarkdownStyle: markdownStyle,
		Logger:        log,
	})
	if err != nil {
		return nil, fmt.Errorf("build widget registry: %w", err)
	}
	a.renderer = render.New(reg, render.WithLogger(log), render.WithMaxDepth(cfg.Render.MaxDepth))

	a.store = store.New(a.fetcher, store.Options{
		Attempts: cfg.Store.Attempts,
		Backoff:  cfg.Store.Backoff,
		Strict:   cfg.Theme.Strict,
		Logger:   log,
		Events:   a.events,
	})
	return a, nil
}

func (a *app) sessionSnapshot() *session.Snapshot {
	return a.session
}

// localServer builds the command table over the themes directory. Theme
// switches reload the store once it has loaded.
func (a *app) localServer(access *logger.Logger) *server.Server {
	return server.New(server.Options{
		Catalog: a.themes,
		Session: a.sessionSnapshot,
		Logger:  a.logger,
		Access:  access,
		OnThemeChange: func(ctx context.Context, _ string) {
			if a.store != nil && a.store.Snapshot().State != store.Uninitialized {
				_ = a.store.Reload(ctx)
			}
		},
	})
}

func (a *app) palette() terminal.Palette {
	if a.tty {
		return terminal.DefaultPalette()
	}
	return terminal.MonochromePalette()
}

// paint renders the route of a prepared document as terminal text.
func (a *app) paint(ctx context.Context, doc *theme.Document, route string, width int) (string, *render.Element) {
	el := a.renderer.RenderDocument(ctx, doc, render.Inherited{Route: route})
	painter := terminal.New(terminal.WithPalette(a.palette()), terminal.WithWidth(width))
	return painter.Paint(el), el
}

// prepare compiles and normalizes a document the way the store does.
func prepare(doc *theme.Document) (*theme.Document, theme.Issues) {
	compiled, issues := theme.Compile(doc, theme.CompileOptions{})
	return theme.NormalizeDocument(compiled), issues
}
