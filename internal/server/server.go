// Package server exposes the theme catalog and a small backend command table
// over HTTP for `gameshelf serve`.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/themesource"
	"github.com/alexisbeaulieu97/gameshelf/internal/logger"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
	"github.com/alexisbeaulieu97/gameshelf/internal/session"
)

// IssuesHeader carries the number of compile issues of a served theme.
const IssuesHeader = "X-Theme-Issues"

// ErrUnknownCommand is returned for commands outside the table.
var ErrUnknownCommand = errors.New("unknown command")

// ErrBadArgs marks invalid command arguments.
var ErrBadArgs = errors.New("invalid arguments")

// Catalog is the theme source the server reads from.
type Catalog interface {
	ports.ThemeCatalog
	Active() string
	SetActive(name string)
}

// Command is one backend operation. The result is encoded as JSON.
type Command func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Options configures a Server.
type Options struct {
	Catalog Catalog
	Session func() *session.Snapshot
	Compile theme.CompileOptions
	Logger  ports.Logger
	Access  *logger.Logger
	// OnThemeChange runs after set_active_theme succeeds.
	OnThemeChange func(ctx context.Context, name string)
}

// Server serves the HTTP API.
type Server struct {
	opts     Options
	logger   ports.Logger
	commands map[string]Command
}

// New creates a Server with the built-in commands registered.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Session == nil {
		opts.Session = session.Empty
	}
	s := &Server{
		opts:   opts,
		logger: opts.Logger.With("component", "server", "layer", "presentation"),
	}
	s.commands = map[string]Command{
		"ping":             s.ping,
		"list_themes":      s.listThemes,
		"set_active_theme": s.setActiveTheme,
		"get_session":      s.getSession,
		"launch_game":      s.launchGame,
	}
	return s
}

// Handle registers an extra command, replacing any with the same name.
func (s *Server) Handle(name string, cmd Command) {
	s.commands[name] = cmd
}

// Commands returns the registered command names, sorted.
func (s *Server) Commands() []string {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs a command from the table in-process, making the server a
// ports.Backend for shells that read themes from disk.
func (s *Server) Invoke(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	cmd, ok := s.commands[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return cmd(ctx, args)
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.opts.Access != nil {
		r.Use(s.opts.Access.Middleware)
	}
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/themes", s.handleThemes)
		r.Get("/theme", s.handleActiveTheme)
		r.Get("/themes/{name}", s.handleTheme)
		r.Post("/invoke/{cmd}", s.handleInvoke)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		s.logger.Info(ctx, "server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type themesResponse struct {
	Themes []string `json:"themes"`
	Active string   `json:"active"`
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	names, err := s.opts.Catalog.List(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, themesResponse{Themes: names, Active: s.opts.Catalog.Active()})
}

func (s *Server) handleActiveTheme(w http.ResponseWriter, r *http.Request) {
	doc, err := s.opts.Catalog.FetchTheme(r.Context())
	s.writeTheme(w, r, doc, err)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	doc, err := s.opts.Catalog.Load(r.Context(), chi.URLParam(r, "name"))
	s.writeTheme(w, r, doc, err)
}

// writeTheme serves the compiled document. Issues are reported in a header
// and logged; clients validate again on load.
func (s *Server) writeTheme(w http.ResponseWriter, r *http.Request, doc *theme.Document, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, themesource.ErrThemeNotFound) {
			status = http.StatusNotFound
		}
		s.fail(w, r, status, err)
		return
	}
	compiled, issues := theme.Compile(doc, s.opts.Compile)
	for _, issue := range issues {
		s.logger.Warn(r.Context(), "served theme has issue", "theme", doc.Config.ThemeName, "issue", issue.String())
	}
	w.Header().Set(IssuesHeader, strconv.Itoa(len(issues)))
	writeJSON(w, http.StatusOK, compiled)
}

type invokeResponse struct {
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "cmd")
	if _, ok := s.commands[name]; !ok {
		s.fail(w, r, http.StatusNotFound, fmt.Errorf("%w: %s", ErrUnknownCommand, name))
		return
	}

	args := map[string]interface{}{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
			s.fail(w, r, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrBadArgs, err))
			return
		}
	}

	ctx := ports.WithCorrelationID(r.Context(), middleware.GetReqID(r.Context()))
	result, err := s.Invoke(ctx, name, args)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrBadArgs):
			status = http.StatusBadRequest
		case errors.Is(err, themesource.ErrThemeNotFound):
			status = http.StatusNotFound
		}
		s.fail(w, r, status, err)
		return
	}
	s.logger.Debug(ctx, "command invoked", "command", name)
	writeJSON(w, http.StatusOK, invokeResponse{Result: result})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, invokeResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) ping(context.Context, map[string]interface{}) (interface{}, error) {
	return "pong", nil
}

func (s *Server) listThemes(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	return s.opts.Catalog.List(ctx)
}

func (s *Server) setActiveTheme(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	name := theme.Props(args).String("name", "")
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadArgs)
	}
	if _, err := s.opts.Catalog.Load(ctx, name); err != nil {
		return nil, err
	}
	s.opts.Catalog.SetActive(name)
	s.logger.Info(ctx, "active theme changed", "theme", name)
	if s.opts.OnThemeChange != nil {
		s.opts.OnThemeChange(ctx, name)
	}
	return map[string]string{"active": name}, nil
}

func (s *Server) getSession(context.Context, map[string]interface{}) (interface{}, error) {
	return s.opts.Session(), nil
}

func (s *Server) launchGame(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	snap := s.opts.Session()
	id := theme.Props(args).String("id", "")
	var game session.Game
	var ok bool
	if id == "" {
		game, ok = snap.SelectedGame()
	} else {
		game, ok = snap.Game(id)
	}
	if !ok {
		return nil, fmt.Errorf("%w: no such game", ErrBadArgs)
	}
	s.logger.Info(ctx, "launch requested", "game_id", game.ID, "game", game.Name)
	return map[string]string{"launched": game.ID}, nil
}
