// Package system adapts host facilities: opening links in the desktop's
// default handler and tracking the window state of the terminal shell.
package system

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"sync"

	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
)

// ErrUnsupportedScheme is returned for links outside http, https and mailto.
var ErrUnsupportedScheme = errors.New("unsupported link scheme")

// ErrNoOpener is returned when the platform has no known link handler.
var ErrNoOpener = errors.New("no link opener available")

// Runner starts a command without waiting for it to finish.
type Runner func(ctx context.Context, name string, args ...string) error

// LinkOpener opens links with the platform's default handler.
type LinkOpener struct {
	goos   string
	run    Runner
	logger ports.Logger
}

// NewLinkOpener creates an opener for the running platform. A nil run uses
// exec.CommandContext(...).Start.
func NewLinkOpener(run Runner, logger ports.Logger) *LinkOpener {
	if run == nil {
		run = startCommand
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &LinkOpener{
		goos:   runtime.GOOS,
		run:    run,
		logger: logger.With("component", "links", "layer", "infrastructure"),
	}
}

func startCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(context.WithoutCancel(ctx), name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Open validates uri and hands it to the platform handler.
func (o *LinkOpener) Open(ctx context.Context, uri string) error {
	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("parse link: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "mailto":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	name, args, err := openCommand(o.goos, u.String())
	if err != nil {
		return err
	}
	o.logger.Debug(ctx, "opening link", "uri", u.String(), "handler", name)
	if err := o.run(ctx, name, args...); err != nil {
		return fmt.Errorf("open %s: %w", u.String(), err)
	}
	return nil
}

func openCommand(goos, uri string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{uri}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", uri}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{uri}, nil
	default:
		return "", nil, fmt.Errorf("%w on %s", ErrNoOpener, goos)
	}
}

// Window tracks the state of the shell window. Close, hide and minimize
// call the exit hook; the terminal cannot iconify itself.
type Window struct {
	mu        sync.RWMutex
	maximized bool
	onExit    func(op ports.WindowOp)
	logger    ports.Logger
}

// NewWindow creates a restored window. onExit may be nil.
func NewWindow(onExit func(op ports.WindowOp), logger ports.Logger) *Window {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Window{onExit: onExit, logger: logger.With("component", "window", "layer", "infrastructure")}
}

// SetExitHook replaces the exit hook.
func (w *Window) SetExitHook(onExit func(op ports.WindowOp)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onExit = onExit
}

// IsMaximized reports whether the window is maximized.
func (w *Window) IsMaximized() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.maximized
}

// Apply performs op.
func (w *Window) Apply(ctx context.Context, op ports.WindowOp) error {
	w.mu.Lock()
	var exit func(ports.WindowOp)
	switch op {
	case ports.WindowMaximize:
		w.maximized = true
	case ports.WindowUnmaximize:
		w.maximized = false
	case ports.WindowToggle:
		w.maximized = !w.maximized
	case ports.WindowMinimize, ports.WindowHide, ports.WindowClose:
		exit = w.onExit
	default:
		w.mu.Unlock()
		return fmt.Errorf("unknown window operation %q", op)
	}
	maximized := w.maximized
	w.mu.Unlock()

	w.logger.Debug(ctx, "window operation", "op", string(op), "maximized", maximized)
	if exit != nil {
		exit(op)
	}
	return nil
}
