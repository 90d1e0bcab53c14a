// Package actions runs the declarative action descriptors attached to theme
// nodes. The set of commands is closed; each one forwards to a collaborator
// supplied by the host.
package actions

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
	gserrors "github.com/alexisbeaulieu97/gameshelf/pkg/errors"
)

// Command names.
const (
	CommandNavigate         = "navigate"
	CommandAlert            = "alert"
	CommandInvoke           = "invoke"
	CommandOpenLink         = "open_link"
	CommandOpenExternalLink = "openExternalLink"
	CommandWindowManage     = "windowManage"
)

// Alert styles understood by Alerter implementations.
const (
	AlertInfo    = "info"
	AlertSuccess = "success"
	AlertWarning = "warning"
	AlertError   = "error"
)

var (
	errNoCollaborator = errors.New("no collaborator configured")
	errMissingParam   = errors.New("missing parameter")
)

// Collaborators are the host services actions forward to. Any of them may be
// nil; the commands that need a missing collaborator fail and are logged.
type Collaborators struct {
	Router  ports.Router
	Alerter ports.Alerter
	Backend ports.Backend
	Links   ports.LinkOpener
	Window  ports.WindowManager
}

// Spawner runs fn without waiting for it. The default starts a goroutine.
type Spawner func(fn func())

type handler func(ctx context.Context, action theme.Action) error

// Dispatcher maps action descriptors onto the command table.
type Dispatcher struct {
	collab Collaborators
	logger ports.Logger
	events ports.EventPublisher
	spawn  Spawner
	table  map[string]handler
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(logger ports.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithEvents publishes one event per dispatched action.
func WithEvents(events ports.EventPublisher) Option {
	return func(d *Dispatcher) { d.events = events }
}

// WithSpawner replaces the goroutine spawner used by invoke.
func WithSpawner(spawn Spawner) Option {
	return func(d *Dispatcher) {
		if spawn != nil {
			d.spawn = spawn
		}
	}
}

// New builds a Dispatcher over the given collaborators.
func New(collab Collaborators, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		collab: collab,
		logger: logging.Discard(),
		spawn:  func(fn func()) { go fn() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	d.logger = d.logger.With("component", "dispatcher")
	d.table = map[string]handler{
		CommandNavigate:         d.navigate,
		CommandAlert:            d.alert,
		CommandInvoke:           d.invoke,
		CommandOpenLink:         d.openLink,
		CommandOpenExternalLink: d.openLink,
		CommandWindowManage:     d.windowManage,
	}
	return d
}

// Commands returns the recognized command names, sorted.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.table))
	for name := range d.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether command is in the table.
func (d *Dispatcher) Known(command string) bool {
	_, ok := d.table[command]
	return ok
}

// Dispatch runs actions strictly in order. Unknown commands and failures are
// logged and skipped; nothing is returned to the caller. It returns the
// number of actions that ran successfully.
func (d *Dispatcher) Dispatch(ctx context.Context, actions ...theme.Action) int {
	if len(actions) == 0 {
		return 0
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ports.WithCorrelationID(ctx, ports.GenerateCorrelationID())

	ran := 0
	for i, action := range actions {
		run, ok := d.table[action.Command]
		if !ok {
			d.logger.Warn(ctx, "unknown action command, skipping", "command", action.Command, "index", i)
			d.publish(ctx, ports.EventActionUnknown, action, nil)
			continue
		}
		if err := d.safeRun(ctx, run, action); err != nil {
			err = gserrors.NewActionError(action.Command, err)
			d.logger.Error(ctx, "action failed", "command", action.Command, "index", i, "error", err)
			d.publish(ctx, ports.EventActionFailed, action, err)
			continue
		}
		d.logger.Debug(ctx, "action dispatched", "command", action.Command, "index", i)
		d.publish(ctx, ports.EventActionDispatched, action, nil)
		ran++
	}
	return ran
}

// safeRun turns a panicking handler into an ordinary failure.
func (d *Dispatcher) safeRun(ctx context.Context, run handler, action theme.Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return run(ctx, action)
}

func (d *Dispatcher) publish(ctx context.Context, eventType string, action theme.Action, err error) {
	if d.events == nil {
		return
	}
	kv := []interface{}{"command", action.Command}
	if err != nil {
		kv = append(kv, "error", err.Error())
	}
	_ = d.events.Publish(ctx, ports.NewEvent(eventType, kv...))
}

func (d *Dispatcher) navigate(_ context.Context, action theme.Action) error {
	if d.collab.Router == nil {
		return fmt.Errorf("router: %w", errNoCollaborator)
	}
	dest := action.Param("destination")
	if dest == "" {
		return fmt.Errorf("destination: %w", errMissingParam)
	}
	d.collab.Router.Navigate(dest)
	return nil
}

func (d *Dispatcher) alert(_ context.Context, action theme.Action) error {
	if d.collab.Alerter == nil {
		return fmt.Errorf("alerter: %w", errNoCollaborator)
	}
	style := strings.ToLower(action.Param("style"))
	switch style {
	case AlertSuccess, AlertWarning, AlertError:
	default:
		style = AlertInfo
	}
	d.collab.Alerter.Alert(style, action.Param("content"))
	return nil
}

// invoke hands the backend call to the spawner. Its outcome is only logged.
func (d *Dispatcher) invoke(ctx context.Context, action theme.Action) error {
	if d.collab.Backend == nil {
		return fmt.Errorf("backend: %w", errNoCollaborator)
	}
	cmd := action.Param("cmd")
	if cmd == "" {
		return fmt.Errorf("cmd: %w", errMissingParam)
	}
	args := theme.Props(action.Params).Map("args")
	if args == nil {
		args = map[string]interface{}{}
	}

	detached := context.WithoutCancel(ctx)
	d.spawn(func() {
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error(detached, "backend invocation panicked", "cmd", cmd, "panic", fmt.Sprint(r))
			}
		}()
		if _, err := d.collab.Backend.Invoke(detached, cmd, args); err != nil {
			d.logger.Error(detached, "backend invocation failed", "cmd", cmd, "error", err)
			d.publish(detached, ports.EventActionFailed, action, gserrors.NewActionError(CommandInvoke, err))
			return
		}
		d.logger.Debug(detached, "backend invocation completed", "cmd", cmd)
	})
	return nil
}

var allowedLinkSchemes = map[string]bool{"http": true, "https": true, "mailto": true}

func (d *Dispatcher) openLink(ctx context.Context, action theme.Action) error {
	if d.collab.Links == nil {
		return fmt.Errorf("link opener: %w", errNoCollaborator)
	}
	raw := action.Param("url")
	if raw == "" {
		return fmt.Errorf("url: %w", errMissingParam)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if !allowedLinkSchemes[strings.ToLower(parsed.Scheme)] {
		return fmt.Errorf("url scheme %q is not allowed", parsed.Scheme)
	}
	return d.collab.Links.Open(ctx, parsed.String())
}

func (d *Dispatcher) windowManage(ctx context.Context, action theme.Action) error {
	if d.collab.Window == nil {
		return fmt.Errorf("window manager: %w", errNoCollaborator)
	}
	op := ports.WindowOp(action.Param("op"))
	switch op {
	case "":
		op = ports.WindowToggle
	case ports.WindowMaximize, ports.WindowUnmaximize, ports.WindowMinimize,
		ports.WindowClose, ports.WindowHide, ports.WindowToggle:
	default:
		return fmt.Errorf("unknown window operation %q", op)
	}
	return d.collab.Window.Apply(ctx, op)
}
