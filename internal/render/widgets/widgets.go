// Package widgets provides the launcher's node implementations. Each widget
// documents the props it recognizes; unknown props are ignored and missing
// ones take defaults.
package widgets

import (
	"sort"
	"time"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
	"github.com/alexisbeaulieu97/gameshelf/internal/render"
	"github.com/alexisbeaulieu97/gameshelf/internal/session"
)

// WindowState reports the host window state.
type WindowState interface {
	IsMaximized() bool
}

// Env carries the read-only collaborators widgets display data from.
type Env struct {
	// Session returns the current launcher state. Nil means empty.
	Session func() *session.Snapshot
	// Now is the clock used by time and greeting titles.
	Now func() time.Time
	// Window reports maximize state for the window toggle icon.
	Window WindowState
	// MarkdownStyle is the glamour standard style for rich descriptions
	// ("dark", "light", "notty", ...).
	MarkdownStyle string
	Logger        ports.Logger
}

func (e Env) session() *session.Snapshot {
	if e.Session == nil {
		return session.Empty()
	}
	if snap := e.Session(); snap != nil {
		return snap
	}
	return session.Empty()
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) logger() ports.Logger {
	if e.Logger == nil {
		return logging.Discard()
	}
	return e.Logger
}

// Register adds every widget to reg.
func Register(reg *render.Registry, env Env) error {
	entries := map[string]render.Component{
		theme.DefaultNodeType: render.Passthrough,
		"row":                 grid("row"),
		"col":                 grid("col"),
		"chart":               render.Passthrough,
		"sidebar":             sidebar{},
		"background":          background{env: env},
		"page":                render.ComponentFunc(page),
		"titlebar":            render.ComponentFunc(titlebar),
		"appbutton":           render.ComponentFunc(appButton),
		"appicon":             render.ComponentFunc(appIcon),
		"windowtoggleicon":    windowToggleIcon{env: env},
		"avatar":              avatar{env: env},
		"entry":               render.ComponentFunc(entry),
		"gameshelf":           gameShelf{env: env},
		"title":               title{env: env},
		"description":         newDescription(env),
	}
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := reg.Register(name, entries[name]); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry builds a frozen registry holding every widget, with the
// passthrough container as fallback.
func NewRegistry(env Env) (*render.Registry, error) {
	reg, err := render.NewRegistry(render.Passthrough)
	if err != nil {
		return nil, err
	}
	if err := Register(reg, env); err != nil {
		return nil, err
	}
	reg.Freeze()
	return reg, nil
}

// mergeStyle layers the node's authored style over widget defaults.
func mergeStyle(defaults theme.Style, authored theme.Style) theme.Style {
	if len(defaults) == 0 {
		return authored
	}
	out := make(theme.Style, len(defaults)+len(authored))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range authored {
		out[k] = v
	}
	return out
}
