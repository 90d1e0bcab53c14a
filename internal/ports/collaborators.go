package ports

import (
	"context"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
)

// ThemeFetcher supplies the active theme document. It is the only
// asynchronous input of the render core.
type ThemeFetcher interface {
	FetchTheme(ctx context.Context) (*theme.Document, error)
}

// ThemeCatalog lists and loads themes by name.
type ThemeCatalog interface {
	ThemeFetcher
	List(ctx context.Context) ([]string, error)
	Load(ctx context.Context, name string) (*theme.Document, error)
}

// Router changes the active route. The render core never implements routing.
type Router interface {
	Navigate(destination string)
	Current() string
}

// Alerter shows a transient message to the user.
type Alerter interface {
	Alert(style, content string)
}

// Backend executes a named backend command. The result is opaque to the core.
type Backend interface {
	Invoke(ctx context.Context, command string, args map[string]interface{}) (interface{}, error)
}

// LinkOpener opens a URI in an external handler.
type LinkOpener interface {
	Open(ctx context.Context, uri string) error
}

// WindowOp names a window management operation.
type WindowOp string

const (
	WindowMaximize   WindowOp = "maximize"
	WindowUnmaximize WindowOp = "unmaximize"
	WindowMinimize   WindowOp = "minimize"
	WindowClose      WindowOp = "close"
	WindowHide       WindowOp = "hide"
	WindowToggle     WindowOp = "toggle"
)

// WindowManager controls the host window.
type WindowManager interface {
	Apply(ctx context.Context, op WindowOp) error
	IsMaximized() bool
}
