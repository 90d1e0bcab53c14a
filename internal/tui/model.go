// Package tui hosts the interactive launcher shell: it follows the document
// store, renders the active route and turns key presses into actions.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/gameshelf/internal/actions"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
	"github.com/alexisbeaulieu97/gameshelf/internal/render"
	"github.com/alexisbeaulieu97/gameshelf/internal/store"
	"github.com/alexisbeaulieu97/gameshelf/internal/ui/terminal"
)

// AlertTTL is how long an alert stays on screen.
const AlertTTL = 4 * time.Second

// DefaultRestoredWidth caps the content width while the window is not
// maximized.
const DefaultRestoredWidth = 100

// SnapshotMsg delivers a store snapshot published while the shell runs.
type SnapshotMsg struct {
	Snapshot store.Snapshot
}

// LoadDoneMsg reports the end of a load or reload started by the shell.
type LoadDoneMsg struct {
	Err error
}

// AlertMsg queues an alert raised outside the key handler, such as a
// failed background command.
type AlertMsg struct {
	Style   string
	Content string
}

type alertExpiredMsg struct {
	seq int
}

// Options wires the shell to its collaborators.
type Options struct {
	Store      *store.Store
	Renderer   *render.Renderer
	Dispatcher *actions.Dispatcher
	Host       *Host
	// Window reports the maximize state; nil means always maximized.
	Window        ports.WindowManager
	Palette       terminal.Palette
	RestoredWidth int
	Logger        ports.Logger
}

// Model is the bubbletea state of the shell.
type Model struct {
	opts   Options
	ctx    context.Context
	logger ports.Logger

	snap        store.Snapshot
	updates     <-chan store.Snapshot
	unsubscribe func()

	tree       *render.Element
	focusables []string
	focused    string
	hovered    map[string]bool

	spinner  spinner.Model
	loading  bool
	width    int
	height   int
	quitting bool
}

// NewModel creates the shell model. ctx scopes loads and dispatches.
func NewModel(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Host == nil {
		opts.Host = NewHost("/")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.RestoredWidth <= 0 {
		opts.RestoredWidth = DefaultRestoredWidth
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		opts:    opts,
		ctx:     ctx,
		logger:  opts.Logger.With("component", "shell", "layer", "presentation"),
		hovered: make(map[string]bool),
		spinner: s,
		loading: true,
	}
	if opts.Store != nil {
		m.snap = opts.Store.Snapshot()
		m.updates, m.unsubscribe = opts.Store.Subscribe()
	}
	m.rerender()
	return m
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(false), waitForSnapshot(m.updates))
}

// Snapshot returns the snapshot the shell is showing.
func (m Model) Snapshot() store.Snapshot {
	return m.snap
}

// Focused returns the node id holding focus.
func (m Model) Focused() string {
	return m.focused
}

// Tree returns the last rendered element tree.
func (m Model) Tree() *render.Element {
	return m.tree
}

// Loading reports whether a load started by the shell is in flight.
func (m Model) Loading() bool {
	return m.loading
}

func (m Model) loadCmd(reload bool) tea.Cmd {
	st := m.opts.Store
	if st == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		if reload {
			return LoadDoneMsg{Err: st.Reload(ctx)}
		}
		return LoadDoneMsg{Err: st.Load(ctx)}
	}
}

func waitForSnapshot(ch <-chan store.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

// rerender renders the active route and keeps focus on a focusable element.
func (m *Model) rerender() {
	doc := m.snap.Document
	if doc == nil || m.opts.Renderer == nil {
		m.tree = nil
		m.focusables = nil
		return
	}

	focused := m.focused
	for pass := 0; pass < 2; pass++ {
		inherited := render.Inherited{
			Route:   m.opts.Host.Current(),
			Focused: focused,
			Hovered: m.hovered,
		}
		m.tree = m.opts.Renderer.RenderDocument(m.ctx, doc, inherited)

		m.focusables = nil
		for _, el := range m.tree.Focusables() {
			if el.NodeID != "" {
				m.focusables = append(m.focusables, el.NodeID)
			}
		}
		next := m.keepFocus(focused)
		if next == focused {
			break
		}
		focused = next
	}
	m.focused = focused
}

func (m *Model) keepFocus(id string) string {
	for _, candidate := range m.focusables {
		if candidate == id {
			return id
		}
	}
	if len(m.focusables) > 0 {
		return m.focusables[0]
	}
	return ""
}

func (m *Model) moveFocus(delta int) {
	n := len(m.focusables)
	if n == 0 {
		return
	}
	idx := 0
	for i, id := range m.focusables {
		if id == m.focused {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%n + n) % n
	m.focused = m.focusables[idx]
	m.rerender()
}

func (m Model) contentWidth() int {
	width := m.width
	maximized := m.opts.Window == nil || m.opts.Window.IsMaximized()
	if !maximized && width > m.opts.RestoredWidth {
		width = m.opts.RestoredWidth
	}
	return width
}
