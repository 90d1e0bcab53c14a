package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/gameshelf/internal/render"
	"github.com/alexisbeaulieu97/gameshelf/internal/render/widgets"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		m.snap = msg.Snapshot
		m.rerender()
		return m, waitForSnapshot(m.updates)
	case LoadDoneMsg:
		m.loading = false
		if m.opts.Store != nil {
			m.snap = m.opts.Store.Snapshot()
		}
		if msg.Err != nil {
			m.logger.Warn(m.ctx, "theme load failed", "error", msg.Err)
		}
		m.rerender()
		return m, nil
	case AlertMsg:
		m.opts.Host.Alert(msg.Style, msg.Content)
		return m, expireAlert(m.opts.Host.LastSeq())
	case alertExpiredMsg:
		m.opts.Host.Dismiss(msg.seq)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		if !m.showSpinner() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.QuitMsg:
		m.quit()
		return m, nil
	}
	return m, nil
}

func (m Model) showSpinner() bool {
	return m.loading || m.snap.Document == nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quit()
		return m, tea.Quit
	case "tab", "down", "j":
		m.moveFocus(1)
	case "shift+tab", "up", "k":
		m.moveFocus(-1)
	case "enter", " ":
		return m.activate()
	case "h":
		m.toggleHover()
	case "backspace", "b":
		if m.opts.Host.Back() {
			m.rerender()
		}
	case "esc":
		m.opts.Host.Dismiss(m.opts.Host.LastSeq())
	case "r":
		if m.loading || m.opts.Store == nil {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadCmd(m.snap.Document != nil))
	}
	return m, nil
}

// activate dispatches the actions of the focused element.
func (m Model) activate() (tea.Model, tea.Cmd) {
	if m.tree == nil || m.opts.Dispatcher == nil {
		return m, nil
	}
	el := m.tree.Find(m.focused)
	if el == nil || len(el.Actions) == 0 {
		return m, nil
	}

	host := m.opts.Host
	before := host.LastSeq()
	m.opts.Dispatcher.Dispatch(m.ctx, el.Actions...)
	m.rerender()

	if host.ExitRequested() {
		m.quit()
		return m, tea.Quit
	}
	if seq := host.LastSeq(); seq > before {
		return m, expireAlert(seq)
	}
	return m, nil
}

func expireAlert(seq int) tea.Cmd {
	return tea.Tick(AlertTTL, func(time.Time) tea.Msg { return alertExpiredMsg{seq: seq} })
}

// toggleHover flips the hover state of every Trigger sidebar, standing in
// for pointer hover.
func (m *Model) toggleHover() {
	if m.tree == nil {
		return
	}
	next := make(map[string]bool, len(m.hovered))
	for id, v := range m.hovered {
		next[id] = v
	}
	changed := false
	m.tree.Walk(func(el *render.Element, _ int) {
		if el.Kind == "sidebar" && el.Attrs["mode"] == widgets.SidebarTrigger && el.NodeID != "" {
			next[el.NodeID] = !next[el.NodeID]
			changed = true
		}
	})
	if changed {
		m.hovered = next
		m.rerender()
	}
}

func (m *Model) quit() {
	m.quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}
