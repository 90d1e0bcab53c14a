package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/gameshelf/internal/store"
	"github.com/alexisbeaulieu97/gameshelf/internal/ui/terminal"
)

const helpText = "tab focus • enter activate • h hover • b back • r reload • q quit"

// View renders the current state of the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.header()}

	switch {
	case m.snap.Document == nil && m.snap.State == store.Error && !m.loading:
		sections = append(sections, errorPanel(m.snap.Err))
	case m.snap.Document == nil:
		sections = append(sections, fmt.Sprintf("%s Loading theme…", m.spinner.View()))
	default:
		if m.snap.Err != nil {
			sections = append(sections, bannerStyle.Render(fmt.Sprintf("! reload failed: %v (r to retry)", m.snap.Err)))
		}
		if m.loading {
			sections = append(sections, fmt.Sprintf("%s Reloading…", m.spinner.View()))
		}
		painter := terminal.New(
			terminal.WithPalette(m.palette()),
			terminal.WithWidth(m.contentWidth()),
			terminal.WithFocus(m.focused),
		)
		sections = append(sections, painter.Paint(m.tree))
	}

	if alerts := m.opts.Host.Alerts(); len(alerts) > 0 {
		sections = append(sections, renderAlerts(alerts))
	}
	sections = append(sections, helpStyle.Render(helpText))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) header() string {
	parts := []string{titleStyle.Render("gameshelf")}
	if doc := m.snap.Document; doc != nil && doc.Config.ThemeName != "" {
		parts = append(parts, mutedStyle.Render(doc.Config.ThemeName))
	}
	parts = append(parts, mutedStyle.Render(m.opts.Host.Current()), StateIcon(m.snap.State))
	return strings.Join(parts, " ")
}

func (m Model) palette() terminal.Palette {
	if m.opts.Palette == (terminal.Palette{}) {
		return terminal.DefaultPalette()
	}
	return m.opts.Palette
}

func errorPanel(err error) string {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		errorTitleStyle.Render("Theme failed to load"),
		msg,
		"",
		mutedStyle.Render("press r to retry"),
	)
	return errorPanelStyle.Render(body)
}

func renderAlerts(alerts []Alert) string {
	lines := make([]string, 0, len(alerts))
	for _, a := range alerts {
		style, ok := alertStyles[a.Style]
		if !ok {
			style = alertStyles["info"]
		}
		lines = append(lines, style.Render(fmt.Sprintf("[%s] %s", a.Style, a.Content)))
	}
	return strings.Join(lines, "\n")
}

// StateIcon returns the glyph representing a store state.
func StateIcon(state store.State) string {
	switch state {
	case store.Ready:
		return alertStyles["success"].Render("●")
	case store.Loading:
		return spinnerStyle.Render("◌")
	case store.Error:
		return alertStyles["error"].Render("✗")
	default:
		return mutedStyle.Render("○")
	}
}
