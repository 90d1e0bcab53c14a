package terminal

import "github.com/charmbracelet/lipgloss"

// Palette holds the semantic colours the painter applies on top of the
// document's own styles.
type Palette struct {
	Text    lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Accent  lipgloss.AdaptiveColor
	Focus   lipgloss.AdaptiveColor
	Danger  lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
}

// DefaultPalette returns a slate/blue palette that reads on light and dark
// terminals.
func DefaultPalette() Palette {
	return Palette{
		Text:    lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#e2e8f0"},
		Muted:   lipgloss.AdaptiveColor{Light: "#64748b", Dark: "#94a3b8"},
		Accent:  lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"},
		Focus:   lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#c084fc"},
		Danger:  lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"},
		Warning: lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"},
	}
}

// MonochromePalette drops all colour. Used when output is not a terminal.
func MonochromePalette() Palette {
	none := lipgloss.AdaptiveColor{}
	return Palette{Text: none, Muted: none, Accent: none, Focus: none, Danger: none, Warning: none}
}
