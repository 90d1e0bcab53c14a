// Package terminal paints rendered element trees as styled terminal text.
package terminal

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/gameshelf/internal/render"
)

// Painter turns an element tree into a string for a terminal of a given
// width. It is cheap to construct; the zero value paints without width
// constraints using the default palette.
type Painter struct {
	Palette Palette
	Width   int
	// Focused is the node id of the element holding keyboard focus.
	Focused string

	paletteSet bool
}

// Option configures a Painter.
type Option func(*Painter)

// WithPalette overrides the colour palette.
func WithPalette(palette Palette) Option {
	return func(p *Painter) {
		p.Palette = palette
		p.paletteSet = true
	}
}

// WithWidth constrains output to the given number of cells.
func WithWidth(width int) Option {
	return func(p *Painter) { p.Width = width }
}

// WithFocus highlights the element rendered from the given node id.
func WithFocus(nodeID string) Option {
	return func(p *Painter) { p.Focused = nodeID }
}

// New creates a Painter.
func New(opts ...Option) *Painter {
	p := &Painter{}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if !p.paletteSet {
		p.Palette = DefaultPalette()
	}
	return p
}

// Paint renders the tree. A nil element paints as an empty string.
func (p *Painter) Paint(el *render.Element) string {
	if el == nil {
		return ""
	}
	return p.paint(el, p.Width)
}

func (p *Painter) paint(el *render.Element, width int) string {
	if el == nil {
		return ""
	}
	b := resolveBox(el.Style, width)
	b.style = p.decorate(el, b.style)

	content := p.content(el)
	if len(el.Children) > 0 {
		children := p.paintChildren(el, layoutOf(el), b.contentWidth())
		if content == "" {
			content = children
		} else if l := layoutOf(el); l.direction == Horizontal {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, " ", children)
		} else {
			content = lipgloss.JoinVertical(lipgloss.Left, content, children)
		}
	}
	return b.render(content)
}

// content is the element's own text, dressed by tag.
func (p *Painter) content(el *render.Element) string {
	text := el.Text
	switch el.Tag {
	case render.TagButton:
		if text == "" {
			return ""
		}
		if el.NodeID != "" && el.NodeID == p.Focused {
			return "▸" + text
		}
		return " " + text
	case render.TagError:
		if text == "" {
			text = "render error"
		}
		return "! " + text
	}
	switch el.Kind {
	case render.KindTruncated:
		if text == "" {
			text = "…"
		}
	case render.KindLoading:
		if text == "" {
			text = "Loading…"
		}
	}
	return text
}

// decorate applies state styling from the palette. Authored colours win
// unless the element is focused.
func (p *Painter) decorate(el *render.Element, style lipgloss.Style) lipgloss.Style {
	_, hasColor := el.Style["color"]
	switch {
	case el.NodeID != "" && el.NodeID == p.Focused:
		style = style.Foreground(p.Palette.Focus).Bold(true).Reverse(el.Tag != render.TagButton)
	case el.Active:
		if !hasColor {
			style = style.Foreground(p.Palette.Accent)
		}
		style = style.Bold(true)
	}
	switch {
	case el.Tag == render.TagError || el.Kind == render.KindError:
		style = style.Foreground(p.Palette.Danger)
	case el.Kind == render.KindTruncated:
		style = style.Foreground(p.Palette.Warning).Faint(true)
	case el.Kind == render.KindLoading:
		style = style.Foreground(p.Palette.Muted).Italic(true)
	}
	return style
}
