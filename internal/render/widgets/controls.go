package widgets

import (
	"strconv"
	"strings"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/render"
)

var glyphs = map[string]string{
	"house":       "⌂",
	"home":        "⌂",
	"library":     "▤",
	"library-big": "▤",
	"book":        "▤",
	"gamepad":     "◈",
	"gamepad-2":   "◈",
	"settings":    "⚙",
	"cog":         "⚙",
	"user":        "☺",
	"search":      "⌕",
	"star":        "★",
	"heart":       "♥",
	"plus":        "+",
	"x":           "✕",
	"minus":       "─",
	"maximize":    "□",
	"maximize-2":  "□",
	"minimize-2":  "❐",
	"copy":        "❐",
	"play":        "▶",
	"info":        "ℹ",
	"clock":       "◷",
	"download":    "↓",
	"folder":      "▭",
	"chart":       "▥",
}

// Glyph maps an icon name to a terminal glyph.
func Glyph(name string) string {
	if g, ok := glyphs[strings.ToLower(strings.TrimSpace(name))]; ok {
		return g
	}
	return "•"
}

// entry is a navigation item, usually placed in a sidebar.
//
// Recognized props: title (default "Item"), icon (default "house"), path
// (default "/"), showTitle (default true), autoActive (default true), active.
// The title hides when the enclosing sidebar is collapsed.
func entry(scope render.Scope, node *theme.Node, children []*render.Element) *render.Element {
	label := node.Props.String("title", "Item")
	icon := node.Props.String("icon", "house")
	path := node.Props.String("path", "/")

	showTitle := node.Props.Bool("showTitle", true) && scope.Inherited.Expanded(true)

	el := render.Base("entry", render.TagButton, node, children)
	el.Active = entryActive(scope.Inherited.Route, path, node.Props)
	el.Focusable = node.HasActions()
	el.Text = Glyph(icon)
	if showTitle {
		el.Text += " " + label
	}
	return el.Attr("icon", icon).Attr("path", path).Attr("title", label)
}

func entryActive(route, path string, props theme.Props) bool {
	if !props.Bool("autoActive", true) {
		return props.Bool("active", false)
	}
	if route == "" {
		route = "/"
	}
	if route == path {
		return true
	}
	return path != "/" && strings.HasPrefix(route, path)
}

// appButton is a clickable wrapper around its children.
//
// Recognized props: variant (scale|border|glow, default scale).
func appButton(_ render.Scope, node *theme.Node, children []*render.Element) *render.Element {
	el := render.Base("appbutton", render.TagButton, node, children)
	el.Focusable = node.HasActions()
	variant := node.Props.OneOf("variant", "scale", "scale", "border", "glow")
	if variant == "border" {
		el.Style = mergeStyle(theme.Style{"border": "rounded"}, node.Style)
	}
	return el.Attr("variant", variant)
}

// appIcon shows a single icon.
//
// Recognized props: name, size, color.
func appIcon(_ render.Scope, node *theme.Node, children []*render.Element) *render.Element {
	name := node.Props.String("name", "")
	el := render.Base("appicon", render.TagIcon, node, children)
	el.Text = Glyph(name)
	if color := node.Props.String("color", ""); color != "" {
		el.Style = mergeStyle(theme.Style{"color": color}, node.Style)
	}
	if size := node.Props.Int("size", 0); size > 0 {
		el.Attr("size", strconv.Itoa(size))
	}
	return el.Attr("name", name)
}

// windowToggleIcon shows the maximize or restore icon for the window state.
//
// Recognized props: normalIcon (default maximize-2), maximizedIcon (default
// minimize-2), size.
type windowToggleIcon struct {
	env Env
}

func (w windowToggleIcon) Render(_ render.Scope, node *theme.Node, children []*render.Element) *render.Element {
	maximized := w.env.Window != nil && w.env.Window.IsMaximized()
	name := node.Props.String("normalIcon", "maximize-2")
	if maximized {
		name = node.Props.String("maximizedIcon", "minimize-2")
	}
	el := render.Base("windowtoggleicon", render.TagIcon, node, children)
	el.Text = Glyph(name)
	return el.Attr("name", name).Attr("maximized", strconv.FormatBool(maximized))
}
