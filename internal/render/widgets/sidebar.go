package widgets

import (
	"strconv"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/render"
)

// Sidebar modes.
const (
	SidebarNormalFixed = "NormalFixed"
	SidebarShortFixed  = "ShortFixed"
	SidebarTrigger     = "Trigger"
)

// Default sidebar widths in terminal cells.
const (
	sidebarWideWidth   = 24
	sidebarNarrowWidth = 6
)

// sidebar is the navigation rail. It decides whether its descendants render
// expanded and passes that down as inherited context.
//
// Recognized props: mode (NormalFixed|ShortFixed|Trigger, default
// NormalFixed), side (left|right|top|bottom, default left), zIndex.
// A Trigger sidebar expands while the host reports it hovered.
type sidebar struct{}

func sidebarMode(node *theme.Node) string {
	return node.Props.OneOf("mode", SidebarNormalFixed, SidebarNormalFixed, SidebarShortFixed, SidebarTrigger)
}

func sidebarExpanded(scope render.Scope, node *theme.Node) bool {
	switch sidebarMode(node) {
	case SidebarShortFixed:
		return false
	case SidebarTrigger:
		return scope.Inherited.IsHovered(node.ID)
	default:
		return true
	}
}

func (sidebar) ChildContext(scope render.Scope, node *theme.Node) render.Inherited {
	return scope.Inherited.WithSidebar(sidebarExpanded(scope, node), sidebarMode(node))
}

func (sidebar) Render(scope render.Scope, node *theme.Node, children []*render.Element) *render.Element {
	mode := sidebarMode(node)
	expanded := sidebarExpanded(scope, node)
	side := node.Props.OneOf("side", "left", "left", "right", "top", "bottom")

	el := render.Base("sidebar", render.TagNav, node, children)
	el.Attr("mode", mode).Attr("side", side).Attr("expanded", strconv.FormatBool(expanded))

	width := sidebarWideWidth
	if !expanded {
		width = sidebarNarrowWidth
	}
	defaults := theme.Style{"display": "flex", "flexDirection": "column"}
	if side == "left" || side == "right" {
		defaults["width"] = width
		if side == "left" {
			defaults["borderRight"] = "normal"
		} else {
			defaults["borderLeft"] = "normal"
		}
	} else {
		defaults["flexDirection"] = "row"
	}

	if mode == SidebarTrigger && !expanded {
		// Only the edge handle shows until the host reports hover.
		el.Children = nil
		el.Attr("collapsed", "true")
	}

	el.Style = mergeStyle(defaults, node.Style)
	if mode == SidebarTrigger && !expanded {
		el.Style["width"] = 1
	}
	return el
}
