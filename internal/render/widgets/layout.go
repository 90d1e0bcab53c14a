package widgets

import (
	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/render"
)

// grid renders row and col containers. Placement comes from the compiled
// grid styles; the widget only marks the axis for the painter.
func grid(kind string) render.Component {
	return render.ComponentFunc(func(_ render.Scope, node *theme.Node, children []*render.Element) *render.Element {
		el := render.Base(kind, render.TagContainer, node, children)
		axis := "horizontal"
		if kind == "col" {
			axis = "vertical"
		}
		return el.Attr("axis", axis)
	})
}

// page is the main content slot. Its own children render first, followed by
// the page content registered for the active route.
//
// Recognized props: none.
func page(scope render.Scope, node *theme.Node, children []*render.Element) *render.Element {
	el := render.Base("page", render.TagMain, node, children)
	if content := scope.RenderPage(); content != nil {
		el.Children = append(el.Children, content)
	}
	return el.Attr("route", theme.RouteKey(scope.Inherited.Route))
}

// titlebar lays out window controls along one edge.
//
// Recognized props: orientation (horizontal|vertical), align (start|center|end),
// variant (Full|Default|Capsule|CornerArc).
func titlebar(_ render.Scope, node *theme.Node, children []*render.Element) *render.Element {
	orientation := node.Props.OneOf("orientation", "horizontal", "horizontal", "vertical")
	align := node.Props.OneOf("align", "end", "start", "center", "end")

	direction := "row"
	if orientation == "vertical" {
		direction = "column"
	}
	justify := map[string]string{"start": "flex-start", "center": "center", "end": "flex-end"}[align]

	el := render.Base("titlebar", render.TagHeader, node, children)
	el.Style = mergeStyle(theme.Style{"display": "flex", "flexDirection": direction, "justifyContent": justify}, node.Style)
	return el.Attr("variant", node.Props.OneOf("variant", "Full", "Full", "Default", "Capsule", "CornerArc"))
}

// background paints a backdrop from a static source or a game's artwork.
//
// Recognized props: sourceType (static|selectedGame|specifiedGame|none),
// sourceValue (path for static, game id for specifiedGame), opacity (0..1).
type background struct {
	env Env
}

func (b background) Render(_ render.Scope, node *theme.Node, children []*render.Element) *render.Element {
	sourceType := node.Props.OneOf("sourceType", "selectedGame", "static", "selectedGame", "specifiedGame", "none")
	el := render.Base("background", render.TagImage, node, children)
	el.Attr("sourceType", sourceType)

	var source string
	switch sourceType {
	case "static":
		source = node.Props.String("sourceValue", "")
	case "selectedGame":
		if game, ok := b.env.session().SelectedGame(); ok {
			source = firstNonEmpty(game.Background, game.Cover)
		}
	case "specifiedGame":
		if game, ok := b.env.session().Game(node.Props.String("sourceValue", "")); ok {
			source = firstNonEmpty(game.Background, game.Cover)
		}
	}
	if source != "" {
		el.Attr("src", source)
	}

	opacity := node.Props.Float("opacity", 1)
	if opacity < 1 {
		el.Style = mergeStyle(theme.Style{"opacity": opacity}, node.Style)
	}
	return el
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
