package widgets

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/render"
)

// avatar shows the signed-in user's initials.
//
// Recognized props: size (default 64), shape (default rounded-full),
// paddingY (default 16).
type avatar struct {
	env Env
}

func (a avatar) Render(_ render.Scope, node *theme.Node, children []*render.Element) *render.Element {
	user := a.env.session().User
	el := render.Base("avatar", render.TagImage, node, children)
	el.Text = Initials(user.UserName)
	el.Style = mergeStyle(theme.Style{"border": "rounded", "padding": "0 1"}, node.Style)
	if user.Avatar != "" {
		el.Attr("src", user.Avatar)
	}
	return el.Attr("size", strconv.Itoa(node.Props.Int("size", 64))).Attr("user", user.UserName)
}

// Initials returns up to two upper-case initials of a name, or "?".
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// gameShelf lists the library as a grid of cards, the selected game marked
// active.
//
// Recognized props: limit (0 = all), columns (default 4).
type gameShelf struct {
	env Env
}

func (g gameShelf) Render(_ render.Scope, node *theme.Node, children []*render.Element) *render.Element {
	snap := g.env.session()
	el := render.Base("gameshelf", render.TagContainer, node, children)

	games := snap.Games
	if limit := node.Props.Int("limit", 0); limit > 0 && limit < len(games) {
		games = games[:limit]
	}
	if len(games) == 0 {
		el.Children = append(el.Children, render.Placeholder("empty", "No games yet"))
		return el
	}

	selected, hasSelection := snap.SelectedGame()
	columns := node.Props.Int("columns", 4)
	if columns < 1 {
		columns = 1
	}
	el.Style = mergeStyle(theme.Style{
		"display":             "grid",
		"gridTemplateColumns": "repeat(" + strconv.Itoa(columns) + ", minmax(0, 1fr))",
	}, node.Style)

	for i, game := range games {
		card := &render.Element{
			NodeID: node.ID + ".game." + strconv.Itoa(i),
			Kind:   "gamecard",
			Tag:    render.TagText,
			Text:   game.Name,
			Active: hasSelection && game.ID == selected.ID,
			Style:  theme.Style{"border": "rounded", "padding": "0 1"},
		}
		card.Attr("gameId", game.ID)
		el.Children = append(el.Children, card)
	}
	return el
}
