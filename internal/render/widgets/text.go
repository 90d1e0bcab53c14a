package widgets

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/render"
)

// title renders a single line of display text.
//
// Recognized props: mode (gameName|time|greeting|user|custom|bind, default
// gameName), content (custom text), path (JSONPath for bind), variant
// (Hero|Subtle|Neon|Glass, default Hero), timeFormat (HH:mm:ss|HH:mm).
type title struct {
	env Env
}

var titleVariants = map[string]theme.Style{
	"Hero":   {"fontWeight": "bold"},
	"Subtle": {"opacity": 0.6},
	"Neon":   {"fontWeight": "bold", "color": "#ff5fd7"},
	"Glass":  {"border": "rounded", "padding": "0 1"},
}

func (t title) Render(_ render.Scope, node *theme.Node, children []*render.Element) *render.Element {
	mode := node.Props.OneOf("mode", "gameName", "gameName", "time", "greeting", "user", "custom", "bind")
	variant := node.Props.OneOf("variant", "Hero", "Hero", "Subtle", "Neon", "Glass")

	el := render.Base("title", render.TagText, node, children)
	el.Text = t.content(mode, node.Props)
	el.Style = mergeStyle(titleVariants[variant], node.Style)
	return el.Attr("mode", mode).Attr("variant", variant)
}

func (t title) content(mode string, props theme.Props) string {
	snap := t.env.session()
	switch mode {
	case "gameName":
		if game, ok := snap.SelectedGame(); ok {
			return game.Name
		}
		return ""
	case "time":
		now := t.env.now()
		if props.String("timeFormat", "HH:mm:ss") == "HH:mm" {
			return now.Format("15:04")
		}
		return now.Format("15:04:05")
	case "greeting":
		switch hour := t.env.now().Hour(); {
		case hour < 12:
			return "Good morning"
		case hour < 18:
			return "Good afternoon"
		default:
			return "Good evening"
		}
	case "user":
		return snap.User.UserName
	case "bind":
		return snap.LookupString(props.String("path", ""), props.String("content", ""))
	default:
		return props.String("content", "")
	}
}

var htmlTagPattern = regexp.MustCompile(`<[a-zA-Z][^>]*>`)

// description renders a block of rich text. HTML is sanitized and converted
// to markdown; markdown is rendered for the terminal.
//
// Recognized props: mode (gameDesc|developer|custom|bind, default gameDesc),
// content, path (JSONPath for bind), format (auto|text|markdown|html, default
// auto), lineClamp (0 = unlimited), width (wrap width in cells, default 60).
type description struct {
	env       Env
	policy    *bluemonday.Policy
	converter *converter.Converter

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

func newDescription(env Env) *description {
	return &description{
		env:    env,
		policy: bluemonday.UGCPolicy(),
		converter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

func (d *description) Render(scope render.Scope, node *theme.Node, children []*render.Element) *render.Element {
	mode := node.Props.OneOf("mode", "gameDesc", "gameDesc", "developer", "custom", "bind")
	format := node.Props.OneOf("format", "auto", "auto", "text", "markdown", "html")
	width := node.Props.Int("width", 60)
	if width < 10 {
		width = 10
	}

	raw := d.content(mode, node.Props)
	if format == "auto" {
		format = "text"
		if htmlTagPattern.MatchString(raw) {
			format = "html"
		}
	}

	text, err := d.format(raw, format, width)
	if err != nil {
		scope.Logger().Warn(scope.Context(), "description formatting failed, showing plain text",
			"node_id", node.ID, "format", format, "error", err)
		text = raw
	}

	el := render.Base("description", render.TagText, node, children)
	el.Text = clampLines(text, node.Props.Int("lineClamp", 0))
	return el.Attr("mode", mode).Attr("format", format)
}

func (d *description) content(mode string, props theme.Props) string {
	snap := d.env.session()
	switch mode {
	case "gameDesc":
		if game, ok := snap.SelectedGame(); ok && game.Description != "" {
			return game.Description
		}
		return "No description available"
	case "developer":
		if game, ok := snap.SelectedGame(); ok && game.Developer != "" {
			return game.Developer
		}
		return "Unknown developer"
	case "bind":
		return snap.LookupString(props.String("path", ""), props.String("content", ""))
	default:
		return props.String("content", "")
	}
}

func (d *description) format(raw, format string, width int) (string, error) {
	switch format {
	case "html":
		md, err := d.converter.ConvertString(d.policy.Sanitize(raw))
		if err != nil {
			return "", fmt.Errorf("convert html: %w", err)
		}
		return d.markdown(md, width)
	case "markdown":
		return d.markdown(raw, width)
	default:
		return raw, nil
	}
}

func (d *description) markdown(md string, width int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.renderers[width]
	if !ok {
		style := d.env.MarkdownStyle
		if style == "" {
			style = "dark"
		}
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", fmt.Errorf("create markdown renderer: %w", err)
		}
		d.renderers[width] = r
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

func clampLines(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= limit {
		return text
	}
	lines = lines[:limit]
	lines[limit-1] = strings.TrimRight(lines[limit-1], " ") + "…"
	return strings.Join(lines, "\n")
}
