package terminal

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/gameshelf/internal/render"
)

// Direction is the main axis of a container.
type Direction int

const (
	// Vertical stacks children top to bottom.
	Vertical Direction = iota
	// Horizontal places children side by side.
	Horizontal
)

var (
	repeatPattern = regexp.MustCompile(`repeat\(\s*(\d+)`)
	spanPattern   = regexp.MustCompile(`^\s*(\d+)\s*/\s*span\s+(\d+)\s*$`)
)

// layout describes how an element arranges its children.
type layout struct {
	direction Direction
	tracks    int
	gap       int
}

func layoutOf(el *render.Element) layout {
	l := layout{direction: Vertical}
	if g, ok := parseLength(el.Style["gap"], 0); ok {
		l.gap = g
	}
	switch el.Style["display"] {
	case "grid":
		if m := repeatPattern.FindStringSubmatch(styleString(el.Style["gridTemplateColumns"])); m != nil {
			l.direction = Horizontal
			l.tracks, _ = strconv.Atoi(m[1])
		} else if m := repeatPattern.FindStringSubmatch(styleString(el.Style["gridTemplateRows"])); m != nil {
			l.tracks, _ = strconv.Atoi(m[1])
		}
	case "flex":
		dir := styleString(el.Style["flexDirection"])
		if dir == "" || strings.HasPrefix(dir, "row") {
			l.direction = Horizontal
		}
	}
	return l
}

func styleString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// gridPlacement reads "start / span n" from a child's grid position.
func gridPlacement(el *render.Element, key string) (start, span int, ok bool) {
	m := spanPattern.FindStringSubmatch(styleString(el.Style[key]))
	if m == nil {
		return 0, 0, false
	}
	start, _ = strconv.Atoi(m[1])
	span, _ = strconv.Atoi(m[2])
	return start, span, start >= 1 && span >= 1
}

// trackOffset is the cell offset of a 1-based grid line.
func trackOffset(line, tracks, width int) int {
	return width * (line - 1) / tracks
}

func (p *Painter) paintChildren(el *render.Element, l layout, width int) string {
	if len(el.Children) == 0 {
		return ""
	}
	if l.direction == Vertical {
		return p.stackVertical(el.Children, l.gap, width)
	}
	if l.tracks > 0 && width > 0 {
		return p.gridRow(el.Children, l.tracks, width)
	}
	return p.flexRow(el.Children, l.gap, width)
}

func (p *Painter) stackVertical(children []*render.Element, gap, width int) string {
	parts := make([]string, 0, len(children)*2)
	for i, child := range children {
		if i > 0 && gap > 0 {
			parts = append(parts, strings.Repeat("\n", gap-1))
		}
		parts = append(parts, p.paint(child, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// gridRow places children on column tracks. Children without a placement
// take the next track.
func (p *Painter) gridRow(children []*render.Element, tracks, width int) string {
	parts := make([]string, 0, len(children)*2)
	cursor, nextLine := 0, 1
	for _, child := range children {
		start, span, ok := gridPlacement(child, "gridColumn")
		if !ok {
			start, span = nextLine, 1
		}
		if start > tracks {
			continue
		}
		end := start + span
		if end > tracks+1 {
			end = tracks + 1
		}
		from := trackOffset(start, tracks, width)
		to := trackOffset(end, tracks, width)
		if from > cursor {
			parts = append(parts, strings.Repeat(" ", from-cursor))
		}
		if to <= from {
			continue
		}
		parts = append(parts, lipgloss.PlaceHorizontal(to-from, lipgloss.Left, p.paint(child, to-from)))
		cursor, nextLine = to, end
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// flexRow gives fixed-width children their width and splits the rest
// evenly among the others.
func (p *Painter) flexRow(children []*render.Element, gap, width int) string {
	widths := make([]int, len(children))
	if width > 0 {
		remaining := width - gap*(len(children)-1)
		flexible := 0
		for i, child := range children {
			if w, ok := parseLength(child.Style["width"], width); ok && w > 0 {
				widths[i] = w
				remaining -= w
			} else {
				flexible++
			}
		}
		if flexible > 0 {
			share := remaining / flexible
			if share < 1 {
				share = 1
			}
			extra := remaining - share*flexible
			for i := range widths {
				if widths[i] == 0 {
					widths[i] = share
					if extra > 0 {
						widths[i]++
						extra--
					}
				}
			}
		}
	}

	parts := make([]string, 0, len(children)*2)
	for i, child := range children {
		if i > 0 && gap > 0 {
			parts = append(parts, strings.Repeat(" ", gap))
		}
		painted := p.paint(child, widths[i])
		if widths[i] > 0 {
			painted = lipgloss.PlaceHorizontal(widths[i], lipgloss.Left, painted)
		}
		parts = append(parts, painted)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
