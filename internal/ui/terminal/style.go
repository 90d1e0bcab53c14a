package terminal

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
)

// cellWidthPx converts CSS pixel lengths into terminal cells.
const cellWidthPx = 8

// Spacing is a box-model edge set in cells, clockwise from top.
type Spacing struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Horizontal returns Left + Right.
func (s Spacing) Horizontal() int { return s.Left + s.Right }

// Vertical returns Top + Bottom.
func (s Spacing) Vertical() int { return s.Top + s.Bottom }

// ParseSpacing reads CSS shorthand with one to four lengths ("1", "0 2",
// "4px 8px 0"). Numbers are taken as cells.
func ParseSpacing(v interface{}) Spacing {
	var parts []int
	switch typed := v.(type) {
	case int:
		parts = []int{typed}
	case float64:
		parts = []int{int(typed)}
	case string:
		for _, field := range strings.Fields(typed) {
			n, ok := parseLength(field, 0)
			if !ok {
				return Spacing{}
			}
			parts = append(parts, n)
		}
	}
	switch len(parts) {
	case 1:
		return Spacing{parts[0], parts[0], parts[0], parts[0]}
	case 2:
		return Spacing{parts[0], parts[1], parts[0], parts[1]}
	case 3:
		return Spacing{parts[0], parts[1], parts[2], parts[1]}
	case 4:
		return Spacing{parts[0], parts[1], parts[2], parts[3]}
	default:
		return Spacing{}
	}
}

// parseLength converts a style length into cells. Percentages resolve
// against avail; "auto" and unknown units report false.
func parseLength(v interface{}, avail int) (int, bool) {
	switch typed := v.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		return int(typed), true
	case string:
		s := strings.TrimSpace(strings.ToLower(typed))
		switch {
		case s == "" || s == "auto":
			return 0, false
		case strings.HasSuffix(s, "%"):
			f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err != nil || avail <= 0 {
				return 0, false
			}
			return int(math.Round(float64(avail) * f / 100)), true
		case strings.HasSuffix(s, "px"):
			f, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
			if err != nil {
				return 0, false
			}
			return int(math.Ceil(f / cellWidthPx)), true
		case strings.HasSuffix(s, "ch"):
			f, err := strconv.ParseFloat(strings.TrimSuffix(s, "ch"), 64)
			if err != nil {
				return 0, false
			}
			return int(f), true
		default:
			n, err := strconv.Atoi(s)
			if err != nil {
				return 0, false
			}
			return n, true
		}
	}
	return 0, false
}

var namedColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
	"gray":    "8",
	"grey":    "8",
	"orange":  "208",
	"purple":  "93",
	"pink":    "213",
}

// parseColor accepts hex colors, ANSI numbers and a few CSS names.
func parseColor(v interface{}) (lipgloss.Color, bool) {
	s, ok := v.(string)
	if !ok {
		if n, isInt := v.(int); isInt {
			return lipgloss.Color(strconv.Itoa(n)), true
		}
		return "", false
	}
	s = strings.TrimSpace(strings.ToLower(s))
	if code, named := namedColors[s]; named {
		return lipgloss.Color(code), true
	}
	if strings.HasPrefix(s, "#") && (len(s) == 4 || len(s) == 7) {
		return lipgloss.Color(s), true
	}
	if _, err := strconv.Atoi(s); err == nil {
		return lipgloss.Color(s), true
	}
	return "", false
}

func parseBorder(v interface{}) (lipgloss.Border, bool) {
	s, ok := v.(string)
	if !ok {
		return lipgloss.Border{}, false
	}
	s = strings.ToLower(s)
	switch {
	case s == "" || s == "none" || strings.HasPrefix(s, "0"):
		return lipgloss.Border{}, false
	case strings.Contains(s, "rounded"):
		return lipgloss.RoundedBorder(), true
	case strings.Contains(s, "double"):
		return lipgloss.DoubleBorder(), true
	case strings.Contains(s, "thick"):
		return lipgloss.ThickBorder(), true
	default:
		return lipgloss.NormalBorder(), true
	}
}

// box is the resolved box model of one element.
type box struct {
	style   lipgloss.Style
	margin  Spacing
	padding Spacing
	borderH int
	width   int
	fixed   bool
}

// resolveBox maps an element style onto lipgloss for the available width.
func resolveBox(style theme.Style, avail int) box {
	b := box{style: lipgloss.NewStyle()}

	if c, ok := parseColor(style["color"]); ok {
		b.style = b.style.Foreground(c)
	}
	if c, ok := parseColor(style["backgroundColor"]); ok {
		b.style = b.style.Background(c)
	}
	if w, ok := style["fontWeight"]; ok {
		switch v := w.(type) {
		case string:
			b.style = b.style.Bold(v == "bold" || v == "bolder" || v >= "600")
		case int:
			b.style = b.style.Bold(v >= 600)
		case float64:
			b.style = b.style.Bold(v >= 600)
		}
	}
	if style["fontStyle"] == "italic" {
		b.style = b.style.Italic(true)
	}
	if d, ok := style["textDecoration"].(string); ok && strings.Contains(d, "underline") {
		b.style = b.style.Underline(true)
	}
	if o, ok := style["opacity"]; ok {
		if f, isFloat := o.(float64); isFloat && f < 1 {
			b.style = b.style.Faint(true)
		}
	}
	switch style["textAlign"] {
	case "center":
		b.style = b.style.Align(lipgloss.Center)
	case "right", "end":
		b.style = b.style.Align(lipgloss.Right)
	}

	b.padding = ParseSpacing(style["padding"])
	b.margin = ParseSpacing(style["margin"])
	b.style = b.style.
		Padding(b.padding.Top, b.padding.Right, b.padding.Bottom, b.padding.Left).
		Margin(b.margin.Top, b.margin.Right, b.margin.Bottom, b.margin.Left)

	if border, ok := parseBorder(style["border"]); ok {
		b.style = b.style.Border(border)
		b.borderH = 2
	} else {
		left, hasLeft := parseBorder(style["borderLeft"])
		right, hasRight := parseBorder(style["borderRight"])
		if hasLeft || hasRight {
			border := left
			if !hasLeft {
				border = right
			}
			b.style = b.style.Border(border, false, hasRight, false, hasLeft)
			if hasLeft {
				b.borderH++
			}
			if hasRight {
				b.borderH++
			}
		}
	}

	b.width = avail
	if w, ok := parseLength(style["width"], avail); ok && w > 0 {
		if avail <= 0 || w < avail {
			b.width = w
		}
		b.fixed = true
	}
	if h, ok := parseLength(style["height"], 0); ok && h > 0 {
		b.style = b.style.Height(h)
	}
	return b
}

// contentWidth is the width left for children inside padding, border and
// margin; 0 means unconstrained.
func (b box) contentWidth() int {
	if b.width <= 0 {
		return 0
	}
	w := b.width - b.margin.Horizontal() - b.borderH - b.padding.Horizontal()
	if w < 1 {
		return 1
	}
	return w
}

// render wraps content in the box. lipgloss widths include padding but not
// border or margin.
func (b box) render(content string) string {
	style := b.style
	if b.width > 0 {
		inner := b.width - b.margin.Horizontal() - b.borderH
		if inner < 1 {
			inner = 1
		}
		style = style.Width(inner)
	}
	return style.Render(content)
}
