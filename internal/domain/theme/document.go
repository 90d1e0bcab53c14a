package theme

import (
	"sort"
	"strings"
)

// IndexRoute is the page key used for the root route.
const IndexRoute = "index"

// Document is the full theme IR: metadata, the persistent application shell
// and the per-route page content.
type Document struct {
	Config MetaConfig `json:"config" yaml:"config"`
	Layout Layout     `json:"layout" yaml:"layout"`
}

// MetaConfig is opaque metadata carried with the document.
type MetaConfig struct {
	Version   string                 `json:"version" yaml:"version" validate:"required,semver"`
	ThemeName string                 `json:"themeName" yaml:"themeName" validate:"required,max=100"`
	Variables map[string]interface{} `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Layout groups the global shell and the route pages.
type Layout struct {
	Global *Node                 `json:"global" yaml:"global"`
	Pages  map[string]PageConfig `json:"pages" yaml:"pages"`
}

// PageConfig wraps the subtree rendered for one route's content region.
type PageConfig struct {
	Name    string `json:"name" yaml:"name"`
	Content *Node  `json:"content" yaml:"content"`
}

// RouteKey maps a navigation destination ("/library", "library/detail",
// "/") onto the page key that holds its content ("library", "index").
// Only the first path segment selects the page.
func RouteKey(destination string) string {
	trimmed := strings.Trim(strings.TrimSpace(destination), "/")
	if trimmed == "" {
		return IndexRoute
	}
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}

// Page returns the page content registered for the destination's route key.
func (d *Document) Page(destination string) (*Node, bool) {
	if d == nil || d.Layout.Pages == nil {
		return nil, false
	}
	page, ok := d.Layout.Pages[RouteKey(destination)]
	if !ok || page.Content == nil {
		return nil, false
	}
	return page.Content, true
}

// Routes returns the page keys in lexical order.
func (d *Document) Routes() []string {
	if d == nil {
		return nil
	}
	routes := make([]string, 0, len(d.Layout.Pages))
	for key := range d.Layout.Pages {
		routes = append(routes, key)
	}
	sort.Strings(routes)
	return routes
}

// Roots returns every tree root of the document: the global shell first,
// then each page's content in route order. Absent roots are skipped.
func (d *Document) Roots() []*Node {
	if d == nil {
		return nil
	}
	roots := make([]*Node, 0, len(d.Layout.Pages)+1)
	if d.Layout.Global != nil {
		roots = append(roots, d.Layout.Global)
	}
	for _, route := range d.Routes() {
		if content := d.Layout.Pages[route].Content; content != nil {
			roots = append(roots, content)
		}
	}
	return roots
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Config: MetaConfig{
			Version:   d.Config.Version,
			ThemeName: d.Config.ThemeName,
			Variables: cloneMap(d.Config.Variables),
		},
		Layout: Layout{Global: d.Layout.Global.Clone()},
	}
	if d.Layout.Pages != nil {
		out.Layout.Pages = make(map[string]PageConfig, len(d.Layout.Pages))
		for key, page := range d.Layout.Pages {
			out.Layout.Pages[key] = PageConfig{Name: page.Name, Content: page.Content.Clone()}
		}
	}
	return out
}
