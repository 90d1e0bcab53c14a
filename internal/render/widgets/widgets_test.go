package widgets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/render"
	"github.com/alexisbeaulieu97/gameshelf/internal/session"
)

type fixedWindow bool

func (w fixedWindow) IsMaximized() bool { return bool(w) }

func testEnv() Env {
	snap := &session.Snapshot{
		SelectedGameID: "g2",
		User:           session.User{UserName: "aoi tachibana"},
		Games: []session.Game{
			{ID: "g1", Name: "Ever17", Developer: "KID"},
			{ID: "g2", Name: "Steins;Gate", Developer: "5pb.", Cover: "covers/sg.png",
				Description: "<p>A <b>visual novel</b> about time travel.</p><script>alert(1)</script>"},
		},
	}
	return Env{
		Session:       func() *session.Snapshot { return snap },
		Now:           func() time.Time { return time.Date(2024, 5, 1, 9, 7, 3, 0, time.UTC) },
		Window:        fixedWindow(true),
		MarkdownStyle: "notty",
	}
}

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	reg, err := NewRegistry(testEnv())
	require.NoError(t, err)
	return render.New(reg)
}

func TestNewRegistryIsFrozenAndComplete(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(testEnv())
	require.NoError(t, err)
	assert.True(t, reg.Frozen())
	assert.Equal(t, []string{
		"appbutton", "appicon", "avatar", "background", "chart", "col", "description", "entry",
		"gameshelf", "node", "page", "row", "sidebar", "title", "titlebar", "windowtoggleicon",
	}, reg.Names())
}

func sidebarTree(mode string) *theme.Node {
	return &theme.Node{ID: "side", Type: "sidebar", Props: theme.Props{"mode": mode}, Children: []*theme.Node{
		{ID: "lib", Type: "entry", Props: theme.Props{"title": "Library", "icon": "library", "path": "/library"},
			Actions: []theme.Action{{Command: "navigate", Params: map[string]interface{}{"destination": "/library"}}}},
	}}
}

func TestSidebarModesDriveEntryTitles(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		mode      string
		hovered   bool
		wantText  string
		wantWidth interface{}
		children  int
	}{
		{name: "normal fixed is expanded", mode: "NormalFixed", wantText: "▤ Library", wantWidth: sidebarWideWidth, children: 1},
		{name: "short fixed is collapsed", mode: "ShortFixed", wantText: "▤", wantWidth: sidebarNarrowWidth, children: 1},
		{name: "trigger without hover hides content", mode: "Trigger", wantWidth: 1, children: 0},
		{name: "trigger with hover expands", mode: "Trigger", hovered: true, wantText: "▤ Library", wantWidth: sidebarWideWidth, children: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			node := sidebarTree(tt.mode)
			inherited := render.Inherited{Route: "/library/recent", Hovered: map[string]bool{"side": tt.hovered}}

			el := r.RenderWith(ctx, node, inherited)
			require.Equal(t, "sidebar", el.Kind)
			assert.Equal(t, tt.wantWidth, el.Style["width"])
			require.Len(t, el.Children, tt.children)
			if tt.children > 0 {
				entryEl := el.Children[0]
				assert.Equal(t, tt.wantText, entryEl.Text)
				assert.True(t, entryEl.Active)
				assert.True(t, entryEl.Focusable)
			}
			assert.Nil(t, node.Children[0].Style, "document must not be modified")
		})
	}
}

func TestEntryActiveRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		route string
		path  string
		props theme.Props
		want  bool
	}{
		{route: "/", path: "/", want: true},
		{route: "", path: "/", want: true},
		{route: "/library", path: "/", want: false},
		{route: "/library/detail", path: "/library", want: true},
		{route: "/settings", path: "/library", want: false},
		{route: "/settings", path: "/library", props: theme.Props{"autoActive": false, "active": true}, want: true},
	}
	for _, tt := range tests {
		props := theme.Props{}
		for k, v := range tt.props {
			props[k] = v
		}
		assert.Equal(t, tt.want, entryActive(tt.route, tt.path, props), "route %q path %q", tt.route, tt.path)
	}
}

func TestTitleModes(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	tests := []struct {
		props theme.Props
		want  string
	}{
		{props: theme.Props{}, want: "Steins;Gate"},
		{props: theme.Props{"mode": "time"}, want: "09:07:03"},
		{props: theme.Props{"mode": "time", "timeFormat": "HH:mm"}, want: "09:07"},
		{props: theme.Props{"mode": "greeting"}, want: "Good morning"},
		{props: theme.Props{"mode": "user"}, want: "aoi tachibana"},
		{props: theme.Props{"mode": "custom", "content": "Welcome"}, want: "Welcome"},
		{props: theme.Props{"mode": "bind", "path": "$.games[0].developer"}, want: "KID"},
		{props: theme.Props{"mode": "bind", "path": "$.nope", "content": "n/a"}, want: "n/a"},
	}
	for _, tt := range tests {
		el := r.Render(context.Background(), &theme.Node{ID: "t", Type: "title", Props: tt.props})
		assert.Equal(t, tt.want, el.Text, "props %v", tt.props)
	}
}

func TestTitleVariantStyleYieldsToAuthoredStyle(t *testing.T) {
	t.Parallel()

	el := newRenderer(t).Render(context.Background(), &theme.Node{
		ID: "t", Type: "title",
		Props: theme.Props{"variant": "neon", "mode": "custom", "content": "x"},
		Style: theme.Style{"color": "red"},
	})
	assert.Equal(t, "Neon", el.Attrs["variant"])
	assert.Equal(t, "red", el.Style["color"])
	assert.Equal(t, "bold", el.Style["fontWeight"])
}

func TestDescriptionSanitizesAndConvertsHTML(t *testing.T) {
	t.Parallel()

	el := newRenderer(t).Render(context.Background(), &theme.Node{ID: "d", Type: "description"})
	assert.Equal(t, "html", el.Attrs["format"])
	assert.Contains(t, el.Text, "visual novel")
	assert.Contains(t, el.Text, "time travel")
	assert.NotContains(t, el.Text, "<p>")
	assert.NotContains(t, el.Text, "alert(1)")
}

func TestDescriptionPlainModes(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	dev := r.Render(context.Background(), &theme.Node{ID: "d", Type: "description", Props: theme.Props{"mode": "developer"}})
	assert.Equal(t, "5pb.", dev.Text)

	clamped := r.Render(context.Background(), &theme.Node{ID: "d", Type: "description", Props: theme.Props{
		"mode": "custom", "content": "one\ntwo\nthree", "lineClamp": 2,
	}})
	assert.Equal(t, "one\ntwo…", clamped.Text)
}

func TestAvatarAndInitials(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AT", Initials("aoi tachibana"))
	assert.Equal(t, "M", Initials("  mayuri "))
	assert.Equal(t, "?", Initials(""))
	assert.Equal(t, "ÉL", Initials("élise lune moon"))

	el := newRenderer(t).Render(context.Background(), &theme.Node{ID: "a", Type: "avatar"})
	assert.Equal(t, "AT", el.Text)
}

func TestWindowToggleIconFollowsWindowState(t *testing.T) {
	t.Parallel()

	el := newRenderer(t).Render(context.Background(), &theme.Node{ID: "w", Type: "windowtoggleicon"})
	assert.Equal(t, "minimize-2", el.Attrs["name"])
	assert.Equal(t, "true", el.Attrs["maximized"])
	assert.Equal(t, Glyph("minimize-2"), el.Text)
	assert.Equal(t, "•", Glyph("no-such-icon"))
}

func TestGameShelfAndBackground(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	shelf := r.Render(context.Background(), &theme.Node{ID: "s", Type: "gameshelf", Props: theme.Props{"columns": 2}})
	require.Len(t, shelf.Children, 2)
	assert.False(t, shelf.Children[0].Active)
	assert.True(t, shelf.Children[1].Active)
	assert.Equal(t, "repeat(2, minmax(0, 1fr))", shelf.Style["gridTemplateColumns"])

	bg := r.Render(context.Background(), &theme.Node{ID: "b", Type: "background"})
	assert.Equal(t, "covers/sg.png", bg.Attrs["src"])

	static := r.Render(context.Background(), &theme.Node{ID: "b", Type: "background", Props: theme.Props{
		"sourceType": "static", "sourceValue": "bg.jpg", "opacity": 0.5,
	}})
	assert.Equal(t, "bg.jpg", static.Attrs["src"])
	assert.Equal(t, 0.5, static.Style["opacity"])
}

func TestPageWidgetRendersActiveRoute(t *testing.T) {
	t.Parallel()

	doc := &theme.Document{Layout: theme.Layout{
		Global: &theme.Node{ID: "shell", Type: "row", Children: []*theme.Node{
			sidebarTree("NormalFixed"),
			{ID: "main", Type: "page"},
		}},
		Pages: map[string]theme.PageConfig{
			"library": {Content: &theme.Node{ID: "shelf", Type: "gameshelf"}},
		},
	}}

	el := newRenderer(t).RenderDocument(context.Background(), doc, render.Inherited{Route: "/library"})
	main := el.Find("main")
	require.NotNil(t, main)
	assert.Equal(t, "library", main.Attrs["route"])
	require.NotNil(t, main.Find("shelf"))
	assert.False(t, main.Find("shelf").Children[0].Active)
}
