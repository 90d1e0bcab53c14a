package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "font-size", want: "fontSize"},
		{in: "background-color", want: "backgroundColor"},
		{in: "grid-template-columns", want: "gridTemplateColumns"},
		{in: "-webkit-mask-image", want: "WebkitMaskImage"},
		{in: "fontSize", want: "fontSize"},
		{in: "opacity", want: "opacity"},
		{in: "--accent-color", want: "--accent-color"},
		{in: "margin-1", want: "margin-1"},
		{in: "a-B", want: "a-B"},
		{in: "trailing-", want: "trailing-"},
		{in: "", want: ""},
		{in: "z-index", want: "zIndex"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got := NormalizeKey(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeKey(got), "normalizing twice must be stable")
		})
	}
}

func TestNormalizeStyleScenario(t *testing.T) {
	t.Parallel()

	got := NormalizeStyle(Style{"font-size": "14px", "background-color": "red"})
	require.Equal(t, Style{"fontSize": "14px", "backgroundColor": "red"}, got)
}

func TestNormalizeStyleKeepsValuesAndUnknownKeys(t *testing.T) {
	t.Parallel()

	nested := map[string]interface{}{"inner-key": 1}
	got := NormalizeStyle(Style{"x-offset": 3, "weird$key": "v", "shadow": nested})

	require.Equal(t, 3, got["xOffset"])
	require.Equal(t, "v", got["weird$key"])
	require.Equal(t, nested, got["shadow"])
}

func TestNormalizeStyleAuthoredCamelCaseWins(t *testing.T) {
	t.Parallel()

	got := NormalizeStyle(Style{"font-size": "10px", "fontSize": "12px"})
	require.Equal(t, Style{"fontSize": "12px"}, got)
}

func TestNormalizeRecursesAndIsPure(t *testing.T) {
	t.Parallel()

	root := &Node{
		ID:    "root",
		Type:  "mystery",
		Style: Style{"padding-top": 1},
		Children: []*Node{
			{ID: "a", Type: "sidebar", Style: Style{"border-left-width": 2}, Children: []*Node{
				{ID: "b", Style: Style{"line-height": "1.2"}},
			}},
		},
	}

	out := Normalize(root)

	require.True(t, IsNormalized(out))
	require.Equal(t, Style{"paddingTop": 1}, out.Style)
	require.Equal(t, Style{"borderLeftWidth": 2}, out.Children[0].Style)
	require.Equal(t, Style{"lineHeight": "1.2"}, out.Children[0].Children[0].Style)

	require.False(t, IsNormalized(root), "input tree must not be modified")
	require.Equal(t, Style{"padding-top": 1}, root.Style)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	root := &Node{ID: "1", Style: Style{"font-size": "14px", "fontWeight": 700}, Children: []*Node{
		{ID: "2", Style: Style{"margin-left": "2px"}},
	}}

	once := Normalize(root)
	twice := Normalize(once)
	require.Equal(t, once, twice)
}

func TestNormalizeNil(t *testing.T) {
	t.Parallel()

	require.Nil(t, Normalize(nil))
	require.Nil(t, NormalizeDocument(nil))
	require.Nil(t, NormalizeStyle(nil))
}

func TestNormalizeDocument(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Config: MetaConfig{Version: "1.0.0", ThemeName: "default"},
		Layout: Layout{
			Global: &Node{ID: "shell", Style: Style{"min-height": "100vh"}},
			Pages: map[string]PageConfig{
				"library": {Name: "Library", Content: &Node{ID: "lib", Style: Style{"flex-grow": 1}}},
			},
		},
	}

	out := NormalizeDocument(doc)

	require.Equal(t, Style{"minHeight": "100vh"}, out.Layout.Global.Style)
	require.Equal(t, Style{"flexGrow": 1}, out.Layout.Pages["library"].Content.Style)
	require.Equal(t, Style{"min-height": "100vh"}, doc.Layout.Global.Style)
}
