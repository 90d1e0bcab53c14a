package theme

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	gserrors "github.com/alexisbeaulieu97/gameshelf/pkg/errors"
)

const sampleJSON = `{
  "config": {"version": "1.0.0", "themeName": "neon", "variables": {"accent": "magenta"}},
  "layout": {
    "global": {
      "id": 1,
      "nt": "sidebar",
      "className": ["flex", "h-full"],
      "style": {"background-color": "black"},
      "children": [
        {"id": "2", "nt": "entry", "props": {"title": "Library", "path": "/library"},
         "action": {"command": "navigate", "props": {"destination": "/library"}}},
        {"id": "3", "nt": "appbutton",
         "actions": [{"command": "alert", "params": {"content": "hi"}}, "windowManage"]}
      ]
    },
    "pages": {
      "index": {"name": "Home", "content": {"id": "home", "nt": "title"}}
    }
  }
}`

const sampleYAML = `
config:
  version: 1.0.0
  themeName: neon
layout:
  global:
    nt: row
    className: grid  gap-2
    children:
      - nt: col
      - id: 7
        nt: title
        props:
          mode: time
  pages:
    library:
      name: Library
      content:
        nt: gameshelf
`

func TestParseDocumentJSON(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument("neon.json", []byte(sampleJSON))
	require.NoError(t, err)

	global := doc.Layout.Global
	require.Equal(t, "1", global.ID)
	require.Equal(t, "sidebar", global.Type)
	require.Equal(t, "flex h-full", global.ClassName)
	require.Equal(t, Style{"background-color": "black"}, global.Style)
	require.Len(t, global.Children, 2)

	entry := global.Children[0]
	require.Equal(t, []Action{{Command: "navigate", Params: map[string]interface{}{"destination": "/library"}}}, entry.Actions)
	require.Equal(t, "Library", entry.Props.String("title", ""))

	button := global.Children[1]
	require.Len(t, button.Actions, 2)
	require.Equal(t, "alert", button.Actions[0].Command)
	require.Equal(t, "hi", button.Actions[0].Param("content"))
	require.Equal(t, "windowManage", button.Actions[1].Command)

	page, ok := doc.Page("/")
	require.True(t, ok)
	require.Equal(t, "home", page.ID)
	require.Equal(t, "magenta", doc.Config.Variables["accent"])
}

func TestParseDocumentYAML(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument("neon.yaml", []byte(sampleYAML))
	require.NoError(t, err)

	global := doc.Layout.Global
	require.Equal(t, "row", global.Type)
	require.Equal(t, "grid gap-2", global.ClassName)
	require.Equal(t, "col", global.Children[0].Type)
	require.Equal(t, "7", global.Children[1].ID)
	require.Equal(t, "time", global.Children[1].Props.String("mode", ""))

	content, ok := doc.Page("/library/recent")
	require.True(t, ok)
	require.Equal(t, "gameshelf", content.Type)
}

func TestParseDocumentDefaultsNodeType(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument("t.json", []byte(`{"config":{"version":"1.0.0","themeName":"x"},"layout":{"global":{"id":"a"}}}`))
	require.NoError(t, err)
	require.Equal(t, DefaultNodeType, doc.Layout.Global.Type)
}

func TestParseDocumentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		data     string
		wantLine int
	}{
		{name: "json syntax", path: "bad.json", data: "{\n  \"config\": {\n    \"version\": ,\n  }\n}", wantLine: 3},
		{name: "yaml syntax", path: "bad.yaml", data: "config:\n  version: 1\n layout: ["},
		{name: "empty layout", path: "empty.json", data: `{"config":{"version":"1.0.0","themeName":"x"},"layout":{}}`},
		{name: "children not a list", path: "c.json", data: `{"layout":{"global":{"children":{"id":"x"}}}}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseDocument(tt.path, []byte(tt.data))
			require.Error(t, err)

			var parseErr *gserrors.ParseError
			require.ErrorAs(t, err, &parseErr)
			require.Equal(t, tt.path, parseErr.Path)
			if tt.wantLine > 0 {
				require.Equal(t, tt.wantLine, parseErr.Line)
			}
		})
	}
}

func TestDocumentJSONRoundTripKeepsShape(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument("neon.json", []byte(sampleJSON))
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	again, err := ParseDocument("again.json", data)
	require.NoError(t, err)
	require.Equal(t, doc, again)
}

func TestIsDocumentFile(t *testing.T) {
	t.Parallel()

	require.True(t, IsDocumentFile("themes/default.YAML"))
	require.True(t, IsDocumentFile("a.yml"))
	require.True(t, IsDocumentFile("a.json"))
	require.False(t, IsDocumentFile("a.json5"))
	require.False(t, IsDocumentFile("README.md"))
}
