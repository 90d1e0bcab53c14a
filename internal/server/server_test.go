package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/themesource"
	"github.com/alexisbeaulieu97/gameshelf/internal/session"
)

const neonTheme = `{
  "config": {"version": "1.0.0", "themeName": "neon"},
  "layout": {"global": {"id": "root", "nt": "row", "props": {"cols": 4}, "children": [{"nt": "col"}]}}
}`

func newTestServer(t *testing.T) (*Server, *themesource.Directory, *logging.Recorder) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "neon.json"), []byte(neonTheme), 0o644))
	dir := themesource.NewDirectory(root, "", nil)
	rec := logging.NewRecorder(0)

	snap := &session.Snapshot{
		SelectedGameID: "g2",
		Games:          []session.Game{{ID: "g1", Name: "Hollow"}, {ID: "g2", Name: "Celeste"}},
	}
	srv := New(Options{
		Catalog: dir,
		Session: func() *session.Snapshot { return snap },
		Logger:  rec,
	})
	return srv, dir, rec
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body == nil {
		req.ContentLength = 0
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestListThemes(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	rr := do(t, srv.Handler(), http.MethodGet, "/api/themes", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	body := decode(t, rr)
	assert.Equal(t, []interface{}{"default", "neon"}, body["themes"])
	assert.Equal(t, themesource.DefaultTheme, body["active"])
}

func TestActiveThemeIsServedCompiled(t *testing.T) {
	t.Parallel()

	srv, dir, _ := newTestServer(t)
	dir.SetActive("neon")
	rr := do(t, srv.Handler(), http.MethodGet, "/api/theme", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "0", rr.Header().Get(IssuesHeader))

	doc, err := theme.ParseDocument("theme.json", rr.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "neon", doc.Config.ThemeName)
	col := doc.Layout.Global.Children[0]
	assert.NotEmpty(t, col.ID, "compiled documents carry ids")
	assert.NotEmpty(t, col.Style, "grid placement is filled in")
}

func TestThemeByName(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	rr := do(t, h, http.MethodGet, "/api/themes/default", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/themes/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, decode(t, rr)["error"], "theme not found")
}

func TestInvokeCommands(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	rr := do(t, h, http.MethodPost, "/api/invoke/ping", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", decode(t, rr)["result"])

	rr = do(t, h, http.MethodPost, "/api/invoke/launch_game", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]interface{}{"launched": "g2"}, decode(t, rr)["result"])

	rr = do(t, h, http.MethodPost, "/api/invoke/launch_game", map[string]interface{}{"id": "g1"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]interface{}{"launched": "g1"}, decode(t, rr)["result"])

	rr = do(t, h, http.MethodPost, "/api/invoke/launch_game", map[string]interface{}{"id": "nope"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/invoke/get_session", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	result := decode(t, rr)["result"].(map[string]interface{})
	assert.Equal(t, "g2", result["selectedGameId"])
}

func TestInvokeUnknownCommand(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	rr := do(t, srv.Handler(), http.MethodPost, "/api/invoke/self_destruct", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, decode(t, rr)["error"], "unknown command")
}

func TestInvokeRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/invoke/ping", bytes.NewBufferString("{nope"))
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSetActiveTheme(t *testing.T) {
	t.Parallel()

	srv, dir, rec := newTestServer(t)
	var changed string
	srv.opts.OnThemeChange = func(_ context.Context, name string) { changed = name }
	h := srv.Handler()

	rr := do(t, h, http.MethodPost, "/api/invoke/set_active_theme", map[string]interface{}{"name": "neon"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "neon", dir.Active())
	assert.Equal(t, "neon", changed)
	assert.True(t, rec.Contains(logging.LevelInfo, "active theme changed"))

	rr = do(t, h, http.MethodPost, "/api/invoke/set_active_theme", map[string]interface{}{"name": "ghost"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "neon", dir.Active())

	rr = do(t, h, http.MethodPost, "/api/invoke/set_active_theme", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleRegistersExtraCommand(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	srv.Handle("echo", func(_ context.Context, args map[string]interface{}) (interface{}, error) {
		return args["msg"], nil
	})
	assert.Contains(t, srv.Commands(), "echo")

	rr := do(t, srv.Handler(), http.MethodPost, "/api/invoke/echo", map[string]interface{}{"msg": "hi"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hi", decode(t, rr)["result"])
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	require.NoError(t, <-done)
}

func TestInvokeInProcess(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	result, err := srv.Invoke(context.Background(), "ping", nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", result)

	_, err = srv.Invoke(context.Background(), "nope", nil)
	require.ErrorIs(t, err, ErrUnknownCommand)
}
