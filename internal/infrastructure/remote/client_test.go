package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/themesource"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
	"github.com/alexisbeaulieu97/gameshelf/internal/server"
	"github.com/alexisbeaulieu97/gameshelf/internal/session"
	gserrors "github.com/alexisbeaulieu97/gameshelf/pkg/errors"
)

func startServer(t *testing.T) (*httptest.Server, *server.Server) {
	t.Helper()

	dir := themesource.NewDirectory(t.TempDir(), "", nil)
	snap := &session.Snapshot{Games: []session.Game{{ID: "g1", Name: "Hollow"}}}
	srv := server.New(server.Options{
		Catalog: dir,
		Session: func() *session.Snapshot { return snap },
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, srv
}

func TestNewRejectsBadEndpoint(t *testing.T) {
	t.Parallel()

	_, err := New("ftp://example.com")
	require.Error(t, err)
	_, err = New("://")
	require.Error(t, err)

	c, err := New("http://127.0.0.1:7420/")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:7420", c.Endpoint())
}

func TestFetchThemeFromServer(t *testing.T) {
	t.Parallel()

	ts, _ := startServer(t)
	c, err := New(ts.URL)
	require.NoError(t, err)

	doc, err := c.FetchTheme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, themesource.DefaultTheme, doc.Config.ThemeName)
	assert.NotNil(t, doc.Layout.Pages["index"].Content.Find("play-icon"))
}

func TestFetchThemeStatusError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)
	_, err = c.FetchTheme(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Status)
	assert.Equal(t, "down for maintenance", statusErr.Message)
}

func TestFetchThemeMalformedBodyIsParseError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"layout": [`))
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)
	_, err = c.FetchTheme(context.Background())

	var parseErr *gserrors.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestInvokeRoundTrip(t *testing.T) {
	t.Parallel()

	ts, srv := startServer(t)
	var seen string
	srv.Handle("whoami", func(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
		seen = ports.GetCorrelationID(ctx)
		return "gameshelf", nil
	})

	c, err := New(ts.URL)
	require.NoError(t, err)
	ctx := ports.WithCorrelationID(context.Background(), "abc-123")

	result, err := c.Invoke(ctx, "whoami", nil)
	require.NoError(t, err)
	assert.Equal(t, "gameshelf", result)
	assert.Equal(t, "abc-123", seen)

	result, err = c.Invoke(ctx, "launch_game", map[string]interface{}{"id": "g1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"launched": "g1"}, result)
}

func TestInvokeErrors(t *testing.T) {
	t.Parallel()

	ts, _ := startServer(t)
	c, err := New(ts.URL)
	require.NoError(t, err)

	_, err = c.Invoke(context.Background(), "", nil)
	require.Error(t, err)

	_, err = c.Invoke(context.Background(), "self_destruct", nil)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
	assert.Contains(t, statusErr.Message, "unknown command")
}

func TestInvokeHonorsContext(t *testing.T) {
	t.Parallel()

	ts, _ := startServer(t)
	c, err := New(ts.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Invoke(ctx, "ping", nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClientFeedsDirectoryThemes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	neon := `{"config": {"version": "1.0.0", "themeName": "neon"}, "layout": {"global": {"id": "root"}}}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "neon.json"), []byte(neon), 0o644))
	srv := server.New(server.Options{Catalog: themesource.NewDirectory(root, "neon", nil)})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)
	doc, err := c.FetchTheme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "neon", doc.Config.ThemeName)
	assert.Equal(t, "root", doc.Layout.Global.ID)
}
