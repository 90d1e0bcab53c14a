package system

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
)

type call struct {
	name string
	args []string
}

func recordingOpener(goos string) (*LinkOpener, *[]call) {
	var calls []call
	o := NewLinkOpener(func(_ context.Context, name string, args ...string) error {
		calls = append(calls, call{name: name, args: args})
		return nil
	}, nil)
	o.goos = goos
	return o, &calls
}

func TestOpenUsesPlatformHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos string
		want call
	}{
		{"linux", call{"xdg-open", []string{"https://example.com"}}},
		{"darwin", call{"open", []string{"https://example.com"}}},
		{"windows", call{"rundll32", []string{"url.dll,FileProtocolHandler", "https://example.com"}}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			t.Parallel()

			o, calls := recordingOpener(tt.goos)
			require.NoError(t, o.Open(context.Background(), "https://example.com"))
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.want, (*calls)[0])
		})
	}
}

func TestOpenRejectsUnsupportedSchemes(t *testing.T) {
	t.Parallel()

	o, calls := recordingOpener("linux")
	for _, uri := range []string{"file:///etc/passwd", "javascript:alert(1)", "steam://run/1"} {
		err := o.Open(context.Background(), uri)
		require.ErrorIs(t, err, ErrUnsupportedScheme, uri)
	}
	assert.Empty(t, *calls)

	require.NoError(t, o.Open(context.Background(), "mailto:team@example.com"))
	assert.Len(t, *calls, 1)
}

func TestOpenUnknownPlatform(t *testing.T) {
	t.Parallel()

	o, _ := recordingOpener("plan9")
	require.ErrorIs(t, o.Open(context.Background(), "https://example.com"), ErrNoOpener)
}

func TestWindowState(t *testing.T) {
	t.Parallel()

	var exits []ports.WindowOp
	w := NewWindow(func(op ports.WindowOp) { exits = append(exits, op) }, nil)
	ctx := context.Background()

	assert.False(t, w.IsMaximized())
	require.NoError(t, w.Apply(ctx, ports.WindowToggle))
	assert.True(t, w.IsMaximized())
	require.NoError(t, w.Apply(ctx, ports.WindowMaximize))
	assert.True(t, w.IsMaximized())
	require.NoError(t, w.Apply(ctx, ports.WindowUnmaximize))
	assert.False(t, w.IsMaximized())

	require.NoError(t, w.Apply(ctx, ports.WindowClose))
	require.NoError(t, w.Apply(ctx, ports.WindowMinimize))
	assert.Equal(t, []ports.WindowOp{ports.WindowClose, ports.WindowMinimize}, exits)

	require.Error(t, w.Apply(ctx, ports.WindowOp("spin")))
}
