package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
	gserrors "github.com/alexisbeaulieu97/gameshelf/pkg/errors"
)

// scriptedFetcher returns the queued results in order, repeating the last.
type scriptedFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
}

type fetchResult struct {
	doc *theme.Document
	err error
}

func (f *scriptedFetcher) FetchTheme(context.Context) (*theme.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.calls++
	return f.results[i].doc, f.results[i].err
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sampleDocument(name string) *theme.Document {
	return &theme.Document{
		Config: theme.MetaConfig{Version: "1.0.0", ThemeName: name},
		Layout: theme.Layout{
			Global: &theme.Node{ID: "shell", Type: "row", Props: theme.Props{"cols": 2},
				Style: theme.Style{"background-color": "red", "font-size": "14px"},
				Children: []*theme.Node{
					{ID: "side", Type: "sidebar", Style: theme.Style{"border-right": "1px solid"}},
					{ID: "main", Type: "page"},
				}},
			Pages: map[string]theme.PageConfig{
				"index": {Content: &theme.Node{ID: "home", Type: "title", Style: theme.Style{"text-align": "center"}}},
			},
		},
	}
}

type recordedSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordedSleep) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

func TestStoreBecomesReadyWithNormalizedDocument(t *testing.T) {
	t.Parallel()

	source := sampleDocument("neon")
	s := New(&scriptedFetcher{results: []fetchResult{{doc: source}}}, Options{})

	before := s.Snapshot()
	assert.False(t, before.Ready())
	assert.Equal(t, Uninitialized, before.State)
	assert.Nil(t, before.Document)

	require.NoError(t, s.Load(context.Background()))

	snap := s.Snapshot()
	require.True(t, snap.Ready())
	assert.Equal(t, 1, snap.Version)
	for _, root := range snap.Document.Roots() {
		assert.True(t, theme.IsNormalized(root))
	}
	assert.Equal(t, "red", snap.Document.Layout.Global.Style["backgroundColor"])
	assert.Equal(t, "grid", snap.Document.Layout.Global.Style["display"])
	assert.Contains(t, snap.Document.Layout.Global.Style, "gridTemplateColumns")
	assert.Equal(t, "center", snap.Document.Layout.Pages["index"].Content.Style["textAlign"])

	assert.Equal(t, "red", source.Layout.Global.Style["background-color"], "fetched document is not mutated")
}

func TestStoreRetriesWithBackoffThenSucceeds(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{results: []fetchResult{
		{err: errors.New("connection refused")},
		{err: errors.New("connection refused")},
		{doc: sampleDocument("neon")},
	}}
	sleeper := &recordedSleep{}
	s := New(fetcher, Options{Attempts: 3, Backoff: 100 * time.Millisecond, Sleep: sleeper.sleep})

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 3, fetcher.Calls())
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, sleeper.delays)
	assert.True(t, s.Ready())
}

func TestStoreEntersErrorAfterLastAttempt(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{results: []fetchResult{{err: errors.New("boom")}}}
	sleeper := &recordedSleep{}
	rec := logging.NewRecorder(0)
	s := New(fetcher, Options{Attempts: 4, Backoff: 3 * time.Second, MaxBackoff: 5 * time.Second, Sleep: sleeper.sleep, Logger: rec})

	err := s.Load(context.Background())
	require.Error(t, err)

	var fetchErr *gserrors.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 4, fetchErr.Attempts)
	assert.Equal(t, 4, fetcher.Calls())
	assert.Equal(t, []time.Duration{3 * time.Second, 5 * time.Second, 5 * time.Second}, sleeper.delays)

	snap := s.Snapshot()
	assert.Equal(t, Error, snap.State)
	assert.False(t, snap.Ready())
	assert.ErrorIs(t, snap.Err, err)
	assert.True(t, rec.Contains(logging.LevelError, "theme load failed"))
}

func TestStoreDoesNotRetryParseErrors(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{results: []fetchResult{{err: gserrors.NewParseError("theme.yaml", 3, errors.New("bad indent"))}}}
	s := New(fetcher, Options{Attempts: 3, Sleep: (&recordedSleep{}).sleep})

	require.Error(t, s.Load(context.Background()))
	assert.Equal(t, 1, fetcher.Calls())
}

func TestStoreStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{results: []fetchResult{{err: errors.New("slow")}}}
	ctx, cancel := context.WithCancel(context.Background())
	s := New(fetcher, Options{Attempts: 5, Sleep: func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}})

	err := s.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fetcher.Calls())
}

func TestReloadFailureKeepsPreviousDocument(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{results: []fetchResult{
		{doc: sampleDocument("first")},
		{err: errors.New("gone")},
		{doc: sampleDocument("second")},
	}}
	s := New(fetcher, Options{Attempts: 1})

	require.NoError(t, s.Load(context.Background()))
	require.Error(t, s.Reload(context.Background()))

	snap := s.Snapshot()
	assert.True(t, snap.Ready())
	assert.Equal(t, "first", snap.Document.Config.ThemeName)
	assert.Error(t, snap.Err)
	assert.Equal(t, 1, snap.Version)

	require.NoError(t, s.Reload(context.Background()))
	snap = s.Snapshot()
	assert.Equal(t, "second", snap.Document.Config.ThemeName)
	assert.NoError(t, snap.Err)
	assert.Equal(t, 2, snap.Version)
}

func TestStrictModeRejectsErrorIssues(t *testing.T) {
	t.Parallel()

	doc := sampleDocument("strict")
	doc.Config.Version = "3.0.0"

	lenient := New(&scriptedFetcher{results: []fetchResult{{doc: doc}}}, Options{})
	require.NoError(t, lenient.Load(context.Background()))
	assert.True(t, lenient.Snapshot().Issues.HasErrors())

	strict := New(&scriptedFetcher{results: []fetchResult{{doc: doc}}}, Options{Strict: true})
	err := strict.Load(context.Background())
	require.ErrorIs(t, err, ErrStrictIssues)
	assert.Equal(t, Error, strict.Snapshot().State)
	assert.NotEmpty(t, strict.Snapshot().Issues)
}

func TestSubscribersSeeStateChanges(t *testing.T) {
	t.Parallel()

	s := New(&scriptedFetcher{results: []fetchResult{{doc: sampleDocument("neon")}}}, Options{})
	ch, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.Load(context.Background()))

	select {
	case snap := <-ch:
		assert.Equal(t, Ready, snap.State)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	cancel()
	cancel()
}

func TestStorePublishesLifecycleEvents(t *testing.T) {
	t.Parallel()

	bus := events.NewLoggingPublisher(nil)
	var mu sync.Mutex
	var types []string
	_, err := bus.Subscribe(events.AllEvents, func(_ context.Context, e ports.DomainEvent) error {
		mu.Lock()
		defer mu.Unlock()
		types = append(types, e.EventType())
		return nil
	})
	require.NoError(t, err)

	doc := sampleDocument("events")
	doc.Layout.Pages["index"].Content.Children = []*theme.Node{{ID: "dup"}, {ID: "dup"}}

	s := New(&scriptedFetcher{results: []fetchResult{{doc: doc}}}, Options{Events: bus})
	require.NoError(t, s.Load(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{ports.EventThemeLoading, ports.EventThemeIssue, ports.EventThemeReady}, types)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "state(9)", State(9).String())
}
