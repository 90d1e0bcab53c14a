// Package store holds the active theme document and its lifecycle.
//
// A Store starts Uninitialized, moves to Loading on the first Load, and ends
// in Ready or Error. Documents are compiled and normalized exactly once
// before they are published; published documents are never mutated.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
	gserrors "github.com/alexisbeaulieu97/gameshelf/pkg/errors"
)

// State is the lifecycle position of a Store.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
	Error
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Defaults for the fetch retry policy.
const (
	DefaultAttempts   = 3
	DefaultBackoff    = 250 * time.Millisecond
	DefaultMaxBackoff = 5 * time.Second
)

// ErrStrictIssues is wrapped by load errors caused by compile issues in
// strict mode.
var ErrStrictIssues = errors.New("theme has error issues")

// Snapshot is an immutable view of the store. Document is nil until the
// first successful load. After a failed reload Err is set while State stays
// Ready and Document keeps the previous document.
type Snapshot struct {
	State     State
	Document  *theme.Document
	Err       error
	Version   int
	Issues    theme.Issues
	UpdatedAt time.Time
}

// Ready reports whether a document is available for rendering.
func (s Snapshot) Ready() bool {
	return s.State == Ready && s.Document != nil
}

// Options configures a Store.
type Options struct {
	Attempts   int
	Backoff    time.Duration
	MaxBackoff time.Duration
	Strict     bool
	Compile    theme.CompileOptions
	Logger     ports.Logger
	Events     ports.EventPublisher
	// Sleep waits between attempts. It must return early with ctx.Err()
	// when ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Attempts <= 0 {
		o.Attempts = DefaultAttempts
	}
	if o.Backoff <= 0 {
		o.Backoff = DefaultBackoff
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = DefaultMaxBackoff
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Store owns the active document. It is safe for concurrent use.
type Store struct {
	fetcher ports.ThemeFetcher
	opts    Options
	logger  ports.Logger

	loadMu sync.Mutex

	mu     sync.RWMutex
	snap   Snapshot
	subs   map[int]chan Snapshot
	nextID int
}

// New creates an uninitialized store reading from fetcher.
func New(fetcher ports.ThemeFetcher, opts Options) *Store {
	opts = opts.withDefaults()
	return &Store{
		fetcher: fetcher,
		opts:    opts,
		logger:  opts.Logger.With("component", "store"),
		subs:    make(map[int]chan Snapshot),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Ready reports whether a document is available.
func (s *Store) Ready() bool {
	return s.Snapshot().Ready()
}

// Subscribe returns a channel receiving every later snapshot and a cancel
// function. Slow receivers only see the latest snapshot.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Load fetches, compiles and normalizes the document. Fetch failures are
// retried with exponential backoff. When every attempt fails the store moves
// to Error unless it already holds a document.
func (s *Store) Load(ctx context.Context) error {
	return s.load(ctx, "load")
}

// Reload replaces the document. On failure the previous document stays
// published and the error is recorded.
func (s *Store) Reload(ctx context.Context) error {
	return s.load(ctx, "reload")
}

func (s *Store) load(ctx context.Context, reason string) error {
	if s.fetcher == nil {
		return errors.New("store has no theme fetcher")
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	ctx = ports.EnsureCorrelationID(ctx)
	s.update(func(snap *Snapshot) {
		if snap.Document == nil {
			snap.State = Loading
		}
	})
	s.publish(ctx, ports.NewEvent(ports.EventThemeLoading, "reason", reason))
	s.logger.Info(ctx, "loading theme", "reason", reason)

	doc, issues, err := s.fetchAndPrepare(ctx)
	if err != nil {
		s.fail(ctx, reason, issues, err)
		return err
	}

	var version int
	s.update(func(snap *Snapshot) {
		snap.State = Ready
		snap.Document = doc
		snap.Err = nil
		snap.Issues = issues
		snap.Version++
		version = snap.Version
	})
	s.logger.Info(ctx, "theme ready", "theme", doc.Config.ThemeName, "version", version, "issues", len(issues))
	s.publish(ctx, ports.NewEvent(ports.EventThemeReady, "theme", doc.Config.ThemeName, "version", version))
	return nil
}

func (s *Store) fail(ctx context.Context, reason string, issues theme.Issues, err error) {
	var state State
	s.update(func(snap *Snapshot) {
		snap.Err = err
		if snap.Document == nil {
			snap.State = Error
			snap.Issues = issues
		}
		state = snap.State
	})
	s.logger.Error(ctx, "theme load failed", "reason", reason, "state", state.String(), "error", err)
	s.publish(ctx, ports.NewEvent(ports.EventThemeFailed, "reason", reason, "error", err.Error()))
}

func (s *Store) fetchAndPrepare(ctx context.Context) (*theme.Document, theme.Issues, error) {
	raw, err := s.fetch(ctx)
	if err != nil {
		return nil, nil, err
	}

	compiled, issues := theme.Compile(raw, s.opts.Compile)
	for _, issue := range issues {
		s.logger.Warn(ctx, "theme issue", "severity", string(issue.Severity), "code", issue.Code,
			"node_id", issue.NodeID, "message", issue.Message)
		s.publish(ctx, ports.NewEvent(ports.EventThemeIssue, "severity", string(issue.Severity),
			"code", issue.Code, "node_id", issue.NodeID))
	}
	if s.opts.Strict && issues.HasErrors() {
		return nil, issues, fmt.Errorf("%w: %w", ErrStrictIssues, issues.Err())
	}
	return theme.NormalizeDocument(compiled), issues, nil
}

// fetch runs the bounded retry loop.
func (s *Store) fetch(ctx context.Context) (*theme.Document, error) {
	delay := s.opts.Backoff
	var lastErr error
	for attempt := 1; attempt <= s.opts.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, gserrors.NewFetchError("theme", attempt-1, err)
		}
		doc, err := s.fetcher.FetchTheme(ctx)
		if err == nil && doc == nil {
			err = errors.New("fetcher returned no document")
		}
		if err == nil {
			return doc, nil
		}
		lastErr = err
		s.logger.Warn(ctx, "theme fetch failed", "attempt", attempt, "attempts", s.opts.Attempts, "error", err)

		var parseErr *gserrors.ParseError
		if errors.As(err, &parseErr) {
			return nil, gserrors.NewFetchError("theme", attempt, err)
		}
		if attempt == s.opts.Attempts {
			break
		}
		if err := s.opts.Sleep(ctx, delay); err != nil {
			return nil, gserrors.NewFetchError("theme", attempt, err)
		}
		delay *= 2
		if delay > s.opts.MaxBackoff {
			delay = s.opts.MaxBackoff
		}
	}
	return nil, gserrors.NewFetchError("theme", s.opts.Attempts, lastErr)
}

func (s *Store) update(fn func(*Snapshot)) {
	s.mu.Lock()
	fn(&s.snap)
	s.snap.UpdatedAt = s.opts.Now()
	snap := s.snap
	subs := make([]chan Snapshot, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Store) publish(ctx context.Context, event ports.DomainEvent) {
	if s.opts.Events == nil {
		return
	}
	_ = s.opts.Events.Publish(ctx, event)
}
