package logging

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
)

// Level names used by recorded entries.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

const defaultRecorderLimit = 1000

// Entry is one recorded log call.
type Entry struct {
	Level   string
	Message string
	Fields  map[string]interface{}

	ctx    context.Context
	fields []interface{}
}

// Field returns the string form of a field, or "".
func (e Entry) Field(key string) string {
	v, ok := e.Fields[key]
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

type recorderBuffer struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
}

// Recorder is a ports.Logger that keeps entries in memory. The CLI uses it to
// hold entries emitted before configuration is loaded and replays them with
// Flush; tests use it to assert on what was logged. Once the limit is
// reached the oldest entries are dropped.
type Recorder struct {
	buf    *recorderBuffer
	fields []interface{}
}

// NewRecorder creates a recorder keeping at most limit entries (1000 when
// limit <= 0).
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = defaultRecorderLimit
	}
	return &Recorder{buf: &recorderBuffer{limit: limit}}
}

// Debug records a debug entry.
func (r *Recorder) Debug(ctx context.Context, msg string, fields ...interface{}) {
	r.record(ctx, LevelDebug, msg, fields)
}

// Info records an info entry.
func (r *Recorder) Info(ctx context.Context, msg string, fields ...interface{}) {
	r.record(ctx, LevelInfo, msg, fields)
}

// Warn records a warning entry.
func (r *Recorder) Warn(ctx context.Context, msg string, fields ...interface{}) {
	r.record(ctx, LevelWarn, msg, fields)
}

// Error records an error entry.
func (r *Recorder) Error(ctx context.Context, msg string, fields ...interface{}) {
	r.record(ctx, LevelError, msg, fields)
}

// With returns a recorder sharing the buffer with extra persistent fields.
func (r *Recorder) With(fields ...interface{}) ports.Logger {
	next := append(append([]interface{}{}, r.fields...), fields...)
	return &Recorder{buf: r.buf, fields: next}
}

func (r *Recorder) record(ctx context.Context, level, msg string, fields []interface{}) {
	if r == nil || r.buf == nil {
		return
	}
	own := mergeFields(r.fields, fields)
	pairs := append([]interface{}{}, own...)
	if id := ports.GetCorrelationID(ctx); id != "" {
		pairs = append(pairs, "correlation_id", id)
	}
	asMap := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		asMap[pairs[i].(string)] = pairs[i+1]
	}

	entry := Entry{Level: level, Message: msg, Fields: asMap, ctx: ctx, fields: own}

	r.buf.mu.Lock()
	defer r.buf.mu.Unlock()
	if len(r.buf.entries) == r.buf.limit {
		copy(r.buf.entries, r.buf.entries[1:])
		r.buf.entries[len(r.buf.entries)-1] = entry
		return
	}
	r.buf.entries = append(r.buf.entries, entry)
}

// Entries returns a copy of the recorded entries in order.
func (r *Recorder) Entries() []Entry {
	r.buf.mu.Lock()
	defer r.buf.mu.Unlock()
	out := make([]Entry, len(r.buf.entries))
	copy(out, r.buf.entries)
	return out
}

// Filter returns recorded entries at the given level.
func (r *Recorder) Filter(level string) []Entry {
	var out []Entry
	for _, entry := range r.Entries() {
		if entry.Level == level {
			out = append(out, entry)
		}
	}
	return out
}

// Contains reports whether an entry at level has a message containing substr.
func (r *Recorder) Contains(level, substr string) bool {
	for _, entry := range r.Filter(level) {
		if strings.Contains(entry.Message, substr) {
			return true
		}
	}
	return false
}

// Flush replays the recorded entries into delegate in order and clears the
// recorder.
func (r *Recorder) Flush(delegate ports.Logger) {
	if delegate == nil {
		return
	}
	r.buf.mu.Lock()
	entries := r.buf.entries
	r.buf.entries = nil
	r.buf.mu.Unlock()

	for _, entry := range entries {
		switch entry.Level {
		case LevelDebug:
			delegate.Debug(entry.ctx, entry.Message, entry.fields...)
		case LevelWarn:
			delegate.Warn(entry.ctx, entry.Message, entry.fields...)
		case LevelError:
			delegate.Error(entry.ctx, entry.Message, entry.fields...)
		default:
			delegate.Info(entry.ctx, entry.Message, entry.fields...)
		}
	}
}
