// Package logger writes the HTTP server's access log with zerolog.
package logger

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Options describes access logger configuration.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
}

// Logger is a small zerolog wrapper for request logging.
type Logger struct {
	base zerolog.Logger
}

// New creates a Logger. Output is JSON lines unless HumanReadable is set.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	var output io.Writer = writer
	if opts.HumanReadable {
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	}

	return &Logger{base: zerolog.New(output).Level(level).With().Timestamp().Logger()}, nil
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}
	builder := l.base.With()
	for key, value := range fields {
		builder = builder.Interface(key, value)
	}
	return &Logger{base: builder.Logger()}
}

// Info writes an informational entry.
func (l *Logger) Info(msg string) {
	if l == nil {
		return
	}
	l.base.Info().Msg(msg)
}

// Error writes an error entry.
func (l *Logger) Error(err error, msg string) {
	if l == nil {
		return
	}
	event := l.base.Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(msg)
}

// Request is one completed HTTP request.
type Request struct {
	Method    string
	Path      string
	Status    int
	Bytes     int
	Duration  time.Duration
	RequestID string
	Remote    string
}

// Access writes one access log line. 5xx responses log at error level,
// 4xx at warn.
func (l *Logger) Access(r Request) {
	if l == nil {
		return
	}
	var event *zerolog.Event
	switch {
	case r.Status >= 500:
		event = l.base.Error()
	case r.Status >= 400:
		event = l.base.Warn()
	default:
		event = l.base.Info()
	}
	event.
		Str("method", r.Method).
		Str("path", r.Path).
		Int("status", r.Status).
		Int("bytes", r.Bytes).
		Dur("duration", r.Duration).
		Str("request_id", r.RequestID).
		Str("remote", r.Remote).
		Msg("request")
}

// Middleware logs every request handled by next. It reads the request id set
// by chi's RequestID middleware when present.
func (l *Logger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			l.Access(Request{
				Method:    req.Method,
				Path:      req.URL.Path,
				Status:    status,
				Bytes:     ww.BytesWritten(),
				Duration:  time.Since(start),
				RequestID: middleware.GetReqID(req.Context()),
				Remote:    req.RemoteAddr,
			})
		}()
		next.ServeHTTP(ww, req)
	})
}
