package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	cblog "github.com/charmbracelet/log"

	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
)

// Output formats accepted by Options.Format.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// Options configures the charmbracelet/log adapter.
type Options struct {
	Writer       io.Writer
	Level        string
	Format       string
	TimeFormat   string
	ReportCaller bool
	Layer        string
	Component    string
	Fields       map[string]interface{}
}

// Logger implements ports.Logger on top of charmbracelet/log.
type Logger struct {
	base   *cblog.Logger
	fields []interface{}
	layer  string
}

// New builds a Logger. Level and format names are case-insensitive.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := cblog.InfoLevel
	if opts.Level != "" {
		parsed, err := cblog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	formatter, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	base := cblog.NewWithOptions(writer, cblog.Options{
		Level:           level,
		TimeFormat:      opts.TimeFormat,
		ReportTimestamp: true,
		ReportCaller:    opts.ReportCaller,
		Formatter:       formatter,
		Fields:          sortedPairs(opts.Fields),
	})

	var fields []interface{}
	if opts.Component != "" {
		fields = append(fields, "component", opts.Component)
	}
	layer := opts.Layer
	if layer == "" {
		layer = "application"
	}

	return &Logger{base: base, fields: fields, layer: layer}, nil
}

// ParseFormat maps a format name onto a charmbracelet/log formatter. An empty
// name selects text.
func ParseFormat(name string) (cblog.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatText:
		return cblog.TextFormatter, nil
	case FormatJSON:
		return cblog.JSONFormatter, nil
	case FormatLogfmt:
		return cblog.LogfmtFormatter, nil
	default:
		return cblog.TextFormatter, fmt.Errorf("unknown log format %q", name)
	}
}

// Debug emits a debug entry.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.emit(ctx, cblog.DebugLevel, msg, fields)
}

// Info emits an info entry.
func (l *Logger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.emit(ctx, cblog.InfoLevel, msg, fields)
}

// Warn emits a warning entry.
func (l *Logger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.emit(ctx, cblog.WarnLevel, msg, fields)
}

// Error emits an error entry.
func (l *Logger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.emit(ctx, cblog.ErrorLevel, msg, fields)
}

// With derives a logger that adds fields to every entry. A "layer" field
// replaces the logger's layer instead of being duplicated.
func (l *Logger) With(fields ...interface{}) ports.Logger {
	if l == nil {
		return Discard()
	}
	next := &Logger{base: l.base, layer: l.layer}
	next.fields = append(next.fields, l.fields...)
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok && key == "layer" {
			next.layer = fmt.Sprint(fields[i+1])
			continue
		}
		next.fields = append(next.fields, fields[i], fields[i+1])
	}
	return next
}

func (l *Logger) emit(ctx context.Context, level cblog.Level, msg string, fields []interface{}) {
	if l == nil || l.base == nil {
		return
	}
	payload := mergeFields(l.fields, fields)
	payload = append(payload, "layer", l.layer)
	if id := ports.GetCorrelationID(ctx); id != "" {
		payload = append(payload, "correlation_id", id)
	}

	switch level {
	case cblog.DebugLevel:
		l.base.Debug(msg, payload...)
	case cblog.WarnLevel:
		l.base.Warn(msg, payload...)
	case cblog.ErrorLevel:
		l.base.Error(msg, payload...)
	default:
		l.base.Info(msg, payload...)
	}
}

// mergeFields flattens key/value lists; later values for a key replace
// earlier ones but keep the first position. Non-string keys are dropped.
func mergeFields(lists ...[]interface{}) []interface{} {
	values := make(map[string]interface{})
	var order []string
	for _, list := range lists {
		for i := 0; i+1 < len(list); i += 2 {
			key, ok := list[i].(string)
			if !ok || key == "" {
				continue
			}
			if _, seen := values[key]; !seen {
				order = append(order, key)
			}
			values[key] = list[i+1]
		}
	}
	out := make([]interface{}, 0, len(order)*2)
	for _, key := range order {
		out = append(out, key, values[key])
	}
	return out
}

func sortedPairs(input map[string]interface{}) []interface{} {
	if len(input) == 0 {
		return nil
	}
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		out = append(out, k, input[k])
	}
	return out
}

type discard struct{}

func (discard) Debug(context.Context, string, ...interface{}) {}
func (discard) Info(context.Context, string, ...interface{})  {}
func (discard) Warn(context.Context, string, ...interface{})  {}
func (discard) Error(context.Context, string, ...interface{}) {}
func (d discard) With(...interface{}) ports.Logger             { return d }

// Discard returns a logger that drops every entry.
func Discard() ports.Logger {
	return discard{}
}
