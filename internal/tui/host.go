package tui

import (
	"sync"
	"time"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
)

// Alert is one message raised by an alert action.
type Alert struct {
	Seq     int
	Style   string
	Content string
	At      time.Time
}

// Host holds the state actions write into: the route, pending alerts and the
// exit request. It implements ports.Router and ports.Alerter. The shell
// model reads it after each dispatch.
type Host struct {
	mu      sync.Mutex
	route   string
	history []string
	alerts  []Alert
	seq     int
	exit    bool
	now     func() time.Time
}

// NewHost creates a host on the given route ("/" when empty).
func NewHost(route string) *Host {
	if route == "" {
		route = "/"
	}
	return &Host{route: route, now: time.Now}
}

// Navigate changes the route. Navigating to the current route is a no-op.
func (h *Host) Navigate(destination string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if destination == h.route {
		return
	}
	h.history = append(h.history, h.route)
	h.route = destination
}

// Back returns to the previous route and reports whether there was one.
func (h *Host) Back() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.history) == 0 {
		return false
	}
	h.route = h.history[len(h.history)-1]
	h.history = h.history[:len(h.history)-1]
	return true
}

// Current returns the active route.
func (h *Host) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.route
}

// RouteKey returns the page key of the active route.
func (h *Host) RouteKey() string {
	return theme.RouteKey(h.Current())
}

// Alert queues a message.
func (h *Host) Alert(style, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	h.alerts = append(h.alerts, Alert{Seq: h.seq, Style: style, Content: content, At: h.now()})
}

// Alerts returns the queued alerts, oldest first.
func (h *Host) Alerts() []Alert {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Alert(nil), h.alerts...)
}

// LastSeq returns the sequence number of the newest alert.
func (h *Host) LastSeq() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq
}

// Dismiss removes alerts with a sequence number up to and including seq.
func (h *Host) Dismiss(seq int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	kept := h.alerts[:0]
	for _, a := range h.alerts {
		if a.Seq > seq {
			kept = append(kept, a)
		}
	}
	h.alerts = kept
}

// RequestExit is the window exit hook.
func (h *Host) RequestExit(ports.WindowOp) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exit = true
}

// ExitRequested reports whether a window action asked the shell to quit.
func (h *Host) ExitRequested() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exit
}
