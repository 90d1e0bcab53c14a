package ports

import "context"

const (
	// EventThemeLoading is emitted when the document store starts a fetch.
	EventThemeLoading = "theme.loading"
	// EventThemeReady is emitted after a document has been compiled, normalized and published.
	EventThemeReady = "theme.ready"
	// EventThemeFailed is emitted when every fetch attempt failed.
	EventThemeFailed = "theme.failed"
	// EventThemeIssue is emitted once per compile issue found while loading a document.
	EventThemeIssue = "theme.issue"
	// EventActionDispatched is emitted for every recognized action that was run.
	EventActionDispatched = "action.dispatched"
	// EventActionUnknown is emitted when an action names a command outside the table.
	EventActionUnknown = "action.unknown"
	// EventActionFailed is emitted when an action's collaborator reported an error.
	EventActionFailed = "action.failed"
)

// DomainEvent represents a significant occurrence within the domain or
// application layer. Events carry structured payloads that downstream
// subscribers can use for logging or UI updates.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous: Publish blocks until all handlers run. Handlers that feed an
// event loop should hand the event over without blocking. Implementations
// must be thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Failures are returned so
// publishers can log diagnostics and continue delivering to remaining subscribers.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler.
type Subscription interface {
	Unsubscribe()
}

// Event is the plain DomainEvent implementation used across gameshelf.
type Event struct {
	Type string
	Data map[string]interface{}
}

// EventType implements DomainEvent.
func (e Event) EventType() string { return e.Type }

// Payload implements DomainEvent.
func (e Event) Payload() interface{} { return e.Data }

// NewEvent builds an Event from alternating key/value pairs.
func NewEvent(eventType string, kv ...interface{}) Event {
	data := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		data[key] = kv[i+1]
	}
	return Event{Type: eventType, Data: data}
}
