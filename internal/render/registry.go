package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
)

// Component renders one node given its already rendered children.
type Component interface {
	Render(scope Scope, node *theme.Node, children []*Element) *Element
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(scope Scope, node *theme.Node, children []*Element) *Element

// Render calls f.
func (f ComponentFunc) Render(scope Scope, node *theme.Node, children []*Element) *Element {
	return f(scope, node, children)
}

// ContextProvider is implemented by components that override the inherited
// context of their children. The renderer asks for the child context before
// recursing, so the override is in effect while the children render.
type ContextProvider interface {
	ChildContext(scope Scope, node *theme.Node) Inherited
}

// Registry maps node types to components. It always has a fallback, so
// Resolve never fails. After Freeze no more registrations are accepted.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]Component
	fallback Component
	frozen   bool
}

// NewRegistry creates a registry whose unknown-type fallback is fallback.
func NewRegistry(fallback Component) (*Registry, error) {
	if fallback == nil {
		return nil, fmt.Errorf("registry requires a fallback component")
	}
	return &Registry{
		entries:  make(map[string]Component),
		fallback: fallback,
	}, nil
}

// Register adds a component for the node type.
func (r *Registry) Register(nodeType string, c Component) error {
	if strings.TrimSpace(nodeType) == "" {
		return fmt.Errorf("node type is empty")
	}
	if c == nil {
		return fmt.Errorf("component for '%s' is nil", nodeType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("registry is frozen, cannot register '%s'", nodeType)
	}
	if _, exists := r.entries[nodeType]; exists {
		return fmt.Errorf("component '%s' already registered", nodeType)
	}
	r.entries[nodeType] = c
	return nil
}

// MustRegister is Register for static wiring; it panics on error.
func (r *Registry) MustRegister(nodeType string, c Component) {
	if err := r.Register(nodeType, c); err != nil {
		panic(err)
	}
}

// Freeze stops further registration.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the component registered under the exact node type.
func (r *Registry) Lookup(nodeType string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[nodeType]
	return c, ok
}

// Resolve returns the component for the node type, or the fallback.
func (r *Registry) Resolve(nodeType string) Component {
	if c, ok := r.Lookup(nodeType); ok {
		return c
	}
	return r.fallback
}

// Fallback returns the unknown-type component.
func (r *Registry) Fallback() Component {
	return r.fallback
}

// Names lists the registered node types in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
