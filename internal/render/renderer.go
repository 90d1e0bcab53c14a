// Package render turns theme node trees into element trees. A Registry maps
// node types to components; the Renderer walks a tree, renders children
// first and hands them to the parent's component.
package render

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/gameshelf/internal/ports"
	gserrors "github.com/alexisbeaulieu97/gameshelf/pkg/errors"
)

// DefaultMaxDepth is the number of tree levels rendered; roots sit at depth 0
// and nodes at depth MaxDepth or below become truncation placeholders.
const DefaultMaxDepth = 64

// Renderer is a structural dispatcher: it performs no side effects besides
// logging and whatever the resolved components do.
type Renderer struct {
	registry *Registry
	logger   ports.Logger
	maxDepth int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for truncation and failure reports.
func WithLogger(logger ports.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMaxDepth overrides DefaultMaxDepth. Non-positive values are ignored.
func WithMaxDepth(depth int) Option {
	return func(r *Renderer) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// New creates a renderer over the registry.
func New(registry *Registry, opts ...Option) *Renderer {
	r := &Renderer{
		registry: registry,
		logger:   logging.Discard(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "renderer")
	return r
}

// Registry returns the registry the renderer resolves against.
func (r *Renderer) Registry() *Registry {
	return r.registry
}

// Render renders a subtree with an empty inherited context. A nil node
// renders to nil.
func (r *Renderer) Render(ctx context.Context, node *theme.Node) *Element {
	return r.RenderWith(ctx, node, Inherited{})
}

// RenderWith renders a subtree with the given inherited context.
func (r *Renderer) RenderWith(ctx context.Context, node *theme.Node, inherited Inherited) *Element {
	return r.render(r.scope(ctx, nil, inherited), node)
}

// RenderDocument renders the document for a route. The global shell is the
// root; page components inside it pull the route's page content through the
// scope. A document without a shell renders the page content alone.
func (r *Renderer) RenderDocument(ctx context.Context, doc *theme.Document, inherited Inherited) *Element {
	if doc == nil {
		return nil
	}
	scope := r.scope(ctx, doc, inherited)
	if doc.Layout.Global != nil {
		return r.render(scope, doc.Layout.Global)
	}
	content, ok := doc.Page(inherited.Route)
	if !ok {
		return nil
	}
	return r.render(scope, content)
}

func (r *Renderer) scope(ctx context.Context, doc *theme.Document, inherited Inherited) Scope {
	if ctx == nil {
		ctx = context.Background()
	}
	return Scope{Inherited: inherited, ctx: ctx, renderer: r, document: doc}
}

func (r *Renderer) render(scope Scope, node *theme.Node) *Element {
	if node == nil {
		return nil
	}
	if scope.depth >= r.maxDepth {
		r.logger.Warn(scope.ctx, "render depth limit reached, subtree truncated",
			"node_id", node.ID, "node_type", node.NodeType(), "max_depth", r.maxDepth)
		return &Element{
			NodeID: node.ID,
			Kind:   KindTruncated,
			Tag:    TagText,
			Text:   "…",
		}
	}

	nodeType := node.NodeType()
	component, registered := r.registry.Lookup(nodeType)
	if !registered {
		component = r.registry.Fallback()
	}

	childScope := scope.descend()
	if provider, ok := component.(ContextProvider); ok {
		if inherited, ok := r.childContext(scope, provider, node); ok {
			childScope.Inherited = inherited
		}
	}

	children := make([]*Element, 0, len(node.Children))
	for _, child := range node.Children {
		if el := r.render(childScope, child); el != nil {
			children = append(children, el)
		}
	}

	el := r.invoke(scope, component, node, children)
	if el != nil && !registered {
		el.Attr("nt", nodeType)
	}
	return el
}

func (r *Renderer) childContext(scope Scope, provider ContextProvider, node *theme.Node) (inherited Inherited, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error(scope.ctx, "child context failed",
				"node_id", node.ID, "node_type", node.NodeType(), "panic", fmt.Sprint(rec))
			ok = false
		}
	}()
	return provider.ChildContext(scope, node), true
}

func (r *Renderer) invoke(scope Scope, component Component, node *theme.Node, children []*Element) (el *Element) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		err := gserrors.NewRenderError(node.ID, node.NodeType(), fmt.Errorf("%v", rec))
		r.logger.Error(scope.ctx, "component failed", "node_id", node.ID, "node_type", node.NodeType(), "error", err)
		el = &Element{
			NodeID: node.ID,
			Kind:   KindError,
			Tag:    TagError,
			Text:   err.Error(),
		}
	}()
	return component.Render(scope, node, children)
}

// Scope is what a component sees of the render pass it is called from.
type Scope struct {
	// Inherited is the context set by the node's ancestors.
	Inherited Inherited

	ctx      context.Context
	renderer *Renderer
	document *theme.Document
	depth    int
}

// Context returns the render pass context.
func (s Scope) Context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// Depth returns the depth of the node being rendered; roots are at 0.
func (s Scope) Depth() int {
	return s.depth
}

// Logger returns the renderer's logger.
func (s Scope) Logger() ports.Logger {
	if s.renderer == nil {
		return logging.Discard()
	}
	return s.renderer.logger
}

func (s Scope) descend() Scope {
	s.depth++
	return s
}

// RenderChild renders a node one level below the current one with the given
// inherited context.
func (s Scope) RenderChild(node *theme.Node, inherited Inherited) *Element {
	if s.renderer == nil {
		return nil
	}
	child := s.descend()
	child.Inherited = inherited
	return s.renderer.render(child, node)
}

// Page returns the page content for the active route, when the pass renders
// a document.
func (s Scope) Page() (*theme.Node, bool) {
	if s.document == nil {
		return nil, false
	}
	return s.document.Page(s.Inherited.Route)
}

// RenderPage renders the active route's page content below the current node.
// It returns nil when no page matches.
func (s Scope) RenderPage() *Element {
	content, ok := s.Page()
	if !ok {
		return nil
	}
	return s.RenderChild(content, s.Inherited)
}
