package render

import (
	"github.com/alexisbeaulieu97/gameshelf/internal/domain/theme"
)

// Element roles understood by painters.
const (
	TagContainer = "container"
	TagText      = "text"
	TagButton    = "button"
	TagIcon      = "icon"
	TagImage     = "image"
	TagNav       = "nav"
	TagMain      = "main"
	TagHeader    = "header"
	TagError     = "error"
)

// Kinds of placeholder elements produced by the renderer itself.
const (
	KindTruncated = "truncated"
	KindError     = "error"
	KindLoading   = "loading"
)

// Element is the output of rendering one node. It is a plain tree that a
// painter turns into terminal text (or JSON for inspection).
type Element struct {
	NodeID    string            `json:"nodeId,omitempty"`
	Kind      string            `json:"kind"`
	Tag       string            `json:"tag"`
	ClassName string            `json:"className,omitempty"`
	Style     theme.Style       `json:"style,omitempty"`
	Text      string            `json:"text,omitempty"`
	Actions   []theme.Action    `json:"actions,omitempty"`
	Focusable bool              `json:"focusable,omitempty"`
	Active    bool              `json:"active,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Children  []*Element        `json:"children,omitempty"`
}

// Base returns an element carrying the node's identity, class names, style
// and actions. Implementations start from it and fill in the rest.
func Base(kind, tag string, node *theme.Node, children []*Element) *Element {
	el := &Element{Kind: kind, Tag: tag, Children: children}
	if node != nil {
		el.NodeID = node.ID
		el.ClassName = node.ClassName
		if len(node.Style) > 0 {
			el.Style = make(theme.Style, len(node.Style))
			for k, v := range node.Style {
				el.Style[k] = v
			}
		}
		el.Actions = node.Actions
	}
	return el
}

// Attr sets an attribute and returns the element for chaining.
func (e *Element) Attr(key, value string) *Element {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[key] = value
	return e
}

// Walk visits the element tree in pre-order.
func (e *Element) Walk(fn func(el *Element, depth int)) {
	walkElement(e, 0, fn)
}

func walkElement(e *Element, depth int, fn func(*Element, int)) {
	if e == nil {
		return
	}
	fn(e, depth)
	for _, child := range e.Children {
		walkElement(child, depth+1, fn)
	}
}

// Count returns the number of elements in the tree.
func (e *Element) Count() int {
	n := 0
	e.Walk(func(*Element, int) { n++ })
	return n
}

// Find returns the first element rendered for the given node id.
func (e *Element) Find(nodeID string) *Element {
	var found *Element
	e.Walk(func(el *Element, _ int) {
		if found == nil && el.NodeID == nodeID {
			found = el
		}
	})
	return found
}

// Focusables returns the focusable elements in visit order.
func (e *Element) Focusables() []*Element {
	var out []*Element
	e.Walk(func(el *Element, _ int) {
		if el.Focusable {
			out = append(out, el)
		}
	})
	return out
}

// Passthrough is the generic container: it keeps the node's id, class names
// and style and forwards the children unchanged. It is the fallback for
// unknown node types.
var Passthrough = ComponentFunc(func(_ Scope, node *theme.Node, children []*Element) *Element {
	return Base(theme.DefaultNodeType, TagContainer, node, children)
})

// Placeholder returns a standalone element of the given kind showing text.
func Placeholder(kind, text string) *Element {
	return &Element{Kind: kind, Tag: TagText, Text: text}
}
