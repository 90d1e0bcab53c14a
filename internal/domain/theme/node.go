// Package theme holds the declarative UI tree that the launcher renders: the
// node IR, the document that wraps the application shell and its pages, and
// the one-shot transforms applied to a document before it is rendered
// (compilation and style normalization).
package theme

import (
	"sort"
	"strings"
)

// DefaultNodeType is the tag used for nodes that do not declare one and for
// the generic passthrough container.
const DefaultNodeType = "node"

// Style maps style property names to values. Values may be strings, numbers
// or nested structures and are never interpreted by the render core.
type Style map[string]interface{}

// Action is a declarative side-effect request consumed by leaf implementations.
type Action struct {
	Command string                 `json:"command" yaml:"command"`
	Params  map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`
}

// Param returns the string form of a parameter, or "" when absent.
func (a Action) Param(key string) string {
	if a.Params == nil {
		return ""
	}
	return Props(a.Params).String(key, "")
}

// Node is one element of the theme tree. A node exclusively owns its children.
type Node struct {
	ID        string   `json:"id" yaml:"id"`
	Type      string   `json:"nt" yaml:"nt"`
	Style     Style    `json:"style,omitempty" yaml:"style,omitempty"`
	ClassName string   `json:"className,omitempty" yaml:"className,omitempty"`
	Props     Props    `json:"props,omitempty" yaml:"props,omitempty"`
	Actions   []Action `json:"actions,omitempty" yaml:"actions,omitempty"`
	Hooks     []string `json:"hooks,omitempty" yaml:"hooks,omitempty"`
	Children  []*Node  `json:"children,omitempty" yaml:"children,omitempty"`
}

// NodeType returns the node's tag, falling back to DefaultNodeType.
func (n *Node) NodeType() string {
	if n == nil || strings.TrimSpace(n.Type) == "" {
		return DefaultNodeType
	}
	return n.Type
}

// HasActions reports whether the node carries at least one action descriptor.
func (n *Node) HasActions() bool {
	return n != nil && len(n.Actions) > 0
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		ID:        n.ID,
		Type:      n.Type,
		Style:     Style(cloneMap(n.Style)),
		ClassName: n.ClassName,
		Props:     Props(cloneMap(n.Props)),
	}
	if n.Actions != nil {
		out.Actions = make([]Action, len(n.Actions))
		for i, action := range n.Actions {
			out.Actions[i] = Action{Command: action.Command, Params: cloneMap(action.Params)}
		}
	}
	if n.Hooks != nil {
		out.Hooks = append([]string(nil), n.Hooks...)
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// WithProps returns a shallow copy of the node whose props are the node's own
// props overlaid with extra. The receiver and its maps are left untouched.
func (n *Node) WithProps(extra map[string]interface{}) *Node {
	if n == nil {
		return nil
	}
	copyNode := *n
	merged := make(Props, len(n.Props)+len(extra))
	for k, v := range n.Props {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	copyNode.Props = merged
	return &copyNode
}

// Walk visits the node and its descendants in pre-order. Returning false from
// fn skips the visited node's subtree.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		walk(child, depth+1, fn)
	}
}

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Find returns the first node in the subtree with the given id.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(node *Node, _ int) bool {
		if found != nil {
			return false
		}
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

func cloneMap(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch typed := v.(type) {
	case map[string]interface{}:
		return cloneMap(typed)
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// SortedKeys returns the keys of a style or props map in lexical order.
func SortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
