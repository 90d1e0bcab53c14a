package theme

import (
	"strings"
)

// NormalizeKey rewrites a hyphenated style key to camel case: every '-'
// followed by a lowercase ASCII letter becomes that letter in upper case.
// Keys without such a sequence, including custom properties ("--accent"),
// are returned unchanged, which makes the transform idempotent.
func NormalizeKey(key string) string {
	if strings.HasPrefix(key, "--") || !strings.Contains(key, "-") {
		return key
	}

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '-' && i+1 < len(key) && key[i+1] >= 'a' && key[i+1] <= 'z' {
			b.WriteByte(key[i+1] - ('a' - 'A'))
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// NormalizeStyle returns a copy of style with every key normalized. Values
// are kept as-is. When an authored camel-case key and a hyphenated key
// collapse onto the same name, the camel-case entry wins.
func NormalizeStyle(style Style) Style {
	if style == nil {
		return nil
	}
	out := make(Style, len(style))
	for _, key := range SortedKeys(style) {
		normalized := NormalizeKey(key)
		if normalized != key {
			if _, authored := style[normalized]; authored {
				continue
			}
		}
		out[normalized] = style[key]
	}
	return out
}

// IsNormalized reports whether every style key in the subtree is already in
// normalized form.
func IsNormalized(n *Node) bool {
	normalized := true
	n.Walk(func(node *Node, _ int) bool {
		for key := range node.Style {
			if NormalizeKey(key) != key {
				normalized = false
				return false
			}
		}
		return normalized
	})
	return normalized
}

// Normalize returns a deep copy of the subtree with every node's style keys
// normalized. Children are visited regardless of their node type. The input
// tree is not modified.
func Normalize(n *Node) *Node {
	if n == nil {
		return nil
	}
	out := n.Clone()
	normalizeInPlace(out)
	return out
}

func normalizeInPlace(n *Node) {
	n.Walk(func(node *Node, _ int) bool {
		node.Style = NormalizeStyle(node.Style)
		return true
	})
}

// NormalizeDocument returns a copy of the document with the global shell and
// every page normalized.
func NormalizeDocument(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := doc.Clone()
	for _, root := range out.Roots() {
		normalizeInPlace(root)
	}
	return out
}
