package theme

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// NodeTypeRow lays its children out on a column grid.
	NodeTypeRow = "row"
	// NodeTypeCol lays its children out on a row grid.
	NodeTypeCol = "col"

	// DefaultGridTracks is the number of columns (rows) of a row (col) that does
	// not declare one.
	DefaultGridTracks = 20
)

// CompileOptions tunes Compile.
type CompileOptions struct {
	// GridTracks overrides DefaultGridTracks when positive.
	GridTracks int
}

func (o CompileOptions) tracks() int {
	if o.GridTracks > 0 {
		return o.GridTracks
	}
	return DefaultGridTracks
}

// Compile prepares an authored document for rendering and returns a new
// document. The input is not modified. Passes run in order over the global
// shell and every page: variable substitution, id fill, grid placement fill,
// grid style injection, then validation. Validation findings are returned as
// issues; Compile itself never fails.
func Compile(doc *Document, opts CompileOptions) (*Document, Issues) {
	if doc == nil {
		return nil, Issues{{Severity: SeverityError, Code: CodeMissingLayout, Message: "document is nil"}}
	}
	out := doc.Clone()

	if out.Layout.Global != nil {
		compileTree(out.Layout.Global, "g", out.Config.Variables, opts)
	}
	for _, route := range out.Routes() {
		page := out.Layout.Pages[route]
		if page.Content == nil {
			continue
		}
		compileTree(page.Content, "p:"+route, out.Config.Variables, opts)
	}

	return out, Validate(out, opts)
}

func compileTree(root *Node, prefix string, variables map[string]interface{}, opts CompileOptions) {
	root.Walk(func(node *Node, _ int) bool {
		resolveVariables(node, variables)
		return true
	})
	fillIDs(root, prefix)
	root.Walk(func(node *Node, _ int) bool {
		fillGrid(node, opts.tracks())
		return true
	})
	root.Walk(func(node *Node, _ int) bool {
		injectGridStyle(node, opts.tracks())
		return true
	})
}

// resolveVariables replaces "$name" prop values with the matching document
// variable, keeping the variable's type. Unknown names are left untouched.
func resolveVariables(node *Node, variables map[string]interface{}) {
	if len(variables) == 0 || len(node.Props) == 0 {
		return
	}
	for key, value := range node.Props {
		str, ok := value.(string)
		if !ok || !strings.HasPrefix(str, "$") {
			continue
		}
		if actual, found := variables[str[1:]]; found {
			node.Props[key] = cloneValue(actual)
		}
	}
}

// fillIDs assigns path ids to nodes without one. A path id encodes the
// position under the root, so it is stable across reloads of the same file.
func fillIDs(node *Node, path string) {
	if node == nil {
		return
	}
	if strings.TrimSpace(node.ID) == "" {
		node.ID = path
	}
	for i, child := range node.Children {
		fillIDs(child, path+"."+strconv.Itoa(i))
	}
}

func gridAxis(nodeType string) (limitKey, styleKey, templateKey string, ok bool) {
	switch nodeType {
	case NodeTypeRow:
		return "cols", "grid-column", "grid-template-columns", true
	case NodeTypeCol:
		return "rows", "grid-row", "grid-template-rows", true
	default:
		return "", "", "", false
	}
}

// fillGrid completes start and span on the children of a row or col. A
// missing start continues at the waterline left by the previous child; a
// missing span extends to the next child's start, or to the container edge
// for the last child.
func fillGrid(node *Node, tracks int) {
	limitKey, _, _, ok := gridAxis(node.NodeType())
	if !ok {
		return
	}
	if node.Props == nil {
		node.Props = Props{}
	}
	if !node.Props.Has(limitKey) {
		node.Props[limitKey] = tracks
	}
	total := node.Props.Int(limitKey, tracks)
	if len(node.Children) == 0 {
		return
	}

	waterline := 1
	for _, child := range node.Children {
		if child.Props == nil {
			child.Props = Props{}
		}
		if start, ok := intProp(child.Props, "start"); ok {
			waterline = start
		} else {
			child.Props["start"] = waterline
		}
		if span, ok := intProp(child.Props, "span"); ok {
			waterline += span
		} else {
			waterline++
		}
	}

	sort.SliceStable(node.Children, func(i, j int) bool {
		return node.Children[i].Props.Int("start", 0) < node.Children[j].Props.Int("start", 0)
	})

	for i, child := range node.Children {
		if child.Props.Has("span") {
			continue
		}
		start := child.Props.Int("start", 1)
		end := total + 1
		if i+1 < len(node.Children) {
			end = node.Children[i+1].Props.Int("start", end)
		}
		span := end - start
		if span < 1 {
			span = 1
		}
		child.Props["span"] = span
	}
}

func injectGridStyle(node *Node, tracks int) {
	limitKey, styleKey, templateKey, ok := gridAxis(node.NodeType())
	if !ok {
		return
	}
	if node.Style == nil {
		node.Style = Style{}
	}
	node.Style["display"] = "grid"
	node.Style[templateKey] = fmt.Sprintf("repeat(%d, minmax(0, 1fr))", node.Props.Int(limitKey, tracks))

	for _, child := range node.Children {
		if child.Style == nil {
			child.Style = Style{}
		}
		start := child.Props.Int("start", 1)
		span := child.Props.Int("span", 1)
		child.Style[styleKey] = fmt.Sprintf("%d / span %d", start, span)
	}
}

// intProp reads an integer prop strictly: only numeric values count.
func intProp(p Props, key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
