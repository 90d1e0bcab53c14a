package theme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	gserrors "github.com/alexisbeaulieu97/gameshelf/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Extensions lists the file extensions a theme document may be stored under.
var Extensions = []string{".json", ".yaml", ".yml"}

// IsDocumentFile reports whether the path has a theme document extension.
func IsDocumentFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// ParseDocument decodes a theme document. The format is chosen from the
// path's extension; content starting with '{' is treated as JSON otherwise.
func ParseDocument(path string, data []byte) (*Document, error) {
	var doc Document
	var err error

	if isJSON(path, data) {
		err = json.Unmarshal(data, &doc)
		if err != nil {
			return nil, gserrors.NewParseError(path, jsonErrorLine(data, err), err)
		}
	} else {
		err = yaml.Unmarshal(data, &doc)
		if err != nil {
			return nil, gserrors.NewParseError(path, extractLine(err), err)
		}
	}

	if doc.Layout.Global == nil && len(doc.Layout.Pages) == 0 {
		return nil, gserrors.NewParseError(path, 0, errors.New("document has no layout"))
	}
	return &doc, nil
}

func isJSON(path string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return true
	case ".yaml", ".yml":
		return false
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// UnmarshalJSON accepts the authoring shorthands of the node format.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	node, err := NodeFromValue(raw)
	if err != nil {
		return err
	}
	*n = *node
	return nil
}

// UnmarshalYAML accepts the authoring shorthands of the node format.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var raw interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	node, err := NodeFromValue(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*n = *node
	return nil
}

// NodeFromValue builds a node from a generic decoded value. Recognized
// shorthands: numeric ids, className as a list, action or actions as a
// single descriptor or a list, and props as an alias of params.
func NodeFromValue(v interface{}) (*Node, error) {
	return nodeFromValue(v, "node")
}

func nodeFromValue(v interface{}, path string) (*Node, error) {
	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("%s: expected an object, got %T", path, v)
	}

	node := &Node{
		ID:        scalarString(m["id"]),
		Type:      scalarString(m["nt"]),
		ClassName: classNames(m["className"]),
	}
	if node.Type == "" {
		node.Type = DefaultNodeType
	}

	if style, ok := asMap(m["style"]); ok {
		node.Style = Style(style)
	}
	if props, ok := asMap(m["props"]); ok {
		node.Props = Props(props)
	}

	for _, key := range []string{"action", "actions"} {
		actions, err := actionsFromValue(m[key], path+"."+key)
		if err != nil {
			return nil, err
		}
		node.Actions = append(node.Actions, actions...)
	}

	if hooks, ok := m["hooks"].([]interface{}); ok {
		for _, hook := range hooks {
			if s := scalarString(hook); s != "" {
				node.Hooks = append(node.Hooks, s)
			}
		}
	}

	if rawChildren, present := m["children"]; present && rawChildren != nil {
		list, ok := rawChildren.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s.children: expected a list, got %T", path, rawChildren)
		}
		node.Children = make([]*Node, 0, len(list))
		for i, item := range list {
			child, err := nodeFromValue(item, path+".children["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	}

	return node, nil
}

func actionsFromValue(v interface{}, path string) ([]Action, error) {
	switch typed := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []Action{{Command: typed}}, nil
	case []interface{}:
		out := make([]Action, 0, len(typed))
		for i, item := range typed {
			action, err := actionFromValue(item, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			out = append(out, action)
		}
		return out, nil
	default:
		action, err := actionFromValue(typed, path)
		if err != nil {
			return nil, err
		}
		return []Action{action}, nil
	}
}

func actionFromValue(v interface{}, path string) (Action, error) {
	if s, ok := v.(string); ok {
		return Action{Command: s}, nil
	}
	m, ok := asMap(v)
	if !ok {
		return Action{}, fmt.Errorf("%s: expected an action object, got %T", path, v)
	}
	action := Action{Command: scalarString(m["command"])}
	for _, key := range []string{"params", "props"} {
		if params, ok := asMap(m[key]); ok {
			if action.Params == nil {
				action.Params = make(map[string]interface{}, len(params))
			}
			for k, val := range params {
				action.Params[k] = val
			}
		}
	}
	return action, nil
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch typed := v.(type) {
	case map[string]interface{}:
		return typed, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(typed))
		for k, val := range typed {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func scalarString(v interface{}) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func classNames(v interface{}) string {
	switch typed := v.(type) {
	case string:
		return strings.Join(strings.Fields(typed), " ")
	case []interface{}:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, strings.Fields(scalarString(item))...)
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}
	line, convErr := strconv.Atoi(matches[1])
	if convErr != nil {
		return 0
	}
	return line
}

func jsonErrorLine(data []byte, err error) int {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}
