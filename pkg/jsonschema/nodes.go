package jsonschema

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// parseRoot unmarshals JSON or YAML into a node tree that keeps mapping keys
// in declaration order. JSON goes through encoding/json so escapes YAML does
// not know, such as \/, decode the way every JSON reader expects.
func parseRoot(raw []byte) (*yaml.Node, error) {
	var root *yaml.Node
	if looksLikeJSON(raw) {
		node, err := parseJSON(raw)
		if err != nil {
			return nil, DecodeError{Message: "parse schema: " + err.Error()}
		}
		root = node
	} else {
		var doc yaml.Node
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, DecodeError{Message: "parse schema: " + err.Error()}
		}
		if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
			return nil, DecodeError{Message: "schema document is empty"}
		}
		root = deref(doc.Content[0])
	}
	if root.Kind != yaml.MappingNode {
		return nil, decodeErrorf("#", root.Line, "schema root must be an object")
	}
	return root, nil
}

func looksLikeJSON(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return false
	}
	return json.Valid(trimmed)
}

// parseJSON builds the same node shapes yaml.v3 produces, from the JSON token
// stream. Duplicate keys keep their first position and the last value.
func parseJSON(raw []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	b := &jsonTree{dec: dec}
	for i, c := range raw {
		if c == '\n' {
			b.newlines = append(b.newlines, i)
		}
	}
	return b.value()
}

type jsonTree struct {
	dec      *json.Decoder
	newlines []int
}

func (b *jsonTree) value() (*yaml.Node, error) {
	tok, err := b.dec.Token()
	if err != nil {
		return nil, err
	}
	line := b.line()
	switch typed := tok.(type) {
	case json.Delim:
		if typed == '{' {
			return b.object(line)
		}
		return b.array(line)
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: typed, Line: line}, nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(typed.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: typed.String(), Line: line}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(typed), Line: line}, nil
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null", Line: line}, nil
	}
}

func (b *jsonTree) object(line int) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: line}
	index := make(map[string]int)
	for b.dec.More() {
		tok, err := b.dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key, Line: b.line()}
		value, err := b.value()
		if err != nil {
			return nil, err
		}
		if at, ok := index[key]; ok {
			node.Content[at+1] = value
			continue
		}
		index[key] = len(node.Content)
		node.Content = append(node.Content, keyNode, value)
	}
	if _, err := b.dec.Token(); err != nil {
		return nil, err
	}
	return node, nil
}

func (b *jsonTree) array(line int) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: line}
	for b.dec.More() {
		value, err := b.value()
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, value)
	}
	if _, err := b.dec.Token(); err != nil {
		return nil, err
	}
	return node, nil
}

// line reports the 1-based line of the token just read.
func (b *jsonTree) line() int {
	offset := int(b.dec.InputOffset())
	return sort.SearchInts(b.newlines, offset) + 1
}

func deref(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

// lookup returns the value stored under key in a mapping node.
func lookup(node *yaml.Node, key string) (*yaml.Node, bool) {
	node = deref(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return deref(node.Content[i+1]), true
		}
	}
	return nil, false
}

// pairs iterates the key/value pairs of a mapping node in declaration order.
func pairs(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	node = deref(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, deref(node.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

func scalarString(node *yaml.Node) (string, bool) {
	if node == nil || node.Kind != yaml.ScalarNode || isNull(node) {
		return "", false
	}
	return node.Value, true
}

// displayValue renders an enum entry the way it reads in the source document.
func displayValue(node *yaml.Node) string {
	switch {
	case isNull(node):
		return ""
	case node.Kind == yaml.ScalarNode:
		return node.Value
	}
	var value any
	if err := node.Decode(&value); err != nil {
		return ""
	}
	encoded, err := json.Marshal(normalizeValue(value))
	if err != nil {
		return ""
	}
	return string(encoded)
}

// normalizeValue converts YAML decoded maps into JSON friendly shapes.
func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = normalizeValue(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			if key, ok := k.(string); ok {
				out[key] = normalizeValue(v)
			}
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = normalizeValue(v)
		}
		return out
	default:
		return value
	}
}

// truthy mirrors loose boolean checks used by schema authors for meta flags.
func truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case int:
		return typed != 0
	case int64:
		return typed != 0
	case uint64:
		return typed != 0
	case float64:
		return typed != 0
	default:
		return true
	}
}

// mergeRef overlays the sibling keys of a $ref node onto its target.
func mergeRef(target, ref *yaml.Node) *yaml.Node {
	merged := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: ref.Line, Column: ref.Column}
	index := make(map[string]int)
	appendPair := func(key, value *yaml.Node) {
		if at, ok := index[key.Value]; ok {
			merged.Content[at+1] = value
			return
		}
		index[key.Value] = len(merged.Content)
		merged.Content = append(merged.Content, key, value)
	}
	if target = deref(target); target != nil && target.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(target.Content); i += 2 {
			appendPair(target.Content[i], target.Content[i+1])
		}
	}
	for i := 0; i+1 < len(ref.Content); i += 2 {
		if ref.Content[i].Value == "$ref" {
			continue
		}
		appendPair(ref.Content[i], ref.Content[i+1])
	}
	return merged
}

func pointerJoin(base string, tokens ...string) string {
	if base == "" {
		base = "#"
	}
	for _, token := range tokens {
		base += "/" + pointerEscaper.Replace(token)
	}
	return base
}

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)
