package jsonschema

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemadoc/pkg/schema"
)

const (
	// DefaultEnvelope is the key wrapping the schema in versioned schema
	// files ({"schema": {...}}).
	DefaultEnvelope    = "schema"
	defaultMaxRefDepth = 64
)

// Decoder converts JSON Schema documents (JSON or YAML) into ordered
// schema.Properties, keeping property declaration order.
type Decoder struct {
	envelope    string
	maxRefDepth int
}

var _ schema.Decoder = (*Decoder)(nil)

// Option configures a Decoder.
type Option func(*Decoder)

// WithEnvelope sets the wrapper key unwrapped before decoding. An empty key
// disables unwrapping.
func WithEnvelope(key string) Option {
	return func(d *Decoder) {
		d.envelope = strings.TrimSpace(key)
	}
}

// WithMaxRefDepth caps the length of $ref chains.
func WithMaxRefDepth(depth int) Option {
	return func(d *Decoder) {
		if depth > 0 {
			d.maxRefDepth = depth
		}
	}
}

// NewDecoder returns a Decoder with the default envelope and ref limits.
func NewDecoder(options ...Option) *Decoder {
	d := &Decoder{envelope: DefaultEnvelope, maxRefDepth: defaultMaxRefDepth}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// Decode parses the document and returns its root properties.
func (d *Decoder) Decode(ctx context.Context, doc schema.Document) (*schema.Properties, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.DecodeBytes(doc.Raw())
}

// DecodeBytes parses raw JSON or YAML and returns its root properties.
func (d *Decoder) DecodeBytes(raw []byte) (*schema.Properties, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.New("jsonschema: raw schema is empty")
	}
	root, err := parseRoot(raw)
	if err != nil {
		return nil, err
	}
	node, pointer := d.unwrap(root)
	return d.DecodeNode(root, node, pointer)
}

// DecodePointer parses raw and decodes the schema object at a local JSON
// pointer such as "#/components/schemas/App". The envelope is not applied.
func (d *Decoder) DecodePointer(raw []byte, pointer string) (*schema.Properties, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.New("jsonschema: raw schema is empty")
	}
	root, err := parseRoot(raw)
	if err != nil {
		return nil, err
	}
	node, ok := resolvePointer(root, pointer)
	if !ok {
		return nil, decodeErrorf(pointer, 0, "pointer does not resolve")
	}
	return d.DecodeNode(root, node, pointer)
}

// DecodeNode decodes the schema object at node. Local $ref pointers resolve
// against root, and pointer locates node for error reporting.
func (d *Decoder) DecodeNode(root, node *yaml.Node, pointer string) (*schema.Properties, error) {
	if d == nil {
		return nil, errors.New("jsonschema: decoder is nil")
	}
	s := &session{root: root, maxRefDepth: d.maxRefDepth}
	if s.maxRefDepth <= 0 {
		s.maxRefDepth = defaultMaxRefDepth
	}
	node, release, err := s.expand(deref(node), pointer)
	if err != nil {
		return nil, err
	}
	defer release()
	if node.Kind != yaml.MappingNode {
		return nil, decodeErrorf(pointer, node.Line, "schema must be an object")
	}
	return s.properties(node, pointer)
}

func (d *Decoder) unwrap(root *yaml.Node) (*yaml.Node, string) {
	if d.envelope == "" {
		return root, "#"
	}
	if _, ok := lookup(root, "properties"); ok {
		return root, "#"
	}
	inner, ok := lookup(root, d.envelope)
	if !ok || inner.Kind != yaml.MappingNode {
		return root, "#"
	}
	return inner, pointerJoin("#", d.envelope)
}

type session struct {
	root        *yaml.Node
	maxRefDepth int
	stack       refStack
}

// expand follows $ref chains starting at node. The returned release func pops
// every ref pushed for node and must be called once its subtree is decoded.
func (s *session) expand(node *yaml.Node, pointer string) (*yaml.Node, func(), error) {
	pushed := 0
	release := func() {
		for ; pushed > 0; pushed-- {
			s.stack.pop()
		}
	}
	for node != nil && node.Kind == yaml.MappingNode {
		refNode, ok := lookup(node, "$ref")
		if !ok {
			break
		}
		ref, ok := scalarString(refNode)
		if !ok || strings.TrimSpace(ref) == "" {
			release()
			return nil, nil, decodeErrorf(pointer, refNode.Line, "$ref must be a string")
		}
		ref = strings.TrimSpace(ref)
		if !strings.HasPrefix(ref, "#") {
			release()
			return nil, nil, decodeErrorf(pointer, refNode.Line, "only local $ref pointers are supported, got %q", ref)
		}
		if s.stack.contains(ref) {
			release()
			return nil, nil, decodeErrorf(pointer, refNode.Line, "$ref cycle detected at %s", ref)
		}
		if s.stack.depth() >= s.maxRefDepth {
			release()
			return nil, nil, decodeErrorf(pointer, refNode.Line, "$ref depth exceeds %d", s.maxRefDepth)
		}
		target, ok := resolvePointer(s.root, ref)
		if !ok {
			release()
			return nil, nil, decodeErrorf(pointer, refNode.Line, "unresolved $ref %q", ref)
		}
		s.stack.push(ref)
		pushed++
		node = mergeRef(target, node)
	}
	return node, release, nil
}

func (s *session) properties(owner *yaml.Node, pointer string) (*schema.Properties, error) {
	required, err := requiredKeys(owner, pointer)
	if err != nil {
		return nil, err
	}
	props := schema.NewProperties(required)

	propsNode, ok := lookup(owner, "properties")
	if !ok || isNull(propsNode) {
		return props, nil
	}
	propsPointer := pointerJoin(pointer, "properties")
	if propsNode.Kind != yaml.MappingNode {
		return nil, decodeErrorf(propsPointer, propsNode.Line, "properties must be an object")
	}

	err = pairs(propsNode, func(key string, value *yaml.Node) error {
		desc, err := s.descriptor(key, value, pointerJoin(propsPointer, key))
		if err != nil {
			return err
		}
		props.Append(desc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return props, nil
}

func (s *session) descriptor(key string, node *yaml.Node, pointer string) (schema.Descriptor, error) {
	desc := schema.Descriptor{Key: key}

	node, release, err := s.expand(node, pointer)
	if err != nil {
		return desc, err
	}
	defer release()

	// Boolean and null schemas carry no documentation.
	if node == nil || node.Kind != yaml.MappingNode {
		return desc, nil
	}

	if typeNode, ok := lookup(node, "type"); ok {
		switch typeNode.Kind {
		case yaml.ScalarNode:
			if value, ok := scalarString(typeNode); ok {
				desc.Type = schema.Some(value)
			}
		case yaml.SequenceNode:
			names := make([]string, 0, len(typeNode.Content))
			for _, item := range typeNode.Content {
				if value, ok := scalarString(deref(item)); ok {
					names = append(names, value)
				}
			}
			desc.Type = schema.Some(strings.Join(names, ", "))
		}
	}

	if descNode, ok := lookup(node, "description"); ok {
		if value, ok := scalarString(descNode); ok {
			desc.Description = schema.Some(value)
		}
	}

	if enumNode, ok := lookup(node, "enum"); ok && !isNull(enumNode) {
		if enumNode.Kind != yaml.SequenceNode {
			return desc, decodeErrorf(pointerJoin(pointer, "enum"), enumNode.Line, "enum must be an array")
		}
		values := make([]string, 0, len(enumNode.Content))
		for _, item := range enumNode.Content {
			values = append(values, displayValue(deref(item)))
		}
		desc.Enum = schema.Some(values)
	}

	if metaNode, ok := lookup(node, "meta"); ok && metaNode.Kind == yaml.MappingNode {
		var meta map[string]any
		if err := metaNode.Decode(&meta); err != nil {
			return desc, decodeErrorf(pointerJoin(pointer, "meta"), metaNode.Line, "decode meta: %v", err)
		}
		if normalized, ok := normalizeValue(meta).(map[string]any); ok {
			desc.Meta = normalized
		}
		if hint, ok := desc.Meta["regexHuman"].(string); ok {
			desc.PatternHint = schema.Some(hint)
		}
		desc.Autogenerated = truthy(desc.Meta["autogenerated"])
		desc.StandaloneOnly = truthy(desc.Meta["standaloneOnly"])
	}

	if _, ok := lookup(node, "properties"); ok {
		children, err := s.properties(node, pointer)
		if err != nil {
			return desc, err
		}
		desc.Children = schema.Some(children)
	}

	return desc, nil
}

func requiredKeys(owner *yaml.Node, pointer string) ([]string, error) {
	node, ok := lookup(owner, "required")
	if !ok || isNull(node) {
		return nil, nil
	}
	reqPointer := pointerJoin(pointer, "required")
	// Draft 3 style `"required": true` on a property is not a key list.
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!bool" {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, decodeErrorf(reqPointer, node.Line, "required must be an array")
	}
	keys := make([]string, 0, len(node.Content))
	for idx, item := range node.Content {
		value, ok := scalarString(deref(item))
		if !ok || deref(item).ShortTag() != "!!str" || strings.TrimSpace(value) == "" {
			return nil, decodeErrorf(pointerJoin(reqPointer, strconv.Itoa(idx)), item.Line, "required entries must be strings")
		}
		keys = append(keys, value)
	}
	return keys, nil
}
