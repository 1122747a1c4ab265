package render

import (
	"strings"

	"github.com/goliatone/go-schemadoc/pkg/schema"
	"github.com/goliatone/go-schemadoc/pkg/visibility"
)

// DefaultMaxDepth bounds how deep the renderer expands nested properties.
const DefaultMaxDepth = 64

// Renderer converts schema properties into DocNode trees. The zero value is
// not usable; construct with New.
type Renderer struct {
	predicate visibility.Predicate
	maxDepth  int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPredicate replaces the visibility predicate. Compose with
// visibility.Default() to keep hiding autogenerated properties.
func WithPredicate(p visibility.Predicate) Option {
	return func(r *Renderer) {
		if p != nil {
			r.predicate = p
		}
	}
}

// WithMaxDepth sets the deepest level that may still have children; nodes at
// depth n are emitted without children. Negative values are ignored.
func WithMaxDepth(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxDepth = n
		}
	}
}

// New returns a Renderer using the default visibility rules.
func New(options ...Option) *Renderer {
	r := &Renderer{
		predicate: visibility.Default(),
		maxDepth:  DefaultMaxDepth,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Render is shorthand for New(options...).Render(root).
func Render(root *schema.Properties, options ...Option) []DocNode {
	return New(options...).Render(root)
}

// Render walks root in declaration order and returns one node per visible
// top-level property, each carrying its visible descendants.
func (r *Renderer) Render(root *schema.Properties) []DocNode {
	return r.renderLevel(root, "", 0)
}

func (r *Renderer) renderLevel(parent *schema.Properties, parentPath string, depth int) []DocNode {
	if parent.Len() == 0 {
		return nil
	}

	var nodes []DocNode
	for key, desc := range parent.All() {
		path := JoinPath(parentPath, key)
		// Hidden descriptors are not descended into.
		if !r.predicate.Visible(path, desc) {
			continue
		}

		node := newNode(key, path, desc, parent.IsRequired(key), depth)
		if children, ok := desc.Children.Get(); ok && depth < r.maxDepth {
			node.Children = r.renderLevel(children, path, depth+1)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func newNode(key, path string, desc schema.Descriptor, required bool, depth int) DocNode {
	description := strings.TrimSpace(desc.Description.OrElse(""))
	hint := validOptions(desc)
	return DocNode{
		Key:             key,
		Path:            path,
		Type:            desc.Type.OrElse(""),
		Required:        required,
		StandaloneOnly:  desc.StandaloneOnly,
		Description:     description,
		Hint:            hint,
		DescriptionText: assembleText(required, desc.StandaloneOnly, description, hint),
		Depth:           depth,
	}
}

// validOptions prefers the enum listing over the pattern hint.
func validOptions(desc schema.Descriptor) string {
	if values, ok := desc.Enum.Get(); ok && len(values) > 0 {
		return strings.Join(values, ", ")
	}
	return desc.PatternHint.OrElse("")
}
