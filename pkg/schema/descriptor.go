package schema

import "strings"

// Descriptor describes one configuration property: its documentation text,
// validation hints and, for objects, the nested properties.
type Descriptor struct {
	Key         string
	Type        Optional[string]
	Description Optional[string]
	Enum        Optional[[]string]
	// PatternHint is a human readable rendering of a validation pattern
	// (meta.regexHuman).
	PatternHint    Optional[string]
	Autogenerated  bool
	StandaloneOnly bool
	Children       Optional[*Properties]
	// Meta holds the raw meta block. Only rule based predicates read it.
	Meta map[string]any
}

// HasChildren reports whether the descriptor declares at least one nested
// property.
func (d Descriptor) HasChildren() bool {
	children, ok := d.Children.Get()
	return ok && children.Len() > 0
}

// MetaValue resolves a dot separated path inside the meta block.
func (d Descriptor) MetaValue(path string) (any, bool) {
	if len(d.Meta) == 0 {
		return nil, false
	}
	var current any = d.Meta
	for _, segment := range strings.Split(strings.TrimSpace(path), ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
