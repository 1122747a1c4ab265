package schema

import "iter"

// Properties is an insertion-ordered mapping from property key to Descriptor.
// It also carries the set of keys the owning schema node marks as required,
// so required lookups for a child always go through its enclosing Properties.
//
// Properties are populated once by a decoder and treated as read-only after.
type Properties struct {
	keys     []string
	entries  map[string]Descriptor
	required []string
	isReq    map[string]struct{}
}

// NewProperties returns a Properties holding descriptors in the given order.
// Later descriptors with a duplicate key replace earlier ones in place.
func NewProperties(required []string, descriptors ...Descriptor) *Properties {
	p := &Properties{entries: make(map[string]Descriptor, len(descriptors))}
	p.setRequired(required)
	for _, d := range descriptors {
		p.Append(d)
	}
	return p
}

func (p *Properties) setRequired(keys []string) {
	p.isReq = make(map[string]struct{}, len(keys))
	p.required = make([]string, 0, len(keys))
	for _, key := range keys {
		if _, dup := p.isReq[key]; dup {
			continue
		}
		p.isReq[key] = struct{}{}
		p.required = append(p.required, key)
	}
}

// Append adds d at the end of the ordering, or replaces the descriptor with
// the same key without moving it.
func (p *Properties) Append(d Descriptor) {
	if p.entries == nil {
		p.entries = make(map[string]Descriptor)
	}
	if _, exists := p.entries[d.Key]; !exists {
		p.keys = append(p.keys, d.Key)
	}
	p.entries[d.Key] = d
}

// Len reports the number of properties. A nil receiver is empty.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Get looks up a descriptor by key.
func (p *Properties) Get(key string) (Descriptor, bool) {
	if p == nil {
		return Descriptor{}, false
	}
	d, ok := p.entries[key]
	return d, ok
}

// Keys returns a copy of the keys in declaration order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// All iterates descriptors in declaration order.
func (p *Properties) All() iter.Seq2[string, Descriptor] {
	return func(yield func(string, Descriptor) bool) {
		if p == nil {
			return
		}
		for _, key := range p.keys {
			if !yield(key, p.entries[key]) {
				return
			}
		}
	}
}

// IsRequired reports whether key is listed in the owner's required set.
func (p *Properties) IsRequired(key string) bool {
	if p == nil {
		return false
	}
	_, ok := p.isReq[key]
	return ok
}

// Required returns the required keys in the order they were declared.
func (p *Properties) Required() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.required...)
}
