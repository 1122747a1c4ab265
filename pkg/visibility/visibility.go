// Package visibility decides which schema properties make it into rendered
// documentation.
package visibility

import "github.com/goliatone/go-schemadoc/pkg/schema"

// Predicate reports whether a descriptor should be rendered. path is the dot
// separated key path from the schema root ("ios.bundleIdentifier").
type Predicate interface {
	Visible(path string, d schema.Descriptor) bool
}

// PredicateFunc adapts a function into a Predicate.
type PredicateFunc func(path string, d schema.Descriptor) bool

// Visible delegates to the underlying function.
func (fn PredicateFunc) Visible(path string, d schema.Descriptor) bool {
	return fn(path, d)
}

// Default hides autogenerated properties and shows everything else.
func Default() Predicate {
	return PredicateFunc(notAutogenerated)
}

func notAutogenerated(_ string, d schema.Descriptor) bool {
	return !d.Autogenerated
}

// All combines predicates; a descriptor is visible only when every predicate
// agrees. Nil entries are skipped.
func All(predicates ...Predicate) Predicate {
	active := make([]Predicate, 0, len(predicates))
	for _, p := range predicates {
		if p != nil {
			active = append(active, p)
		}
	}
	return PredicateFunc(func(path string, d schema.Descriptor) bool {
		for _, p := range active {
			if !p.Visible(path, d) {
				return false
			}
		}
		return true
	})
}
