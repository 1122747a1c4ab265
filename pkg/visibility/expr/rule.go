// Package expr compiles small boolean rules over descriptor attributes into
// visibility predicates.
//
// Supported syntax:
//   - boolean checks: `autogenerated`, `!standaloneOnly`
//   - comparisons: `type == "object"`, `meta.deprecated != true`
//   - glob matches: `path ~= "ios.*"`
//   - composition: `a && (b || !c)`
//
// Identifiers resolve against the descriptor being rendered: key, path, type,
// description, autogenerated, standaloneOnly, hasChildren, and
// meta.<dot.path> for anything inside the raw meta block. path is the dotted
// property path with dots inside keys escaped as "\.".
package expr

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-schemadoc/pkg/schema"
	"github.com/goliatone/go-schemadoc/pkg/visibility"
)

// Rule is a compiled expression. It is safe for concurrent use.
type Rule struct {
	source string
	root   cond
}

// Compile parses rule. An empty rule compiles to one that never matches.
func Compile(rule string) (*Rule, error) {
	trimmed := strings.TrimSpace(rule)
	out := &Rule{source: trimmed}
	if trimmed == "" {
		return out, nil
	}

	root, err := parse(trimmed)
	if err != nil {
		return nil, err
	}
	out.root = root
	return out, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(rule string) *Rule {
	r, err := Compile(rule)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the trimmed rule source.
func (r *Rule) String() string {
	if r == nil {
		return ""
	}
	return r.source
}

// Match evaluates the rule for the descriptor at path.
func (r *Rule) Match(path string, d schema.Descriptor) (bool, error) {
	if r == nil || r.root == nil {
		return false, nil
	}
	return r.root(attributes{path: path, desc: d})
}

// Hide returns a predicate that hides descriptors matching any of the rules.
// Evaluation errors keep the descriptor visible.
func Hide(rules ...string) (visibility.Predicate, error) {
	compiled, err := compileAll(rules)
	if err != nil {
		return nil, err
	}
	return visibility.PredicateFunc(func(path string, d schema.Descriptor) bool {
		for _, r := range compiled {
			if ok, err := r.Match(path, d); err == nil && ok {
				return false
			}
		}
		return true
	}), nil
}

// Show returns a predicate that keeps only descriptors matching at least one
// rule. With no rules every descriptor is visible.
func Show(rules ...string) (visibility.Predicate, error) {
	compiled, err := compileAll(rules)
	if err != nil {
		return nil, err
	}
	return visibility.PredicateFunc(func(path string, d schema.Descriptor) bool {
		if len(compiled) == 0 {
			return true
		}
		for _, r := range compiled {
			if ok, err := r.Match(path, d); err == nil && ok {
				return true
			}
		}
		return false
	}), nil
}

func compileAll(rules []string) ([]*Rule, error) {
	out := make([]*Rule, 0, len(rules))
	for _, raw := range rules {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		r, err := Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("visibility/expr: rule %q: %w", raw, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// attributes exposes a descriptor to the evaluator.
type attributes struct {
	path string
	desc schema.Descriptor
}

func (a attributes) lookup(key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}

	if strings.HasPrefix(strings.ToLower(key), "meta.") {
		return a.desc.MetaValue(key[len("meta."):])
	}

	switch key {
	case "key":
		return a.desc.Key, true
	case "path":
		return a.path, true
	case "type":
		v, ok := a.desc.Type.Get()
		return v, ok
	case "description":
		v, ok := a.desc.Description.Get()
		return v, ok
	case "autogenerated":
		return a.desc.Autogenerated, true
	case "standaloneOnly":
		return a.desc.StandaloneOnly, true
	case "hasChildren":
		return a.desc.HasChildren(), true
	default:
		return nil, false
	}
}
