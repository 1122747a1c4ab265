package jsonschema

import (
	"net/url"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// refStack tracks the $ref chain currently being expanded so cycles are
// reported instead of recursing forever.
type refStack struct {
	items   []string
	inStack map[string]struct{}
}

func (s *refStack) push(ref string) {
	if s.inStack == nil {
		s.inStack = make(map[string]struct{})
	}
	s.items = append(s.items, ref)
	s.inStack[ref] = struct{}{}
}

func (s *refStack) pop() {
	if len(s.items) == 0 {
		return
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	delete(s.inStack, last)
}

func (s *refStack) contains(ref string) bool {
	_, ok := s.inStack[ref]
	return ok
}

func (s *refStack) depth() int {
	return len(s.items)
}

// resolvePointer walks a local JSON Pointer ("#/a/b") from the document root.
func resolvePointer(root *yaml.Node, ref string) (*yaml.Node, bool) {
	if !strings.HasPrefix(ref, "#") {
		return nil, false
	}
	fragment := strings.TrimPrefix(ref, "#")
	if unescaped, err := url.PathUnescape(fragment); err == nil {
		fragment = unescaped
	}
	current := deref(root)
	if fragment == "" {
		return current, current != nil
	}
	if !strings.HasPrefix(fragment, "/") {
		return nil, false
	}
	for _, raw := range strings.Split(fragment[1:], "/") {
		token := pointerUnescaper.Replace(raw)
		switch current.Kind {
		case yaml.MappingNode:
			next, ok := lookup(current, token)
			if !ok {
				return nil, false
			}
			current = next
		case yaml.SequenceNode:
			idx, err := strconv.Atoi(token)
			if err != nil || idx < 0 || idx >= len(current.Content) {
				return nil, false
			}
			current = deref(current.Content[idx])
		default:
			return nil, false
		}
		if current == nil {
			return nil, false
		}
	}
	return current, true
}
