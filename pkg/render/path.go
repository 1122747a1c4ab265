package render

import "strings"

var pathKeyEscaper = strings.NewReplacer(`\`, `\\`, `.`, `\.`)

// JoinPath appends key to a dotted property path. Dots and backslashes inside
// key are backslash escaped, so "a\.b" (one key) and "a.b" (b under a) stay
// distinct.
func JoinPath(parent, key string) string {
	key = pathKeyEscaper.Replace(key)
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// SplitPath returns the unescaped keys of a path built by JoinPath.
func SplitPath(path string) []string {
	var (
		keys    []string
		current strings.Builder
	)
	for i := 0; i < len(path); i++ {
		switch c := path[i]; {
		case c == '\\' && i+1 < len(path):
			i++
			current.WriteByte(path[i])
		case c == '.':
			keys = append(keys, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(keys, current.String())
}
