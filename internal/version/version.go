// Package version maps SDK version labels to versioned schema files.
package version

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/afero"
)

// Unversioned is the label used for the development schema.
const Unversioned = "UNVERSIONED"

// Placeholder is replaced by the normalised version in file patterns.
const Placeholder = "{version}"

// DefaultPattern names versioned schema files.
const DefaultPattern = Placeholder + "-schema.json"

// ErrMissing is returned when no version was supplied.
var ErrMissing = errors.New("version: schema version is required (set --version or DOCS_VERSION)")

// Normalize converts a docs version label into the form used in schema file
// names: "unversioned" becomes UNVERSIONED and a leading "v" is dropped.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrMissing
	}
	if strings.EqualFold(trimmed, "unversioned") {
		return Unversioned, nil
	}
	if trimmed[0] == 'v' || trimmed[0] == 'V' {
		trimmed = trimmed[1:]
	}
	if trimmed == "" {
		return "", fmt.Errorf("version: %q has no version after the prefix", raw)
	}
	return trimmed, nil
}

// SchemaFile expands pattern for version. An empty pattern uses
// DefaultPattern; a pattern without the placeholder is rejected.
func SchemaFile(pattern, version string) (string, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}
	if !strings.Contains(pattern, Placeholder) {
		return "", fmt.Errorf("version: pattern %q must contain %s", pattern, Placeholder)
	}
	return strings.ReplaceAll(pattern, Placeholder, version), nil
}

// Discover lists the versions that have a schema file in dir, UNVERSIONED
// first and then newest first. Names that match the pattern but do not parse
// as versions sort after the parsed ones, alphabetically.
func Discover(fsys afero.Fs, dir, pattern string) ([]string, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}
	prefix, suffix, ok := strings.Cut(pattern, Placeholder)
	if !ok {
		return nil, fmt.Errorf("version: pattern %q must contain %s", pattern, Placeholder)
	}
	if strings.Contains(prefix, "/") || strings.Contains(suffix, "/") {
		return nil, fmt.Errorf("version: pattern %q must name files, not directories", pattern)
	}

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("version: read %s: %w", dir, err)
	}

	var versions []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := path.Base(entry.Name())
		if len(name) <= len(prefix)+len(suffix) || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		versions = append(versions, name[len(prefix):len(name)-len(suffix)])
	}
	Sort(versions)
	return versions, nil
}

// Sort orders versions in place: UNVERSIONED, then descending semantic
// version, then unparseable labels alphabetically.
func Sort(versions []string) {
	parsed := make(map[string]*goversion.Version, len(versions))
	for _, v := range versions {
		if pv, err := goversion.NewVersion(v); err == nil {
			parsed[v] = pv
		}
	}

	rank := func(v string) int {
		switch {
		case v == Unversioned:
			return 0
		case parsed[v] != nil:
			return 1
		default:
			return 2
		}
	}

	sort.SliceStable(versions, func(i, j int) bool {
		a, b := versions[i], versions[j]
		ra, rb := rank(a), rank(b)
		if ra != rb {
			return ra < rb
		}
		if ra == 1 {
			if cmp := parsed[a].Compare(parsed[b]); cmp != 0 {
				return cmp > 0
			}
		}
		return a < b
	})
}
