package exporter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yourusername/s3-file-exporter/types"
)

// Matcher selects object keys with a shell-style glob
type Matcher struct {
	Pattern string
	glob    glob.Glob
}

// CompilePattern compiles a glob. No separators are declared, so `*` also spans `/`
// and the pattern is applied to the full object key. Only `*`, `?` and `[...]` are
// special: braces and backslashes match themselves.
func CompilePattern(pattern string) (*Matcher, error) {
	g, err := glob.Compile(quoteLiterals(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &Matcher{Pattern: pattern, glob: g}, nil
}

// quoteLiterals escapes the glob syntax that shell-style patterns treat as plain text
func quoteLiterals(pattern string) string {
	var b strings.Builder
	inClass := false
	for _, r := range pattern {
		switch {
		case inClass:
			if r == ']' {
				inClass = false
			}
		case r == '[':
			inClass = true
		case r == '{' || r == '}' || r == '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Match reports whether key satisfies the pattern
func (m *Matcher) Match(key string) bool {
	return m.glob.Match(key)
}

// MatchObjects returns the objects whose key matches, oldest first
func MatchObjects(objects []types.StorageObject, m *Matcher) []types.StorageObject {
	var matched []types.StorageObject
	for _, obj := range objects {
		if m.Match(obj.Key) {
			matched = append(matched, obj)
		}
	}

	sortByModified(matched)
	return matched
}

// sortByModified orders objects by modification time; keys break ties
func sortByModified(objects []types.StorageObject) {
	sort.SliceStable(objects, func(i, j int) bool {
		a, b := objects[i], objects[j]
		if !a.LastModified.Equal(b.LastModified) {
			return a.LastModified.Before(b.LastModified)
		}
		return a.Key < b.Key
	})
}

// Aggregate reduces a time-ordered match set to its extremes.
// It returns false for an empty set, which must not produce samples.
func Aggregate(folder, prefix, pattern string, matched []types.StorageObject) (types.FolderResult, bool) {
	if len(matched) == 0 {
		return types.FolderResult{}, false
	}

	return types.FolderResult{
		Folder:  folder,
		Prefix:  prefix,
		Pattern: pattern,
		Objects: matched,
		Oldest:  matched[0],
		Newest:  matched[len(matched)-1],
		Count:   len(matched),
	}, true
}
