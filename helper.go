// File: lixenwraith/tagcli/helper.go
package tagcli

import (
	"sort"
	"strings"
)

// sortedByDepth returns the map's dotted paths ordered shallow before deep,
// lexicographic within one depth. Plain lexicographic ordering is not
// depth-safe ("a.b" sorts before "ab"), and nested-node values must land
// before their children are overwritten.
func sortedByDepth(values map[string]any) []string {
	paths := make([]string, 0, len(values))
	for p := range values {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		di := strings.Count(paths[i], ".")
		dj := strings.Count(paths[j], ".")
		if di != dj {
			return di < dj
		}
		return paths[i] < paths[j]
	})
	return paths
}

// isValidKeySegment checks if a single path segment is a valid bare key:
// ASCII letters, digits, underscores, and dashes, starting with a letter or
// underscore.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if i == 0 {
			if !isLetter && r != '_' {
				return false
			}
			continue
		}
		if !(isLetter || isDigit || r == '_' || r == '-') {
			return false
		}
	}
	return true
}

// isIdentifier reports whether s is a plain identifier, possibly dotted.
// Used by the literal-config loader and for namespace keys.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, ".") {
		if !isValidKeySegment(seg) {
			return false
		}
	}
	return true
}
