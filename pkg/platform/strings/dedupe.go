// Package strings holds small string-slice helpers shared by configuration
// parsing.
package strings

import "strings"

// DedupeAndTrim trims each element, drops blanks, and removes duplicates
// while keeping first-seen order. Config lists split from env vars (broker
// addresses, comma-separated) go through this so "a, b,,a" and "a,b" load
// identically.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
