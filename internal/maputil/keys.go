// Package maputil provides small helpers for working with maps.
package maputil

import "sort"

// SortedKeys returns the keys of m in ascending order. The result is never
// nil, so callers can range over it or compare against an empty slice
// without a nil check.
func SortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
