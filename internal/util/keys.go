package util

import "sort"

// OrderedKeys returns the keys of m sorted ascending, for deterministic
// iteration order over a map (table printing, FIRST/FOLLOW set traversal).
func OrderedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
