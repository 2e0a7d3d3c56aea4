package mapsh

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// KeysSorted returns the keys of the map sorted.
func KeysSorted[M ~map[K]V, K constraints.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Invert returns a map from the values of m to its keys.
// The values of m must be unique.
func Invert[M ~map[K]V, K, V comparable](m M) map[V]K {
	r := make(map[V]K, len(m))
	for k, v := range m {
		if _, found := r[v]; found {
			panic("mapsh: duplicate value in Invert")
		}
		r[v] = k
	}
	return r
}
