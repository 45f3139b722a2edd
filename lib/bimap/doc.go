// Package bimap provides a generic bidirectional map.
//
// A BidirectionalMap holds an injective mapping in both directions: every key maps to
// exactly one value and every value maps back to exactly one key. Inserting a pair that
// reuses an existing key or an existing value evicts the stale counterpart, so the two
// directions never disagree.
//
// Both directions remember insertion order. Keys() walks the reverse table (value -> key)
// and Values() walks the forward table (key -> value), which gives callers a stable,
// deterministic ordering (e.g. for building a regular expression alternation from the
// values of a fixed table).
//
// Complexity:
//   - O(1) for Set, Get*, Has* and Delete*
//   - O(n) for Keys and Values (a fresh slice is returned)
//
// Concurrency:
//
//	A BidirectionalMap is not safe for concurrent mutation. A map that is fully built
//	before it is shared (e.g. a package-level table filled during init) can be read from
//	any number of goroutines.
//
// Example usage:
//
//	m := bimap.New(
//		bimap.Pair[string, string]{Key: "map", Value: "M"},
//		bimap.Pair[string, string]{Key: "set", Value: "S"},
//	)
//
//	id, _ := m.GetByKey("map")  // "M"
//	kind, _ := m.GetByValue("S") // "set"
package bimap
