package bimap

import (
	"container/list"
)

// Pair is a single key/value association used to seed a BidirectionalMap
type Pair[K comparable, V comparable] struct {
	Key   K
	Value V
}

// --------------------------------------------------------------------------
// Ordered map (one direction)
// --------------------------------------------------------------------------

// entry is the element stored in the order list of an orderedMap
type entry[K comparable, V any] struct {
	key   K
	value V
}

// orderedMap is a map that remembers the insertion order of its keys.
// Overwriting an existing key keeps its position, deleting it removes the position.
type orderedMap[K comparable, V any] struct {
	index map[K]*list.Element
	order *list.List
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{
		index: make(map[K]*list.Element),
		order: list.New(),
	}
}

func (m *orderedMap[K, V]) set(key K, value V) {
	if el, ok := m.index[key]; ok {
		el.Value.(*entry[K, V]).value = value
		return
	}
	m.index[key] = m.order.PushBack(&entry[K, V]{key: key, value: value})
}

func (m *orderedMap[K, V]) get(key K) (V, bool) {
	if el, ok := m.index[key]; ok {
		return el.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

func (m *orderedMap[K, V]) has(key K) bool {
	_, ok := m.index[key]
	return ok
}

func (m *orderedMap[K, V]) delete(key K) {
	if el, ok := m.index[key]; ok {
		m.order.Remove(el)
		delete(m.index, key)
	}
}

// values returns the stored values in insertion order
func (m *orderedMap[K, V]) values() []V {
	out := make([]V, 0, len(m.index))
	for el := m.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*entry[K, V]).value)
	}
	return out
}

// --------------------------------------------------------------------------
// Bidirectional map
// --------------------------------------------------------------------------

// BidirectionalMap is an injective mapping that can be queried by key and by value
type BidirectionalMap[K comparable, V comparable] struct {
	keyToValue *orderedMap[K, V]
	valueToKey *orderedMap[V, K]
}

// New creates a BidirectionalMap and inserts the given pairs in order
func New[K comparable, V comparable](pairs ...Pair[K, V]) *BidirectionalMap[K, V] {
	m := &BidirectionalMap[K, V]{
		keyToValue: newOrderedMap[K, V](),
		valueToKey: newOrderedMap[V, K](),
	}
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Set inserts or overwrites the association key <-> value.
// A previous value of key and a previous key of value are evicted.
func (m *BidirectionalMap[K, V]) Set(key K, value V) {
	// drop the reverse entry of the value the key pointed to before
	if oldValue, ok := m.keyToValue.get(key); ok {
		m.valueToKey.delete(oldValue)
	}

	// drop the forward entry of the key the value pointed to before
	if oldKey, ok := m.valueToKey.get(value); ok {
		m.keyToValue.delete(oldKey)
	}

	m.keyToValue.set(key, value)
	m.valueToKey.set(value, key)
}

// GetByKey returns the value associated with key
func (m *BidirectionalMap[K, V]) GetByKey(key K) (V, bool) {
	return m.keyToValue.get(key)
}

// GetByValue returns the key associated with value
func (m *BidirectionalMap[K, V]) GetByValue(value V) (K, bool) {
	return m.valueToKey.get(value)
}

// DeleteByKey removes the association of key (no-op if key is unknown)
func (m *BidirectionalMap[K, V]) DeleteByKey(key K) {
	if value, ok := m.keyToValue.get(key); ok {
		m.keyToValue.delete(key)
		m.valueToKey.delete(value)
	}
}

// DeleteByValue removes the association of value (no-op if value is unknown)
func (m *BidirectionalMap[K, V]) DeleteByValue(value V) {
	if key, ok := m.valueToKey.get(value); ok {
		m.valueToKey.delete(value)
		m.keyToValue.delete(key)
	}
}

// HasKey reports whether key is associated with a value
func (m *BidirectionalMap[K, V]) HasKey(key K) bool {
	return m.keyToValue.has(key)
}

// HasValue reports whether value is associated with a key
func (m *BidirectionalMap[K, V]) HasValue(value V) bool {
	return m.valueToKey.has(value)
}

// Keys returns all keys in the insertion order of the reverse table
func (m *BidirectionalMap[K, V]) Keys() []K {
	return m.valueToKey.values()
}

// Values returns all values in the insertion order of the forward table
func (m *BidirectionalMap[K, V]) Values() []V {
	return m.keyToValue.values()
}

// Len returns the number of associations
func (m *BidirectionalMap[K, V]) Len() int {
	return len(m.keyToValue.index)
}
