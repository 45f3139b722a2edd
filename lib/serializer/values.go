package serializer

import (
	"sort"
)

// --------------------------------------------------------------------------
// JavaScript only values
// --------------------------------------------------------------------------

// undefinedType is the type of Undefined
type undefinedType struct{}

// Undefined represents the JavaScript value undefined.
// Unlike nil (which encodes as null) it is reinserted as the bare identifier undefined.
var Undefined = undefinedType{}

// Function is the JavaScript source text of a function, e.g. "function (a) { return a }",
// "a => a + 1" or the shorthand method form "add(a, b) { return a + b }".
type Function string

// RegExp is a JavaScript regular expression given by its source and flags.
type RegExp struct {
	Source string
	Flags  string
}

// JSValuer is implemented by types that want to be serialized as another value.
// The returned value is walked like any other input, so it may contain deferred kinds.
type JSValuer interface {
	JSValue() (any, error)
}

// --------------------------------------------------------------------------
// Object (ordered properties)
// --------------------------------------------------------------------------

// Property is a single key/value pair of an Object
type Property struct {
	Key   string
	Value any
}

// Object is a plain JavaScript object whose properties keep their order.
// Go maps encode with sorted keys, an Object encodes its properties as given.
type Object []Property

// Get returns the value of the first property named key
func (o Object) Get(key string) (any, bool) {
	for _, p := range o {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// --------------------------------------------------------------------------
// Map
// --------------------------------------------------------------------------

// Entry is a single key/value pair of a Map
type Entry struct {
	Key   any
	Value any
}

// Map is a JavaScript Map. Entries keep their insertion order and keys are unique.
type Map struct {
	entries []Entry
}

// NewMap creates a Map from the given entries (later duplicates overwrite earlier ones)
func NewMap(entries ...Entry) *Map {
	m := &Map{}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Set inserts or overwrites the value of key
func (m *Map) Set(key, value any) {
	if i := m.index(key); i >= 0 {
		m.entries[i].Value = value
		return
	}
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Get returns the value of key
func (m *Map) Get(key any) (any, bool) {
	if i := m.index(key); i >= 0 {
		return m.entries[i].Value, true
	}
	return nil, false
}

// Delete removes key from the map
func (m *Map) Delete(key any) {
	if i := m.index(key); i >= 0 {
		m.entries = append(m.entries[:i], m.entries[i+1:]...)
	}
}

// Len returns the number of entries
func (m *Map) Len() int {
	return len(m.entries)
}

// Entries returns a copy of all entries in insertion order
func (m *Map) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

func (m *Map) index(key any) int {
	for i, e := range m.entries {
		if sameValue(e.Key, key) {
			return i
		}
	}
	return -1
}

// --------------------------------------------------------------------------
// Set
// --------------------------------------------------------------------------

// Set is a JavaScript Set. Values keep their insertion order and are unique.
type Set struct {
	values []any
}

// NewSet creates a Set from the given values (duplicates are dropped)
func NewSet(values ...any) *Set {
	s := &Set{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v unless it is already present
func (s *Set) Add(v any) {
	if !s.Has(v) {
		s.values = append(s.values, v)
	}
}

// Has reports whether v is present
func (s *Set) Has(v any) bool {
	for _, x := range s.values {
		if sameValue(x, v) {
			return true
		}
	}
	return false
}

// Delete removes v from the set
func (s *Set) Delete(v any) {
	for i, x := range s.values {
		if sameValue(x, v) {
			s.values = append(s.values[:i], s.values[i+1:]...)
			return
		}
	}
}

// Len returns the number of values
func (s *Set) Len() int {
	return len(s.values)
}

// Values returns a copy of all values in insertion order
func (s *Set) Values() []any {
	return append([]any(nil), s.values...)
}

// --------------------------------------------------------------------------
// SparseArray
// --------------------------------------------------------------------------

// SparseArray is a JavaScript array that may contain holes.
// Indexes missing from Elements (but below Length) are holes, not undefined values.
type SparseArray struct {
	Length   int
	Elements map[int]any
}

// NewSparseArray creates an array of the given length that consists of holes only
func NewSparseArray(length int) *SparseArray {
	return &SparseArray{
		Length:   length,
		Elements: make(map[int]any),
	}
}

// SparseArrayOf creates an array from values and then punches the given holes into it
func SparseArrayOf(values []any, holes ...int) *SparseArray {
	a := NewSparseArray(len(values))
	for i, v := range values {
		a.Elements[i] = v
	}
	for _, h := range holes {
		delete(a.Elements, h)
	}
	return a
}

// Set stores v at index i, growing the array if necessary
func (a *SparseArray) Set(i int, v any) {
	if a.Elements == nil {
		a.Elements = make(map[int]any)
	}
	a.Elements[i] = v
	if i >= a.Length {
		a.Length = i + 1
	}
}

// Delete turns index i into a hole
func (a *SparseArray) Delete(i int) {
	delete(a.Elements, i)
}

// IsSparse reports whether the array contains at least one hole
func (a *SparseArray) IsSparse() bool {
	return len(a.indexes()) != a.Length
}

// indexes returns the sorted indexes of all present elements inside [0, Length)
func (a *SparseArray) indexes() []int {
	idx := make([]int, 0, len(a.Elements))
	for i := range a.Elements {
		if i >= 0 && i < a.Length {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	return idx
}
