package bimap

import (
	"reflect"
	"testing"
)

// TestNewEmpty tests that a map without pairs is empty
func TestNewEmpty(t *testing.T) {
	m := New[string, int]()

	if m.HasKey("key") {
		t.Error("empty map should not contain key 'key'")
	}
	if m.HasValue(42) {
		t.Error("empty map should not contain value 42")
	}
	if m.Len() != 0 {
		t.Errorf("empty map should have length 0, got %d", m.Len())
	}
}

// TestNewWithPairs tests that the constructor inserts all pairs
func TestNewWithPairs(t *testing.T) {
	m := New(Pair[string, int]{"a", 1}, Pair[string, int]{"b", 2})

	if v, ok := m.GetByKey("a"); !ok || v != 1 {
		t.Errorf("GetByKey(a) = %d, %v; want 1, true", v, ok)
	}
	if k, ok := m.GetByValue(2); !ok || k != "b" {
		t.Errorf("GetByValue(2) = %q, %v; want b, true", k, ok)
	}
}

// TestSet tests inserting new pairs
func TestSet(t *testing.T) {
	m := New[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)

	for key, value := range map[string]int{"a": 1, "b": 2} {
		if v, ok := m.GetByKey(key); !ok || v != value {
			t.Errorf("GetByKey(%s) = %d, %v; want %d", key, v, ok, value)
		}
		if k, ok := m.GetByValue(value); !ok || k != key {
			t.Errorf("GetByValue(%d) = %q, %v; want %q", value, k, ok, key)
		}
	}
}

// TestSetOverwritesKey tests that the old value of a key is evicted from the reverse table
func TestSetOverwritesKey(t *testing.T) {
	m := New[string, int]()
	m.Set("a", 1)
	m.Set("a", 2)

	if v, _ := m.GetByKey("a"); v != 2 {
		t.Errorf("GetByKey(a) = %d; want 2", v)
	}
	if _, ok := m.GetByValue(1); ok {
		t.Error("value 1 should have been evicted")
	}
	if k, _ := m.GetByValue(2); k != "a" {
		t.Errorf("GetByValue(2) = %q; want a", k)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d; want 1", m.Len())
	}
}

// TestSetOverwritesValue tests that the old key of a value is evicted from the forward table
func TestSetOverwritesValue(t *testing.T) {
	m := New[string, int]()
	m.Set("a", 2)
	m.Set("b", 2)

	if v, _ := m.GetByKey("b"); v != 2 {
		t.Errorf("GetByKey(b) = %d; want 2", v)
	}
	if k, _ := m.GetByValue(2); k != "b" {
		t.Errorf("GetByValue(2) = %q; want b", k)
	}
	if m.HasKey("a") {
		t.Error("key a should have been evicted")
	}
}

// TestSetBothSidesTaken tests a Set that collides with two different existing pairs
func TestSetBothSidesTaken(t *testing.T) {
	m := New(Pair[string, int]{"a", 1}, Pair[string, int]{"b", 2})
	m.Set("a", 2)

	if m.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", m.Len())
	}
	if m.HasKey("b") || m.HasValue(1) {
		t.Error("stale pairs b<->2 and a<->1 should be gone")
	}
	if k, _ := m.GetByValue(2); k != "a" {
		t.Errorf("GetByValue(2) = %q; want a", k)
	}
}

// TestDelete tests deleting by key and by value
func TestDelete(t *testing.T) {
	m := New[string, int]()
	m.Set("a", 1)
	m.DeleteByKey("a")

	if m.HasKey("a") || m.HasValue(1) {
		t.Error("DeleteByKey should remove both directions")
	}

	m.Set("b", 2)
	m.DeleteByValue(2)

	if m.HasKey("b") || m.HasValue(2) {
		t.Error("DeleteByValue should remove both directions")
	}

	// deleting unknown entries is a no-op
	m.DeleteByKey("missing")
	m.DeleteByValue(99)
	if m.Len() != 0 {
		t.Errorf("Len() = %d; want 0", m.Len())
	}
}

// TestHas tests HasKey and HasValue
func TestHas(t *testing.T) {
	m := New[string, int]()
	m.Set("a", 1)

	if !m.HasKey("a") || m.HasKey("b") {
		t.Error("HasKey returned wrong result")
	}
	if !m.HasValue(1) || m.HasValue(2) {
		t.Error("HasValue returned wrong result")
	}
}

// TestIterationOrder tests that Keys and Values follow insertion order
func TestIterationOrder(t *testing.T) {
	m := New[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	if keys := m.Keys(); !reflect.DeepEqual(keys, []string{"a", "b", "c"}) {
		t.Errorf("Keys() = %v", keys)
	}
	if values := m.Values(); !reflect.DeepEqual(values, []int{1, 2, 3}) {
		t.Errorf("Values() = %v", values)
	}

	// overwriting a key keeps its forward position but moves the new value to the
	// end of the reverse table
	m.Set("a", 4)
	if values := m.Values(); !reflect.DeepEqual(values, []int{4, 2, 3}) {
		t.Errorf("Values() after overwrite = %v", values)
	}
	if keys := m.Keys(); !reflect.DeepEqual(keys, []string{"b", "c", "a"}) {
		t.Errorf("Keys() after overwrite = %v", keys)
	}
}
