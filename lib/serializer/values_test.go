package serializer

import (
	"math"
	"reflect"
	"testing"
)

func TestMapKeepsInsertionOrder(t *testing.T) {
	m := NewMap(Entry{Key: "b", Value: 1}, Entry{Key: "a", Value: 2})
	m.Set("b", 3)
	m.Set(math.NaN(), "nan")
	m.Set(math.NaN(), "nan again")

	want := []Entry{{Key: "b", Value: 3}, {Key: "a", Value: 2}}
	if got := m.Entries()[:2]; !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %v; want %v", got, want)
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d; want 3", m.Len())
	}
	if v, ok := m.Get(math.NaN()); !ok || v != "nan again" {
		t.Errorf("Get(NaN) = %v, %v", v, ok)
	}

	m.Delete("b")
	if _, ok := m.Get("b"); ok {
		t.Error("b should have been deleted")
	}
}

func TestSetDropsDuplicates(t *testing.T) {
	s := NewSet(1, 2, 1, "1")
	if want := []any{1, 2, "1"}; !reflect.DeepEqual(s.Values(), want) {
		t.Errorf("Values() = %v; want %v", s.Values(), want)
	}
	s.Delete(2)
	if s.Has(2) || s.Len() != 2 {
		t.Errorf("2 should have been deleted, values %v", s.Values())
	}
}

func TestSparseArray(t *testing.T) {
	a := NewSparseArray(2)
	if !a.IsSparse() {
		t.Error("array of holes should be sparse")
	}

	a.Set(0, "a")
	a.Set(1, "b")
	if a.IsSparse() {
		t.Error("filled array should not be sparse")
	}

	a.Set(4, "e")
	if a.Length != 5 {
		t.Errorf("Length = %d; want 5", a.Length)
	}
	if want := []int{0, 1, 4}; !reflect.DeepEqual(a.indexes(), want) {
		t.Errorf("indexes() = %v; want %v", a.indexes(), want)
	}

	a.Delete(0)
	if want := []int{1, 4}; !reflect.DeepEqual(a.indexes(), want) {
		t.Errorf("indexes() = %v; want %v", a.indexes(), want)
	}
}

func TestArrayLikeObject(t *testing.T) {
	got := arrayLikeObject(SparseArrayOf([]any{"x", "y", "z"}, 0, 2))
	want := Object{{Key: "1", Value: "y"}, {Key: "length", Value: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("arrayLikeObject() = %v; want %v", got, want)
	}
}

func TestObjectGet(t *testing.T) {
	o := Object{{Key: "a", Value: 1}, {Key: "a", Value: 2}}
	if v, ok := o.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	if _, ok := o.Get("b"); ok {
		t.Error("Get(b) should fail")
	}
}
