package serializer

import (
	"encoding"
	"math"
	"math/big"
	"net/url"
	"reflect"
	"regexp"
	"time"
)

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

// classify returns the deferred kind of v together with the normalized value that is
// stored in the kind's buffer. Values of KindNone are encoded as JSON.
//
// Normalized values per kind:
//   - KindDate: time.Time
//   - KindRegExp: RegExp
//   - KindURL: *url.URL
//   - KindBigInt: *big.Int
//   - KindInfinity: float64
//   - KindArray: *SparseArray
//   - KindMap: *Map or a Go map whose keys can't be property names
//   - KindSet: *Set
//   - KindFunction: Function or a Go func
//   - KindUndefined: Undefined
func classify(v any) (Kind, any) {
	switch x := v.(type) {
	case nil:
		return KindNone, nil
	case undefinedType:
		return KindUndefined, x
	case Function:
		return KindFunction, x
	case time.Time:
		return KindDate, x
	case *time.Time:
		if x != nil {
			return KindDate, *x
		}
	case RegExp:
		return KindRegExp, x
	case *RegExp:
		if x != nil {
			return KindRegExp, *x
		}
	case *regexp.Regexp:
		if x != nil {
			return KindRegExp, RegExp{Source: x.String()}
		}
	case Map:
		return KindMap, &x
	case *Map:
		if x != nil {
			return KindMap, x
		}
	case Set:
		return KindSet, &x
	case *Set:
		if x != nil {
			return KindSet, x
		}
	case url.URL:
		return KindURL, &x
	case *url.URL:
		if x != nil {
			return KindURL, x
		}
	case big.Int:
		return KindBigInt, &x
	case *big.Int:
		if x != nil {
			return KindBigInt, x
		}
	case SparseArray:
		return KindArray, &x
	case *SparseArray:
		if x != nil {
			return KindArray, x
		}
	case float64:
		if isNonFinite(x) {
			return KindInfinity, x
		}
		return KindNone, x
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		if !rv.IsNil() {
			return KindFunction, v
		}
	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); isNonFinite(f) {
			return KindInfinity, f
		}
	case reflect.Map:
		if !rv.IsNil() && !isTextualKey(rv.Type().Key()) {
			return KindMap, v
		}
	}
	return KindNone, v
}

// isNonFinite reports whether f is rendered as Infinity, -Infinity or NaN
func isNonFinite(f float64) bool {
	return math.IsInf(f, 0) || math.IsNaN(f)
}

// isUndefined reports whether v is Undefined
func isUndefined(v any) bool {
	_, ok := v.(undefinedType)
	return ok
}

// isFunction reports whether v is a JavaScript function source or a non-nil Go func
func isFunction(v any) bool {
	if _, ok := v.(Function); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

// isTextualKey reports whether map keys of type t can be used as object property names
func isTextualKey(t reflect.Type) bool {
	if t.Kind() == reflect.String || t.Implements(textMarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// sameValue compares two Map keys or Set values following the SameValueZero
// semantics of JavaScript: NaN equals NaN, and reference types compare by identity.
func sameValue(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil {
		return true
	}

	if !ta.Comparable() {
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		switch va.Kind() {
		case reflect.Slice:
			return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
		case reflect.Map, reflect.Func:
			return va.Pointer() == vb.Pointer()
		}
		return false
	}

	switch x := a.(type) {
	case float64:
		y := b.(float64)
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	case float32:
		y := b.(float32)
		return x == y || (x != x && y != y)
	}
	return a == b
}

// --------------------------------------------------------------------------
// Identity (cycle detection)
// --------------------------------------------------------------------------

// identity identifies a reference value (pointer, map or slice)
type identity struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// identityOf returns the identity of v if v is a non-nil pointer, map or slice
func identityOf(rv reflect.Value) (identity, bool) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		if rv.IsNil() {
			return identity{}, false
		}
		return identity{ptr: rv.Pointer(), typ: rv.Type()}, true
	case reflect.Slice:
		if rv.IsNil() || rv.Len() == 0 {
			return identity{}, false
		}
		return identity{ptr: rv.Pointer(), typ: rv.Type(), len: rv.Len()}, true
	}
	return identity{}, false
}

// containerIdentity returns the identity of a deferred container. A SparseArray is
// identified by its element map, so copies of the struct share one identity.
func containerIdentity(v any) (identity, bool) {
	if a, ok := v.(*SparseArray); ok {
		if a == nil || a.Elements == nil {
			return identity{}, false
		}
		return identity{ptr: reflect.ValueOf(a.Elements).Pointer(), typ: sparseArrayType}, true
	}
	return identityOf(reflect.ValueOf(v))
}

var sparseArrayType = reflect.TypeFor[*SparseArray]()

// returnsItself reports whether the JSValuer v returned an equal value of its own type
func returnsItself(v, r any) bool {
	if r == nil || reflect.TypeOf(v) != reflect.TypeOf(r) {
		return false
	}
	return reflect.DeepEqual(v, r)
}

// trail is the chain of deferred containers that are currently being expanded
// by enclosing (recursive) serialize calls
type trail struct {
	id     identity
	parent *trail
}

func (t *trail) contains(id identity) bool {
	for ; t != nil; t = t.parent {
		if t.id == id {
			return true
		}
	}
	return false
}

// push returns a new trail with id on top (t itself is not modified)
func (t *trail) push(id identity) *trail {
	return &trail{id: id, parent: t}
}
