package tagged

import (
	"github.com/ValentinKolb/serjs/lib/serializer"
)

// Limits bounds the size of the JavaScript a decoded document can expand to.
// A zero field disables the corresponding check.
type Limits struct {
	// MaxDepth is the maximum nesting of containers (objects, lists, maps, sets, arrays)
	MaxDepth int
	// MaxSparseLength is the maximum sum of the lengths of all sparse arrays.
	// Holes cost nothing in the document but each one is written as null in JSON mode.
	MaxSparseLength int
}

// Check walks the decoded document v and returns an ErrLimit error if it exceeds l
func (l Limits) Check(v any) error {
	sparse := 0
	return l.check(v, 0, &sparse)
}

func (l Limits) check(v any, depth int, sparse *int) error {
	var children []any

	switch x := v.(type) {
	case serializer.Object:
		children = make([]any, len(x))
		for i, p := range x {
			children[i] = p.Value
		}
	case []any:
		children = x
	case *serializer.Map:
		for _, e := range x.Entries() {
			children = append(children, e.Key, e.Value)
		}
	case *serializer.Set:
		children = x.Values()
	case *serializer.SparseArray:
		*sparse += x.Length
		if l.MaxSparseLength > 0 && *sparse > l.MaxSparseLength {
			return limitExceeded("sparse arrays are longer than %d elements in total", l.MaxSparseLength)
		}
		for _, e := range x.Elements {
			children = append(children, e)
		}
	default:
		return nil
	}

	if l.MaxDepth > 0 && depth >= l.MaxDepth {
		return limitExceeded("document is nested deeper than %d levels", l.MaxDepth)
	}
	for _, c := range children {
		if err := l.check(c, depth+1, sparse); err != nil {
			return err
		}
	}
	return nil
}
