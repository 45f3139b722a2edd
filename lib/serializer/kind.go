package serializer

import (
	"github.com/ValentinKolb/serjs/lib/bimap"
)

// --------------------------------------------------------------------------
// Kind Definition
// --------------------------------------------------------------------------

// Kind identifies a value that has no JSON representation and is therefore
// deferred into a side buffer and reinserted as JavaScript source.
type Kind uint8

const (
	KindNone Kind = iota // Value is encoded as plain JSON

	KindMap       // Map
	KindURL       // URL
	KindSet       // Set
	KindDate      // Date
	KindArray     // sparse Array
	KindBigInt    // BigInt
	KindRegExp    // RegExp
	KindInfinity  // Infinity, -Infinity or NaN
	KindFunction  // function
	KindUndefined // undefined

	kindCount // number of kinds (incl. KindNone), used to size buffers
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindURL:
		return "url"
	case KindSet:
		return "set"
	case KindDate:
		return "date"
	case KindArray:
		return "array"
	case KindBigInt:
		return "bigint"
	case KindRegExp:
		return "regExp"
	case KindInfinity:
		return "infinity"
	case KindFunction:
		return "function"
	case KindUndefined:
		return "undefined"
	default:
		return "none"
	}
}

// --------------------------------------------------------------------------
// Placeholder identifiers
// --------------------------------------------------------------------------

// placeholderIdentifiers maps every deferred kind to the single character
// used inside its placeholder markers. The table is filled once and never mutated.
var placeholderIdentifiers = bimap.New(
	bimap.Pair[Kind, string]{Key: KindMap, Value: "M"},
	bimap.Pair[Kind, string]{Key: KindURL, Value: "L"},
	bimap.Pair[Kind, string]{Key: KindSet, Value: "S"},
	bimap.Pair[Kind, string]{Key: KindDate, Value: "D"},
	bimap.Pair[Kind, string]{Key: KindArray, Value: "A"},
	bimap.Pair[Kind, string]{Key: KindBigInt, Value: "B"},
	bimap.Pair[Kind, string]{Key: KindRegExp, Value: "R"},
	bimap.Pair[Kind, string]{Key: KindInfinity, Value: "I"},
	bimap.Pair[Kind, string]{Key: KindFunction, Value: "F"},
	bimap.Pair[Kind, string]{Key: KindUndefined, Value: "U"},
)

// Identifier returns the placeholder identifier of k
func (k Kind) Identifier() (string, bool) {
	return placeholderIdentifiers.GetByKey(k)
}

// KindOfIdentifier returns the kind that uses id in its placeholder markers
func KindOfIdentifier(id string) (Kind, bool) {
	return placeholderIdentifiers.GetByValue(id)
}

// Kinds returns all deferred kinds in table order
func Kinds() []Kind {
	return placeholderIdentifiers.Keys()
}
