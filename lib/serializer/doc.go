/*
Package serializer converts Go values into JavaScript source text.

The output is a superset of JSON: it is an expression that, when evaluated by a
JavaScript engine, reconstructs values JSON can't express. Supported are
functions (given as Function source), dates (time.Time), regular expressions
(RegExp, *regexp.Regexp), Map and Set, URLs (*url.URL), BigInt (*big.Int),
Infinity, -Infinity and NaN, Undefined and arrays with holes (SparseArray).

# Pipeline

A value is encoded in three steps:

 1. The value is encoded as JSON. Every value without JSON representation is stored
    in a buffer of its Kind and replaced by a marker string "@__<id>-<token>-<index>__@".
 2. Unless the Unsafe option is set, the characters <, >, /, U+2028 and U+2029 are
    escaped so the result can be embedded into an HTML script element.
 3. Every marker is replaced by the JavaScript source of its buffered value.
    Markers preceded by a backslash are part of a user string and are kept verbatim.

The session token is random per Serializer, so user strings can't forge markers.

# NaN

NaN is rendered as NaN, so it survives the round trip. This differs from
serializers that only intercept Infinity and let NaN fall through to JSON,
where it becomes null. With the IsJSON option NaN is null as well.

# Cycles

A value that contains itself (through pointers, maps, slices, Object, Map, Set,
SparseArray or a JSValuer) is rejected with an ErrCyclicReference error.

# Usage

	js, err := serializer.Serialize(serializer.Object{
		{Key: "created", Value: time.Now()},
		{Key: "validate", Value: serializer.Function("v => v.length > 3")},
	}, serializer.WithIndent(2))

The package level Serialize uses a shared serializer whose token comes from a UUID.
The browser sub package provides a variant that only relies on crypto/rand.
*/
package serializer
