package tagged

import (
	"encoding/json"
	"math"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/serjs/lib/serializer"
)

// Decode replaces every tag object in the parsed document v by its value.
// v is expected to consist of serializer.Object, []any and scalars (see ParseJSON).
func Decode(v any) (any, error) {
	switch x := v.(type) {
	case serializer.Object:
		if len(x) == 1 {
			if fn, ok := Lookup(x[0].Key); ok {
				return fn(x[0].Value)
			}
		}
		obj := make(serializer.Object, len(x))
		for i, p := range x {
			value, err := Decode(p.Value)
			if err != nil {
				return nil, err
			}
			obj[i] = serializer.Property{Key: p.Key, Value: value}
		}
		return obj, nil
	case []any:
		list := make([]any, len(x))
		for i, el := range x {
			value, err := Decode(el)
			if err != nil {
				return nil, err
			}
			list[i] = value
		}
		return list, nil
	default:
		return v, nil
	}
}

// --------------------------------------------------------------------------
// Built-in tags
// --------------------------------------------------------------------------

// decodeDate accepts RFC 3339 strings and milliseconds since the unix epoch
func decodeDate(arg any) (any, error) {
	switch x := arg.(type) {
	case string:
		t, err := time.Parse(time.RFC3339Nano, x)
		if err != nil {
			return nil, badTag("$date", "%v", err)
		}
		return t, nil
	case time.Time:
		return x, nil
	default:
		ms, err := toFloat(arg)
		if err != nil {
			return nil, badTag("$date", "expected a string or milliseconds, got %T", arg)
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	}
}

// decodeRegExp accepts "/source/flags" or {"source": "...", "flags": "..."}
func decodeRegExp(arg any) (any, error) {
	switch x := arg.(type) {
	case string:
		end := strings.LastIndexByte(x, '/')
		if !strings.HasPrefix(x, "/") || end < 1 {
			return nil, badTag("$regexp", "expected /source/flags, got %q", x)
		}
		return serializer.RegExp{Source: x[1:end], Flags: x[end+1:]}, nil
	case serializer.Object:
		var re serializer.RegExp
		for _, p := range x {
			s, ok := p.Value.(string)
			if !ok {
				return nil, badTag("$regexp", "%s must be a string", p.Key)
			}
			switch p.Key {
			case "source":
				re.Source = s
			case "flags":
				re.Flags = s
			default:
				return nil, badTag("$regexp", "unknown key %s", p.Key)
			}
		}
		return re, nil
	default:
		return nil, badTag("$regexp", "expected a string or an object, got %T", arg)
	}
}

func decodeMap(arg any) (any, error) {
	entries, ok := arg.([]any)
	if !ok {
		return nil, badTag("$map", "expected a list of entries, got %T", arg)
	}
	m := serializer.NewMap()
	for i, e := range entries {
		pair, ok := e.([]any)
		if !ok || len(pair) != 2 {
			return nil, badTag("$map", "entry %d is not a [key, value] pair", i)
		}
		key, err := Decode(pair[0])
		if err != nil {
			return nil, err
		}
		value, err := Decode(pair[1])
		if err != nil {
			return nil, err
		}
		m.Set(mapKey(key), value)
	}
	return m, nil
}

func decodeSet(arg any) (any, error) {
	values, ok := arg.([]any)
	if !ok {
		return nil, badTag("$set", "expected a list, got %T", arg)
	}
	s := serializer.NewSet()
	for _, v := range values {
		value, err := Decode(v)
		if err != nil {
			return nil, err
		}
		s.Add(mapKey(value))
	}
	return s, nil
}

// mapKey converts json.Number keys to float64, so 1 and 1.0 are the same key as in JavaScript
func mapKey(v any) any {
	if n, ok := v.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return v
}

func decodeURL(arg any) (any, error) {
	s, ok := arg.(string)
	if !ok {
		return nil, badTag("$url", "expected a string, got %T", arg)
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, badTag("$url", "%v", err)
	}
	if !u.IsAbs() {
		return nil, badTag("$url", "%q is not an absolute url", s)
	}
	return u, nil
}

func decodeBigInt(arg any) (any, error) {
	var text string
	switch x := arg.(type) {
	case string:
		text = x
	case json.Number:
		text = string(x)
	case int:
		text = strconv.Itoa(x)
	default:
		return nil, badTag("$bigint", "expected a string or an integer, got %T", arg)
	}
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, badTag("$bigint", "%q is not an integer", text)
	}
	return n, nil
}

func decodeUndefined(any) (any, error) {
	return serializer.Undefined, nil
}

func decodeNumber(arg any) (any, error) {
	s, ok := arg.(string)
	if !ok {
		return toFloatTag(arg)
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	}
	return toFloatTag(json.Number(s))
}

func toFloatTag(arg any) (any, error) {
	f, err := toFloat(arg)
	if err != nil {
		return nil, badTag("$number", "%v", err)
	}
	return f, nil
}

func decodeFunction(arg any) (any, error) {
	s, ok := arg.(string)
	if !ok {
		return nil, badTag("$function", "expected the function source, got %T", arg)
	}
	return serializer.Function(s), nil
}

// decodeSparse accepts {"length": n, "items": {"<index>": value, ...}}
func decodeSparse(arg any) (any, error) {
	obj, ok := arg.(serializer.Object)
	if !ok {
		return nil, badTag("$sparse", "expected an object, got %T", arg)
	}

	rawLength, ok := obj.Get("length")
	if !ok {
		return nil, badTag("$sparse", "missing length")
	}
	length, err := toFloat(rawLength)
	if err != nil || length < 0 || length != math.Trunc(length) || length > math.MaxInt32 {
		return nil, badTag("$sparse", "length must be a non-negative integer")
	}

	arr := serializer.NewSparseArray(int(length))
	rawItems, _ := obj.Get("items")
	items, ok := rawItems.(serializer.Object)
	if rawItems != nil && !ok {
		return nil, badTag("$sparse", "items must be an object")
	}
	for _, p := range items {
		i, err := strconv.Atoi(p.Key)
		if err != nil || i < 0 || i >= arr.Length {
			return nil, badTag("$sparse", "index %s out of range", p.Key)
		}
		value, err := Decode(p.Value)
		if err != nil {
			return nil, err
		}
		arr.Set(i, value)
	}
	return arr, nil
}

func decodeLiteral(arg any) (any, error) {
	return arg, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case json.Number:
		return x.Float64()
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, NewError(ErrCBadTag, "not a number")
	}
}
