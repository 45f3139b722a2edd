package tagged

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/ValentinKolb/serjs/lib/serializer"
)

func TestDecodeTags(t *testing.T) {
	href, _ := url.Parse("https://example.com/x")
	sparse := serializer.NewSparseArray(3)
	sparse.Set(1, "b")

	tests := []struct {
		name string
		doc  string
		want any
	}{
		{name: "date", doc: `{"$date": "2020-01-02T03:04:05.006Z"}`, want: time.Date(2020, 1, 2, 3, 4, 5, 6e6, time.UTC)},
		{name: "date millis", doc: `{"$date": 1000}`, want: time.Date(1970, 1, 1, 0, 0, 1, 0, time.UTC)},
		{name: "regexp string", doc: `{"$regexp": "/a\\/b/gi"}`, want: serializer.RegExp{Source: `a\/b`, Flags: "gi"}},
		{name: "regexp object", doc: `{"$regexp": {"source": "a+", "flags": "m"}}`, want: serializer.RegExp{Source: "a+", Flags: "m"}},
		{name: "map", doc: `{"$map": [["a", 1], [2, {"$undefined": true}]]}`, want: serializer.NewMap(
			serializer.Entry{Key: "a", Value: json.Number("1")},
			serializer.Entry{Key: 2.0, Value: serializer.Undefined},
		)},
		{name: "set", doc: `{"$set": [1, 1.0, "1"]}`, want: serializer.NewSet(1.0, "1")},
		{name: "url", doc: `{"$url": "https://example.com/x"}`, want: href},
		{name: "bigint", doc: `{"$bigint": "123456789012345678901234567890"}`, want: mustBigInt("123456789012345678901234567890")},
		{name: "bigint number", doc: `{"$bigint": 42}`, want: big.NewInt(42)},
		{name: "undefined", doc: `{"$undefined": true}`, want: serializer.Undefined},
		{name: "infinity", doc: `{"$number": "-Infinity"}`, want: math.Inf(-1)},
		{name: "function", doc: `{"$function": "x => x"}`, want: serializer.Function("x => x")},
		{name: "sparse", doc: `{"$sparse": {"length": 3, "items": {"1": "b"}}}`, want: sparse},
		{name: "literal", doc: `{"$literal": {"$date": "x"}}`, want: serializer.Object{{Key: "$date", Value: "x"}}},
		{name: "unknown tag", doc: `{"$nope": 1}`, want: serializer.Object{{Key: "$nope", Value: json.Number("1")}}},
		{name: "two keys", doc: `{"$date": "x", "a": 1}`, want: serializer.Object{{Key: "$date", Value: "x"}, {Key: "a", Value: json.Number("1")}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeJSON([]byte(tc.doc))
			if err != nil {
				t.Fatalf("DecodeJSON() failed: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("DecodeJSON() = %#v; want %#v", got, tc.want)
			}
		})
	}
}

func TestDecodeNestedNaN(t *testing.T) {
	got, err := DecodeJSON([]byte(`[{"a": {"$number": "NaN"}}]`))
	if err != nil {
		t.Fatalf("DecodeJSON() failed: %v", err)
	}
	obj := got.([]any)[0].(serializer.Object)
	if f, ok := obj[0].Value.(float64); !ok || !math.IsNaN(f) {
		t.Errorf("a = %#v; want NaN", obj[0].Value)
	}
}

func TestDecodeBadTags(t *testing.T) {
	docs := []string{
		`{"$date": "yesterday"}`,
		`{"$date": true}`,
		`{"$regexp": "no slashes"}`,
		`{"$regexp": {"source": 1}}`,
		`{"$map": [["only key"]]}`,
		`{"$map": {}}`,
		`{"$set": "x"}`,
		`{"$url": "/relative"}`,
		`{"$bigint": "1.5"}`,
		`{"$number": "many"}`,
		`{"$function": 1}`,
		`{"$sparse": {"items": {}}}`,
		`{"$sparse": {"length": 1, "items": {"3": 1}}}`,
		`{"$sparse": {"length": -1}}`,
	}

	for _, doc := range docs {
		if _, err := DecodeJSON([]byte(doc)); !errors.Is(err, ErrBadTag) {
			t.Errorf("DecodeJSON(%s) error = %v; want %v", doc, err, ErrBadTag)
		}
	}
}

func TestDecodeYAML(t *testing.T) {
	got, err := DecodeYAML([]byte("when: {$date: 2020-01-02T03:04:05Z}\nmissing: {$undefined: true}\n"))
	if err != nil {
		t.Fatalf("DecodeYAML() failed: %v", err)
	}
	want := serializer.Object{
		{Key: "when", Value: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Key: "missing", Value: serializer.Undefined},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeYAML() = %#v; want %#v", got, want)
	}
}

// TestDecodeAndSerialize tests that decoded documents can be rendered as JavaScript
func TestDecodeAndSerialize(t *testing.T) {
	doc := `{"when": {"$date": "2020-01-02T03:04:05Z"}, "tags": {"$set": ["a"]}, "n": 1.50, "f": {"$function": "x => x"}}`
	v, err := DecodeJSON([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeJSON() failed: %v", err)
	}

	s, err := serializer.New("t0k3n")
	if err != nil {
		t.Fatalf("serializer.New() failed: %v", err)
	}
	got, err := s.Serialize(v)
	if err != nil {
		t.Fatalf("Serialize() failed: %v", err)
	}

	want := `{"when":new Date("2020-01-02T03:04:05.000Z"),"tags":new Set(["a"]),"n":1.50,"f":x => x}`
	if got != want {
		t.Errorf("Serialize() = %s; want %s", got, want)
	}
}

func TestRegister(t *testing.T) {
	if err := Register("$upper", func(arg any) (any, error) {
		s, _ := arg.(string)
		return s + "!", nil
	}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	defer Unregister("$upper")

	got, err := DecodeJSON([]byte(`{"$upper": "hi"}`))
	if err != nil || got != "hi!" {
		t.Errorf("DecodeJSON() = %v, %v; want hi!", got, err)
	}

	found := false
	for _, tag := range Tags() {
		found = found || tag == "$upper"
	}
	if !found {
		t.Error("Tags() should contain $upper")
	}
}

func TestRegisterInvalid(t *testing.T) {
	noop := func(any) (any, error) { return nil, nil }
	for _, tag := range []string{"", "$", "date"} {
		if err := Register(tag, noop); !errors.Is(err, ErrInvalidTag) {
			t.Errorf("Register(%q) error = %v; want %v", tag, err, ErrInvalidTag)
		}
	}
	if err := Register("$x", nil); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("Register($x, nil) error = %v; want %v", err, ErrInvalidTag)
	}
}

func mustBigInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid big int " + s)
	}
	return n
}
