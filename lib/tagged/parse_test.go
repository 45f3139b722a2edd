package tagged

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/ValentinKolb/serjs/lib/serializer"
)

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON([]byte(`{"b": 1.50, "a": [true, null, "x"], "c": {}}`))
	if err != nil {
		t.Fatalf("ParseJSON() failed: %v", err)
	}

	want := serializer.Object{
		{Key: "b", Value: json.Number("1.50")},
		{Key: "a", Value: []any{true, nil, "x"}},
		{Key: "c", Value: serializer.Object{}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseJSON() = %#v; want %#v", got, want)
	}
}

func TestParseJSONErrors(t *testing.T) {
	for _, doc := range []string{``, `{`, `[1,]`, `{"a": 1} {}`, `{1: 2}`} {
		if _, err := ParseJSON([]byte(doc)); !errors.Is(err, ErrSyntax) {
			t.Errorf("ParseJSON(%q) error = %v; want %v", doc, err, ErrSyntax)
		}
	}
}

func TestParseYAML(t *testing.T) {
	doc := `
b: 1
a:
  - true
  - ~
  - x
f: .inf
d: 2020-01-02T03:04:05Z
ref: &anchor {k: v}
copy: *anchor
`
	got, err := ParseYAML([]byte(doc))
	if err != nil {
		t.Fatalf("ParseYAML() failed: %v", err)
	}

	want := serializer.Object{
		{Key: "b", Value: json.Number("1")},
		{Key: "a", Value: []any{true, nil, "x"}},
		{Key: "f", Value: math.Inf(1)},
		{Key: "d", Value: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Key: "ref", Value: serializer.Object{{Key: "k", Value: "v"}}},
		{Key: "copy", Value: serializer.Object{{Key: "k", Value: "v"}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseYAML() = %#v; want %#v", got, want)
	}
}

func TestParseYAMLEmpty(t *testing.T) {
	got, err := ParseYAML(nil)
	if err != nil || got != nil {
		t.Errorf("ParseYAML(nil) = %v, %v; want nil, nil", got, err)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	for _, doc := range []string{"a: [1", "? [1, 2]\n: x"} {
		if _, err := ParseYAML([]byte(doc)); !errors.Is(err, ErrSyntax) {
			t.Errorf("ParseYAML(%q) error = %v; want %v", doc, err, ErrSyntax)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":     FormatJSON,
		"json": FormatJSON,
		"YAML": FormatYAML,
		"yml":  FormatYAML,
	}
	for s, want := range tests {
		if got, err := ParseFormat(s); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %s, %v; want %s", s, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(xml) error = %v; want %v", err, ErrUnknownFormat)
	}
	if _, err := DecodeDocument([]byte("{}"), Format("toml")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("DecodeDocument(toml) error = %v; want %v", err, ErrUnknownFormat)
	}
}
