package cache

import (
	"context"
	"testing"

	"github.com/ValentinKolb/serjs/lib/serializer"
)

func TestKey(t *testing.T) {
	body := []byte(`{"a":1}`)
	opts := serializer.Options{Space: "  "}

	if Key("json", body, opts) != Key("json", body, opts) {
		t.Error("keys of equal input should be equal")
	}

	others := []string{
		Key("yaml", body, opts),
		Key("json", []byte(`{"a":2}`), opts),
		Key("json", body, serializer.Options{}),
		Key("json", body, serializer.Options{Space: "  ", Unsafe: true}),
	}
	for i, other := range others {
		if other == Key("json", body, opts) {
			t.Errorf("case %d: key should differ", i)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := map[string]Type{
		"":      TypeNone,
		"none":  TypeNone,
		"Local": TypeLocal,
		"redis": TypeRedis,
	}
	for s, want := range tests {
		if got, err := ParseType(s); err != nil || got != want {
			t.Errorf("ParseType(%q) = %s, %v; want %s", s, got, err, want)
		}
	}
	if _, err := ParseType("memcached"); err == nil {
		t.Error("ParseType(memcached) should fail")
	}
}

func TestNopCache(t *testing.T) {
	var c IRenderCache = NopCache{}
	if err := c.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, ok, _ := c.Get(context.Background(), "k"); ok {
		t.Error("NopCache should never hit")
	}
}
