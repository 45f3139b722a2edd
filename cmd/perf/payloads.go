package perf

import (
	"fmt"
	"math"
	"math/big"
	"net/url"
	"time"

	"github.com/ValentinKolb/serjs/lib/serializer"
)

// payload is a named input of the benchmark
type payload struct {
	name  string
	build func(size int) any
}

// payloads returns all built-in benchmark inputs
func payloads() []payload {
	return []payload{
		{name: "plain", build: plainPayload},
		{name: "escape", build: escapePayload},
		{name: "deferred", build: deferredPayload},
		{name: "functions", build: functionPayload},
		{name: "sparse", build: sparsePayload},
		{name: "large", build: largePayload},
	}
}

// plainPayload contains JSON values only
func plainPayload(int) any {
	return map[string]any{
		"id":      42,
		"name":    "serjs",
		"enabled": true,
		"ratio":   0.75,
		"tags":    []string{"a", "b", "c"},
		"owner":   map[string]any{"name": "root", "uid": 0},
		"nothing": nil,
	}
}

// escapePayload contains strings that must be escaped for html
func escapePayload(int) any {
	return map[string]any{
		"html":    "</script><script>alert('xss')</script>",
		"comment": "<!-- a > b && c < d -->",
		"lines":   "line\u2028separator\u2029paragraph",
		"url":     "https://example.com/a/b/c",
	}
}

// deferredPayload contains every value kind that JSON can't express
func deferredPayload(int) any {
	u, _ := url.Parse("https://example.com/search?q=serjs")
	n, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	return serializer.Object{
		{Key: "created", Value: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Key: "pattern", Value: serializer.RegExp{Source: "^[a-z]+$", Flags: "gi"}},
		{Key: "lookup", Value: serializer.NewMap(serializer.Entry{Key: "a", Value: 1}, serializer.Entry{Key: 2, Value: "b"})},
		{Key: "unique", Value: serializer.NewSet(1, 2, 3, "x")},
		{Key: "link", Value: u},
		{Key: "big", Value: n},
		{Key: "inf", Value: math.Inf(1)},
		{Key: "nan", Value: math.NaN()},
		{Key: "missing", Value: serializer.Undefined},
	}
}

// functionPayload contains all forms of functions
func functionPayload(int) any {
	return serializer.Object{
		{Key: "classic", Value: serializer.Function("function (a, b) { return a + b }")},
		{Key: "arrow", Value: serializer.Function("(a) => a * 2")},
		{Key: "method", Value: serializer.Function("add(a, b) { return a + b }")},
		{Key: "async", Value: serializer.Function("async fetch(url) { return await get(url) }")},
		{Key: "generator", Value: serializer.Function("*range(n) { for (let i = 0; i < n; i++) yield i }")},
	}
}

// sparsePayload is an array with holes
func sparsePayload(size int) any {
	a := serializer.NewSparseArray(size)
	for i := 0; i < size; i += 3 {
		a.Set(i, i)
	}
	return a
}

// largePayload is a list of size mixed records
func largePayload(size int) any {
	items := make([]any, size)
	for i := range items {
		items[i] = serializer.Object{
			{Key: "id", Value: i},
			{Key: "name", Value: fmt.Sprintf("item-%d", i)},
			{Key: "created", Value: time.Unix(int64(i), 0).UTC()},
			{Key: "tags", Value: serializer.NewSet("a", "b")},
			{Key: "format", Value: serializer.Function("x => x.toFixed(2)")},
		}
	}
	return map[string]any{"items": items}
}
