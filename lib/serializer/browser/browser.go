// Package browser provides a serializer whose session token is drawn directly
// from crypto/rand instead of a UUID generator.
package browser

import (
	"sync"

	"github.com/ValentinKolb/serjs/lib/serializer"
	"github.com/ValentinKolb/serjs/lib/uid"
)

// Default returns the shared serializer of this package
var Default = sync.OnceValue(func() *serializer.Serializer {
	return serializer.MustNewFromSource(uid.BrowserSource())
})

// Serialize renders v as JavaScript source text.
// The output format is identical to serializer.Serialize.
func Serialize(v any, opts ...serializer.Option) (string, error) {
	return Default().Serialize(v, opts...)
}
