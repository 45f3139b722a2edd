package serializer

import (
	"sync"

	"github.com/ValentinKolb/serjs/lib/uid"
)

// Default returns the process wide serializer. Its session token is generated
// on first use from a random UUID.
var Default = sync.OnceValue(func() *Serializer {
	return MustNewFromSource(uid.SecureSource())
})

// Serialize renders v as JavaScript source text using the Default serializer
func Serialize(v any, opts ...Option) (string, error) {
	return Default().Serialize(v, opts...)
}
