package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/ValentinKolb/serjs/lib/serializer"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("cache")

// --------------------------------------------------------------------------
// Interface
// --------------------------------------------------------------------------

// IRenderCache stores rendered JavaScript by key
type IRenderCache interface {
	// Get returns the cached rendering of key. The bool is false on a cache miss.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores the rendering of key
	Set(ctx context.Context, key string, js string) error
}

// Type names a cache implementation
type Type string

const (
	TypeNone  Type = "none"
	TypeLocal Type = "local"
	TypeRedis Type = "redis"
)

// ParseType returns the Type named s
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(s)); t {
	case TypeNone, TypeLocal, TypeRedis:
		return t, nil
	case "":
		return TypeNone, nil
	default:
		return "", fmt.Errorf("unknown cache type %q (must be one of none, local, redis)", s)
	}
}

// --------------------------------------------------------------------------
// Keys
// --------------------------------------------------------------------------

// Key derives the cache key of a document rendered with opts.
// format distinguishes equal bytes that are parsed differently (json or yaml).
func Key(format string, body []byte, opts serializer.Options) string {
	h := newHash()
	h.writeString(format)
	h.writeByte(0)
	h.writeString(opts.String())
	h.writeByte(0)
	h.write(body)
	return fmt.Sprintf("%016x%x", h.sum, len(body))
}

// fnv1a is the 64 bit FNV-1a hash
type fnv1a struct {
	sum uint64
}

const (
	offset64 = 14695981039346656037
	prime64  = 1099511628211
)

func newHash() *fnv1a {
	return &fnv1a{sum: offset64}
}

func (h *fnv1a) writeByte(b byte) {
	h.sum ^= uint64(b)
	h.sum *= prime64
}

func (h *fnv1a) write(b []byte) {
	for _, c := range b {
		h.writeByte(c)
	}
}

func (h *fnv1a) writeString(s string) {
	for i := 0; i < len(s); i++ {
		h.writeByte(s[i])
	}
}

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

func countLookup(kind Type, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.GetOrCreateCounter(fmt.Sprintf(`serjs_cache_lookups_total{cache=%q,result=%q}`, kind, result)).Inc()
}

// --------------------------------------------------------------------------
// Nop
// --------------------------------------------------------------------------

// NopCache never stores anything
type NopCache struct{}

func (NopCache) Get(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (NopCache) Set(context.Context, string, string) error {
	return nil
}
