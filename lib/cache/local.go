package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

const (
	// defaultGCInterval is the interval between two sweeps of expired entries
	defaultGCInterval = time.Minute

	// DefaultMaxEntries bounds a LocalCache created without an explicit size
	DefaultMaxEntries = 10_000
)

type localEntry struct {
	js      string
	expires time.Time // zero if the entry never expires
	seq     uint64    // insertion order, the lowest seq is evicted first
}

func (e localEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// LocalCache is an in-process IRenderCache. Entries expire after the TTL,
// expired entries are dropped on access and by Sweep. Once maxEntries are stored
// a new entry replaces the oldest one.
type LocalCache struct {
	entries    *xsync.MapOf[string, localEntry]
	ttl        time.Duration
	maxEntries int
	seq        atomic.Uint64
	now        func() time.Time
}

// NewLocalCache creates a LocalCache holding at most maxEntries renderings
// (DefaultMaxEntries if maxEntries <= 0). A ttl <= 0 keeps entries until they are evicted.
func NewLocalCache(ttl time.Duration, maxEntries int) *LocalCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &LocalCache{
		entries:    xsync.NewMapOf[string, localEntry](),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get implements IRenderCache
func (c *LocalCache) Get(_ context.Context, key string) (string, bool, error) {
	e, ok := c.entries.Load(key)
	if ok && e.expired(c.now()) {
		c.entries.Delete(key)
		ok = false
	}
	countLookup(TypeLocal, ok)
	return e.js, ok, nil
}

// Set implements IRenderCache
func (c *LocalCache) Set(_ context.Context, key string, js string) error {
	e := localEntry{js: js, seq: c.seq.Add(1)}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	if _, ok := c.entries.Load(key); !ok && c.entries.Size() >= c.maxEntries {
		c.makeRoom()
	}
	c.entries.Store(key, e)
	return nil
}

// makeRoom drops expired entries and, if the cache is still full, the oldest ones
func (c *LocalCache) makeRoom() {
	c.Sweep()
	for c.entries.Size() >= c.maxEntries {
		oldestKey, oldestSeq, found := "", uint64(0), false
		c.entries.Range(func(key string, e localEntry) bool {
			if !found || e.seq < oldestSeq {
				oldestKey, oldestSeq, found = key, e.seq, true
			}
			return true
		})
		if !found {
			return
		}
		c.entries.Delete(oldestKey)
	}
}

// Len returns the number of stored entries (expired ones included until they are swept)
func (c *LocalCache) Len() int {
	return c.entries.Size()
}

// Sweep removes all expired entries and returns how many were removed
func (c *LocalCache) Sweep() int {
	now := c.now()
	removed := 0
	c.entries.Range(func(key string, e localEntry) bool {
		if e.expired(now) {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// RunGC sweeps the cache every interval until ctx is done.
// An interval <= 0 uses the default of one minute.
func (c *LocalCache) RunGC(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultGCInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				Logger.Debugf("removed %d expired renderings", n)
			}
		}
	}
}
