package storagemgr

import (
	"sync/atomic"

	"github.com/coocood/freecache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultCacheMegabytes = 128

var kvCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "axiom_staking",
	Subsystem: "storage",
	Name:      "kv_cache_lookups_total",
	Help:      "Lookups of the kv read cache by result, hit or miss",
}, []string{"result"})

// CacheStats counts the lookups of one cache since it was created or reset.
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

// kvCache is a byte-bounded read cache in front of a kv store.
type kvCache struct {
	cache  *freecache.Cache
	hits   atomic.Uint64
	misses atomic.Uint64
}

func newKVCache(megabytesLimit int) *kvCache {
	if megabytesLimit <= 0 {
		megabytesLimit = defaultCacheMegabytes
	}
	return &kvCache{
		cache: freecache.NewCache(megabytesLimit * 1024 * 1024),
	}
}

func (c *kvCache) get(k []byte) ([]byte, bool) {
	v, err := c.cache.Get(k)
	if err != nil {
		c.miss()
		return nil, false
	}
	c.hit()
	return v, true
}

func (c *kvCache) has(k []byte) bool {
	_, err := c.cache.Peek(k)
	if err != nil {
		c.miss()
		return false
	}
	c.hit()
	return true
}

// set drops the cached entry of k when freecache rejects v, entries over 1/1024 of the cache are too large.
func (c *kvCache) set(k []byte, v []byte) {
	if err := c.cache.Set(k, v, 0); err != nil {
		c.cache.Del(k)
	}
}

func (c *kvCache) del(k []byte) {
	c.cache.Del(k)
}

func (c *kvCache) reset() {
	c.cache.Clear()
	c.hits.Store(0)
	c.misses.Store(0)
}

func (c *kvCache) stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *kvCache) hit() {
	c.hits.Add(1)
	kvCacheLookups.WithLabelValues("hit").Inc()
}

func (c *kvCache) miss() {
	c.misses.Add(1)
	kvCacheLookups.WithLabelValues("miss").Inc()
}
