package storagemgr

import (
	"github.com/axiomesh/axiom-staking/internal/storagemgr/kv"
)

// CachedStorage serves reads from a kvCache and writes through to the wrapped storage.
type CachedStorage struct {
	kv.Storage
	cache *kvCache
}

func NewCachedStorage(s kv.Storage, megabytesLimit int) kv.Storage {
	return &CachedStorage{
		Storage: s,
		cache:   newKVCache(megabytesLimit),
	}
}

func (c *CachedStorage) Get(key []byte) []byte {
	if value, ok := c.cache.get(key); ok {
		return value
	}
	v := c.Storage.Get(key)
	if v != nil {
		c.cache.set(key, v)
	}
	return v
}

func (c *CachedStorage) Has(key []byte) bool {
	return c.cache.has(key) || c.Storage.Has(key)
}

// Put with an empty value is a delete, the stores cannot tell the two apart.
func (c *CachedStorage) Put(key, value []byte) {
	if len(value) == 0 {
		c.Delete(key)
		return
	}
	c.Storage.Put(key, value)
	c.cache.set(key, value)
}

func (c *CachedStorage) Delete(key []byte) {
	c.cache.del(key)
	c.Storage.Delete(key)
}

func (c *CachedStorage) CacheStats() CacheStats {
	return c.cache.stats()
}

func (c *CachedStorage) Close() error {
	c.cache.reset()
	return c.Storage.Close()
}

func (c *CachedStorage) NewBatch() kv.Batch {
	return &cachedBatch{
		Batch:   c.Storage.NewBatch(),
		cache:   c.cache,
		pending: make(map[string][]byte),
	}
}

// cachedBatch applies its writes to the cache only once the batch is committed.
type cachedBatch struct {
	kv.Batch
	cache *kvCache

	// nil marks a delete
	pending map[string][]byte
}

func (b *cachedBatch) Put(key, value []byte) {
	if len(value) == 0 {
		b.Delete(key)
		return
	}
	b.pending[string(key)] = value
	b.Batch.Put(key, value)
}

func (b *cachedBatch) Delete(key []byte) {
	b.pending[string(key)] = nil
	b.Batch.Delete(key)
}

func (b *cachedBatch) Commit() {
	b.Batch.Commit()
	for k, v := range b.pending {
		if v == nil {
			b.cache.del([]byte(k))
			continue
		}
		b.cache.set([]byte(k), v)
	}
	b.pending = make(map[string][]byte)
}

func (b *cachedBatch) Reset() {
	b.Batch.Reset()
	b.pending = make(map[string][]byte)
}
