package storagemgr

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axiomesh/axiom-staking/internal/storagemgr/kv"
)

func TestCachedStorage(t *testing.T) {
	c := NewCachedStorage(kv.NewMemory(), 1).(*CachedStorage)

	tests := []struct {
		key   []byte
		value []byte
	}{
		{key: []byte("k1"), value: []byte("v1")},
		{key: []byte("k2"), value: []byte("v2")},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("non_batch_%d", i), func(t *testing.T) {
			require.Nil(t, c.Get(tt.key))
			require.False(t, c.Has(tt.key))

			c.Put(tt.key, tt.value)
			require.EqualValues(t, tt.value, c.Get(tt.key))
			require.True(t, c.Has(tt.key))

			c.Delete(tt.key)
			require.Nil(t, c.Get(tt.key))
			require.False(t, c.Has(tt.key))
		})
	}

	t.Run("empty value deletes", func(t *testing.T) {
		c.Put([]byte("k3"), []byte("v3"))
		c.Put([]byte("k3"), nil)
		require.False(t, c.Has([]byte("k3")))
	})

	t.Run("batch", func(t *testing.T) {
		c.Put([]byte("old"), []byte("v"))
		require.True(t, c.cache.has([]byte("old")))

		b := c.NewBatch()
		b.Put([]byte("k1"), []byte("v1"))
		b.Put([]byte("k4"), []byte("v4"))
		b.Delete([]byte("old"))

		// cache is untouched before commit
		require.False(t, c.cache.has([]byte("k1")))
		require.True(t, c.cache.has([]byte("old")))

		b.Commit()
		require.True(t, c.cache.has([]byte("k1")))
		require.False(t, c.cache.has([]byte("old")))
		require.EqualValues(t, []byte("v4"), c.Get([]byte("k4")))
		require.Nil(t, c.Get([]byte("old")))
	})
}

func TestKVCache(t *testing.T) {
	c := newKVCache(0)
	_, ok := c.get([]byte("k"))
	require.False(t, ok)
	c.set([]byte("k"), []byte("v"))
	v, ok := c.get([]byte("k"))
	require.True(t, ok)
	require.Equal(t, []byte("v"), v)
	require.Equal(t, CacheStats{Hits: 1, Misses: 1}, c.stats())

	c.reset()
	require.Equal(t, CacheStats{}, c.stats())
	require.False(t, c.has([]byte("k")))
	require.EqualValues(t, 1, c.stats().Misses)
}

func TestCachedStorage_Stats(t *testing.T) {
	backend := kv.NewMemory()
	backend.Put([]byte("k"), []byte("v"))
	c := NewCachedStorage(backend, 1).(*CachedStorage)

	require.EqualValues(t, []byte("v"), c.Get([]byte("k")))
	require.EqualValues(t, []byte("v"), c.Get([]byte("k")))
	require.Equal(t, CacheStats{Hits: 1, Misses: 1}, c.CacheStats())
}

func TestCachedStorage_LargeValue(t *testing.T) {
	c := NewCachedStorage(kv.NewMemory(), 1).(*CachedStorage)
	large := bytes.Repeat([]byte{1}, 4096)

	c.Put([]byte("k"), []byte("old"))
	require.EqualValues(t, []byte("old"), c.Get([]byte("k")))

	c.Put([]byte("k"), large)
	require.False(t, c.cache.has([]byte("k")))
	require.EqualValues(t, large, c.Get([]byte("k")))

	c.Put([]byte("k"), []byte("old"))
	b := c.NewBatch()
	b.Put([]byte("k"), large)
	b.Commit()
	require.EqualValues(t, large, c.Get([]byte("k")))
}
