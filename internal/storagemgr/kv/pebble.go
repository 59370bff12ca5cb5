package kv

import (
	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
)

var _ Storage = (*pdb)(nil)

type pdb struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions
}

func NewPebble(path string, cacheMegabytes int, sync bool) (Storage, error) {
	cache := pebble.NewCache(int64(cacheMegabytes) * 1024 * 1024)
	defer cache.Unref()
	db, err := pebble.Open(path, &pebble.Options{
		Cache:                       cache,
		MemTableStopWritesThreshold: 2,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble %s", path)
	}
	return &pdb{db: db, writeOpts: &pebble.WriteOptions{Sync: sync}}, nil
}

func (p *pdb) Get(key []byte) []byte {
	val, closer, err := p.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil
		}
		panic(err)
	}
	defer closer.Close()
	ret := make([]byte, len(val))
	copy(ret, val)
	return ret
}

func (p *pdb) Has(key []byte) bool {
	return p.Get(key) != nil
}

func (p *pdb) Put(key, value []byte) {
	if err := p.db.Set(key, value, p.writeOpts); err != nil {
		panic(err)
	}
}

func (p *pdb) Delete(key []byte) {
	if err := p.db.Delete(key, p.writeOpts); err != nil {
		panic(err)
	}
}

func (p *pdb) NewBatch() Batch {
	return &pebbleBatch{batch: p.db.NewBatch(), writeOpts: p.writeOpts}
}

func (p *pdb) Close() error {
	return p.db.Close()
}

type pebbleBatch struct {
	batch     *pebble.Batch
	writeOpts *pebble.WriteOptions
}

func (b *pebbleBatch) Put(key, value []byte) {
	if err := b.batch.Set(key, value, nil); err != nil {
		panic(err)
	}
}

func (b *pebbleBatch) Delete(key []byte) {
	if err := b.batch.Delete(key, nil); err != nil {
		panic(err)
	}
}

func (b *pebbleBatch) Commit() {
	if err := b.batch.Commit(b.writeOpts); err != nil {
		panic(err)
	}
}

func (b *pebbleBatch) Size() int {
	return b.batch.Len()
}

func (b *pebbleBatch) Reset() {
	b.batch.Reset()
}
