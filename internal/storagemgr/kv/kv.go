package kv

// Storage is a flat key-value store. Backend failures are unrecoverable for the ledger,
// so write methods panic instead of returning errors.
type Storage interface {
	Get(key []byte) []byte
	Has(key []byte) bool
	Put(key, value []byte)
	Delete(key []byte)
	NewBatch() Batch
	Close() error
}

type Batch interface {
	Put(key, value []byte)
	Delete(key []byte)
	Commit()
	Size() int
	Reset()
}
