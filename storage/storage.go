// Package storage provides the key/value backends used by the ledger and by
// the per-player private state store.
package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned by Get when no value exists for a key. Backends
	// translate their own not-found errors (badger.ErrKeyNotFound) into it.
	ErrNotFound = errors.New("key not found")
)

// Reader is the read side of a key/value backend.
type Reader interface {
	// Get returns a copy of the value stored under key, or ErrNotFound.
	Get(key []byte) ([]byte, error)

	// Iterate calls fn for every key with the given prefix, in ascending key
	// order. Returning an error from fn stops the iteration.
	Iterate(prefix []byte, fn func(key, val []byte) error) error
}

// Writer receives the writes of a single atomic batch.
type Writer interface {
	Set(key, val []byte) error
	Delete(key []byte) error
}

// KV is a key/value backend with atomic batched updates. If the function
// passed to Update returns an error, none of its writes become visible.
type KV interface {
	Reader
	Update(fn func(Writer) error) error
	Close() error
}
