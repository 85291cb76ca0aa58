package storage

import (
	"bytes"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached is a read-through cache in front of another KV. Only committed
// values enter the cache: writes are recorded during Update and applied to
// the cache after the underlying batch succeeded.
type Cached struct {
	KV
	cache *lru.Cache[string, []byte]
}

var _ KV = (*Cached)(nil)

func NewCached(kv KV, size int) (*Cached, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("could not create cache of size %d: %w", size, err)
	}
	return &Cached{KV: kv, cache: cache}, nil
}

func (c *Cached) Get(key []byte) ([]byte, error) {
	if val, ok := c.cache.Get(string(key)); ok {
		return bytes.Clone(val), nil
	}
	val, err := c.KV.Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.cache.Add(string(key), bytes.Clone(val))
	return val, nil
}

func (c *Cached) Update(fn func(Writer) error) error {
	var touched [][]byte
	err := c.KV.Update(func(w Writer) error {
		return fn(recordingWriter{Writer: w, touched: &touched})
	})
	if err != nil {
		return err
	}
	for _, key := range touched {
		c.cache.Remove(string(key))
	}
	return nil
}

type recordingWriter struct {
	Writer
	touched *[][]byte
}

func (w recordingWriter) Set(key, val []byte) error {
	*w.touched = append(*w.touched, bytes.Clone(key))
	return w.Writer.Set(key, val)
}

func (w recordingWriter) Delete(key []byte) error {
	*w.touched = append(*w.touched, bytes.Clone(key))
	return w.Writer.Delete(key)
}
