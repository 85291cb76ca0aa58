package storage

import (
	"bytes"
	"sort"
	"sync"
)

// Memory is an in-memory KV. It is used by tests and by simulated chains
// where durability is not required. State is lost when the process exits.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ KV = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.values[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(val), nil
}

func (m *Memory) Iterate(prefix []byte, fn func(key, val []byte) error) error {
	m.mu.RLock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	snapshot := make([][]byte, len(keys))
	for i, k := range keys {
		snapshot[i] = bytes.Clone(m.values[k])
	}
	m.mu.RUnlock()

	for i, k := range keys {
		if err := fn([]byte(k), snapshot[i]); err != nil {
			return err
		}
	}
	return nil
}

// Update stages all writes of fn and applies them under a single lock once
// fn returns without error.
func (m *Memory) Update(fn func(Writer) error) error {
	staged := &memoryBatch{}
	if err := fn(staged); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range staged.ops {
		if op.del {
			delete(m.values, op.key)
			continue
		}
		m.values[op.key] = op.val
	}
	return nil
}

func (m *Memory) Close() error { return nil }

type memoryOp struct {
	key string
	val []byte
	del bool
}

type memoryBatch struct {
	ops []memoryOp
}

func (b *memoryBatch) Set(key, val []byte) error {
	b.ops = append(b.ops, memoryOp{key: string(key), val: bytes.Clone(val)})
	return nil
}

func (b *memoryBatch) Delete(key []byte) error {
	b.ops = append(b.ops, memoryOp{key: string(key), del: true})
	return nil
}
