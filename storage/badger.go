package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"
)

// Badger is a KV backed by a badger database.
type Badger struct {
	db *badger.DB
}

var _ KV = (*Badger)(nil)

// OpenBadger opens (or creates) a badger database in dir.
func OpenBadger(dir string, log zerolog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{log: log.With().Str("component", "badger").Logger()})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open badger db at %s: %w", dir, err)
	}
	return &Badger{db: db}, nil
}

// OpenInMemoryBadger opens a badger database that never touches the disk.
func OpenInMemoryBadger(log zerolog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(badgerLogger{log: log})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open in-memory badger db: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("could not load data: %w", err)
		}
		val, err = item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("could not copy value: %w", err)
		}
		return nil
	})
	return val, err
}

func (b *Badger) Iterate(prefix []byte, fn func(key, val []byte) error) error {
	return b.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			val, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("could not copy value for key %x: %w", key, err)
			}
			if err := fn(key, val); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Badger) Update(fn func(Writer) error) error {
	return b.db.Update(func(tx *badger.Txn) error {
		return fn(badgerWriter{tx: tx})
	})
}

func (b *Badger) Close() error {
	return b.db.Close()
}

type badgerWriter struct {
	tx *badger.Txn
}

func (w badgerWriter) Set(key, val []byte) error {
	if err := w.tx.Set(key, val); err != nil {
		return fmt.Errorf("could not store data: %w", err)
	}
	return nil
}

func (w badgerWriter) Delete(key []byte) error {
	if err := w.tx.Delete(key); err != nil {
		return fmt.Errorf("could not delete key %x: %w", key, err)
	}
	return nil
}

// badgerLogger forwards badger's internal logging to zerolog. Info and debug
// output is demoted so that an idle database stays quiet.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(format, args...)
}
