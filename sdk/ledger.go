package sdk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"fogchess/storage"
)

const (
	prefixState = "s/"
	prefixEvent = "e/"
	prefixBlock = "b/"
	keyHead     = "h"
)

// block is the unit committed to the ledger for every successful call.
type block struct {
	Height    uint64
	Timestamp time.Time
	TxID      string
	Sender    Address
	Writes    map[string]string
	Events    []Event
}

type blockHeader struct {
	Height    uint64
	Timestamp int64
	TxID      string
	Sender    string
}

// ledger lays blocks, state and events out on a storage.KV.
type ledger struct {
	kv storage.KV
}

func stateKey(key string) []byte { return []byte(prefixState + key) }

func heightKey(prefix string, height uint64) []byte {
	out := make([]byte, 0, len(prefix)+8)
	out = append(out, prefix...)
	return binary.BigEndian.AppendUint64(out, height)
}

func eventKey(height uint64, index uint32) []byte {
	return binary.BigEndian.AppendUint32(heightKey(prefixEvent, height), index)
}

func (l *ledger) head() (uint64, error) {
	val, err := l.kv.Get([]byte(keyHead))
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("could not read ledger head: %w", err)
	}
	if len(val) != 8 {
		return 0, fmt.Errorf("corrupt ledger head (%d bytes)", len(val))
	}
	return binary.BigEndian.Uint64(val), nil
}

func (l *ledger) get(key string) (*string, error) {
	val, err := l.kv.Get(stateKey(key))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read state %q: %w", key, err)
	}
	s := string(val)
	return &s, nil
}

func (l *ledger) commit(b *block) error {
	header, err := storage.Encode(blockHeader{
		Height:    b.Height,
		Timestamp: b.Timestamp.UnixNano(),
		TxID:      b.TxID,
		Sender:    string(b.Sender),
	})
	if err != nil {
		return fmt.Errorf("could not encode block %d: %w", b.Height, err)
	}

	return l.kv.Update(func(w storage.Writer) error {
		for key, val := range b.Writes {
			if err := w.Set(stateKey(key), []byte(val)); err != nil {
				return err
			}
		}
		for _, ev := range b.Events {
			enc, err := storage.Encode(ev)
			if err != nil {
				return fmt.Errorf("could not encode event %s: %w", ev.Type, err)
			}
			if err := w.Set(eventKey(ev.BlockHeight, ev.Index), enc); err != nil {
				return err
			}
		}
		if err := w.Set(heightKey(prefixBlock, b.Height), header); err != nil {
			return err
		}
		var h [8]byte
		binary.BigEndian.PutUint64(h[:], b.Height)
		return w.Set([]byte(keyHead), h[:])
	})
}

// events returns all events with from <= height < to, in log order.
func (l *ledger) events(from, to uint64) ([]Event, error) {
	var out []Event
	if to <= from {
		return out, nil
	}
	err := l.kv.Iterate([]byte(prefixEvent), func(key, val []byte) error {
		height := binary.BigEndian.Uint64(key[len(prefixEvent):])
		if height < from || height >= to {
			return nil
		}
		var ev Event
		if err := storage.Decode(val, &ev); err != nil {
			return fmt.Errorf("could not decode event at %x: %w", key, err)
		}
		out = append(out, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
