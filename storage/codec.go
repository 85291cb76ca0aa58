package storage

import (
	"errors"
	"fmt"

	"github.com/golang/snappy"
	"github.com/vmihailenco/msgpack/v4"
)

var errUncompressedValue = errors.New("could not uncompress data")

// Encode encodes the given entity using msgpack and compresses the result
// with snappy.
func Encode(entity interface{}) ([]byte, error) {
	val, err := msgpack.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("could not encode entity: %w", err)
	}
	return snappy.Encode(nil, val), nil
}

// Decode reverses Encode. The provided entity needs to be a pointer to an
// initialized entity of the correct type.
func Decode(val []byte, entity interface{}) error {
	raw, err := snappy.Decode(nil, val)
	if err != nil {
		return fmt.Errorf("%s: %w", err, errUncompressedValue)
	}
	if err := msgpack.Unmarshal(raw, entity); err != nil {
		return fmt.Errorf("could not decode entity: %w", err)
	}
	return nil
}
