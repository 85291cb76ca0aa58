// Package privstate keeps a player's sealed UserState values on local disk,
// keyed by owner and game.
package privstate

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"fogchess/contract"
	"fogchess/sdk"
	"fogchess/storage"
)

const prefixUserState = "u/"

// ErrNoState is returned when owner has no state for a game.
var ErrNoState = errors.New("no private state")

type Store struct {
	kv storage.KV
}

func New(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// key is u/<owner>/<be64 game id>.
func key(owner sdk.Address, gameID uint64) []byte {
	k := make([]byte, 0, len(prefixUserState)+len(owner)+9)
	k = append(k, prefixUserState...)
	k = append(k, owner...)
	k = append(k, '/')
	return binary.BigEndian.AppendUint64(k, gameID)
}

// Save seals us and stores it, replacing any previous state.
func Save[P contract.Player](s *Store, owner sdk.Address, gameID uint64, us contract.UserState[P]) error {
	blob, err := contract.SealUserState(us)
	if err != nil {
		return err
	}
	return s.kv.Update(func(w storage.Writer) error {
		return w.Set(key(owner, gameID), blob)
	})
}

func (s *Store) get(owner sdk.Address, gameID uint64) ([]byte, error) {
	blob, err := s.kv.Get(key(owner, gameID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w for %s in game %d", ErrNoState, owner, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read private state: %w", err)
	}
	return blob, nil
}

// Color returns the side owner plays in a game.
func (s *Store) Color(owner sdk.Address, gameID uint64) (contract.Color, error) {
	blob, err := s.get(owner, gameID)
	if err != nil {
		return 0, err
	}
	return contract.SealedColor(blob)
}

// Load opens the state owner keeps for a game.
func Load[P contract.Player](s *Store, owner sdk.Address, gameID uint64, encrypt fr.Element) (contract.UserState[P], error) {
	blob, err := s.get(owner, gameID)
	if err != nil {
		return contract.UserState[P]{}, err
	}
	return contract.OpenUserState[P](encrypt, blob)
}

// Games lists the ids of every game owner keeps state for, in order.
func (s *Store) Games(owner sdk.Address) ([]uint64, error) {
	prefix := append([]byte(prefixUserState+owner.String()), '/')
	var ids []uint64
	err := s.kv.Iterate(prefix, func(k, _ []byte) error {
		rest := k[len(prefix):]
		if len(rest) != 8 {
			return nil
		}
		ids = append(ids, binary.BigEndian.Uint64(rest))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not list games of %s: %w", owner, err)
	}
	return ids, nil
}

// Delete drops the state owner keeps for a game.
func (s *Store) Delete(owner sdk.Address, gameID uint64) error {
	return s.kv.Update(func(w storage.Writer) error {
		return w.Delete(key(owner, gameID))
	})
}
