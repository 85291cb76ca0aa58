package contract

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"fogchess/metrics"
	"fogchess/sdk"
	"fogchess/storage"
)

const (
	alice sdk.Address = "alice"
	bob   sdk.Address = "bob"
	carol sdk.Address = "carol"
)

// testEnv runs the contract on an in-memory chain with a controllable clock.
type testEnv struct {
	t     *testing.T
	kv    storage.KV
	chain *sdk.Chain
	c     *Contract
	now   time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		t:   t,
		kv:  storage.NewMemory(),
		now: time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC),
	}
	chain, err := sdk.NewChain(e.kv, zerolog.Nop(), sdk.WithClock(func() time.Time { return e.now }))
	require.NoError(t, err)
	e.chain = chain
	e.c = New(zerolog.Nop(), metrics.NewNoopCollector(), DefaultConfig())
	return e
}

func secretOf(encrypt, mask uint64) Secret {
	return Secret{EncryptSecret: NewField(encrypt), MaskSecret: NewField(mask)}
}

func (e *testEnv) advance(d time.Duration) { e.now = e.now.Add(d) }

func mustEncode(t *testing.T, gs GameState) []byte {
	t.Helper()
	b, err := EncodeGameState(gs)
	require.NoError(t, err)
	return b
}

func (e *testEnv) gameCount() uint64 {
	e.t.Helper()
	var n uint64
	err := e.chain.Simulate(alice, func(tx sdk.Tx) error {
		var err error
		n, err = e.c.GameCount(tx)
		return err
	})
	require.NoError(e.t, err)
	return n
}

func (e *testEnv) create(sender sdk.Address, s Secret, password uint64, opts ...CreateOption) (uint64, error) {
	var id uint64
	_, err := e.chain.Send(sender, func(tx sdk.Tx) error {
		var err error
		id, err = e.c.CreateGamePrivate(tx, s.EncryptSecret, s.MaskSecret, NewField(password), opts...)
		return err
	})
	return id, err
}

func (e *testEnv) mustCreate(sender sdk.Address, s Secret, password uint64, opts ...CreateOption) uint64 {
	e.t.Helper()
	id, err := e.create(sender, s, password, opts...)
	require.NoError(e.t, err)
	return id
}

func (e *testEnv) join(sender sdk.Address, id uint64, s Secret, expected Commitment, password uint64) error {
	_, err := e.chain.Send(sender, func(tx sdk.Tx) error {
		return e.c.JoinGamePrivate(tx, id, s.EncryptSecret, s.MaskSecret, expected, NewField(password))
	})
	return err
}

func (e *testEnv) game(id uint64) GameState {
	e.t.Helper()
	var gs GameState
	err := e.chain.Simulate(alice, func(tx sdk.Tx) error {
		var err error
		gs, err = e.c.GetGame(tx, id)
		return err
	})
	require.NoError(e.t, err)
	return gs
}

func (e *testEnv) moveWhite(sender sdk.Address, id uint64, gs GameState, us UserState[White], m Move) (MoveEvent, error) {
	var ev MoveEvent
	_, err := e.chain.Send(sender, func(tx sdk.Tx) error {
		var err error
		ev, err = e.c.MakeMoveWhitePrivate(tx, id, gs, us, m)
		return err
	})
	return ev, err
}

func (e *testEnv) moveBlack(sender sdk.Address, id uint64, gs GameState, us UserState[Black], m Move) (MoveEvent, error) {
	var ev MoveEvent
	_, err := e.chain.Send(sender, func(tx sdk.Tx) error {
		var err error
		ev, err = e.c.MakeMoveBlackPrivate(tx, id, gs, us, m)
		return err
	})
	return ev, err
}

// dump returns every key of the underlying store.
func (e *testEnv) dump() map[string]string {
	e.t.Helper()
	out := make(map[string]string)
	err := e.kv.Iterate(nil, func(key, val []byte) error {
		out[string(key)] = string(val)
		return nil
	})
	require.NoError(e.t, err)
	return out
}

// activeGame creates and joins a game with white 1/2, black 3/4 and
// password 3.
func (e *testEnv) activeGame() (uint64, UserState[White], UserState[Black]) {
	e.t.Helper()
	ws, bs := secretOf(1, 2), secretOf(3, 4)
	id := e.mustCreate(alice, ws, 3)
	require.NoError(e.t, e.join(bob, id, bs, Commit(ws), 3))
	return id, EmptyWhiteState().WithSecret(ws), EmptyBlackState().WithSecret(bs)
}

func mustMove(t *testing.T, fromRow, fromCol, toRow, toCol int) Move {
	t.Helper()
	m, err := CreateMove(fromRow, fromCol, toRow, toCol)
	require.NoError(t, err)
	return m
}
