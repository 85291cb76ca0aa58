package contract

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fogchess/sdk"
)

func TestScenario_CreateJoinTwoMoves(t *testing.T) {
	e := newTestEnv(t)
	ws, bs := secretOf(1, 2), secretOf(3, 4)

	id := e.mustCreate(alice, ws, 3)
	assert.Equal(t, uint64(0), id)

	// the joiner learns the creator's commitment by simulating it
	simulated, err := CommitToUserSecrets(EmptyGameState(), ws, ColorWhite)
	require.NoError(t, err)
	expected := simulated.Slots[ColorWhite].Commitment
	require.NoError(t, e.join(bob, id, bs, expected, 3))

	gs := e.game(id)
	assert.Equal(t, StatusActive, gs.Status)
	assert.Equal(t, ColorWhite, gs.Turn)
	assert.Equal(t, uint32(0), gs.Ply)

	white := EmptyWhiteState().WithSecret(ws)
	black := EmptyBlackState().WithSecret(bs)

	// white (0,1)->(0,3)
	m1 := mustMove(t, 0, 1, 0, 3)
	ev1, err := e.moveWhite(alice, id, gs, white, m1)
	require.NoError(t, err)
	local, err := UpdateGameStateFromMove(gs, ev1, ColorWhite)
	require.NoError(t, err)
	white, err = UpdateUserStateFromMove(true, white, m1)
	require.NoError(t, err)

	gs = e.game(id)
	assert.Equal(t, mustEncode(t, local), mustEncode(t, gs))
	assert.Equal(t, ColorBlack, gs.Turn)
	assert.Equal(t, uint32(1), gs.Ply)

	black, err = ConsumeOpponentMove(gs, black)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), black.Ply)
	// (0,3) is out of black's sight
	assert.Equal(t, EmptyBlackState().Board, black.Board)

	// black (4,6)->(4,4)
	m2 := mustMove(t, 4, 6, 4, 4)
	ev2, err := e.moveBlack(bob, id, gs, black, m2)
	require.NoError(t, err)
	local, err = UpdateGameStateFromMove(gs, ev2, ColorBlack)
	require.NoError(t, err)
	black, err = UpdateUserStateFromMove(true, black, m2)
	require.NoError(t, err)

	gs = e.game(id)
	assert.Equal(t, mustEncode(t, local), mustEncode(t, gs))
	assert.Equal(t, ColorWhite, gs.Turn)
	assert.Equal(t, uint32(2), gs.Ply)

	white, err = ConsumeOpponentMove(gs, white)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), white.Ply)
	assert.Equal(t, PiecePawn, white.Board[0][3].Kind)
	assert.True(t, white.Board[0][1].Empty())
	assert.Equal(t, 16, white.Board.Count(ColorWhite))
	assert.Equal(t, 0, white.Board.Count(ColorBlack))

	assert.Equal(t, PiecePawn, black.Board[4][4].Kind)
	assert.True(t, black.Board[4][6].Empty())

	// only commitments and opaque traces are public
	for _, c := range []Color{ColorWhite, ColorBlack} {
		slot := gs.Slots[c].Commitment
		for _, s := range []Secret{ws, bs} {
			enc, mask := s.EncryptSecret.Bytes(), s.MaskSecret.Bytes()
			assert.NotEqual(t, Hash(enc), slot.EncryptHash)
			assert.NotEqual(t, Hash(mask), slot.MaskHash)
		}
	}
	for _, ev := range []MoveEvent{ev1, ev2} {
		assert.Len(t, ev.State, traceSize)
		assert.False(t, bytes.Contains(ev.State, []byte{m1.FromRow, m1.FromCol, m1.ToRow, m1.ToCol}))
	}

	stored, err := e.chain.Events(EventMove, 0, e.chain.Height()+1)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	decoded, err := DecodeMoveEvent(stored[1].Payload)
	require.NoError(t, err)
	assert.Equal(t, ev2, decoded)
}

func randomSecret(t *testing.T) Secret {
	t.Helper()
	draw := func() fr.Element {
		n, err := rand.Int(rand.Reader, fr.Modulus())
		require.NoError(t, err)
		var e fr.Element
		e.SetBigInt(n)
		return e
	}
	return Secret{EncryptSecret: draw(), MaskSecret: draw()}
}

func TestLedger_NeverHoldsRawSecrets(t *testing.T) {
	e := newTestEnv(t)
	ws, bs := randomSecret(t), randomSecret(t)
	password := randomSecret(t).EncryptSecret

	var id uint64
	_, err := e.chain.Send(alice, func(tx sdk.Tx) error {
		var err error
		id, err = e.c.CreateGamePrivate(tx, ws.EncryptSecret, ws.MaskSecret, password)
		return err
	})
	require.NoError(t, err)
	_, err = e.chain.Send(bob, func(tx sdk.Tx) error {
		return e.c.JoinGamePrivate(tx, id, bs.EncryptSecret, bs.MaskSecret, Commit(ws), password)
	})
	require.NoError(t, err)

	white := EmptyWhiteState().WithSecret(ws)
	_, err = e.moveWhite(alice, id, e.game(id), white, mustMove(t, 3, 1, 3, 2))
	require.NoError(t, err)

	var needles [][]byte
	for _, el := range []fr.Element{ws.EncryptSecret, ws.MaskSecret, bs.EncryptSecret, bs.MaskSecret, password} {
		b := el.Bytes()
		n := new(big.Int).SetBytes(b[:])
		needles = append(needles, b[:], []byte(n.Text(10)), []byte(n.Text(16)))
	}
	for key, val := range e.dump() {
		for _, needle := range needles {
			assert.False(t, bytes.Contains([]byte(val), needle), "key %s holds a raw secret", key)
		}
	}
}
