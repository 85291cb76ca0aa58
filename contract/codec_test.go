package contract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fogchess/sdk"
)

func TestGameStateCodec(t *testing.T) {
	e := newTestEnv(t)
	invite := Commit(secretOf(3, 4))
	id := e.mustCreate(alice, secretOf(1, 2), 3, WithInvitedOpponent(invite))
	require.NoError(t, e.join(bob, id, secretOf(3, 4), Commit(secretOf(1, 2)), 3))
	gs := e.game(id)

	decoded, err := DecodeGameState(mustEncode(t, gs))
	require.NoError(t, err)
	assert.Equal(t, gs, decoded)
	require.NotNil(t, decoded.Invite)
	assert.Equal(t, invite, *decoded.Invite)

	enc := mustEncode(t, gs)

	t.Run("truncated", func(t *testing.T) {
		_, err := DecodeGameState(enc[:len(enc)-1])
		assert.Error(t, err)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := DecodeGameState(append(append([]byte(nil), enc...), 0))
		assert.Error(t, err)
	})

	t.Run("unknown version", func(t *testing.T) {
		bad := append([]byte(nil), enc...)
		bad[0] = codecVersion + 1
		_, err := DecodeGameState(bad)
		assert.Error(t, err)
	})

	t.Run("status out of range", func(t *testing.T) {
		bad := append([]byte(nil), enc...)
		bad[9] = 9
		_, err := DecodeGameState(bad)
		assert.True(t, IsInvalidArgumentError(err))
	})

	t.Run("winner out of range", func(t *testing.T) {
		bad := append([]byte(nil), enc...)
		bad[12] = 2
		_, err := DecodeGameState(bad)
		assert.True(t, IsInvalidArgumentError(err))
	})

	t.Run("truncated is coded", func(t *testing.T) {
		_, err := DecodeGameState(enc[:20])
		assert.True(t, IsInvalidArgumentError(err))
	})
}

func TestGameStateCodec_OversizedFields(t *testing.T) {
	gs := EmptyGameState()
	gs.Players[ColorWhite] = sdk.Address(strings.Repeat("a", MaxFieldLength))
	_, err := EncodeGameState(gs)
	require.NoError(t, err)

	gs.Players[ColorWhite] = sdk.Address(strings.Repeat("a", MaxFieldLength+1))
	_, err = EncodeGameState(gs)
	assert.True(t, IsInvalidArgumentError(err))

	_, err = EncodeMoveEvent(MoveEvent{Color: ColorWhite, State: make([]byte, MaxFieldLength+1)})
	assert.True(t, IsInvalidEventError(err))
}

func TestCreateGamePrivate_OversizedSender(t *testing.T) {
	e := newTestEnv(t)
	long := sdk.Address(strings.Repeat("x", MaxFieldLength+4))

	_, err := e.create(long, secretOf(1, 2), 3)
	assert.True(t, IsInvalidArgumentError(err))
	assert.Equal(t, uint64(0), e.gameCount())

	id := e.mustCreate(alice, secretOf(1, 2), 3)
	assert.Equal(t, uint64(0), id)
	err = e.join(long, id, secretOf(3, 4), Commit(secretOf(1, 2)), 3)
	assert.True(t, IsInvalidArgumentError(err))
	assert.Equal(t, StatusOpen, e.game(id).Status)

	require.NoError(t, e.join(bob, id, secretOf(3, 4), Commit(secretOf(1, 2)), 3))
	assert.Equal(t, uint64(1), e.gameCount())
}

func TestMoveEventCodec(t *testing.T) {
	ev := MoveEvent{GameID: 7, Ply: 3, Color: ColorWhite, State: make([]byte, traceSize)}
	enc, err := EncodeMoveEvent(ev)
	require.NoError(t, err)
	decoded, err := DecodeMoveEvent(enc)
	require.NoError(t, err)
	assert.Equal(t, ev, decoded)

	bad := append([]byte(nil), enc...)
	bad[13] = 2
	_, err = DecodeMoveEvent(bad)
	assert.True(t, IsInvalidEventError(err))

	_, err = DecodeMoveEvent(bad[:5])
	assert.True(t, IsInvalidEventError(err))
}
