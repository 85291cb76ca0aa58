package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyStates(t *testing.T) {
	white, black := EmptyWhiteState(), EmptyBlackState()
	assert.Equal(t, ColorWhite, white.Color())
	assert.Equal(t, ColorBlack, black.Color())
	assert.Equal(t, 16, white.Board.Count(ColorWhite))
	assert.Equal(t, 0, white.Board.Count(ColorBlack))
	assert.Equal(t, Square{Kind: PieceKing, Owner: ColorWhite}, white.Board[4][0])
	assert.Equal(t, Square{Kind: PieceKing, Owner: ColorBlack}, black.Board[4][7])
	assert.True(t, white.Secret.EncryptSecret.IsZero())
	assert.Equal(t, uint32(0), black.Ply)
}

func TestSealUserState(t *testing.T) {
	us := EmptyBlackState().WithSecret(secretOf(3, 4))
	us, err := ApplyMoveSelf(us, mustMove(t, 4, 6, 4, 4))
	require.NoError(t, err)
	us.Lost = []PieceKind{PieceRook}
	us.PendingReport = PieceRook

	blob, err := SealUserState(us)
	require.NoError(t, err)

	c, err := SealedColor(blob)
	require.NoError(t, err)
	assert.Equal(t, ColorBlack, c)

	opened, err := OpenUserState[Black](NewField(3), blob)
	require.NoError(t, err)
	assert.Equal(t, us, opened)

	_, err = OpenUserState[Black](NewField(4), blob)
	assert.True(t, IsAccessDeniedError(err))

	_, err = OpenUserState[White](NewField(3), blob)
	assert.Error(t, err)

	tampered := append([]byte(nil), blob...)
	tampered[1] = byte(ColorWhite)
	_, err = OpenUserState[White](NewField(3), tampered)
	assert.True(t, IsAccessDeniedError(err))

	again, err := SealUserState(us)
	require.NoError(t, err)
	assert.NotEqual(t, blob, again, "nonces must differ")
}
