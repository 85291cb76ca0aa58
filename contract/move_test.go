package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fogchess/sdk"
)

func TestCreateMove(t *testing.T) {
	m, err := CreateMove(0, 1, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, Move{FromRow: 0, FromCol: 1, ToRow: 0, ToCol: 3}, m)

	for _, c := range [][4]int{{-1, 0, 0, 0}, {0, 0, 8, 0}, {0, 9, 0, 0}, {2, 2, 2, 2}} {
		_, err := CreateMove(c[0], c[1], c[2], c[3])
		assert.True(t, IsInvalidMoveError(err), "%v", c)
	}
}

func TestApplyMoveSelf(t *testing.T) {
	us := EmptyWhiteState()

	t.Run("moves own piece", func(t *testing.T) {
		next, err := ApplyMoveSelf(us, mustMove(t, 0, 1, 0, 3))
		require.NoError(t, err)
		assert.Equal(t, Square{Kind: PiecePawn, Owner: ColorWhite}, next.Board[0][3])
		assert.True(t, next.Board[0][1].Empty())
		assert.Equal(t, []Move{{0, 1, 0, 3}}, next.History)
		assert.Equal(t, uint32(1), next.Ply)
		// input untouched
		assert.Equal(t, EmptyWhiteState(), us)
	})

	t.Run("replay is not absorbed", func(t *testing.T) {
		m := mustMove(t, 0, 1, 0, 3)
		next, err := ApplyMoveSelf(us, m)
		require.NoError(t, err)
		_, err = ApplyMoveSelf(next, m)
		assert.True(t, IsInvalidMoveError(err))
	})

	t.Run("empty origin", func(t *testing.T) {
		_, err := ApplyMoveSelf(us, mustMove(t, 3, 3, 3, 4))
		assert.True(t, IsInvalidMoveError(err))
	})

	t.Run("onto own piece", func(t *testing.T) {
		_, err := ApplyMoveSelf(us, mustMove(t, 0, 0, 0, 1))
		assert.True(t, IsInvalidMoveError(err))
	})

	t.Run("enemy piece", func(t *testing.T) {
		_, err := ApplyMoveSelf(EmptyBlackState(), mustMove(t, 0, 1, 0, 3))
		assert.True(t, IsInvalidMoveError(err))
	})
}

func TestUpdateGameStateFromMove(t *testing.T) {
	e := newTestEnv(t)
	id, white, _ := e.activeGame()
	gs := e.game(id)

	ev, err := BuildMoveEvent(gs, white, mustMove(t, 0, 1, 0, 3))
	require.NoError(t, err)

	next, err := UpdateGameStateFromMove(gs, ev, ColorWhite)
	require.NoError(t, err)
	assert.Equal(t, ColorBlack, next.Turn)
	assert.Equal(t, uint32(1), next.Ply)
	assert.Equal(t, ev.State, next.LastTrace)
	assert.NotEqual(t, gs.TraceRoot, next.TraceRoot)
	assert.Equal(t, uint32(0), gs.Ply, "input mutated")

	_, err = UpdateGameStateFromMove(gs, ev, ColorBlack)
	assert.True(t, IsOutOfTurnError(err))

	replay := ev
	replay.Ply = 5
	_, err = UpdateGameStateFromMove(gs, replay, ColorWhite)
	assert.True(t, IsInvalidEventError(err))

	short := ev
	short.State = ev.State[:4]
	_, err = UpdateGameStateFromMove(gs, short, ColorWhite)
	assert.True(t, IsInvalidEventError(err))

	_, err = UpdateGameStateFromMove(EmptyGameState(), ev, ColorWhite)
	assert.True(t, IsNotActiveError(err))
}

func TestMakeMove_TurnsAlternate(t *testing.T) {
	e := newTestEnv(t)
	id, white, black := e.activeGame()

	whiteMoves := []Move{mustMove(t, 0, 1, 0, 2), mustMove(t, 1, 1, 1, 2), mustMove(t, 2, 1, 2, 3)}
	blackMoves := []Move{mustMove(t, 7, 6, 7, 5), mustMove(t, 6, 6, 6, 4), mustMove(t, 5, 6, 5, 5)}

	for i := range whiteMoves {
		gs := e.game(id)
		require.Equal(t, ColorWhite, gs.Turn)

		_, err := e.moveBlack(bob, id, gs, black, blackMoves[i])
		assert.True(t, IsOutOfTurnError(err), "black moved on white's turn")

		_, err = e.moveWhite(alice, id, gs, white, whiteMoves[i])
		require.NoError(t, err)
		white, err = ApplyMoveSelf(white, whiteMoves[i])
		require.NoError(t, err)

		gs = e.game(id)
		require.Equal(t, ColorBlack, gs.Turn)
		black, err = ConsumeOpponentMove(gs, black)
		require.NoError(t, err)

		_, err = e.moveWhite(alice, id, gs, white, whiteMoves[i])
		assert.True(t, IsOutOfTurnError(err), "white moved twice")

		_, err = e.moveBlack(bob, id, gs, black, blackMoves[i])
		require.NoError(t, err)
		black, err = ApplyMoveSelf(black, blackMoves[i])
		require.NoError(t, err)

		white, err = ConsumeOpponentMove(e.game(id), white)
		require.NoError(t, err)
	}
	assert.Equal(t, uint32(6), e.game(id).Ply)
	assert.Equal(t, uint32(6), white.Ply)
	assert.Equal(t, uint32(6), black.Ply)

	err := e.chain.Simulate(alice, func(tx sdk.Tx) error {
		ev, err := e.c.GetMoveEvent(tx, id, 4)
		if err != nil {
			return err
		}
		assert.Equal(t, ColorBlack, ev.Color)
		assert.Equal(t, uint32(4), ev.Ply)
		return nil
	})
	require.NoError(t, err)
}

func TestMakeMove_Rejections(t *testing.T) {
	e := newTestEnv(t)

	t.Run("not active", func(t *testing.T) {
		id := e.mustCreate(alice, secretOf(1, 2), 3)
		white := EmptyWhiteState().WithSecret(secretOf(1, 2))
		_, err := e.moveWhite(alice, id, e.game(id), white, mustMove(t, 0, 1, 0, 3))
		assert.True(t, IsNotActiveError(err))
	})

	id, white, _ := e.activeGame()
	gs := e.game(id)
	m := mustMove(t, 0, 1, 0, 3)

	cases := []struct {
		name  string
		run   func() error
		check func(error) bool
	}{
		{"unknown game", func() error {
			_, err := e.moveWhite(alice, 99, gs, white, m)
			return err
		}, IsGameNotFoundError},
		{"wrong caller", func() error {
			_, err := e.moveWhite(carol, id, gs, white, m)
			return err
		}, IsAccessDeniedError},
		{"opponent as white", func() error {
			_, err := e.moveWhite(bob, id, gs, white, m)
			return err
		}, IsAccessDeniedError},
		{"wrong secrets", func() error {
			_, err := e.moveWhite(alice, id, gs, white.WithSecret(secretOf(1, 5)), m)
			return err
		}, IsAccessDeniedError},
		{"stale game state", func() error {
			_, err := e.moveWhite(alice, id, EmptyGameState(), white, m)
			return err
		}, IsStaleStateError},
		{"stale user state", func() error {
			ahead := white
			ahead.Ply = 3
			_, err := e.moveWhite(alice, id, gs, ahead, m)
			return err
		}, IsStaleStateError},
		{"illegal move", func() error {
			_, err := e.moveWhite(alice, id, gs, white, mustMove(t, 4, 4, 4, 5))
			return err
		}, IsInvalidMoveError},
	}

	before := e.dump()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			require.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error: %v", err)
			assert.Equal(t, before, e.dump())
		})
	}
}
