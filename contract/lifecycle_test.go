package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fogchess/sdk"
)

func TestTransition(t *testing.T) {
	full, err := CommitToUserSecrets(EmptyGameState(), secretOf(1, 2), ColorWhite)
	require.NoError(t, err)
	full, err = CommitPasswordToGame(full, NewField(3))
	require.NoError(t, err)

	_, err = transition(EmptyGameState(), StatusOpen)
	assert.True(t, IsInvalidTransitionError(err), "open without commitments")

	_, err = transition(full, StatusActive)
	assert.True(t, IsInvalidTransitionError(err), "skipping open")

	open, err := transition(full, StatusOpen)
	require.NoError(t, err)

	_, err = transition(open, StatusActive)
	assert.True(t, IsInvalidTransitionError(err), "active without black")

	open, err = CommitToUserSecrets(open, secretOf(3, 4), ColorBlack)
	require.NoError(t, err)
	active, err := transition(open, StatusActive)
	require.NoError(t, err)
	assert.Equal(t, ColorWhite, active.Turn)

	done, err := finish(active, ColorBlack, OutcomeResigned)
	require.NoError(t, err)
	for _, to := range []GameStatus{StatusCreated, StatusOpen, StatusActive, StatusFinished} {
		_, err := transition(done, to)
		assert.True(t, IsInvalidTransitionError(err), "finished -> %s", to)
	}
}

func TestResign(t *testing.T) {
	e := newTestEnv(t)
	id, white, _ := e.activeGame()

	resign := func(sender sdk.Address, s Secret) error {
		_, err := e.chain.Send(sender, func(tx sdk.Tx) error {
			return e.c.Resign(tx, id, s)
		})
		return err
	}

	assert.True(t, IsAccessDeniedError(resign(carol, secretOf(1, 2))))
	assert.True(t, IsAccessDeniedError(resign(bob, secretOf(1, 2))), "bob with white's secrets")

	require.NoError(t, resign(bob, secretOf(3, 4)))
	gs := e.game(id)
	assert.Equal(t, StatusFinished, gs.Status)
	assert.Equal(t, OutcomeResigned, gs.Outcome)
	assert.Equal(t, ColorWhite, gs.Winner)

	events, err := e.chain.Events(EventGameWon, 0, e.chain.Height()+1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	won, err := DecodeEvent(events[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "alice", won.Attributes["winner"])

	assert.True(t, IsNotActiveError(resign(alice, secretOf(1, 2))))
	_, err = e.moveWhite(alice, id, gs, white, mustMove(t, 0, 1, 0, 3))
	assert.True(t, IsNotActiveError(err))
}

func TestClaimTimeout(t *testing.T) {
	e := newTestEnv(t)
	id, white, _ := e.activeGame()

	claim := func(sender sdk.Address, s Secret) error {
		_, err := e.chain.Send(sender, func(tx sdk.Tx) error {
			return e.c.ClaimTimeout(tx, id, s)
		})
		return err
	}

	_, err := e.moveWhite(alice, id, e.game(id), white, mustMove(t, 0, 1, 0, 3))
	require.NoError(t, err)

	e.advance(DefaultMoveTimeout - time.Second)
	assert.True(t, IsTimeoutNotReachedError(claim(alice, secretOf(1, 2))))
	assert.True(t, IsOutOfTurnError(claim(bob, secretOf(3, 4))), "black is the one on the clock")
	assert.True(t, IsAccessDeniedError(claim(alice, secretOf(1, 9))))

	e.advance(2 * time.Second)
	require.NoError(t, claim(alice, secretOf(1, 2)))

	gs := e.game(id)
	assert.Equal(t, StatusFinished, gs.Status)
	assert.Equal(t, OutcomeTimedOut, gs.Outcome)
	assert.Equal(t, ColorWhite, gs.Winner)

	events, err := e.chain.Events(EventGameTimedOut, 0, e.chain.Height()+1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	ev, err := DecodeEvent(events[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "bob", ev.Attributes["timedOut"])
}

func TestClaimTimeout_CountsFromJoin(t *testing.T) {
	e := newTestEnv(t)
	id, _, _ := e.activeGame()

	e.advance(DefaultMoveTimeout)
	_, err := e.chain.Send(bob, func(tx sdk.Tx) error {
		return e.c.ClaimTimeout(tx, id, secretOf(3, 4))
	})
	require.NoError(t, err)
	assert.Equal(t, ColorBlack, e.game(id).Winner)
}
