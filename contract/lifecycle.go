package contract

import (
	"fogchess/sdk"
)

//
// Status transitions and game endings.
//

var allowedTransitions = map[GameStatus]GameStatus{
	StatusCreated: StatusOpen,
	StatusOpen:    StatusActive,
	StatusActive:  StatusFinished,
}

// transition moves gs to status to. Created, Open, Active and Finished
// follow each other in that order and never go back.
func transition(gs GameState, to GameStatus) (GameState, error) {
	if next, ok := allowedTransitions[gs.Status]; !ok || next != to {
		return gs, NewInvalidTransitionErrorf("game %d cannot go from %s to %s", gs.ID, gs.Status, to)
	}
	switch to {
	case StatusOpen:
		if !gs.Slots[ColorWhite].Committed || !gs.Password.Committed {
			return gs, NewInvalidTransitionErrorf("game %d is missing white or password commitments", gs.ID)
		}
	case StatusActive:
		if !gs.Slots[ColorWhite].Committed || !gs.Slots[ColorBlack].Committed || !gs.Password.Committed {
			return gs, NewInvalidTransitionErrorf("game %d is missing commitments", gs.ID)
		}
	}
	out := gs.clone()
	out.Status = to
	if to == StatusActive {
		out.Turn = ColorWhite
	}
	return out, nil
}

func finish(gs GameState, winner Color, outcome Outcome) (GameState, error) {
	out, err := transition(gs, StatusFinished)
	if err != nil {
		return gs, err
	}
	out.Winner = winner
	out.Outcome = outcome
	return out, nil
}

// authorize returns the caller's color after checking their secrets against
// the slot of that color.
func authorize(gs GameState, sender sdk.Address, s Secret) (Color, error) {
	color, ok := playerColor(gs, sender)
	if !ok {
		return 0, NewAccessDeniedErrorf("caller does not play game %d", gs.ID)
	}
	if commitmentEqual(Commit(s), gs.Slots[color].Commitment) != 1 {
		return 0, NewAccessDeniedErrorf("secrets do not match the %s commitment", color)
	}
	return color, nil
}

// Resign ends an active game in favour of the caller's opponent.
func (c *Contract) Resign(tx sdk.Tx, gameID uint64, s Secret) (err error) {
	defer c.rejected("resign", &err)

	env := tx.GetEnv()
	gs, err := loadGame(tx, gameID)
	if err != nil {
		return err
	}
	if gs.Status != StatusActive {
		return NewNotActiveErrorf("game %d is %s", gameID, gs.Status)
	}
	color, err := authorize(gs, env.Sender, s)
	if err != nil {
		return err
	}
	gs, err = finish(gs, color.Other(), OutcomeResigned)
	if err != nil {
		return err
	}

	if err := saveGame(tx, gs); err != nil {
		return err
	}
	EmitGameResigned(tx, gameID, env.Sender)
	EmitGameWon(tx, gameID, gs.Players[gs.Winner])

	c.metrics.GameFinished(OutcomeResigned.String())
	c.log.Info().Uint64("game_id", gameID).Str("resigner", env.Sender.String()).Msg("game resigned")
	return nil
}

// ClaimTimeout lets the player waiting for the opponent's move win once the
// opponent has been idle longer than the move timeout, measured on block
// timestamps.
func (c *Contract) ClaimTimeout(tx sdk.Tx, gameID uint64, s Secret) (err error) {
	defer c.rejected("timeout", &err)

	env := tx.GetEnv()
	gs, err := loadGame(tx, gameID)
	if err != nil {
		return err
	}
	if gs.Status != StatusActive {
		return NewNotActiveErrorf("game %d is %s", gameID, gs.Status)
	}
	color, err := authorize(gs, env.Sender, s)
	if err != nil {
		return err
	}
	if color == gs.Turn {
		return NewOutOfTurnErrorf("%s cannot claim a timeout on their own turn", color)
	}
	last, err := readLastMoveAt(tx, gameID)
	if err != nil {
		return err
	}
	if idle := env.Timestamp.Sub(last); idle < c.cfg.MoveTimeout {
		return NewTimeoutNotReachedErrorf("%s idle for %s of %s", gs.Turn, idle, c.cfg.MoveTimeout)
	}
	timedOut := gs.Players[gs.Turn]
	gs, err = finish(gs, color, OutcomeTimedOut)
	if err != nil {
		return err
	}

	if err := saveGame(tx, gs); err != nil {
		return err
	}
	EmitGameTimedOut(tx, gameID, timedOut)
	EmitGameWon(tx, gameID, env.Sender)

	c.metrics.GameFinished(OutcomeTimedOut.String())
	c.log.Info().Uint64("game_id", gameID).Str("timed_out", timedOut.String()).Msg("game timed out")
	return nil
}
