package contract

import (
	"strconv"
	"time"

	"fogchess/sdk"
)

//
// Ledger layout.
//
//	g_count              next game id
//	g_<id>_state         encoded GameState
//	g_<id>_move_<ply>    encoded MoveEvent of that ply
//	g_<id>_last          unix seconds of the last join or move
//

const gameCountKey = "g_count"

func gameKey(id uint64) string { return "g_" + strconv.FormatUint(id, 10) }

func gameStateKey(id uint64) string { return gameKey(id) + "_state" }

func moveKey(id uint64, ply uint32) string {
	return gameKey(id) + "_move_" + strconv.FormatUint(uint64(ply), 10)
}

func lastMoveKey(id uint64) string { return gameKey(id) + "_last" }

// getGameCount returns the number of games created so far; zero when unset.
func getGameCount(tx sdk.Tx) (uint64, error) {
	ptr := tx.StateGetObject(gameCountKey)
	if ptr == nil || *ptr == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(*ptr, 10, 64)
	if err != nil {
		return 0, NewInvalidArgumentErrorf("corrupt game counter %q", *ptr)
	}
	return n, nil
}

func setGameCount(tx sdk.Tx, n uint64) {
	tx.StateSetObject(gameCountKey, strconv.FormatUint(n, 10))
}

func loadGame(tx sdk.Tx, id uint64) (GameState, error) {
	ptr := tx.StateGetObject(gameStateKey(id))
	if ptr == nil || *ptr == "" {
		return GameState{}, NewGameNotFoundError(id)
	}
	return DecodeGameState([]byte(*ptr))
}

// saveGame writes nothing when gs cannot be encoded.
func saveGame(tx sdk.Tx, gs GameState) error {
	b, err := EncodeGameState(gs)
	if err != nil {
		return err
	}
	tx.StateSetObject(gameStateKey(gs.ID), string(b))
	return nil
}

func appendTrace(tx sdk.Tx, ev MoveEvent) error {
	b, err := EncodeMoveEvent(ev)
	if err != nil {
		return err
	}
	tx.StateSetObject(moveKey(ev.GameID, ev.Ply), string(b))
	return nil
}

func readTrace(tx sdk.Tx, id uint64, ply uint32) (MoveEvent, error) {
	ptr := tx.StateGetObject(moveKey(id, ply))
	if ptr == nil || *ptr == "" {
		return MoveEvent{}, NewInvalidArgumentErrorf("game %d has no move %d", id, ply)
	}
	return DecodeMoveEvent([]byte(*ptr))
}

func writeLastMoveAt(tx sdk.Tx, id uint64, t time.Time) {
	tx.StateSetObject(lastMoveKey(id), strconv.FormatInt(t.Unix(), 10))
}

func readLastMoveAt(tx sdk.Tx, id uint64) (time.Time, error) {
	ptr := tx.StateGetObject(lastMoveKey(id))
	if ptr == nil || *ptr == "" {
		return time.Time{}, NewInvalidArgumentErrorf("game %d has no move time", id)
	}
	sec, err := strconv.ParseInt(*ptr, 10, 64)
	if err != nil {
		return time.Time{}, NewInvalidArgumentErrorf("corrupt move time %q", *ptr)
	}
	return time.Unix(sec, 0).UTC(), nil
}

// playerColor returns the color addr plays in gs.
func playerColor(gs GameState, addr sdk.Address) (Color, bool) {
	for i, p := range gs.Players {
		if p != "" && p == addr {
			return Color(i), true
		}
	}
	return 0, false
}
