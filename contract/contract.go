// Package contract is a two player fog-of-war chess game whose shared state
// lives on a public ledger. Players bind themselves to secret pairs through
// field commitments; moves travel as traces only the opponent can open.
package contract

import (
	"bytes"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"fogchess/metrics"
	"fogchess/sdk"
)

// DefaultMoveTimeout is how long a player may take before the opponent can
// claim the game.
const DefaultMoveTimeout = 7 * 24 * time.Hour

var (
	errCreatorMismatch  = errors.New("creator commitment mismatch")
	errInviteMismatch   = errors.New("invited commitment mismatch")
	errPasswordMismatch = errors.New("password mismatch")
)

type Config struct {
	MoveTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{MoveTimeout: DefaultMoveTimeout}
}

// Contract holds no game state of its own; every call reads and writes the
// ledger through the sdk.Tx it is given.
type Contract struct {
	log     zerolog.Logger
	metrics metrics.GameMetrics
	cfg     Config
}

func New(log zerolog.Logger, m metrics.GameMetrics, cfg Config) *Contract {
	if cfg.MoveTimeout <= 0 {
		cfg.MoveTimeout = DefaultMoveTimeout
	}
	return &Contract{
		log:     log.With().Str("component", "contract").Logger(),
		metrics: m,
		cfg:     cfg,
	}
}

// rejected counts a failed call. It is deferred with the named error result.
func (c *Contract) rejected(op string, err *error) {
	if *err == nil {
		return
	}
	code := "internal"
	var coded CodedError
	if errors.As(*err, &coded) {
		code = strconv.FormatUint(uint64(coded.Code()), 10)
	}
	c.metrics.CallRejected(op, code)
	c.log.Debug().Str("operation", op).Str("code", code).Err(*err).Msg("call rejected")
}

// GetGame returns the shared state of a game.
func (c *Contract) GetGame(tx sdk.Tx, gameID uint64) (GameState, error) {
	return loadGame(tx, gameID)
}

// GetMoveEvent returns the event recorded for ply of a game.
func (c *Contract) GetMoveEvent(tx sdk.Tx, gameID uint64, ply uint32) (MoveEvent, error) {
	if _, err := loadGame(tx, gameID); err != nil {
		return MoveEvent{}, err
	}
	return readTrace(tx, gameID, ply)
}

// GameCount returns the number of games created.
func (c *Contract) GameCount(tx sdk.Tx) (uint64, error) {
	return getGameCount(tx)
}

// MakeMoveWhitePrivate commits white's move m. gs must be the current
// shared state and us white's state at the same ply.
func (c *Contract) MakeMoveWhitePrivate(tx sdk.Tx, gameID uint64, gs GameState, us UserState[White], m Move) (MoveEvent, error) {
	return makeMove(c, tx, gameID, gs, us, m)
}

// MakeMoveBlackPrivate commits black's move m.
func (c *Contract) MakeMoveBlackPrivate(tx sdk.Tx, gameID uint64, gs GameState, us UserState[Black], m Move) (MoveEvent, error) {
	return makeMove(c, tx, gameID, gs, us, m)
}

func makeMove[P Player](c *Contract, tx sdk.Tx, gameID uint64, gs GameState, us UserState[P], m Move) (ev MoveEvent, err error) {
	color := ColorOf[P]()
	defer c.rejected("move", &err)

	env := tx.GetEnv()
	stored, err := loadGame(tx, gameID)
	if err != nil {
		return MoveEvent{}, err
	}
	if stored.Status != StatusActive {
		return MoveEvent{}, NewNotActiveErrorf("game %d is %s", gameID, stored.Status)
	}
	if stored.Turn != color {
		return MoveEvent{}, NewOutOfTurnErrorf("game %d waits for %s", gameID, stored.Turn)
	}
	if env.Sender != stored.Players[color] {
		return MoveEvent{}, NewAccessDeniedErrorf("caller does not play %s in game %d", color, gameID)
	}
	supplied, err := EncodeGameState(gs)
	if err != nil {
		return MoveEvent{}, NewStaleStateErrorf("game state of game %d is not the ledger's: %w", gameID, err)
	}
	current, err := EncodeGameState(stored)
	if err != nil {
		return MoveEvent{}, err
	}
	if !bytes.Equal(supplied, current) {
		return MoveEvent{}, NewStaleStateErrorf("game state of game %d is not the ledger's", gameID)
	}
	if commitmentEqual(Commit(us.Secret), stored.Slots[color].Commitment) != 1 {
		return MoveEvent{}, NewAccessDeniedErrorf("secrets do not match the %s commitment", color)
	}
	if us.Ply != stored.Ply {
		return MoveEvent{}, NewStaleStateErrorf("user state at ply %d, game at ply %d", us.Ply, stored.Ply)
	}
	// the mover's own board decides whether m is playable
	if _, err := ApplyMoveSelf(us, m); err != nil {
		return MoveEvent{}, err
	}
	ev, err = BuildMoveEvent(stored, us, m)
	if err != nil {
		return MoveEvent{}, err
	}
	next, err := UpdateGameStateFromMove(stored, ev, color)
	if err != nil {
		return MoveEvent{}, err
	}

	if err := saveGame(tx, next); err != nil {
		return MoveEvent{}, err
	}
	if err := appendTrace(tx, ev); err != nil {
		return MoveEvent{}, err
	}
	writeLastMoveAt(tx, gameID, env.Timestamp)
	if err := EmitMoveEvent(tx, ev); err != nil {
		return MoveEvent{}, err
	}

	c.metrics.MoveCommitted(color.String())
	c.log.Info().
		Uint64("game_id", gameID).
		Uint32("ply", ev.Ply).
		Str("color", color.String()).
		Msg("move committed")
	return ev, nil
}
