package contract

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/hashicorp/go-multierror"

	"fogchess/sdk"
)

//
// Game creation and the private access gate.
//

// CreateOption configures CreateGamePrivate.
type CreateOption func(*createParams)

type createParams struct {
	invite *Commitment
}

// WithInvitedOpponent reserves the black slot for the holder of the
// secrets behind c.
func WithInvitedOpponent(c Commitment) CreateOption {
	return func(p *createParams) {
		inv := c
		p.invite = &inv
	}
}

// checkAddress rejects callers whose address does not fit the game state
// encoding.
func checkAddress(addr sdk.Address) error {
	if len(addr) > MaxFieldLength {
		return NewInvalidArgumentErrorf("address of %d bytes exceeds %d", len(addr), MaxFieldLength)
	}
	return nil
}

// CreateGamePrivate opens a new game with the caller as white and returns
// its id. Ids are assigned from a counter starting at zero.
func (c *Contract) CreateGamePrivate(tx sdk.Tx, encryptSecret, maskSecret, password fr.Element, opts ...CreateOption) (id uint64, err error) {
	defer c.rejected("create", &err)

	var params createParams
	for _, opt := range opts {
		opt(&params)
	}
	env := tx.GetEnv()
	if env.Sender == "" {
		return 0, NewAccessDeniedErrorf("anonymous caller")
	}
	if err := checkAddress(env.Sender); err != nil {
		return 0, err
	}

	id, err = getGameCount(tx)
	if err != nil {
		return 0, err
	}
	gs := EmptyGameState()
	gs.ID = id
	gs.Players[ColorWhite] = env.Sender
	gs.Invite = params.invite

	gs, err = CommitToUserSecrets(gs, Secret{EncryptSecret: encryptSecret, MaskSecret: maskSecret}, ColorWhite)
	if err != nil {
		return 0, err
	}
	gs, err = CommitPasswordToGame(gs, password)
	if err != nil {
		return 0, err
	}
	gs, err = transition(gs, StatusOpen)
	if err != nil {
		return 0, err
	}

	if err := saveGame(tx, gs); err != nil {
		return 0, err
	}
	setGameCount(tx, id+1)
	EmitGameCreated(tx, id, env.Sender)

	c.metrics.GameCreated()
	c.log.Info().
		Uint64("game_id", id).
		Str("creator", env.Sender.String()).
		Bool("invite", params.invite != nil).
		Msg("game created")
	return id, nil
}

// JoinGamePrivate lets the caller take the black slot of an open game.
//
// expected must equal the creator's commitment, the password must match
// the game's, and if an opponent was invited the caller's secrets must be
// theirs. All checks run regardless of earlier failures and a failure says
// nothing about which check failed.
func (c *Contract) JoinGamePrivate(tx sdk.Tx, gameID uint64, encryptSecret, maskSecret fr.Element, expected Commitment, password fr.Element) (err error) {
	defer c.rejected("join", &err)

	env := tx.GetEnv()
	gs, err := loadGame(tx, gameID)
	if err != nil {
		return err
	}
	if gs.Status != StatusOpen {
		return NewInvalidTransitionErrorf("cannot join game %d in status %s", gameID, gs.Status)
	}
	if env.Sender == "" || env.Sender == gs.Players[ColorWhite] {
		return NewAccessDeniedErrorf("creator cannot join game %d", gameID)
	}
	if err := checkAddress(env.Sender); err != nil {
		return err
	}

	claimed := Secret{EncryptSecret: encryptSecret, MaskSecret: maskSecret}
	claimedCommitment := Commit(claimed)

	var mismatches *multierror.Error
	ok := commitmentEqual(expected, gs.Slots[ColorWhite].Commitment)
	if ok == 0 {
		mismatches = multierror.Append(mismatches, errCreatorMismatch)
	}
	invite := claimedCommitment
	if gs.Invite != nil {
		invite = *gs.Invite
	}
	okInvite := commitmentEqual(claimedCommitment, invite)
	if okInvite == 0 {
		mismatches = multierror.Append(mismatches, errInviteMismatch)
	}
	okPassword := hashEqual(CommitPassword(password), gs.Password.Hash)
	if okPassword == 0 {
		mismatches = multierror.Append(mismatches, errPasswordMismatch)
	}
	if ok&okInvite&okPassword != 1 {
		c.metrics.JoinDenied()
		c.log.Debug().
			Uint64("game_id", gameID).
			Str("joiner", env.Sender.String()).
			Err(mismatches.ErrorOrNil()).
			Msg("join rejected")
		return NewAccessDeniedErrorf("cannot join game %d", gameID)
	}

	gs, err = CommitToUserSecrets(gs, claimed, ColorBlack)
	if err != nil {
		return err
	}
	gs.Players[ColorBlack] = env.Sender
	gs, err = transition(gs, StatusActive)
	if err != nil {
		return err
	}

	if err := saveGame(tx, gs); err != nil {
		return err
	}
	writeLastMoveAt(tx, gameID, env.Timestamp)
	EmitGameJoined(tx, gameID, env.Sender)

	c.metrics.GameJoined()
	c.log.Info().
		Uint64("game_id", gameID).
		Str("joiner", env.Sender.String()).
		Msg("game joined")
	return nil
}
