package cmd

import (
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/spf13/cobra"

	"fogchess/contract"
	"fogchess/privstate"
	"fogchess/sdk"
)

var (
	flagFrom string
	flagTo   string
)

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "commit a move, catching up on the opponent's last move first",
	RunE:  runMove,
}

func init() {
	addSenderFlag(moveCmd)
	addGameFlag(moveCmd)
	addEncryptFlag(moveCmd)
	moveCmd.Flags().StringVar(&flagFrom, "from", "", "origin square as row,col")
	moveCmd.Flags().StringVar(&flagTo, "to", "", "target square as row,col")
	_ = moveCmd.MarkFlagRequired("from")
	_ = moveCmd.MarkFlagRequired("to")
}

func runMove(cmd *cobra.Command, _ []string) error {
	encrypt, err := parseEncrypt()
	if err != nil {
		return err
	}
	fromRow, fromCol, err := parseSquare(flagFrom)
	if err != nil {
		return err
	}
	toRow, toCol, err := parseSquare(flagTo)
	if err != nil {
		return err
	}
	m, err := contract.CreateMove(fromRow, fromCol, toRow, toCol)
	if err != nil {
		return err
	}

	return withNode(func(n *node) error {
		color, err := n.private.Color(sender(), flagGameID)
		if err != nil {
			return err
		}
		if color == contract.ColorWhite {
			return playMove[contract.White](n, cmd.OutOrStdout(), encrypt, m, n.contract.MakeMoveWhitePrivate)
		}
		return playMove[contract.Black](n, cmd.OutOrStdout(), encrypt, m, n.contract.MakeMoveBlackPrivate)
	})
}

type makeMoveFunc[P contract.Player] func(sdk.Tx, uint64, contract.GameState, contract.UserState[P], contract.Move) (contract.MoveEvent, error)

func playMove[P contract.Player](n *node, out io.Writer, encrypt fr.Element, m contract.Move, send makeMoveFunc[P]) error {
	us, gs, err := syncState[P](n, encrypt)
	if err != nil {
		return err
	}
	var ev contract.MoveEvent
	receipt, err := n.chain.Send(sender(), func(tx sdk.Tx) error {
		var err error
		ev, err = send(tx, flagGameID, gs, us, m)
		return err
	})
	if err != nil {
		return err
	}
	us, err = contract.UpdateUserStateFromMove(true, us, m)
	if err != nil {
		return err
	}
	if err := privstate.Save(n.private, sender(), flagGameID, us); err != nil {
		return fmt.Errorf("move committed but private state not saved: %w", err)
	}
	fmt.Fprintf(out, "ply %d committed in block %d\n", ev.Ply, receipt.BlockNumber)
	return nil
}

// syncState loads the caller's private state and folds in the opponent's
// latest move if it has not been seen yet.
func syncState[P contract.Player](n *node, encrypt fr.Element) (contract.UserState[P], contract.GameState, error) {
	us, err := privstate.Load[P](n.private, sender(), flagGameID, encrypt)
	if err != nil {
		return us, contract.GameState{}, err
	}
	gs, err := n.game(sender(), flagGameID)
	if err != nil {
		return us, gs, err
	}
	switch {
	case gs.Ply == us.Ply:
	case gs.Ply == us.Ply+1:
		us, err = contract.ConsumeOpponentMove(gs, us)
		if err != nil {
			return us, gs, err
		}
		if err := privstate.Save(n.private, sender(), flagGameID, us); err != nil {
			return us, gs, err
		}
		log.Debug().Uint64("game_id", flagGameID).Uint32("ply", gs.Ply).Msg("consumed opponent move")
	default:
		return us, gs, fmt.Errorf("private state at ply %d cannot catch up with ply %d", us.Ply, gs.Ply)
	}
	return us, gs, nil
}

// loadSecret returns the secret pair stored with the caller's state.
func loadSecret(n *node, encrypt fr.Element) (contract.Secret, error) {
	color, err := n.private.Color(sender(), flagGameID)
	if err != nil {
		return contract.Secret{}, err
	}
	if color == contract.ColorWhite {
		us, err := privstate.Load[contract.White](n.private, sender(), flagGameID, encrypt)
		return us.Secret, err
	}
	us, err := privstate.Load[contract.Black](n.private, sender(), flagGameID, encrypt)
	return us.Secret, err
}
