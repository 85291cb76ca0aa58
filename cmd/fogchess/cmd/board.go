package cmd

import (
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/spf13/cobra"

	"fogchess/contract"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "print the caller's private view of a game",
	RunE:  runBoard,
}

func init() {
	addSenderFlag(boardCmd)
	addGameFlag(boardCmd)
	addEncryptFlag(boardCmd)
}

func runBoard(cmd *cobra.Command, _ []string) error {
	encrypt, err := parseEncrypt()
	if err != nil {
		return err
	}
	return withNode(func(n *node) error {
		color, err := n.private.Color(sender(), flagGameID)
		if err != nil {
			return err
		}
		if color == contract.ColorWhite {
			return printView[contract.White](n, cmd.OutOrStdout(), encrypt)
		}
		return printView[contract.Black](n, cmd.OutOrStdout(), encrypt)
	})
}

func printView[P contract.Player](n *node, out io.Writer, encrypt fr.Element) error {
	us, gs, err := syncState[P](n, encrypt)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "game %d, ply %d, playing %s\n", gs.ID, us.Ply, us.Color())
	if gs.Status == contract.StatusActive {
		fmt.Fprintf(out, "%s to move\n", gs.Turn)
	}
	fmt.Fprint(out, us.Board.String())
	if len(us.Captured) > 0 {
		fmt.Fprintf(out, "captured %v\n", us.Captured)
	}
	if len(us.Lost) > 0 {
		fmt.Fprintf(out, "lost     %v\n", us.Lost)
	}
	return nil
}
