package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fogchess/contract"
	"fogchess/sdk"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "print the public state of a game",
	RunE:  runShow,
}

func init() {
	addGameFlag(showCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	return withNode(func(n *node) error {
		var (
			gs    contract.GameState
			count uint64
		)
		err := n.chain.Simulate(sdk.Address("viewer"), func(tx sdk.Tx) error {
			var err error
			if gs, err = n.contract.GetGame(tx, flagGameID); err != nil {
				return err
			}
			count, err = n.contract.GameCount(tx)
			return err
		})
		if err != nil {
			return err
		}
		printGame(cmd.OutOrStdout(), gs, count)
		return nil
	})
}

func printGame(out io.Writer, gs contract.GameState, count uint64) {
	fmt.Fprintf(out, "game       %d\n", gs.ID)
	fmt.Fprintf(out, "games      %d\n", count)
	fmt.Fprintf(out, "status     %s\n", gs.Status)
	fmt.Fprintf(out, "ply        %d\n", gs.Ply)
	if gs.Status == contract.StatusActive {
		fmt.Fprintf(out, "turn       %s\n", gs.Turn)
	}
	if gs.Outcome != contract.OutcomeNone {
		fmt.Fprintf(out, "winner     %s (%s)\n", gs.Winner, gs.Outcome)
	}
	for _, c := range []contract.Color{contract.ColorWhite, contract.ColorBlack} {
		slot := gs.Slots[c]
		if !slot.Committed {
			fmt.Fprintf(out, "%-10s (open)\n", c)
			continue
		}
		fmt.Fprintf(out, "%-10s %s\n", c, gs.Players[c])
		fmt.Fprintf(out, "  encrypt  %s\n", slot.Commitment.EncryptHash)
		fmt.Fprintf(out, "  mask     %s\n", slot.Commitment.MaskHash)
	}
	if gs.Invite != nil {
		fmt.Fprintf(out, "invited    %s / %s\n", gs.Invite.EncryptHash, gs.Invite.MaskHash)
	}
	fmt.Fprintf(out, "trace-root %s\n", gs.TraceRoot)
}
