package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fogchess/contract"
)

var (
	flagEventType string
	flagFromBlock uint64
	flagToBlock   uint64
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "list ledger events in a block range",
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&flagEventType, "type", "", "only events of this type")
	eventsCmd.Flags().Uint64Var(&flagFromBlock, "from", 0, "first block, inclusive")
	eventsCmd.Flags().Uint64Var(&flagToBlock, "to", 0, "last block, exclusive; 0 means the head")
}

func runEvents(cmd *cobra.Command, _ []string) error {
	return withNode(func(n *node) error {
		to := flagToBlock
		if to == 0 {
			to = n.chain.Height() + 1
		}
		events, err := n.chain.Events(flagEventType, flagFromBlock, to)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, ev := range events {
			if ev.Type == contract.EventMove {
				me, err := contract.DecodeMoveEvent(ev.Payload)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d\t%s\tgame=%d ply=%d color=%s trace=%x\n",
					ev.BlockHeight, ev.Type, me.GameID, me.Ply, me.Color, me.State)
				continue
			}
			le, err := contract.DecodeEvent(ev.Payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d\t%s\t%v\n", ev.BlockHeight, ev.Type, le.Attributes)
		}
		return nil
	})
}
