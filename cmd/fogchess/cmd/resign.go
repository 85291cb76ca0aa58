package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fogchess/contract"
	"fogchess/sdk"
)

var resignCmd = &cobra.Command{
	Use:   "resign",
	Short: "resign an active game",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return finishGame(cmd, "resigned", func(n *node, tx sdk.Tx, s contract.Secret) error {
			return n.contract.Resign(tx, flagGameID, s)
		})
	},
}

var timeoutCmd = &cobra.Command{
	Use:   "claim-timeout",
	Short: "win a game whose opponent has been idle past the move timeout",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return finishGame(cmd, "won on time", func(n *node, tx sdk.Tx, s contract.Secret) error {
			return n.contract.ClaimTimeout(tx, flagGameID, s)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{resignCmd, timeoutCmd} {
		addSenderFlag(c)
		addGameFlag(c)
		addEncryptFlag(c)
	}
}

func finishGame(cmd *cobra.Command, verb string, call func(*node, sdk.Tx, contract.Secret) error) error {
	encrypt, err := parseEncrypt()
	if err != nil {
		return err
	}
	return withNode(func(n *node) error {
		s, err := loadSecret(n, encrypt)
		if err != nil {
			return err
		}
		receipt, err := n.chain.Send(sender(), func(tx sdk.Tx) error {
			return call(n, tx, s)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "game %d %s in block %d\n", flagGameID, verb, receipt.BlockNumber)
		return nil
	})
}
