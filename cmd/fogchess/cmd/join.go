package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fogchess/contract"
	"fogchess/privstate"
	"fogchess/sdk"
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "join an open game as black",
	RunE:  runJoin,
}

func init() {
	addSenderFlag(joinCmd)
	addGameFlag(joinCmd)
	addSecretFlags(joinCmd)
	addPasswordFlag(joinCmd)
	joinCmd.Flags().StringVar(&flagEncryptHash, "encrypt-hash", "", "creator's encrypt hash")
	joinCmd.Flags().StringVar(&flagMaskHash, "mask-hash", "", "creator's mask hash")
	_ = joinCmd.MarkFlagRequired("encrypt-hash")
	_ = joinCmd.MarkFlagRequired("mask-hash")
}

func runJoin(cmd *cobra.Command, _ []string) error {
	s, err := parseSecret()
	if err != nil {
		return err
	}
	password, err := parsePassword()
	if err != nil {
		return err
	}
	expected, err := parseCommitment()
	if err != nil {
		return err
	}

	return withNode(func(n *node) error {
		receipt, err := n.chain.Send(sender(), func(tx sdk.Tx) error {
			return n.contract.JoinGamePrivate(tx, flagGameID, s.EncryptSecret, s.MaskSecret, expected, password)
		})
		if err != nil {
			return err
		}
		if err := privstate.Save(n.private, sender(), flagGameID, contract.EmptyBlackState().WithSecret(s)); err != nil {
			return fmt.Errorf("joined game %d but private state not saved: %w", flagGameID, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "joined game %d in block %d\n", flagGameID, receipt.BlockNumber)
		return nil
	})
}
