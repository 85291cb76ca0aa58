package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fogchess/contract"
	"fogchess/privstate"
	"fogchess/sdk"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "open a new game as white",
	RunE:  runCreate,
}

func init() {
	addSenderFlag(createCmd)
	addSecretFlags(createCmd)
	addPasswordFlag(createCmd)
	createCmd.Flags().StringVar(&flagEncryptHash, "encrypt-hash", "", "invited opponent's encrypt hash (optional)")
	createCmd.Flags().StringVar(&flagMaskHash, "mask-hash", "", "invited opponent's mask hash (optional)")
	createCmd.MarkFlagsRequiredTogether("encrypt-hash", "mask-hash")
}

func runCreate(cmd *cobra.Command, _ []string) error {
	s, err := parseSecret()
	if err != nil {
		return err
	}
	password, err := parsePassword()
	if err != nil {
		return err
	}
	var opts []contract.CreateOption
	if flagEncryptHash != "" {
		invite, err := parseCommitment()
		if err != nil {
			return err
		}
		opts = append(opts, contract.WithInvitedOpponent(invite))
	}

	return withNode(func(n *node) error {
		var id uint64
		receipt, err := n.chain.Send(sender(), func(tx sdk.Tx) error {
			var err error
			id, err = n.contract.CreateGamePrivate(tx, s.EncryptSecret, s.MaskSecret, password, opts...)
			return err
		})
		if err != nil {
			return err
		}
		if err := privstate.Save(n.private, sender(), id, contract.EmptyWhiteState().WithSecret(s)); err != nil {
			return fmt.Errorf("game %d created but private state not saved: %w", id, err)
		}

		c := contract.Commit(s)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "game %d created in block %d\n", id, receipt.BlockNumber)
		fmt.Fprintf(out, "encrypt-hash %s\n", c.EncryptHash)
		fmt.Fprintf(out, "mask-hash    %s\n", c.MaskHash)
		return nil
	})
}
