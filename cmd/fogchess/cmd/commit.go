package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fogchess/contract"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "print the commitments of a secret pair and password without touching the ledger",
	RunE:  runCommit,
}

func init() {
	addSecretFlags(commitCmd)
	addPasswordFlag(commitCmd)
}

func runCommit(cmd *cobra.Command, _ []string) error {
	s, err := parseSecret()
	if err != nil {
		return err
	}
	password, err := parsePassword()
	if err != nil {
		return err
	}
	c := contract.Commit(s)
	vk, err := contract.DeriveVisibilityKey(s.MaskSecret)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "encrypt-hash   %s\n", c.EncryptHash)
	fmt.Fprintf(out, "mask-hash      %s\n", c.MaskHash)
	fmt.Fprintf(out, "visibility-key %s\n", vk)
	fmt.Fprintf(out, "password-hash  %s\n", contract.CommitPassword(password))
	return nil
}
