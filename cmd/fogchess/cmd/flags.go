package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/spf13/cobra"

	"fogchess/contract"
	"fogchess/sdk"
)

var (
	flagSender      string
	flagGameID      uint64
	flagEncrypt     string
	flagMask        string
	flagPassword    string
	flagEncryptHash string
	flagMaskHash    string
)

func addSenderFlag(c *cobra.Command) {
	c.Flags().StringVar(&flagSender, "sender", "", "account the call is attributed to")
	_ = c.MarkFlagRequired("sender")
}

func addGameFlag(c *cobra.Command) {
	c.Flags().Uint64Var(&flagGameID, "game", 0, "game id")
	_ = c.MarkFlagRequired("game")
}

func addEncryptFlag(c *cobra.Command) {
	c.Flags().StringVar(&flagEncrypt, "encrypt-secret", "", "encrypt secret, a decimal field element")
	_ = c.MarkFlagRequired("encrypt-secret")
}

func addSecretFlags(c *cobra.Command) {
	addEncryptFlag(c)
	c.Flags().StringVar(&flagMask, "mask-secret", "", "mask secret, a decimal field element")
	_ = c.MarkFlagRequired("mask-secret")
}

func addPasswordFlag(c *cobra.Command) {
	c.Flags().StringVar(&flagPassword, "password", "0", "game password, a decimal field element")
}

func sender() sdk.Address { return sdk.Address(flagSender) }

func parseEncrypt() (fr.Element, error) {
	e, err := contract.ParseField(flagEncrypt)
	if err != nil {
		return e, fmt.Errorf("--encrypt-secret: %w", err)
	}
	return e, nil
}

func parseSecret() (contract.Secret, error) {
	var s contract.Secret
	var err error
	if s.EncryptSecret, err = parseEncrypt(); err != nil {
		return s, err
	}
	if s.MaskSecret, err = contract.ParseField(flagMask); err != nil {
		return s, fmt.Errorf("--mask-secret: %w", err)
	}
	return s, nil
}

func parsePassword() (fr.Element, error) {
	p, err := contract.ParseField(flagPassword)
	if err != nil {
		return p, fmt.Errorf("--password: %w", err)
	}
	return p, nil
}

// parseCommitment reads the pair of hex hashes given by the hash flags.
func parseCommitment() (contract.Commitment, error) {
	var c contract.Commitment
	var err error
	if c.EncryptHash, err = contract.ParseHash(flagEncryptHash); err != nil {
		return c, fmt.Errorf("--encrypt-hash: %w", err)
	}
	if c.MaskHash, err = contract.ParseHash(flagMaskHash); err != nil {
		return c, fmt.Errorf("--mask-hash: %w", err)
	}
	return c, nil
}

// parseSquare reads "row,col".
func parseSquare(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("square %q is not row,col", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("square %q: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("square %q: %w", s, err)
	}
	return row, col, nil
}
