package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fogchess/config"
)

var (
	v   = config.NewViper()
	cfg config.Config
	log = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:          "fogchess",
	Short:        "play fog-of-war chess against a local ledger",
	SilenceUsage: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		c, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = c
		log = cfg.Logger(os.Stderr)
		return nil
	},
}

var RootCmd = rootCmd

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	if err := config.RegisterFlags(rootCmd.PersistentFlags(), v); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(
		commitCmd,
		createCmd,
		joinCmd,
		moveCmd,
		resignCmd,
		timeoutCmd,
		showCmd,
		boardCmd,
		eventsCmd,
	)
}
