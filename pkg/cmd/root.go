package cmd

import (
	"context"
	"fmt"

	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func InitializeCommands() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "keycheck",
		Short: "A tool for checking and repairing OpenPGP keyrings",
		Long: `Keycheck is a command-line tool that inspects the keyblocks of an OpenPGP keyring
for structural problems: duplicate signatures are removed, signatures filed under the
wrong key or user id are moved back to the component they certify, and signatures that
verify against nothing are reported.`,
		Version: Version,
	}

	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

func Execute(rootCmd *cobra.Command) {
	rootCmd.Version = Version
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
