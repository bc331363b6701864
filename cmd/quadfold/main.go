// Package main provides the entry point for the quadfold game.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set by the linker.
var (
	version = "dev"
	commit  = "none"
)

var configPath string

func main() {
	rootCmd := newRootCommand()

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quadfold",
		Short: "quadfold - split, merge and flip a square to match the one flying at you",
		Long: `quadfold is a real-time puzzle: reproduce the shape and colors of the
approaching target square before it reaches you.

Commands:
  play      Open the game window
  sim       Replay a scripted game headless and print a summary`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./quadfold.yaml)")

	rootCmd.AddCommand(newPlayCommand())
	rootCmd.AddCommand(newSimCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quadfold %s (commit: %s)\n", version, commit)
		},
	}
}
