// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the BrowseMate CLI.
// Running the binary without a subcommand starts the interactive app; the
// subcommands expose the same operations for scripting. Commands are built
// with Cobra and rendered with pterm.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
	verbose     bool
)

// errSilent marks a failure that was already rendered to the user.
var errSilent = errors.New("command failed")

// rootCmd represents the base command when called without any subcommands.
// It mounts the login/signup screens or the catalog screens depending on the
// persisted session.
var rootCmd = &cobra.Command{
	Use:   "browsemate",
	Short: "Browse the product catalog from your terminal",
	Long: `BrowseMate signs you in with email and password and lets you page through,
search and sort the product catalog. Run without arguments for the interactive
app, or use the subcommands below for scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("browsemate %s\n", Version)
			return nil
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.withSession(); err != nil {
			return err
		}
		return runInteractive(cmd.Context(), a)
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror debug logs to stderr")
}
