// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"browsemate/cli/internal/forms"
	"browsemate/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var logoutAll bool

// logoutCmd signs out and forgets the session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the saved session",
	Long: `The logout command signs out at the identity provider and removes the saved
session flag and tokens from the OS keychain. With --all the saved database
connection is removed as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.withSession(); err != nil {
			return err
		}

		forms.Logout(cmd.Context(), a.auth, a.flag, a.log)
		if logoutAll {
			if err := a.kv.ClearAll(); err != nil {
				pterm.Warning.Println("Some keychain entries could not be removed; see the log for details.")
				a.log.Warn("clear keychain", logging.MaskedError(err))
			}
		}
		pterm.Success.Println("Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "Also remove the saved database connection")
}
