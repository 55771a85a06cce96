// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"

	"browsemate/cli/internal/export"
	"browsemate/cli/internal/keychain"
	"browsemate/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// dbinfoCmd displays the saved export database with the password masked.
var dbinfoCmd = &cobra.Command{
	Use:   "dbinfo",
	Short: "Show the database connection used by export",
	Long: `The dbinfo command displays the database connection string (DSN) saved by
'browsemate connect' with the password replaced by ***.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.withSession(); err != nil {
			return err
		}

		dsn, ok, err := a.kv.Get(keychain.KeyDBDSN)
		if err != nil {
			a.log.Warn("load dsn", logging.MaskedError(err))
		}
		if !ok || strings.TrimSpace(dsn) == "" {
			pterm.Println("⚠️  No database connection configured")
			pterm.Println("   Please run: browsemate connect")
			return nil
		}

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Database Connection")).
			WithTopPadding(1).WithBottomPadding(1).WithLeftPadding(1).WithRightPadding(1).
			Println(export.MaskDSN(dsn))
		pterm.Println()
		pterm.Println("To update this connection, run: browsemate connect")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbinfoCmd)
}
