package cmd

import (
	"context"
	"time"

	"browsemate/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// whoamiCmd resolves the session the same way the interactive app does and
// prints the result.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current authenticated account",
	Long: `The whoami command restores the saved session, waits for the session check
to settle, and prints the signed-in account. If no valid session exists, it
says so.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.withSession(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.HTTPTimeout()+a.cfg.RecheckDelay()+5*time.Second)
		defer cancel()

		r := a.resolver()
		r.Start(ctx)
		defer r.Close()

		stop := startSpinner("Checking session")
		st, err := r.WaitIdle(ctx)
		stop(true, "")
		if err != nil {
			a.log.Warn("session check did not settle")
		}

		if st != session.LoggedIn {
			pterm.Println("🔒 You're not logged in yet!")
			pterm.Println("   Run 'browsemate login' to get started.")
			return nil
		}

		u := a.auth.CurrentUser()
		if u == nil {
			// The flag says yes but the provider session could not be restored.
			pterm.Println("👤 Logged in (account details unavailable offline)")
			return nil
		}
		pterm.Printfln("👤 Current user: %s", u.Email)
		if verbose {
			pterm.Debug.Printfln("uid %s, token expires %s", u.UID, u.ExpiresAt.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
