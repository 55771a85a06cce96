// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"browsemate/cli/internal/forms"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var loginEmail string

// loginCmd signs in with email and password without starting the
// interactive app.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Long: `The login command signs in with an existing account. The password is read
without echo. On success the session is remembered in the OS keychain so the
next launch opens straight into the catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.withSession(); err != nil {
			return err
		}

		f := forms.NewLoginForm(a.auth, a.flag, a.log)
		email := loginEmail
		if email == "" {
			if email, err = promptLine("Email"); err != nil {
				return err
			}
		}
		password, err := promptSecret("Password")
		if err != nil {
			return err
		}
		f.SetEmail(email)
		f.SetPassword(password)

		stop := startSpinner("Signing in")
		_, err = f.Submit(cmd.Context())
		if err != nil {
			stop(false, f.Error())
			return errSilent
		}
		stop(true, fmt.Sprintf("Signed in as %s", email))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
}

// loginScreen renders the Login screen once and returns the form's
// navigation request.
func loginScreen(ctx context.Context, f *forms.LoginForm) (forms.Navigation, error) {
	pterm.DefaultSection.Println("Login")
	if msg := f.Error(); msg != "" {
		pterm.Error.Println(msg)
	}

	action, err := choose("What would you like to do?", []string{"Log in", "Create an account", "Quit"})
	if err != nil {
		return forms.Stay, err
	}
	switch action {
	case "Create an account":
		return f.GoToSignup(), nil
	case "Quit":
		return forms.Stay, errQuit
	}

	email, err := promptLine(fieldLabel("Email", f.Email()))
	if err != nil {
		return forms.Stay, err
	}
	if email == "" {
		email = f.Email()
	}
	password, err := promptSecret("Password")
	if err != nil {
		return forms.Stay, err
	}
	f.SetEmail(email)
	f.SetPassword(password)

	stop := startSpinner("Signing in")
	nav, err := f.Submit(ctx)
	switch {
	case errors.Is(err, forms.ErrBusy):
		stop(false, "A sign-in is already in progress.")
	case err != nil:
		stop(false, f.Error())
	default:
		stop(true, "Welcome back!")
	}
	return nav, nil
}

// fieldLabel appends the current value, which Enter keeps.
func fieldLabel(label, current string) string {
	if current == "" {
		return label
	}
	return fmt.Sprintf("%s [%s]", label, current)
}
