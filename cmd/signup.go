package cmd

import (
	"context"
	"errors"
	"fmt"

	"browsemate/cli/internal/forms"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var signupEmail string

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.withSession(); err != nil {
			return err
		}

		f := forms.NewSignupForm(a.auth, a.flag, a.log)
		email := signupEmail
		if email == "" {
			if email, err = promptLine("Email"); err != nil {
				return err
			}
		}
		if err := fillSignupSecrets(f); err != nil {
			return err
		}
		f.SetEmail(email)

		stop := startSpinner("Creating account")
		if _, err := f.Submit(cmd.Context()); err != nil {
			stop(false, f.Error())
			return errSilent
		}
		stop(true, fmt.Sprintf("Account created for %s", email))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Account email")
}

func fillSignupSecrets(f *forms.SignupForm) error {
	password, err := promptSecret("Password")
	if err != nil {
		return err
	}
	confirm, err := promptSecret("Confirm password")
	if err != nil {
		return err
	}
	f.SetPassword(password)
	f.SetConfirmPassword(confirm)
	return nil
}

// signupScreen renders the Signup screen once.
func signupScreen(ctx context.Context, f *forms.SignupForm) (forms.Navigation, error) {
	pterm.DefaultSection.Println("Sign Up")
	if msg := f.Error(); msg != "" {
		pterm.Error.Println(msg)
	}

	action, err := choose("What would you like to do?", []string{"Sign up", "I already have an account", "Quit"})
	if err != nil {
		return forms.Stay, err
	}
	switch action {
	case "I already have an account":
		return f.GoToLogin(), nil
	case "Quit":
		return forms.Stay, errQuit
	}

	email, err := promptLine("Email")
	if err != nil {
		return forms.Stay, err
	}
	f.SetEmail(email)
	if err := fillSignupSecrets(f); err != nil {
		return forms.Stay, err
	}

	stop := startSpinner("Creating account")
	nav, err := f.Submit(ctx)
	switch {
	case errors.Is(err, forms.ErrBusy):
		stop(false, "Sign-up is already in progress.")
	case err != nil:
		stop(false, f.Error())
	default:
		stop(true, "Account created!")
	}
	return nav, nil
}
