// Package forms holds the state and submit logic of the login, signup and
// logout actions, independent of how they are rendered.
package forms

import (
	"regexp"

	"browsemate/cli/internal/errors"
)

// User-visible messages.
const (
	MsgLoginRequired     = "Email and password are required."
	MsgInvalidEmail      = "Enter a valid email address."
	MsgSignupRequired    = "All fields are required."
	MsgPasswordTooShort  = "Password must be at least 6 characters."
	MsgPasswordMismatch  = "Passwords do not match."
	MsgLoginFailed       = "Incorrect email or password."
	MsgEmailInUse        = "This email is already registered. Please login instead."
	MsgSignupUnreachable = "Could not reach the sign-up service. Check your connection and try again."
)

// MinPasswordLength is the shortest password signup accepts.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

// ValidateLogin checks the login fields in order and returns the first failure.
func ValidateLogin(email, password string) error {
	if email == "" || password == "" {
		return errors.New(errors.Validation, MsgLoginRequired)
	}
	if !ValidEmail(email) {
		return errors.New(errors.Validation, MsgInvalidEmail)
	}
	return nil
}

// ValidateSignup checks the signup fields in order and returns the first failure.
func ValidateSignup(email, password, confirm string) error {
	switch {
	case email == "" || password == "" || confirm == "":
		return errors.New(errors.Validation, MsgSignupRequired)
	case !ValidEmail(email):
		return errors.New(errors.Validation, MsgInvalidEmail)
	case len([]rune(password)) < MinPasswordLength:
		return errors.New(errors.Validation, MsgPasswordTooShort)
	case password != confirm:
		return errors.New(errors.Validation, MsgPasswordMismatch)
	}
	return nil
}
