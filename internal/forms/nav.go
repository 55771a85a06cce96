package forms

import (
	"context"
	stderrors "errors"

	"browsemate/cli/internal/auth"
)

// Screen names a navigation destination.
type Screen string

const (
	ScreenLogin   Screen = "Login"
	ScreenSignup  Screen = "Signup"
	ScreenHome    Screen = "Home"
	ScreenDetails Screen = "Details"
)

// NavKind is how a destination is entered.
type NavKind int

const (
	// NavNone means stay on the current screen.
	NavNone NavKind = iota
	// NavPush stacks the destination on top of the current screen.
	NavPush
	// NavReplace swaps the current screen for the destination.
	NavReplace
)

// Navigation is a request emitted by a form.
type Navigation struct {
	Kind   NavKind
	Screen Screen
}

// Stay is the zero Navigation.
var Stay = Navigation{}

// Replace returns a NavReplace request.
func Replace(s Screen) Navigation { return Navigation{Kind: NavReplace, Screen: s} }

// Push returns a NavPush request.
func Push(s Screen) Navigation { return Navigation{Kind: NavPush, Screen: s} }

// ErrBusy is returned by Submit while a previous submit is still in flight.
var ErrBusy = stderrors.New("a request is already in progress")

// Authenticator is the identity operation set the forms need.
// *auth.Service satisfies it.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*auth.User, error)
	SignUp(ctx context.Context, email, password string) (*auth.User, error)
	SignOut(ctx context.Context) error
}

// SessionFlag is the persisted "logged in" marker. *auth.Flag satisfies it.
type SessionFlag interface {
	SetLoggedIn() error
	SetLoggedOut() error
}

var (
	_ Authenticator = (*auth.Service)(nil)
	_ SessionFlag   = (*auth.Flag)(nil)
)
