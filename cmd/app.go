package cmd

import (
	"context"
	"errors"
	"time"

	"browsemate/cli/internal/forms"
	"browsemate/cli/internal/session"

	"github.com/pterm/pterm"
)

// transitionTimeout bounds how long a screen waits for the resolver to follow
// a sign-in or sign-out.
const transitionTimeout = 15 * time.Second

// runInteractive is the screen loop. The resolver decides which group is
// mounted: Login/Signup when signed out, Home/Details when signed in.
func runInteractive(ctx context.Context, a *app) error {
	r := a.resolver()
	r.Start(ctx)
	defer r.Close()

	stop := startSpinner("Checking session")
	st, err := r.WaitSettled(ctx)
	stop(true, "")
	if err != nil {
		return nil
	}
	a.log.Debug("session settled")

	for {
		if ctx.Err() != nil {
			return nil
		}
		var quit bool
		if st == session.LoggedIn {
			quit, err = runSignedIn(ctx, a, r)
		} else {
			quit, err = runSignedOut(ctx, a, r)
		}
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		st = r.State()
	}
}

// awaitState waits until the resolver reports want, showing text meanwhile.
func awaitState(ctx context.Context, r *session.Resolver, want session.State, text string) bool {
	if r.State() == want {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, transitionTimeout)
	defer cancel()

	stop := startSpinner(text)
	_, err := r.Await(ctx, func(s session.Snapshot) bool { return s.State == want })
	stop(true, "")
	return err == nil
}

// runSignedOut drives the Login and Signup screens until the session flips
// to signed in or the user quits.
func runSignedOut(ctx context.Context, a *app, r *session.Resolver) (bool, error) {
	login := forms.NewLoginForm(a.auth, a.flag, a.log)
	signup := forms.NewSignupForm(a.auth, a.flag, a.log)
	screen := forms.ScreenLogin

	for {
		var nav forms.Navigation
		var err error
		switch screen {
		case forms.ScreenSignup:
			nav, err = signupScreen(ctx, signup)
		default:
			nav, err = loginScreen(ctx, login)
		}
		if errors.Is(err, errQuit) {
			return true, nil
		}
		if err != nil {
			return false, err
		}

		switch nav.Kind {
		case forms.NavReplace, forms.NavPush:
			if nav.Screen == forms.ScreenHome {
				if !awaitState(ctx, r, session.LoggedIn, "Opening your catalog") {
					pterm.Warning.Println("Signed in, but the session is still being checked. Try again in a moment.")
					continue
				}
				return false, nil
			}
			screen = nav.Screen
		}
		if r.IsLoggedIn() {
			return false, nil
		}
	}
}

// runSignedIn drives Home and Details until sign-out or quit.
func runSignedIn(ctx context.Context, a *app, r *session.Resolver) (bool, error) {
	quit, err := homeScreen(ctx, a, r)
	if err != nil || quit {
		return quit, err
	}
	awaitState(ctx, r, session.LoggedOut, "Signing out")
	return false, nil
}
