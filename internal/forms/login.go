// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package forms

import (
	"context"
	"sync"
	"sync/atomic"

	"browsemate/cli/internal/errors"
	"browsemate/cli/internal/logging"

	"go.uber.org/zap"
)

// LoginForm is the state behind the Login screen.
type LoginForm struct {
	auth Authenticator
	flag SessionFlag
	log  *zap.Logger

	busy atomic.Bool

	mu       sync.Mutex
	email    string
	password string
	errMsg   string
}

// NewLoginForm returns an empty login form.
func NewLoginForm(a Authenticator, flag SessionFlag, log *zap.Logger) *LoginForm {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoginForm{auth: a, flag: flag, log: log.Named("login")}
}

func (f *LoginForm) SetEmail(v string) {
	f.mu.Lock()
	f.email = v
	f.mu.Unlock()
}

func (f *LoginForm) SetPassword(v string) {
	f.mu.Lock()
	f.password = v
	f.mu.Unlock()
}

func (f *LoginForm) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

func (f *LoginForm) Password() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.password
}

// Error returns the message currently shown under the form, or "".
func (f *LoginForm) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Busy reports whether a submit is in flight. Inputs and the submit action
// are disabled while it is true.
func (f *LoginForm) Busy() bool { return f.busy.Load() }

// GoToSignup is the "create an account" link. It is disabled while a submit
// is in flight.
func (f *LoginForm) GoToSignup() Navigation {
	if f.Busy() {
		return Stay
	}
	return Push(ScreenSignup)
}

// Submit validates the fields and signs in. On success the session flag is
// written and the caller is told to replace the screen with Home. Any provider
// failure shows a fixed message and clears the password.
func (f *LoginForm) Submit(ctx context.Context) (Navigation, error) {
	if !f.busy.CompareAndSwap(false, true) {
		return Stay, ErrBusy
	}
	defer f.busy.Store(false)

	f.mu.Lock()
	f.errMsg = ""
	email, password := f.email, f.password
	f.mu.Unlock()

	if err := ValidateLogin(email, password); err != nil {
		f.setError(errors.UserMessage(err))
		return Stay, err
	}

	if _, err := f.auth.SignIn(ctx, email, password); err != nil {
		f.log.Info("sign in rejected", logging.MaskedError(err))
		f.mu.Lock()
		f.errMsg = MsgLoginFailed
		f.password = ""
		f.mu.Unlock()
		return Stay, errors.Wrap(errors.Provider, MsgLoginFailed, err)
	}

	if err := f.flag.SetLoggedIn(); err != nil {
		f.log.Warn("persist session flag", logging.MaskedError(errors.Wrap(errors.Persistence, "set flag", err)))
	}
	return Replace(ScreenHome), nil
}

func (f *LoginForm) setError(msg string) {
	f.mu.Lock()
	f.errMsg = msg
	f.mu.Unlock()
}
