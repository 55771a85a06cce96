package forms

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"

	"browsemate/cli/internal/backend"
	"browsemate/cli/internal/errors"
	"browsemate/cli/internal/httperrors"
	"browsemate/cli/internal/logging"

	"go.uber.org/zap"
)

// SignupForm is the state behind the Signup screen.
type SignupForm struct {
	auth Authenticator
	flag SessionFlag
	log  *zap.Logger

	busy atomic.Bool

	mu       sync.Mutex
	email    string
	password string
	confirm  string
	errMsg   string
}

// NewSignupForm returns an empty signup form.
func NewSignupForm(a Authenticator, flag SessionFlag, log *zap.Logger) *SignupForm {
	if log == nil {
		log = zap.NewNop()
	}
	return &SignupForm{auth: a, flag: flag, log: log.Named("signup")}
}

func (f *SignupForm) SetEmail(v string)           { f.set(&f.email, v) }
func (f *SignupForm) SetPassword(v string)        { f.set(&f.password, v) }
func (f *SignupForm) SetConfirmPassword(v string) { f.set(&f.confirm, v) }

func (f *SignupForm) set(field *string, v string) {
	f.mu.Lock()
	*field = v
	f.mu.Unlock()
}

// Error returns the message currently shown under the form, or "".
func (f *SignupForm) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Busy reports whether a submit is in flight.
func (f *SignupForm) Busy() bool { return f.busy.Load() }

// GoToLogin is the "already have an account" link. It is disabled while a
// submit is in flight.
func (f *SignupForm) GoToLogin() Navigation {
	if f.Busy() {
		return Stay
	}
	return Push(ScreenLogin)
}

// Submit validates the fields and creates the account. An already registered
// email gets a dedicated message; any other provider error is shown as the
// provider worded it. Transport failures get a one-line network summary,
// never the request URL.
func (f *SignupForm) Submit(ctx context.Context) (Navigation, error) {
	if !f.busy.CompareAndSwap(false, true) {
		return Stay, ErrBusy
	}
	defer f.busy.Store(false)

	f.mu.Lock()
	f.errMsg = ""
	email, password, confirm := f.email, f.password, f.confirm
	f.mu.Unlock()

	if err := ValidateSignup(email, password, confirm); err != nil {
		f.set(&f.errMsg, errors.UserMessage(err))
		return Stay, err
	}

	if _, err := f.auth.SignUp(ctx, email, password); err != nil {
		kind, msg := signupFailure(err)
		f.log.Info("sign up rejected", logging.MaskedError(err))
		f.set(&f.errMsg, msg)
		return Stay, errors.Wrap(kind, msg, err)
	}

	if err := f.flag.SetLoggedIn(); err != nil {
		f.log.Warn("persist session flag", logging.MaskedError(errors.Wrap(errors.Persistence, "set flag", err)))
	}
	return Replace(ScreenHome), nil
}

func signupFailure(err error) (errors.Kind, string) {
	var pe *backend.ProviderError
	switch {
	case backend.IsCode(err, backend.CodeEmailExists):
		return errors.Provider, MsgEmailInUse
	case stderrors.As(err, &pe):
		return errors.Provider, pe.Error()
	case stderrors.Is(err, backend.ErrMissingAPIKey):
		return errors.Provider, err.Error()
	}
	return errors.Network, MsgSignupUnreachable + " (" + httperrors.Describe(err) + ")"
}
