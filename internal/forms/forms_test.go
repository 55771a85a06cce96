package forms

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"browsemate/cli/internal/auth"
	"browsemate/cli/internal/backend"
	"browsemate/cli/internal/config"
	"browsemate/cli/internal/errors"
	"browsemate/cli/internal/keychain"
	"browsemate/cli/internal/manifest"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	mu         sync.Mutex
	signIns    int
	signUps    int
	signOuts   int
	err        error
	signOutErr error
	block      chan struct{}
	entered    chan struct{}
}

func (f *fakeAuth) SignIn(ctx context.Context, email, _ string) (*auth.User, error) {
	f.mu.Lock()
	f.signIns++
	f.mu.Unlock()
	f.wait()
	if f.err != nil {
		return nil, f.err
	}
	return &auth.User{UID: "u", Email: email}, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, _ string) (*auth.User, error) {
	f.mu.Lock()
	f.signUps++
	f.mu.Unlock()
	f.wait()
	if f.err != nil {
		return nil, f.err
	}
	return &auth.User{UID: "u", Email: email}, nil
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	return f.signOutErr
}

func (f *fakeAuth) wait() {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
}

type fakeFlag struct {
	set, cleared int
	err          error
}

func (f *fakeFlag) SetLoggedIn() error  { f.set++; return f.err }
func (f *fakeFlag) SetLoggedOut() error { f.cleared++; return f.err }

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name, email, password, want string
	}{
		{name: "both empty", want: MsgLoginRequired},
		{name: "password empty", email: "a@b.co", want: MsgLoginRequired},
		{name: "no at", email: "ab.co", password: "x", want: MsgInvalidEmail},
		{name: "no dot", email: "a@bco", password: "x", want: MsgInvalidEmail},
		{name: "space", email: "a b@c.co", password: "x", want: MsgInvalidEmail},
		{name: "ok", email: "a@b.co", password: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogin(tt.email, tt.password)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, errors.Validation))
			assert.Equal(t, tt.want, errors.UserMessage(err))
		})
	}
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name, email, password, confirm, want string
	}{
		{name: "confirm empty", email: "a@b.co", password: "secret1", want: MsgSignupRequired},
		{name: "bad email first", email: "nope", password: "x", confirm: "y", want: MsgInvalidEmail},
		{name: "short before mismatch", email: "a@b.co", password: "12345", confirm: "54321", want: MsgPasswordTooShort},
		{name: "mismatch", email: "a@b.co", password: "123456", confirm: "1234567", want: MsgPasswordMismatch},
		{name: "exactly six", email: "a@b.co", password: "123456", confirm: "123456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.email, tt.password, tt.confirm)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, errors.UserMessage(err))
		})
	}
}

func TestLoginForm_ValidationSkipsProvider(t *testing.T) {
	a := &fakeAuth{}
	f := NewLoginForm(a, &fakeFlag{}, nil)
	f.SetEmail("not-an-email")
	f.SetPassword("secret1")

	nav, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, Stay, nav)
	assert.Equal(t, MsgInvalidEmail, f.Error())
	assert.Zero(t, a.signIns)
	assert.False(t, f.Busy())
}

func TestLoginForm_Success(t *testing.T) {
	flag := &fakeFlag{}
	f := NewLoginForm(&fakeAuth{}, flag, nil)
	f.SetEmail("ada@example.com")
	f.SetPassword("secret1")

	nav, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Replace(ScreenHome), nav)
	assert.Equal(t, 1, flag.set)
	assert.Empty(t, f.Error())
}

func TestLoginForm_FlagWriteFailureStillNavigates(t *testing.T) {
	f := NewLoginForm(&fakeAuth{}, &fakeFlag{err: stderrors.New("locked")}, nil)
	f.SetEmail("ada@example.com")
	f.SetPassword("secret1")

	nav, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Replace(ScreenHome), nav)
}

func TestLoginForm_ProviderFailureClearsPassword(t *testing.T) {
	flag := &fakeFlag{}
	f := NewLoginForm(&fakeAuth{err: &backend.ProviderError{Code: "INVALID_LOGIN_CREDENTIALS", Message: "INVALID_LOGIN_CREDENTIALS"}}, flag, nil)
	f.SetEmail("ada@example.com")
	f.SetPassword("wrong")

	nav, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.Provider))
	assert.Equal(t, Stay, nav)
	assert.Equal(t, MsgLoginFailed, f.Error())
	assert.Empty(t, f.Password())
	assert.Equal(t, "ada@example.com", f.Email())
	assert.Zero(t, flag.set)
}

func TestLoginForm_SecondSubmitWhileBusy(t *testing.T) {
	a := &fakeAuth{block: make(chan struct{}), entered: make(chan struct{})}
	f := NewLoginForm(a, &fakeFlag{}, nil)
	f.SetEmail("ada@example.com")
	f.SetPassword("secret1")

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background())
		done <- err
	}()
	<-a.entered
	assert.True(t, f.Busy())
	assert.Equal(t, Stay, f.GoToSignup())

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(a.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, a.signIns)
	assert.False(t, f.Busy())
	assert.Equal(t, Push(ScreenSignup), f.GoToSignup())
}

func TestLoginForm_GoToSignup(t *testing.T) {
	assert.Equal(t, Push(ScreenSignup), NewLoginForm(&fakeAuth{}, &fakeFlag{}, nil).GoToSignup())
}

func fillSignup(f *SignupForm) {
	f.SetEmail("new@example.com")
	f.SetPassword("secret1")
	f.SetConfirmPassword("secret1")
}

func TestSignupForm_Success(t *testing.T) {
	flag := &fakeFlag{}
	f := NewSignupForm(&fakeAuth{}, flag, nil)
	fillSignup(f)

	nav, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Replace(ScreenHome), nav)
	assert.Equal(t, 1, flag.set)
}

func TestSignupForm_ProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		kind errors.Kind
	}{
		{
			name: "email exists",
			err:  &backend.ProviderError{Status: 400, Code: backend.CodeEmailExists, Message: "EMAIL_EXISTS"},
			want: MsgEmailInUse,
			kind: errors.Provider,
		},
		{
			name: "other provider error verbatim",
			err:  &backend.ProviderError{Status: 400, Code: "WEAK_PASSWORD", Message: "WEAK_PASSWORD : Password should be at least 6 characters"},
			want: "WEAK_PASSWORD : Password should be at least 6 characters",
			kind: errors.Provider,
		},
		{
			name: "transport error summarized",
			err:  stderrors.New("dial tcp: connection refused"),
			want: MsgSignupUnreachable + " (connection refused)",
			kind: errors.Network,
		},
		{
			name: "missing api key",
			err:  backend.ErrMissingAPIKey,
			want: backend.ErrMissingAPIKey.Error(),
			kind: errors.Provider,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := &fakeFlag{}
			f := NewSignupForm(&fakeAuth{err: tt.err}, flag, nil)
			fillSignup(f)

			nav, err := f.Submit(context.Background())
			require.Error(t, err)
			assert.Equal(t, Stay, nav)
			assert.Equal(t, tt.want, f.Error())
			assert.Equal(t, tt.kind, errors.KindOf(err))
			assert.Zero(t, flag.set)
		})
	}
}

func TestSignupForm_UnreachableProviderHidesAPIKey(t *testing.T) {
	const apiKey = "AIzaSECRETKEY123"
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	cfg := config.Defaults()
	cfg.IdentityURL = addr
	cfg.SecureTokenURL = addr
	cfg.APIKey = apiKey
	m, err := manifest.FromConfig(cfg)
	require.NoError(t, err)
	kv := keychain.NewWithKeyring(keyring.NewArrayKeyring(nil))
	svc := auth.NewService(backend.New(m), kv, nil)

	f := NewSignupForm(svc, &fakeFlag{}, nil)
	fillSignup(f)
	_, err = f.Submit(context.Background())
	require.Error(t, err)

	assert.NotContains(t, f.Error(), apiKey)
	assert.NotContains(t, errors.UserMessage(err), apiKey)
	assert.True(t, errors.Is(err, errors.Network))
	assert.Equal(t, MsgSignupUnreachable+" (connection refused)", f.Error())
}

func TestSignupForm_LoginLinkDisabledWhileBusy(t *testing.T) {
	a := &fakeAuth{block: make(chan struct{}), entered: make(chan struct{})}
	f := NewSignupForm(a, &fakeFlag{}, nil)
	fillSignup(f)
	assert.Equal(t, Push(ScreenLogin), f.GoToLogin())

	done := make(chan struct{})
	go func() {
		_, _ = f.Submit(context.Background())
		close(done)
	}()
	<-a.entered
	assert.Equal(t, Stay, f.GoToLogin())
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(a.block)
	<-done
	assert.Equal(t, 1, a.signUps)
}

func TestSignupForm_ErrorClearedOnResubmit(t *testing.T) {
	f := NewSignupForm(&fakeAuth{}, &fakeFlag{}, nil)
	f.SetEmail("new@example.com")
	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgSignupRequired, f.Error())

	fillSignup(f)
	_, err = f.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.Error())
}

func TestLogout(t *testing.T) {
	a := &fakeAuth{}
	flag := &fakeFlag{}
	Logout(context.Background(), a, flag, nil)
	assert.Equal(t, 1, a.signOuts)
	assert.Equal(t, 1, flag.cleared)

	// Failures are swallowed.
	a = &fakeAuth{signOutErr: stderrors.New("locked")}
	flag = &fakeFlag{err: stderrors.New("locked")}
	Logout(context.Background(), a, flag, nil)
	assert.Equal(t, 1, flag.cleared)
}
