package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"browsemate/cli/internal/backend"
	"browsemate/cli/internal/keychain"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	mu         sync.Mutex
	signInErr  error
	signUpErr  error
	refreshErr error
	refreshed  []string
	gate       chan struct{}
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, _ string) (*backend.Credential, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &backend.Credential{IDToken: "id-" + email, RefreshToken: "rt-" + email, UserID: "uid", Email: email, ExpiresIn: time.Hour}, nil
}

func (f *fakeIdentity) SignUp(_ context.Context, email, _ string) (*backend.Credential, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &backend.Credential{IDToken: "id-new", RefreshToken: "rt-new", UserID: "uid-new", Email: email}, nil
}

func (f *fakeIdentity) RefreshToken(_ context.Context, rt string) (*backend.Credential, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.refreshed = append(f.refreshed, rt)
	f.mu.Unlock()
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &backend.Credential{IDToken: "id-fresh", RefreshToken: "rt-fresh", UserID: "uid-r", Email: "restored@example.com"}, nil
}

func newKV() *keychain.Manager {
	return keychain.NewWithKeyring(keyring.NewArrayKeyring(nil))
}

// recorder collects stream deliveries.
type recorder struct {
	mu   sync.Mutex
	seen []*User
}

func (r *recorder) add(u *User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, u)
}

func (r *recorder) snapshot() []*User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*User(nil), r.seen...)
}

func TestSubscribe_NoStoredSessionDeliversNil(t *testing.T) {
	svc := NewService(&fakeIdentity{}, newKV(), nil)
	rec := &recorder{}
	unsub := svc.Subscribe(context.Background(), rec.add)
	defer unsub()

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Nil(t, rec.snapshot()[0])
}

func TestSubscribe_RestoresFromRefreshToken(t *testing.T) {
	kv := newKV()
	require.NoError(t, kv.Set(keychain.KeyRefreshToken, "rt-stored"))
	idp := &fakeIdentity{}
	svc := NewService(idp, kv, nil)

	rec := &recorder{}
	unsub := svc.Subscribe(context.Background(), rec.add)
	defer unsub()

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	u := rec.snapshot()[0]
	require.NotNil(t, u)
	assert.Equal(t, "restored@example.com", u.Email)
	assert.Equal(t, []string{"rt-stored"}, idp.refreshed)

	rt, _, err := kv.Get(keychain.KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "rt-fresh", rt)
}

func TestSubscribe_RevokedTokenIsCleared(t *testing.T) {
	kv := newKV()
	require.NoError(t, kv.Set(keychain.KeyIDToken, "id-old"))
	require.NoError(t, kv.Set(keychain.KeyRefreshToken, "rt-old"))
	svc := NewService(&fakeIdentity{refreshErr: &backend.ProviderError{Status: 400, Code: backend.CodeTokenExpired, Message: "TOKEN_EXPIRED"}}, kv, nil)

	require.NoError(t, svc.WaitRestored(context.Background()))
	assert.Nil(t, svc.CurrentUser())
	_, ok, err := kv.Get(keychain.KeyRefreshToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubscribe_OfflineKeepsTokens(t *testing.T) {
	kv := newKV()
	require.NoError(t, kv.Set(keychain.KeyIDToken, "not-a-jwt"))
	require.NoError(t, kv.Set(keychain.KeyRefreshToken, "rt-old"))
	svc := NewService(&fakeIdentity{refreshErr: errors.New("dial tcp: no route to host")}, kv, nil)

	require.NoError(t, svc.WaitRestored(context.Background()))
	assert.Nil(t, svc.CurrentUser())
	rt, _, _ := kv.Get(keychain.KeyRefreshToken)
	assert.Equal(t, "rt-old", rt)
}

func TestSignIn_BroadcastsAndPersistsTokens(t *testing.T) {
	kv := newKV()
	svc := NewService(&fakeIdentity{}, kv, nil)
	a, b := &recorder{}, &recorder{}
	defer svc.Subscribe(context.Background(), a.add)()
	defer svc.Subscribe(context.Background(), b.add)()
	require.Eventually(t, func() bool { return len(a.snapshot()) == 1 && len(b.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	u, err := svc.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.False(t, u.ExpiresAt.IsZero())

	for _, r := range []*recorder{a, b} {
		require.Eventually(t, func() bool { return len(r.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, "ada@example.com", r.snapshot()[1].Email)
	}

	id, rt, err := NewTokens(kv).Load()
	require.NoError(t, err)
	assert.Equal(t, "id-ada@example.com", id)
	assert.Equal(t, "rt-ada@example.com", rt)
}

func TestSignIn_ProviderErrorDoesNotBroadcast(t *testing.T) {
	svc := NewService(&fakeIdentity{signInErr: errors.New("INVALID_LOGIN_CREDENTIALS")}, newKV(), nil)
	rec := &recorder{}
	defer svc.Subscribe(context.Background(), rec.add)()
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	_, err := svc.SignIn(context.Background(), "ada@example.com", "bad")
	require.Error(t, err)
	assert.Never(t, func() bool { return len(rec.snapshot()) > 1 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Nil(t, svc.CurrentUser())
}

func TestSignOut_ClearsAndBroadcastsNil(t *testing.T) {
	kv := newKV()
	svc := NewService(&fakeIdentity{}, kv, nil)
	rec := &recorder{}
	defer svc.Subscribe(context.Background(), rec.add)()
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	_, err := svc.SignUp(context.Background(), "new@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(context.Background()))

	require.Eventually(t, func() bool {
		s := rec.snapshot()
		return len(s) == 3 && s[1] != nil && s[2] == nil
	}, time.Second, 5*time.Millisecond)
	assert.Nil(t, svc.CurrentUser())
	id, rt, err := NewTokens(kv).Load()
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Empty(t, rt)
}

func TestRestore_LaterSignOutWins(t *testing.T) {
	kv := newKV()
	require.NoError(t, kv.Set(keychain.KeyRefreshToken, "rt-stored"))
	idp := &fakeIdentity{gate: make(chan struct{})}
	svc := NewService(idp, kv, nil)

	rec := &recorder{}
	defer svc.Subscribe(context.Background(), rec.add)()

	require.NoError(t, svc.SignOut(context.Background()))
	close(idp.gate)

	require.NoError(t, svc.WaitRestored(context.Background()))
	assert.Nil(t, svc.CurrentUser())
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Nil(t, rec.snapshot()[0])
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	svc := NewService(&fakeIdentity{}, newKV(), nil)
	rec := &recorder{}
	unsub := svc.Subscribe(context.Background(), rec.add)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	unsub()
	unsub()
	_, err := svc.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Never(t, func() bool { return len(rec.snapshot()) > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestSubscribe_ContextCancelUnsubscribes(t *testing.T) {
	svc := NewService(&fakeIdentity{}, newKV(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	svc.Subscribe(ctx, rec.add)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return len(svc.listeners) == 0
	}, time.Second, 5*time.Millisecond)
}
