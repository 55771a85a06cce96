// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth provides authentication services for the BrowseMate CLI.
// It wraps the identity provider's email/password endpoints, keeps the
// provider tokens in secure storage, and publishes an auth-state stream that
// reports the current user after every sign-in, sign-up and sign-out.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"browsemate/cli/internal/backend"
	"browsemate/cli/internal/logging"

	"go.uber.org/zap"
)

// User is the signed-in account as seen by the auth-state stream.
type User struct {
	UID       string
	Email     string
	ExpiresAt time.Time
}

// Service centralizes authentication-related operations against the identity
// provider and local secure storage.
type Service struct {
	idp    backend.Identity
	tokens *Tokens
	log    *zap.Logger

	restoreOnce sync.Once
	restoreDone chan struct{}

	mu        sync.Mutex
	current   *User
	version   uint64
	listeners map[int]*listener
	nextID    int
}

// NewService constructs an auth Service. Tokens are persisted in kv.
func NewService(idp backend.Identity, kv KV, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		idp:         idp,
		tokens:      NewTokens(kv),
		log:         log.Named("auth"),
		restoreDone: make(chan struct{}),
		listeners:   make(map[int]*listener),
	}
}

// SignIn authenticates with email and password and broadcasts the user.
func (s *Service) SignIn(ctx context.Context, email, password string) (*User, error) {
	cred, err := s.idp.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.accept(cred), nil
}

// SignUp creates an account, signs it in and broadcasts the user.
func (s *Service) SignUp(ctx context.Context, email, password string) (*User, error) {
	cred, err := s.idp.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.accept(cred), nil
}

// SignOut forgets the local session and broadcasts "no user". The provider
// keeps no server-side session for password accounts, so nothing is sent.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	s.current = nil
	err := s.tokens.Clear()
	s.broadcastLocked(nil)
	return err
}

// CurrentUser returns the signed-in user, or nil.
func (s *Service) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.current)
}

// IDToken returns the stored id token, or "" when signed out.
func (s *Service) IDToken() (string, error) {
	id, _, err := s.tokens.Load()
	return id, err
}

// accept stores cred and makes its user current.
func (s *Service) accept(cred *backend.Credential) *User {
	u := userFromCredential(cred)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	s.current = u
	if err := s.tokens.Save(cred); err != nil {
		// The process stays signed in; the next launch will start signed out.
		s.log.Warn("save tokens", logging.MaskedError(err))
	}
	s.broadcastLocked(u)
	return cloneUser(u)
}

// Subscribe registers fn on the auth-state stream and returns a function that
// removes it. fn first receives the restored user (nil when none), then every
// later change, on a goroutine owned by the subscription and never
// concurrently with itself. The subscription also ends when ctx is done.
func (s *Service) Subscribe(ctx context.Context, fn func(*User)) func() {
	l := &listener{
		fn:   fn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	s.startRestore(ctx)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
			close(l.done)
		})
	}

	go func() {
		select {
		case <-s.restoreDone:
		case <-l.done:
			return
		case <-ctx.Done():
			unsubscribe()
			return
		}

		// Priming under s.mu keeps the initial snapshot ordered before any
		// later broadcast.
		s.mu.Lock()
		if _, ok := s.listeners[id]; !ok {
			s.mu.Unlock()
			return
		}
		l.primed = true
		l.push(cloneUser(s.current))
		s.mu.Unlock()

		for {
			select {
			case <-l.done:
				return
			case <-ctx.Done():
				unsubscribe()
				return
			case <-l.wake:
				for _, u := range l.drain() {
					select {
					case <-l.done:
						return
					default:
					}
					l.fn(u)
				}
			}
		}
	}()

	return unsubscribe
}

// WaitRestored blocks until session restoration has finished or ctx is done.
func (s *Service) WaitRestored(ctx context.Context) error {
	s.startRestore(ctx)
	select {
	case <-s.restoreDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) startRestore(ctx context.Context) {
	s.restoreOnce.Do(func() {
		s.mu.Lock()
		start := s.version
		s.mu.Unlock()
		go func() {
			defer close(s.restoreDone)
			s.restore(context.WithoutCancel(ctx), start)
		}()
	})
}

// restore exchanges the stored refresh token for a fresh id token. A sign-in
// or sign-out that lands while the exchange is in flight wins.
func (s *Service) restore(ctx context.Context, start uint64) {
	idToken, refresh, err := s.tokens.Load()
	if err != nil {
		s.log.Warn("load tokens", logging.MaskedError(err))
		return
	}
	if refresh == "" {
		return
	}

	cred, err := s.idp.RefreshToken(ctx, refresh)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != start {
		return
	}

	switch {
	case err == nil:
		s.current = userFromCredential(cred)
		if err := s.tokens.Save(cred); err != nil {
			s.log.Warn("save refreshed tokens", logging.MaskedError(err))
		}
	case revoked(err):
		s.log.Info("stored session rejected by provider", logging.MaskedError(err))
		if err := s.tokens.Clear(); err != nil {
			s.log.Warn("clear tokens", logging.MaskedError(err))
		}
	default:
		// Offline: fall back to the cached id token's claims.
		s.log.Warn("refresh session", logging.MaskedError(err))
		if claims, perr := backend.ParseIDToken(idToken); perr == nil {
			s.current = &User{UID: claims.UserID, Email: claims.Email, ExpiresAt: claims.ExpiresAt()}
		}
	}
}

// revoked reports whether err means the stored refresh token is no longer usable.
func revoked(err error) bool {
	var pe *backend.ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	switch pe.Code {
	case backend.CodeTokenExpired, backend.CodeInvalidRefresh, backend.CodeUserDisabled, backend.CodeUserNotFound:
		return true
	}
	return false
}

// broadcastLocked queues u for every primed listener. s.mu must be held.
func (s *Service) broadcastLocked(u *User) {
	for _, l := range s.listeners {
		if l.primed {
			l.push(cloneUser(u))
		}
	}
}

func userFromCredential(cred *backend.Credential) *User {
	u := &User{UID: cred.UserID, Email: cred.Email}
	if claims, err := backend.ParseIDToken(cred.IDToken); err == nil {
		u.ExpiresAt = claims.ExpiresAt()
		if u.Email == "" {
			u.Email = claims.Email
		}
		if u.UID == "" {
			u.UID = claims.UserID
		}
	}
	if u.ExpiresAt.IsZero() && cred.ExpiresIn > 0 {
		u.ExpiresAt = time.Now().Add(cred.ExpiresIn)
	}
	return u
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// listener is one subscription's delivery queue.
type listener struct {
	fn     func(*User)
	primed bool // guarded by Service.mu

	mu    sync.Mutex
	queue []*User
	wake  chan struct{}
	done  chan struct{}
}

func (l *listener) push(u *User) {
	l.mu.Lock()
	l.queue = append(l.queue, u)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *listener) drain() []*User {
	l.mu.Lock()
	defer l.mu.Unlock()
	q := l.queue
	l.queue = nil
	return q
}
