// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session decides whether the app mounts the signed-in or the
// signed-out screens. It combines the persisted "logged in" flag with the
// identity provider's auth-state stream.
package session

import (
	"context"
	"sync"
	"time"

	"browsemate/cli/internal/auth"
	"browsemate/cli/internal/logging"

	"go.uber.org/zap"
)

// State is the resolver's answer.
type State int

const (
	Checking State = iota
	LoggedOut
	LoggedIn
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged_out"
	case LoggedIn:
		return "logged_in"
	default:
		return "checking"
	}
}

// DefaultRecheckDelay is how long a "no user" event waits before the flag is
// read again.
const DefaultRecheckDelay = time.Second

// FlagStore is the persisted session flag.
type FlagStore interface {
	IsLoggedIn() (bool, error)
	SetLoggedIn() error
}

// AuthStream delivers the current user (nil when signed out) on every change.
type AuthStream interface {
	Subscribe(ctx context.Context, fn func(*auth.User)) func()
}

// Snapshot is the resolver state plus its bookkeeping.
type Snapshot struct {
	State State
	// Loading is true until the initial flag read has completed.
	Loading bool
	// Pending counts flag writes and scheduled re-checks not yet finished.
	Pending int
	// Observed is true once the auth stream has delivered its first event.
	Observed bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRecheckDelay overrides DefaultRecheckDelay.
func WithRecheckDelay(d time.Duration) Option {
	return func(r *Resolver) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// Resolver tracks whether a session is active.
type Resolver struct {
	flag   FlagStore
	stream AuthStream
	delay  time.Duration
	log    *zap.Logger

	mu      sync.Mutex
	snap    Snapshot
	changed chan struct{}
	started bool
	closed  bool
	unsub   func()

	// gen is bumped by every auth event; a re-check only applies while its
	// generation is current.
	gen        uint64
	recheck    *time.Timer
	recheckGen uint64

	notifyMu  sync.Mutex
	listeners map[int]func(State)
	nextID    int
	delivered State
}

// New returns a resolver in the Checking state. Call Start to begin.
func New(flag FlagStore, stream AuthStream, opts ...Option) *Resolver {
	r := &Resolver{
		flag:      flag,
		stream:    stream,
		delay:     DefaultRecheckDelay,
		log:       zap.NewNop(),
		snap:      Snapshot{State: Checking, Loading: true},
		changed:   make(chan struct{}),
		listeners: make(map[int]func(State)),
		delivered: Checking,
	}
	for _, o := range opts {
		o(r)
	}
	r.log = r.log.Named("session")
	return r
}

// Start subscribes to the auth stream and reads the persisted flag in the
// background. Calling Start more than once has no effect.
func (r *Resolver) Start(ctx context.Context) {
	r.mu.Lock()
	if r.started || r.closed {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()

	unsub := r.stream.Subscribe(ctx, r.onAuth)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		unsub()
		return
	}
	r.unsub = unsub
	r.mu.Unlock()

	go r.initialRead()
}

// Close unsubscribes from the auth stream and cancels a pending re-check.
// State is frozen afterwards.
func (r *Resolver) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.stopRecheckLocked()
	unsub := r.unsub
	r.unsub = nil
	r.signalLocked()
	r.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (r *Resolver) initialRead() {
	ok, err := r.flag.IsLoggedIn()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if err != nil {
		r.log.Warn("read session flag", logging.MaskedError(err))
	}
	switch {
	case err == nil && ok:
		r.snap.State = LoggedIn
	case r.snap.State != LoggedIn:
		r.snap.State = LoggedOut
	}
	r.snap.Loading = false
	r.signalLocked()
	r.mu.Unlock()
	r.notify()
}

// onAuth runs on the auth stream's delivery goroutine, one event at a time.
func (r *Resolver) onAuth(u *auth.User) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.gen++
	g := r.gen
	r.snap.Observed = true
	r.stopRecheckLocked()
	r.snap.Pending++

	if u == nil {
		r.recheckGen = g
		r.recheck = time.AfterFunc(r.delay, func() { r.runRecheck(g) })
		r.signalLocked()
		r.mu.Unlock()
		r.log.Debug("no user; re-check scheduled", zap.Duration("delay", r.delay))
		return
	}
	r.signalLocked()
	r.mu.Unlock()

	err := r.flag.SetLoggedIn()

	r.mu.Lock()
	r.snap.Pending--
	if !r.closed {
		if err != nil {
			r.log.Warn("persist session flag", logging.MaskedError(err))
		} else {
			r.snap.State = LoggedIn
		}
	}
	r.signalLocked()
	r.mu.Unlock()
	r.notify()
}

// runRecheck re-reads the flag unless a later event or Close superseded it.
func (r *Resolver) runRecheck(g uint64) {
	r.mu.Lock()
	if r.closed || r.gen != g {
		r.snap.Pending--
		r.signalLocked()
		r.mu.Unlock()
		return
	}
	r.recheck = nil
	r.mu.Unlock()

	ok, err := r.flag.IsLoggedIn()

	r.mu.Lock()
	r.snap.Pending--
	if !r.closed && r.gen == g {
		if err != nil {
			r.log.Warn("re-read session flag", logging.MaskedError(err))
		}
		if err == nil && ok {
			r.snap.State = LoggedIn
		} else {
			r.snap.State = LoggedOut
		}
	}
	r.signalLocked()
	r.mu.Unlock()
	r.notify()
}

// stopRecheckLocked cancels a scheduled re-check. A timer that already fired
// settles its own Pending count in runRecheck.
func (r *Resolver) stopRecheckLocked() {
	if r.recheck == nil {
		return
	}
	if r.recheck.Stop() {
		r.snap.Pending--
	}
	r.recheck = nil
}

// signalLocked wakes every Await. r.mu must be held.
func (r *Resolver) signalLocked() {
	close(r.changed)
	r.changed = make(chan struct{})
}

// notify delivers the current state to listeners when it differs from the
// last delivered one.
func (r *Resolver) notify() {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	st := r.State()
	if st == r.delivered {
		return
	}
	r.delivered = st
	for _, fn := range r.listeners {
		fn(st)
	}
}

// Subscribe registers fn for state changes and returns a function that
// removes it. fn is never called concurrently with itself.
func (r *Resolver) Subscribe(fn func(State)) func() {
	r.notifyMu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.notifyMu.Unlock()

	return func() {
		r.notifyMu.Lock()
		delete(r.listeners, id)
		r.notifyMu.Unlock()
	}
}

// Snapshot returns the current state and bookkeeping.
func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// State returns the current state.
func (r *Resolver) State() State { return r.Snapshot().State }

// IsLoggedIn reports whether the signed-in screens should be mounted.
func (r *Resolver) IsLoggedIn() bool { return r.State() == LoggedIn }

// IsLoading reports whether the initial flag read is still outstanding.
func (r *Resolver) IsLoading() bool { return r.Snapshot().Loading }

// Await blocks until pred holds for the current snapshot or ctx is done.
func (r *Resolver) Await(ctx context.Context, pred func(Snapshot) bool) (Snapshot, error) {
	for {
		r.mu.Lock()
		s, ch := r.snap, r.changed
		r.mu.Unlock()

		if pred(s) {
			return s, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}
}

// WaitSettled blocks until the initial flag read has completed.
func (r *Resolver) WaitSettled(ctx context.Context) (State, error) {
	s, err := r.Await(ctx, func(s Snapshot) bool { return !s.Loading })
	return s.State, err
}

// WaitIdle blocks until the initial read is done, the auth stream has spoken,
// and no write or re-check is outstanding.
func (r *Resolver) WaitIdle(ctx context.Context) (State, error) {
	s, err := r.Await(ctx, func(s Snapshot) bool {
		return !s.Loading && s.Observed && s.Pending == 0
	})
	return s.State, err
}
