package catalog

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// PageSize is the fixed number of products requested per page.
const PageSize = 10

// Status is the lifecycle of the most recent fetch.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// State is a snapshot of the store.
type State struct {
	Items       []Item
	Status      Status
	Error       string
	CurrentPage int
}

// Fetcher loads one page of products.
type Fetcher interface {
	FetchProducts(ctx context.Context, limit, skip int) ([]Item, error)
}

// Store is the process-wide catalog state container. It is created once with
// its fetcher and never torn down; screens read it through Snapshot and
// Subscribe.
type Store struct {
	fetch Fetcher
	log   *zap.Logger

	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// NewStore returns an idle store positioned on page 1.
func NewStore(f Fetcher, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		fetch:     f,
		log:       log.Named("catalog"),
		state:     State{Status: StatusIdle, CurrentPage: 1},
		listeners: make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current state. The Items slice is owned by
// the caller.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	st := s.state
	st.Items = slices.Clone(s.state.Items)
	return st
}

// Subscribe registers fn to be called with a snapshot after every change.
// The returned func removes the registration.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SetPage overwrites the current page. There is no upper bound: the API does
// not report a total, so a page past the end simply loads empty.
func (s *Store) SetPage(n int) {
	s.update(func(st *State) { st.CurrentPage = n })
}

// FetchItems loads page and replaces Items wholesale on success. On failure
// the previous Items are kept and the error message is recorded. The error is
// also returned so callers can log or render it.
func (s *Store) FetchItems(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * PageSize

	s.update(func(st *State) { st.Status = StatusLoading })
	s.log.Debug("fetch pending", zap.Int("page", page), zap.Int("skip", skip))

	items, err := s.fetch.FetchProducts(ctx, PageSize, skip)
	if err != nil {
		s.log.Warn("fetch rejected", zap.Int("page", page), zap.Error(err))
		s.update(func(st *State) {
			st.Status = StatusFailed
			st.Error = err.Error()
		})
		return err
	}

	s.log.Debug("fetch fulfilled", zap.Int("page", page), zap.Int("count", len(items)))
	s.update(func(st *State) {
		st.Status = StatusSucceeded
		st.Items = slices.Clone(items)
		st.Error = ""
	})
	return nil
}

// Item returns the loaded item with the given id.
func (s *Store) Item(id int) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.state.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func (s *Store) update(mut func(*State)) {
	s.mu.Lock()
	mut(&s.state)
	snap := s.snapshotLocked()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
