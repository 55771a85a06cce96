package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu     sync.Mutex
	calls  [][2]int
	result []Item
	err    error
}

func (f *fakeFetcher) FetchProducts(_ context.Context, limit, skip int) ([]Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [2]int{limit, skip})
	return f.result, f.err
}

func page(n int) []Item {
	out := make([]Item, n)
	for i := range out {
		out[i] = Item{ID: i + 1, Title: "Item", Price: float64(i)}
	}
	return out
}

func TestStore_Initial(t *testing.T) {
	s := NewStore(&fakeFetcher{}, nil)
	st := s.Snapshot()
	assert.Equal(t, StatusIdle, st.Status)
	assert.Equal(t, 1, st.CurrentPage)
	assert.Empty(t, st.Items)
	assert.Empty(t, st.Error)
}

func TestStore_FetchPageTwo(t *testing.T) {
	f := &fakeFetcher{result: page(10)}
	s := NewStore(f, nil)

	var seen []Status
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st.Status) })
	defer unsubscribe()

	require.NoError(t, s.FetchItems(context.Background(), 2))

	assert.Equal(t, [][2]int{{10, 10}}, f.calls)
	st := s.Snapshot()
	assert.Equal(t, StatusSucceeded, st.Status)
	assert.Equal(t, page(10), st.Items)
	assert.Equal(t, []Status{StatusLoading, StatusSucceeded}, seen)
}

func TestStore_RejectedKeepsItems(t *testing.T) {
	f := &fakeFetcher{result: page(3)}
	s := NewStore(f, nil)
	require.NoError(t, s.FetchItems(context.Background(), 1))

	f.result, f.err = nil, errors.New("unexpected end of JSON input")
	err := s.FetchItems(context.Background(), 2)
	require.Error(t, err)

	st := s.Snapshot()
	assert.Equal(t, StatusFailed, st.Status)
	assert.Equal(t, "unexpected end of JSON input", st.Error)
	assert.Equal(t, page(3), st.Items)
}

func TestStore_SuccessClearsError(t *testing.T) {
	f := &fakeFetcher{err: errors.New("offline")}
	s := NewStore(f, nil)
	require.Error(t, s.FetchItems(context.Background(), 1))

	f.err, f.result = nil, page(1)
	require.NoError(t, s.FetchItems(context.Background(), 1))
	assert.Empty(t, s.Snapshot().Error)
}

func TestStore_SetPageUnbounded(t *testing.T) {
	f := &fakeFetcher{result: []Item{}}
	s := NewStore(f, nil)

	s.SetPage(500)
	assert.Equal(t, 500, s.Snapshot().CurrentPage)

	require.NoError(t, s.FetchItems(context.Background(), 500))
	st := s.Snapshot()
	assert.Equal(t, StatusSucceeded, st.Status)
	assert.Empty(t, st.Items)
	assert.Equal(t, [][2]int{{10, 4990}}, f.calls)
}

func TestStore_NonPositivePageFetchesFirst(t *testing.T) {
	f := &fakeFetcher{result: page(1)}
	s := NewStore(f, nil)
	require.NoError(t, s.FetchItems(context.Background(), 0))
	assert.Equal(t, [][2]int{{10, 0}}, f.calls)
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := NewStore(&fakeFetcher{result: page(2)}, nil)
	require.NoError(t, s.FetchItems(context.Background(), 1))

	snap := s.Snapshot()
	snap.Items[0].Title = "mutated"
	assert.Equal(t, "Item", s.Snapshot().Items[0].Title)
}

func TestStore_Item(t *testing.T) {
	s := NewStore(&fakeFetcher{result: page(3)}, nil)
	require.NoError(t, s.FetchItems(context.Background(), 1))

	it, ok := s.Item(2)
	assert.True(t, ok)
	assert.Equal(t, 2, it.ID)

	_, ok = s.Item(99)
	assert.False(t, ok)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := NewStore(&fakeFetcher{}, nil)
	calls := 0
	unsubscribe := s.Subscribe(func(State) { calls++ })
	s.SetPage(2)
	unsubscribe()
	s.SetPage(3)
	assert.Equal(t, 1, calls)
}
