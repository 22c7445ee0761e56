package journal_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/2beens/physiometrics/internal/physio/journal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	mutex   sync.Mutex
	records []journal.Record
	queries int
	failing bool
}

func (s *countingStore) Append(_ context.Context, r journal.Record) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.failing {
		return journal.ErrAppendFailed
	}
	s.records = append(s.records, r)
	return nil
}

func (s *countingStore) QueryByUser(_ context.Context, name string) ([]journal.Record, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.queries++
	if s.failing {
		return nil, journal.ErrQueryFailed
	}
	res := []journal.Record{}
	for _, r := range s.records {
		if r.UserName == name {
			res = append(res, r)
		}
	}
	return res, nil
}

// gatedStore holds the next query after it has read its snapshot, until release is closed.
type gatedStore struct {
	countingStore
	gated   atomic.Bool
	started chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *gatedStore) QueryByUser(ctx context.Context, name string) ([]journal.Record, error) {
	records, err := s.countingStore.QueryByUser(ctx, name)
	if s.gated.CompareAndSwap(true, false) {
		close(s.started)
		<-s.release
	}
	return records, err
}

func TestCachedStore_ServesFromCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{}
	store := journal.NewCachedStore(inner, 1024*1024, time.Minute)

	require.NoError(t, store.Append(ctx, testRecord("serj", 1.04, 963.75, 1650)))

	for i := 0; i < 3; i++ {
		records, err := store.QueryByUser(ctx, "serj")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, testRecord("serj", 1.04, 963.75, 1650), records[0])
	}
	assert.Equal(t, 1, inner.queries)

	// empty histories are cached too
	for i := 0; i < 2; i++ {
		records, err := store.QueryByUser(ctx, "ana")
		require.NoError(t, err)
		assert.Empty(t, records)
	}
	assert.Equal(t, 2, inner.queries)
}

func TestCachedStore_AppendInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{}
	store := journal.NewCachedStore(inner, 1024*1024, time.Minute)

	records, err := store.QueryByUser(ctx, "serj")
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, store.Append(ctx, testRecord("serj", 1, 100, 2000)))
	require.NoError(t, store.Append(ctx, testRecord("serj", 1.1, 110, 2100)))

	records, err = store.QueryByUser(ctx, "serj")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1.0, records[0].ACWR.Value())
	assert.Equal(t, 1.1, records[1].ACWR.Value())
	assert.Equal(t, 2, inner.queries)
}

func TestCachedStore_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{failing: true}
	store := journal.NewCachedStore(inner, 1024*1024, time.Minute)

	err := store.Append(ctx, testRecord("serj", 1, 1, 1))
	assert.True(t, errors.Is(err, journal.ErrAppendFailed))

	_, err = store.QueryByUser(ctx, "serj")
	assert.ErrorIs(t, err, journal.ErrQueryFailed)

	// failures are not cached
	_, err = store.QueryByUser(ctx, "serj")
	assert.ErrorIs(t, err, journal.ErrQueryFailed)
	assert.Equal(t, 2, inner.queries)
}

func TestCachedStore_QueryRacingAppendIsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := newGatedStore()
	inner.gated.Store(true)
	store := journal.NewCachedStore(inner, 1024*1024, time.Minute)

	type result struct {
		records []journal.Record
		err     error
	}
	resCh := make(chan result, 1)
	go func() {
		records, err := store.QueryByUser(ctx, "serj")
		resCh <- result{records, err}
	}()

	<-inner.started
	require.NoError(t, store.Append(ctx, testRecord("serj", 1, 100, 2000)))
	close(inner.release)

	res := <-resCh
	require.NoError(t, res.err)
	// started before the append, so the old snapshot is fine here
	assert.Empty(t, res.records)

	records, err := store.QueryByUser(ctx, "serj")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, testRecord("serj", 1, 100, 2000), records[0])
}

func TestNewCachedStore_TTL(t *testing.T) {
	for _, tc := range []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{0, journal.DefaultCacheTTL},
		{-time.Second, journal.DefaultCacheTTL},
		{time.Millisecond, time.Second},
		{999 * time.Millisecond, time.Second},
		{time.Minute, time.Minute},
	} {
		store := journal.NewCachedStore(&countingStore{}, 1024*1024, tc.ttl)
		assert.Equal(t, tc.want, store.TTL(), tc.ttl.String())
	}
}

func TestCachedStore_ForeignAppendsVisibleAfterExpiry(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{}
	store := journal.NewCachedStore(inner, 1024*1024, 100*time.Millisecond)

	records, err := store.QueryByUser(ctx, "serj")
	require.NoError(t, err)
	assert.Empty(t, records)

	// another process writes to the shared backend, bypassing this cache
	require.NoError(t, inner.Append(ctx, testRecord("serj", 1, 100, 2000)))
	assert.Equal(t, 1, inner.queries)

	assert.Eventually(t, func() bool {
		records, err := store.QueryByUser(ctx, "serj")
		return err == nil && len(records) == 1
	}, 5*time.Second, 100*time.Millisecond)
}
