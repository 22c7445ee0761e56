package journal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Store = (*CachedStore)(nil)

// DefaultCacheTTL applies when no TTL is configured. Entries always expire,
// otherwise appends made by other processes would never become visible.
const DefaultCacheTTL = 30 * time.Second

// CachedStore keeps recently queried histories in memory.
// Appends made through it drop the user's entry; appends made by other
// processes become visible once the entry expires.
type CachedStore struct {
	inner Store
	cache *freecache.Cache
	ttl   time.Duration

	// generation is bumped by every append, a query only caches its result
	// when no append finished while it was reading the inner store
	mutex      sync.Mutex
	generation uint64
}

// NewCachedStore wraps inner. A ttl <= 0 means DefaultCacheTTL, anything
// shorter than a second is rounded up to one.
func NewCachedStore(inner Store, sizeBytes int, ttl time.Duration) *CachedStore {
	switch {
	case ttl <= 0:
		ttl = DefaultCacheTTL
	case ttl < time.Second:
		ttl = time.Second
	}
	return &CachedStore{
		inner: inner,
		cache: freecache.NewCache(sizeBytes),
		ttl:   ttl,
	}
}

func (cs *CachedStore) TTL() time.Duration {
	return cs.ttl
}

func (cs *CachedStore) Append(ctx context.Context, record Record) error {
	err := cs.inner.Append(ctx, record)

	cs.mutex.Lock()
	cs.generation++
	cs.cache.Del([]byte(record.UserName))
	cs.mutex.Unlock()

	return err
}

func (cs *CachedStore) QueryByUser(ctx context.Context, name string) ([]Record, error) {
	key := []byte(name)
	if cached, err := cs.cache.Get(key); err == nil {
		if records, ok := decodeCached(cached); ok {
			return records, nil
		}
		cs.cache.Del(key)
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Warnf("journal cache get [%s]: %s", name, err)
	}

	cs.mutex.Lock()
	generation := cs.generation
	cs.mutex.Unlock()

	records, err := cs.inner.QueryByUser(ctx, name)
	if err != nil {
		return nil, err
	}

	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	if cs.generation != generation {
		// an append landed meanwhile, the snapshot may already be stale
		return records, nil
	}
	if err := cs.cache.Set(key, encodeCached(records), int(cs.ttl/time.Second)); err != nil {
		// history too large for the cache, serve it uncached
		log.Debugf("journal cache set [%s]: %s", name, err)
	}

	return records, nil
}

func encodeCached(records []Record) []byte {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = EncodeLine(r)
	}
	return []byte(strings.Join(lines, "\n"))
}

func decodeCached(data []byte) ([]Record, bool) {
	records := []Record{}
	if len(data) == 0 {
		return records, true
	}
	for _, line := range strings.Split(string(data), "\n") {
		r, err := ParseLine(line)
		if err != nil {
			return nil, false
		}
		records = append(records, r)
	}
	return records, true
}
