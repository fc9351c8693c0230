package checkpoint

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

type exactKey struct {
	id      ObjectID
	version SequenceNumber
}

// VersionedObjectCache wraps an ObjectProvider and memoizes two things: the
// exact-version lookups, and resolved "latest version <= V" lookups. Both
// caches are scoped to a single checkpoint-processing task's lifetime — it
// is unbounded for that lifetime by design (spec.md §4.2); callers that
// want memory bounded across many checkpoints should keep a CacheRing of
// these instead of growing one indefinitely.
//
// Readers proceed without contention; writers take exclusive access. Races
// on insertion are benign because cached values are content-addressed
// (spec.md §5).
type VersionedObjectCache struct {
	provider ObjectProvider

	mu       sync.RWMutex
	exact    map[exactKey]Object
	resolved map[exactKey]SequenceNumber // (id, queried version) -> resolved version
}

// NewVersionedObjectCache constructs a cache over the given provider.
func NewVersionedObjectCache(provider ObjectProvider) *VersionedObjectCache {
	return &VersionedObjectCache{
		provider: provider,
		exact:    make(map[exactKey]Object),
		resolved: make(map[exactKey]SequenceNumber),
	}
}

// Get returns the object at exactly the given version, populating the exact
// cache on miss.
func (c *VersionedObjectCache) Get(ctx context.Context, id ObjectID, version SequenceNumber) (Object, error) {
	key := exactKey{id, version}

	c.mu.RLock()
	if obj, ok := c.exact[key]; ok {
		c.mu.RUnlock()
		return obj, nil
	}
	c.mu.RUnlock()

	obj, err := c.provider.Get(ctx, id, version)
	if err != nil {
		return Object{}, err
	}

	c.mu.Lock()
	c.exact[key] = obj
	c.mu.Unlock()
	return obj, nil
}

// FindLE returns the object at the greatest known version <= version. It
// first consults the resolved-<= cache; on a hit it delegates to Get with
// the memoized resolved version. On a miss it asks the provider, and on a
// successful resolution populates both caches.
//
// Staleness note (spec.md §9 Open Question): the resolved-<= entry is keyed
// by the *queried* version, not the resolved version. A later query for the
// same (id, queried version) pair will therefore always short-circuit to
// the first answer ever computed for it, even if — hypothetically — a
// smaller, more precise version later became knowable. Within the scope of
// a single checkpoint-processing task this is safe: object history for a
// given id only grows monotonically forward, never backward, so no later
// discovery can ever invalidate an earlier "latest <= V" answer.
func (c *VersionedObjectCache) FindLE(ctx context.Context, id ObjectID, version SequenceNumber) (Object, bool, error) {
	key := exactKey{id, version}

	c.mu.RLock()
	if resolvedVersion, ok := c.resolved[key]; ok {
		c.mu.RUnlock()
		obj, err := c.Get(ctx, id, resolvedVersion)
		if err != nil {
			return Object{}, false, err
		}
		return obj, true, nil
	}
	c.mu.RUnlock()

	obj, ok, err := c.provider.FindLE(ctx, id, version)
	if err != nil {
		return Object{}, false, err
	}
	if !ok {
		return Object{}, false, nil
	}

	c.mu.Lock()
	c.exact[exactKey{id, obj.Version}] = obj
	c.resolved[key] = obj.Version
	c.mu.Unlock()
	return obj, true, nil
}

// CacheRing keeps a bounded, LRU-evicted set of per-checkpoint caches alive
// across checkpoint boundaries, so that a burst of transactions touching
// the same hot objects across adjacent checkpoints does not each pay a
// fresh round of provider I/O. The core's correctness does not depend on
// this: it is a latency optimization layered on top of the per-task cache
// contract in spec.md §4.2.
type CacheRing struct {
	provider ObjectProvider
	log      *logrus.Entry

	mu    sync.Mutex
	ring  *lru.Cache[uint64, *VersionedObjectCache]
}

// NewCacheRing constructs a ring holding up to size per-checkpoint caches.
func NewCacheRing(provider ObjectProvider, size int) (*CacheRing, error) {
	ring, err := lru.New[uint64, *VersionedObjectCache](size)
	if err != nil {
		return nil, err
	}
	return &CacheRing{
		provider: provider,
		log:      logrus.WithField("component", "checkpoint.cache_ring"),
		ring:     ring,
	}, nil
}

// ForCheckpoint returns the cache for the given checkpoint sequence number,
// creating one if it is not already warm.
func (r *CacheRing) ForCheckpoint(seq uint64) *VersionedObjectCache {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.ring.Get(seq); ok {
		return c
	}
	c := NewVersionedObjectCache(r.provider)
	r.ring.Add(seq, c)
	r.log.Debugf("warmed cache for checkpoint %d (ring size %d)", seq, r.ring.Len())
	return c
}
