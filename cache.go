package filter

import (
	"fmt"
	"github.com/pkg/errors"
	"github.com/seiama/filter/internal/lru"
	"sync/atomic"
)

// KeyFunc derives a cache key for a query. Queries for which it returns false
// are never cached.
type KeyFunc func(q Query) (string, bool)

// ByKey caches Keyed queries by their key.
func ByKey(q Query) (string, bool) {
	keyed, ok := q.(Keyed)
	if !ok {
		return "", false
	}

	return keyed.Key(), true
}

// CachedFilter remembers the responses of a filter per query key. The wrapped
// filter must answer the same way for queries sharing a key.
type CachedFilter struct {
	filter Filter
	key    KeyFunc
	cache  *lru.Cache[Response]
	hits   uint64
	misses uint64
}

func Cached(f Filter, key KeyFunc, cfg *CacheConfig) (*CachedFilter, error) {
	if f == nil {
		return nil, errors.Wrap(ErrInvalidCacheConfig, "nil filter")
	}

	if key == nil {
		key = ByKey
	}

	c, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	var onEvict lru.OnEvict[Response]
	if c.OnEvict != nil {
		onEvict = c.OnEvict
	}

	cache, err := lru.NewCache[Response](c.Shards, c.Capacity, onEvict)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidCacheConfig, err.Error())
	}

	return &CachedFilter{filter: f, key: key, cache: cache}, nil
}

func (cf *CachedFilter) Query(q Query) Response {
	k, ok := cf.key(q)
	if !ok {
		return cf.filter.Query(q)
	}

	if r, ok := cf.cache.Get(k); ok {
		atomic.AddUint64(&cf.hits, 1)
		return r
	}

	atomic.AddUint64(&cf.misses, 1)
	r := cf.filter.Query(q)
	cf.cache.Add(k, r)
	return r
}

// Filter returns the wrapped filter.
func (cf *CachedFilter) Filter() Filter {
	return cf.filter
}

func (cf *CachedFilter) Hits() uint64 {
	return atomic.LoadUint64(&cf.hits)
}

func (cf *CachedFilter) Misses() uint64 {
	return atomic.LoadUint64(&cf.misses)
}

func (cf *CachedFilter) Len() int {
	return cf.cache.Len()
}

// Forget drops the cached response for key.
func (cf *CachedFilter) Forget(key string) bool {
	return cf.cache.Remove(key)
}

func (cf *CachedFilter) Purge() {
	cf.cache.Purge()
}

func (cf *CachedFilter) String() string {
	return fmt.Sprintf("cached(%v)", cf.filter)
}
