// Package lru implements a sharded least-recently-used cache keyed by strings.
package lru

import (
	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"sync"
)

var ErrIllegalCapacity = errors.New("illegal lru cache capacity")
var ErrInvalidSharding = errors.New("invalid sharding")

type OnEvict[V any] func(key string, value V)

// Cache spreads keys over independently locked shards. Each shard holds at
// most capacity/shards entries.
type Cache[V any] struct {
	shards []*lruShard[V]
}

func NewCache[V any](shards, capacity int, onEvict OnEvict[V]) (*Cache[V], error) {
	if shards < 1 {
		return nil, errors.Wrapf(ErrInvalidSharding, "%d shards", shards)
	}

	if capacity < shards {
		return nil, errors.Wrapf(ErrIllegalCapacity, "capacity %d is less than %d shards", capacity, shards)
	}

	c := Cache[V]{shards: make([]*lruShard[V], shards)}

	perShard := capacity / shards
	for i := range c.shards {
		c.shards[i] = newLruShard[V](perShard, onEvict)
	}

	return &c, nil
}

// Add value to cache under key and returns true if eviction happened
func (c *Cache[V]) Add(key string, value V) bool {
	return c.getShard(key).add(key, value)
}

func (c *Cache[V]) Get(key string) (V, bool) {
	return c.getShard(key).get(key)
}

func (c *Cache[V]) Remove(key string) bool {
	return c.getShard(key).remove(key)
}

func (c *Cache[V]) Purge() {
	var wg sync.WaitGroup

	wg.Add(len(c.shards))
	for i := range c.shards {
		go func(i int) {
			defer wg.Done()
			c.shards[i].purge()
		}(i)
	}

	wg.Wait()
}

func (c *Cache[V]) Len() int {
	n := 0
	for i := range c.shards {
		n += c.shards[i].len()
	}

	return n
}

// Keys lists cached keys shard by shard, most recently used first within each
// shard.
func (c *Cache[V]) Keys() []string {
	var keys []string
	for i := range c.shards {
		keys = append(keys, c.shards[i].keys()...)
	}

	return keys
}

func (c *Cache[V]) getShard(key string) *lruShard[V] {
	return c.shards[xxhash.Sum64String(key)%uint64(len(c.shards))]
}
