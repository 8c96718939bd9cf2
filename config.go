package filter

import (
	"github.com/jinzhu/copier"
	"github.com/pbnjay/memory"
	"github.com/pkg/errors"
)

const defaultCacheShards = 16
const maxDefaultCacheCapacity = 1 << 16
const minDefaultCacheCapacity = 1 << 10

// every mebibyte of system memory buys one cached decision
const bytesPerDefaultCacheEntry = 1 << 20

var ErrInvalidCacheConfig = errors.New("invalid cache config")

type CacheConfig struct {
	Shards   int
	Capacity int
	OnEvict  func(key string, r Response)
}

// withDefaults returns a copy of cfg with zero values filled in. cfg itself is
// left untouched.
func (cfg *CacheConfig) withDefaults() (*CacheConfig, error) {
	var out CacheConfig
	if cfg != nil {
		if err := copier.Copy(&out, cfg); err != nil {
			return nil, errors.Wrap(ErrInvalidCacheConfig, err.Error())
		}
	}

	if out.Shards < 0 {
		return nil, errors.Wrapf(ErrInvalidCacheConfig, "negative shard count %d", out.Shards)
	}

	if out.Capacity < 0 {
		return nil, errors.Wrapf(ErrInvalidCacheConfig, "negative capacity %d", out.Capacity)
	}

	if out.Shards == 0 {
		out.Shards = defaultCacheShards
	}

	if out.Capacity == 0 {
		out.Capacity = defaultCacheCapacity()
	}

	if out.Capacity < out.Shards {
		out.Shards = out.Capacity
	}

	return &out, nil
}

func defaultCacheCapacity() int {
	c := int(memory.TotalMemory() / bytesPerDefaultCacheEntry)
	if c < minDefaultCacheCapacity {
		return minDefaultCacheCapacity
	}

	if c > maxDefaultCacheCapacity {
		return maxDefaultCacheCapacity
	}

	return c
}
