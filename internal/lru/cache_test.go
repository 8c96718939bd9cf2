package lru

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"sync"
	"testing"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewCache(t *testing.T) {
	_, err := NewCache[int](0, 10, nil)
	assert.ErrorIs(t, err, ErrInvalidSharding)

	_, err = NewCache[int](4, 3, nil)
	assert.ErrorIs(t, err, ErrIllegalCapacity)

	c, err := NewCache[int](4, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Add(t *testing.T) {
	t.Run("just add with no eviction", func(t *testing.T) {
		evicted := 0
		onEvict := func(k string, v string) {
			evicted++
		}

		c, err := NewCache[string](2, 1024, onEvict)
		require.NoError(t, err)

		for i := 0; i < 100; i += 5 {
			c.Add(fmt.Sprintf("key:%d", i), fmt.Sprintf("Value %d", i))
		}

		for i := 0; i < 100; i += 5 {
			v, ok := c.Get(fmt.Sprintf("key:%d", i))
			require.True(t, ok)
			assert.Equal(t, fmt.Sprintf("Value %d", i), v)
		}

		assert.Equal(t, 0, evicted)
		assert.Equal(t, 20, c.Len())
		assert.Len(t, c.Keys(), 20)
	})

	t.Run("add with eviction on a single shard", func(t *testing.T) {
		var evicted []string
		c, err := NewCache[int](1, 5, func(k string, v int) {
			evicted = append(evicted, k)
		})
		require.NoError(t, err)

		for i := 0; i < 8; i++ {
			c.Add(fmt.Sprintf("key:%d", i), i)
		}

		assert.Equal(t, []string{"key:0", "key:1", "key:2"}, evicted)
		assert.Equal(t, 5, c.Len())

		for i := 3; i < 8; i++ {
			_, ok := c.Get(fmt.Sprintf("key:%d", i))
			assert.Truef(t, ok, "expected key:%d to be in cache", i)
		}
	})

	t.Run("remove and purge", func(t *testing.T) {
		c, err := NewCache[int](4, 100, nil)
		require.NoError(t, err)

		for i := 0; i < 40; i++ {
			c.Add(fmt.Sprintf("key:%d", i), i)
		}

		assert.True(t, c.Remove("key:7"))
		assert.False(t, c.Remove("key:7"))
		assert.Equal(t, 39, c.Len())

		c.Purge()
		assert.Equal(t, 0, c.Len())
	})
}

func TestCache_Concurrent(t *testing.T) {
	c, err := NewCache[int](8, 1024, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				k := fmt.Sprintf("key:%d", (r*200+i)%300)
				c.Add(k, i)
				c.Get(k)
			}
		}(r)
	}

	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 1024)
}

func BenchmarkShards(b *testing.B) {
	for _, shards := range []int{2, 5, 10, 20} {
		b.Run(fmt.Sprintf("%d shards", shards), func(b *testing.B) {
			c, _ := NewCache[int](shards, 1<<16, nil)
			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					k := fmt.Sprintf("key:%d", i%4096)
					c.Add(k, i)
					c.Get(k)
					i++
				}
			})
		})
	}
}
