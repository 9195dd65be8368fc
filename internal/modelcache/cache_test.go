package modelcache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShard_EvictsOldestWhenBudgetExceeded(t *testing.T) {
	ls := newLruShard(30)

	assert.False(t, ls.add(1, "a", 10))
	assert.False(t, ls.add(2, "b", 10))
	assert.False(t, ls.add(3, "c", 10))
	assert.Equal(t, 3, ls.len())

	// touch 1 so 2 becomes the eviction candidate
	_, ok := ls.get(1)
	require.True(t, ok)

	assert.True(t, ls.add(4, "d", 10))
	assert.Equal(t, 3, ls.len())

	_, ok = ls.get(2)
	assert.False(t, ok)

	for _, key := range []uint64{1, 3, 4} {
		_, ok := ls.get(key)
		assert.True(t, ok, key)
	}
}

func TestShard_ReplaceAdjustsBytes(t *testing.T) {
	ls := newLruShard(30)

	ls.add(1, "small", 10)
	ls.add(1, "bigger", 20)
	assert.Equal(t, 1, ls.len())
	assert.Equal(t, uint64(20), ls.totalBytes)
}

func TestShard_ReplaceWithSmallerValueKeepsNeighbours(t *testing.T) {
	ls := newLruShard(30)

	ls.add(1, "a", 20)
	ls.add(2, "b", 10)

	// shrinking an entry frees budget, nothing else should go
	assert.False(t, ls.add(1, "a2", 10))
	assert.Equal(t, 2, ls.len())
	assert.Equal(t, uint64(20), ls.totalBytes)

	_, ok := ls.get(2)
	assert.True(t, ok)
}

func TestShard_ReplaceWithLargerValueEvicts(t *testing.T) {
	ls := newLruShard(30)

	ls.add(1, "a", 10)
	ls.add(2, "b", 10)

	assert.True(t, ls.add(2, "b2", 25))
	assert.Equal(t, 1, ls.len())
	assert.Equal(t, uint64(25), ls.totalBytes)

	_, ok := ls.get(1)
	assert.False(t, ok)
	v, ok := ls.get(2)
	require.True(t, ok)
	assert.Equal(t, "b2", v)
}

func TestCache(t *testing.T) {
	t.Run("get after put", func(t *testing.T) {
		c, err := New(DefaultShards, 1<<20)
		require.NoError(t, err)

		assert.False(t, c.Put("model_a.json", "parsed a", 100))
		v, ok := c.Get("model_a.json")
		require.True(t, ok)
		assert.Equal(t, "parsed a", v)

		_, ok = c.Get("model_b.json")
		assert.False(t, ok)
	})

	t.Run("remove and purge", func(t *testing.T) {
		c, err := New(4, 1<<20)
		require.NoError(t, err)

		for i := 0; i < 10; i++ {
			c.Put(fmt.Sprintf("model_%d.json", i), i, 10)
		}
		assert.Equal(t, 10, c.Len())

		assert.True(t, c.Remove("model_3.json"))
		assert.False(t, c.Remove("model_3.json"))
		assert.Equal(t, 9, c.Len())

		c.Purge()
		assert.Equal(t, 0, c.Len())
	})

	t.Run("invalid construction", func(t *testing.T) {
		_, err := New(0, 1<<20)
		assert.ErrorIs(t, err, ErrInvalidSharding)

		_, err = New(4, 2)
		assert.ErrorIs(t, err, ErrIllegalCapacity)
	})

	t.Run("default budget is positive", func(t *testing.T) {
		assert.Greater(t, DefaultBudget(), uint64(0))
	})
}
