// Package modelcache holds parsed model sources between exports so
// repeat loads of an unchanged file skip the parse. Keys are source
// paths, sharded by xxhash.
package modelcache

import (
	"github.com/cespare/xxhash/v2"
	"github.com/pbnjay/memory"
	"github.com/pkg/errors"
)

var ErrIllegalCapacity = errors.New("illegal model cache capacity")
var ErrInvalidSharding = errors.New("invalid sharding")

const DefaultShards = 8

// memoryFraction divides total system memory for the default budget.
const memoryFraction = 20

// DefaultBudget sizes the cache at a twentieth of system memory.
func DefaultBudget() uint64 {
	return memory.TotalMemory() / memoryFraction
}

type Cache struct {
	shards []*lruShard
}

func New(shards int, maxTotalBytes uint64) (*Cache, error) {
	if shards < 1 {
		return nil, ErrInvalidSharding
	}

	if maxTotalBytes <= 2 {
		return nil, ErrIllegalCapacity
	}

	c := &Cache{shards: make([]*lruShard, shards)}

	shardMaxBytes := maxTotalBytes / uint64(shards)
	for i := range c.shards {
		c.shards[i] = newLruShard(shardMaxBytes)
	}

	return c, nil
}

func (c *Cache) getShard(hash uint64) *lruShard {
	return c.shards[hash%uint64(len(c.shards))]
}

func (c *Cache) Get(key string) (interface{}, bool) {
	hash := xxhash.Sum64String(key)
	return c.getShard(hash).get(hash)
}

// Put stores value under key; size is the caller's byte estimate used
// against the budget.
func (c *Cache) Put(key string, value interface{}, size uint64) bool {
	hash := xxhash.Sum64String(key)
	return c.getShard(hash).add(hash, value, size)
}

func (c *Cache) Remove(key string) bool {
	hash := xxhash.Sum64String(key)
	return c.getShard(hash).remove(hash)
}

func (c *Cache) Purge() {
	for _, s := range c.shards {
		s.purge()
	}
}

func (c *Cache) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.len()
	}

	return total
}
