package modelcache

import (
	"container/list"
	"sync"
)

type lruShard struct {
	mu         sync.RWMutex
	totalBytes uint64
	maxBytes   uint64
	evictList  *list.List
	elems      map[uint64]*list.Element
}

func newLruShard(maxBytes uint64) *lruShard {
	return &lruShard{
		maxBytes:  maxBytes,
		evictList: list.New(),
		elems:     make(map[uint64]*list.Element),
	}
}

type entry struct {
	key   uint64
	value interface{}
	size  uint64
}

func (ls *lruShard) get(key uint64) (interface{}, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	elem, ok := ls.elems[key]
	if !ok {
		return nil, false
	}

	ls.evictList.MoveToFront(elem)
	return elem.Value.(*entry).value, true
}

// add stores value under key and reports whether eviction happened.
func (ls *lruShard) add(key uint64, value interface{}, size uint64) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if elem, ok := ls.elems[key]; ok {
		ls.evictList.MoveToFront(elem)
		ent := elem.Value.(*entry)
		ls.totalBytes -= ent.size
		ent.value = value
		ent.size = size
		ls.totalBytes += size
	} else {
		elem := ls.evictList.PushFront(&entry{key: key, value: value, size: size})
		ls.totalBytes += size
		ls.elems[key] = elem
	}

	// remove the oldest entries until the shard fits its budget; the
	// fresh entry sits at the front and is never evicted here
	var evicted bool
	for ls.totalBytes > ls.maxBytes && ls.evictList.Len() > 1 {
		ls.removeOldestUnderLock()
		evicted = true
	}

	return evicted
}

func (ls *lruShard) remove(key uint64) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	elem, ok := ls.elems[key]
	if !ok {
		return false
	}

	ls.removeElementUnderLock(elem)
	return true
}

func (ls *lruShard) purge() {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	for k := range ls.elems {
		delete(ls.elems, k)
	}

	ls.totalBytes = 0
	ls.evictList.Init()
}

func (ls *lruShard) len() int {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return len(ls.elems)
}

func (ls *lruShard) removeOldestUnderLock() bool {
	elem := ls.evictList.Back()
	if elem == nil {
		return false
	}

	ls.removeElementUnderLock(elem)
	return true
}

func (ls *lruShard) removeElementUnderLock(elem *list.Element) {
	ls.evictList.Remove(elem)
	ent := elem.Value.(*entry)
	delete(ls.elems, ent.key)
	ls.totalBytes -= ent.size
}
