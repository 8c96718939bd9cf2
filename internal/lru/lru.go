package lru

import (
	"container/list"
	"sync"
)

type lruShard[V any] struct {
	mu        sync.Mutex
	capacity  int
	evictList *list.List
	elems     map[string]*list.Element
	onEvict   OnEvict[V]
}

type entry[V any] struct {
	key   string
	value V
}

func newLruShard[V any](capacity int, onEvict OnEvict[V]) *lruShard[V] {
	return &lruShard[V]{
		capacity:  capacity,
		evictList: list.New(),
		elems:     make(map[string]*list.Element),
		onEvict:   onEvict,
	}
}

func (ls *lruShard[V]) get(key string) (V, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if elem, ok := ls.elems[key]; ok {
		ls.evictList.MoveToFront(elem)
		return elem.Value.(*entry[V]).value, true
	}

	var zero V
	return zero, false
}

// add stores value under key and returns true if an older entry was evicted
// to make room
func (ls *lruShard[V]) add(key string, value V) bool {
	ls.mu.Lock()

	if elem, ok := ls.elems[key]; ok {
		ls.evictList.MoveToFront(elem)
		elem.Value.(*entry[V]).value = value
		ls.mu.Unlock()
		return false
	}

	var evicted []*entry[V]
	for len(ls.elems) >= ls.capacity {
		oldest := ls.removeOldestUnderLock()
		if oldest == nil {
			break
		}
		evicted = append(evicted, oldest)
	}

	ls.elems[key] = ls.evictList.PushFront(&entry[V]{key: key, value: value})
	ls.mu.Unlock()

	// callbacks run outside of the lock so they may use the cache
	if ls.onEvict != nil {
		for _, e := range evicted {
			ls.onEvict(e.key, e.value)
		}
	}

	return len(evicted) > 0
}

func (ls *lruShard[V]) remove(key string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	elem, ok := ls.elems[key]
	if !ok {
		return false
	}

	ls.removeElementUnderLock(elem)
	return true
}

func (ls *lruShard[V]) purge() {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.elems = make(map[string]*list.Element)
	ls.evictList.Init()
}

func (ls *lruShard[V]) len() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	return len(ls.elems)
}

func (ls *lruShard[V]) keys() []string {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	keys := make([]string, 0, len(ls.elems))
	for elem := ls.evictList.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*entry[V]).key)
	}

	return keys
}

func (ls *lruShard[V]) removeOldestUnderLock() *entry[V] {
	elem := ls.evictList.Back()
	if elem == nil {
		return nil
	}

	return ls.removeElementUnderLock(elem)
}

func (ls *lruShard[V]) removeElementUnderLock(elem *list.Element) *entry[V] {
	ls.evictList.Remove(elem)
	kv := elem.Value.(*entry[V])
	delete(ls.elems, kv.key)
	return kv
}
