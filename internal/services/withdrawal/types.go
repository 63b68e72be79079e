package withdrawal

import "sync"

// collectionLocks serializes withdrawal admission per collection so
// two concurrent requests cannot both pass the balance check and
// jointly overdraw. Entries are reference-counted and dropped once no
// request holds or waits on them, so the map does not accumulate an
// entry for every collection ever withdrawn from.
type collectionLocks struct {
	mu    sync.Mutex
	locks map[uint]*collectionLock
}

type collectionLock struct {
	mu   sync.Mutex
	refs int
}

func newCollectionLocks() *collectionLocks {
	return &collectionLocks{locks: make(map[uint]*collectionLock)}
}

// acquire blocks until the collection's lock is held and returns the
// release function.
func (l *collectionLocks) acquire(collectionID uint) func() {
	l.mu.Lock()
	entry, ok := l.locks[collectionID]
	if !ok {
		entry = &collectionLock{}
		l.locks[collectionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, collectionID)
		}
		l.mu.Unlock()
	}
}
