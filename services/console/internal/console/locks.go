package console

import (
	"sync"
	"time"
)

// DefaultLockTTL bounds how long an action lock survives without release.
// A request that never resolves would otherwise pin its key forever.
const DefaultLockTTL = 30 * time.Second

// ActionLocks serializes mutating operations per entity+kind key. At most
// one operation per key may be in flight; expired locks are reclaimed on the
// next acquire.
type ActionLocks struct {
	mu    sync.Mutex
	held  map[string]time.Time
	ttl   time.Duration
	clock func() time.Time
}

func NewActionLocks(ttl time.Duration) *ActionLocks {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &ActionLocks{
		held:  make(map[string]time.Time),
		ttl:   ttl,
		clock: time.Now,
	}
}

// LockKey builds the per-entity-per-operation key.
func LockKey(entityID, kind string) string {
	return entityID + "-" + kind
}

// TryAcquire takes the lock for key, reporting false while it is already
// held and unexpired.
func (l *ActionLocks) TryAcquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if expiry, ok := l.held[key]; ok && now.Before(expiry) {
		return false
	}

	l.held[key] = now.Add(l.ttl)
	return true
}

func (l *ActionLocks) Release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
}

// Held reports whether key is currently locked.
func (l *ActionLocks) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiry, ok := l.held[key]
	if !ok {
		return false
	}
	return l.clock().Before(expiry)
}

// HeldKeys returns the currently locked keys, for row-level UI state.
func (l *ActionLocks) HeldKeys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	keys := make([]string, 0, len(l.held))
	for key, expiry := range l.held {
		if now.Before(expiry) {
			keys = append(keys, key)
		}
	}
	return keys
}
