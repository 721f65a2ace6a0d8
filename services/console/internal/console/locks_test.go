package console

import (
	"testing"
	"time"
)

func TestActionLocksAcquireRelease(t *testing.T) {
	locks := NewActionLocks(0)
	key := LockKey("r1", ActionConfirm)

	if !locks.TryAcquire(key) {
		t.Fatal("first TryAcquire() = false")
	}
	if locks.TryAcquire(key) {
		t.Error("second TryAcquire() = true while key is held")
	}
	if !locks.Held(key) {
		t.Error("Held() = false for an acquired key")
	}

	// A different kind on the same entity is an independent key.
	if !locks.TryAcquire(LockKey("r1", ActionCancel)) {
		t.Error("TryAcquire() = false for a different kind on the same entity")
	}

	// A different entity with the same kind is unaffected.
	if !locks.TryAcquire(LockKey("r2", ActionConfirm)) {
		t.Error("TryAcquire() = false for a different entity")
	}

	locks.Release(key)
	if locks.Held(key) {
		t.Error("Held() = true after Release()")
	}
	if !locks.TryAcquire(key) {
		t.Error("TryAcquire() = false after Release()")
	}
}

func TestActionLocksExpiry(t *testing.T) {
	locks := NewActionLocks(time.Minute)

	now := time.Now()
	locks.clock = func() time.Time { return now }

	key := LockKey("r1", ActionCancel)
	if !locks.TryAcquire(key) {
		t.Fatal("TryAcquire() = false")
	}

	// Still inside the TTL.
	now = now.Add(30 * time.Second)
	if locks.TryAcquire(key) {
		t.Error("TryAcquire() = true before the TTL elapsed")
	}

	// Past the TTL the stale lock is reclaimed.
	now = now.Add(31 * time.Second)
	if locks.Held(key) {
		t.Error("Held() = true after the TTL elapsed")
	}
	if !locks.TryAcquire(key) {
		t.Error("TryAcquire() = false for an expired key")
	}
}

func TestLockKey(t *testing.T) {
	if got := LockKey("r1", "confirm"); got != "r1-confirm" {
		t.Errorf("LockKey() = %q, want r1-confirm", got)
	}
}
