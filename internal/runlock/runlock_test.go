package runlock_test

import (
	"errors"
	"path/filepath"
	"testing"

	"crmlink/internal/runlock"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "crmlink.lock")

	lock, err := runlock.Acquire(path)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	// Released locks can be reacquired.
	again, err := runlock.Acquire(path)
	if err != nil {
		t.Fatalf("reacquire failed: %v", err)
	}
	if err := again.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
}

func TestAcquireHeldLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crmlink.lock")

	lock, err := runlock.Acquire(path)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer lock.Release()

	if _, err := runlock.Acquire(path); !errors.Is(err, runlock.ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", err)
	}
}

func TestReleaseNil(t *testing.T) {
	var lock *runlock.Lock
	if err := lock.Release(); err != nil {
		t.Fatalf("nil Release should be a no-op, got %v", err)
	}
}
