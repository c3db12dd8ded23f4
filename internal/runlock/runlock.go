// Package runlock enforces single-instance execution of the linking pass on
// one host via an advisory file lock. Cross-host coordination is out of
// scope; concurrent runs from different machines rely on the store's
// transaction isolation.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld indicates another linking pass already holds the lock.
var ErrHeld = errors.New("another linking pass is already running")

// Lock represents a held run lock.
type Lock struct {
	flock *flock.Flock
}

// Acquire takes the run lock without blocking. It returns ErrHeld when a
// concurrent pass owns the lock.
func Acquire(path string) (*Lock, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create lock directory: %w", err)
		}
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrHeld
	}
	return &Lock{flock: fl}, nil
}

// Release drops the lock. Safe to call on a nil lock.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}
