// Package lockfile serializes cross-process access to the on-disk
// documents with advisory file locks.
//
// Two documents exist (session ledger, hourly store). When an operation
// must hold both locks, the session-ledger lock is always acquired first
// and released last. That fixed ordering is the only deadlock-avoidance
// mechanism in the system and must not be changed.
package lockfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLockTimeout is returned when a lock cannot be acquired within the
// configured timeout.
var ErrLockTimeout = errors.New("lock acquisition timed out")

const retryDelay = 25 * time.Millisecond

// Manager acquires exclusive advisory locks scoped to document paths.
// Lock files live next to the documents and are never removed; advisory
// locks are scoped to file descriptors, so a stale lock file from a
// killed process is safe to re-acquire.
type Manager struct {
	timeout time.Duration
}

// New returns a Manager. A zero timeout blocks indefinitely on
// acquisition.
func New(timeout time.Duration) *Manager {
	return &Manager{timeout: timeout}
}

// WithLock acquires the exclusive lock for docPath, runs fn, and releases
// the lock on every exit path.
func (m *Manager) WithLock(ctx context.Context, docPath string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(docPath), 0o755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}

	fl := flock.New(docPath + ".lock")

	if m.timeout > 0 {
		lockCtx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()
		ok, err := fl.TryLockContext(lockCtx, retryDelay)
		if !ok {
			if err != nil && errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s", ErrLockTimeout, docPath)
			}
			if err != nil {
				return fmt.Errorf("acquire lock %s: %w", docPath, err)
			}
			return fmt.Errorf("%w: %s", ErrLockTimeout, docPath)
		}
	} else {
		if err := fl.Lock(); err != nil {
			return fmt.Errorf("acquire lock %s: %w", docPath, err)
		}
	}
	defer fl.Unlock()

	return fn()
}
