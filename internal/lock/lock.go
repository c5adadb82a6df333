// Package lock serializes dictid processes writing to the same output file.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// ErrAlreadyLocked is returned when another process holds the lock past the
// caller's deadline.
var ErrAlreadyLocked = errors.New("output file is locked by another dictid process")

// DefaultRetryDelay is the polling interval while waiting for the lock.
const DefaultRetryDelay = 50 * time.Millisecond

// Flocker abstracts the subset of flock.Flock used here.
type Flocker interface {
	TryLockContext(ctx context.Context, retryDelay time.Duration) (bool, error)
	Unlock() error
}

// Lock is an advisory lock that waits until the context is done.
type Lock struct {
	flocker Flocker
	retry   time.Duration
}

// New creates a Lock from the given Flocker.
func New(f Flocker) *Lock {
	return &Lock{flocker: f, retry: DefaultRetryDelay}
}

// ForFile locks a sibling "<path>.lock" file so the target itself can be
// opened, truncated, or replaced freely.
func ForFile(path string) *Lock {
	return New(flock.New(path + ".lock"))
}

// Acquire polls for the lock until it is held or ctx is done. A done
// context yields ErrAlreadyLocked wrapping the context error.
func (l *Lock) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ok, err := l.flocker.TryLockContext(ctx, l.retry)
	switch {
	case ok:
		return nil
	case err == nil:
		return ErrAlreadyLocked
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrAlreadyLocked, err)
	}
	return fmt.Errorf("acquiring lock: %w", err)
}

// Release drops the lock.
func (l *Lock) Release() error {
	if err := l.flocker.Unlock(); err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}

// With runs fn while holding the lock.
func (l *Lock) With(ctx context.Context, fn func() error) (err error) {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer func() {
		if rerr := l.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn()
}
