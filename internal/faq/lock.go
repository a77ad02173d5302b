package faq

import (
	"fmt"

	"github.com/gofrs/flock"
)

// fileLock serializes access to a FAQ file across processes through a
// sibling <path>.lock file. Readers share it; Append takes it exclusively.
type fileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

func newFileLock(faqPath string) *fileLock {
	p := faqPath + ".lock"
	return &fileLock{path: p, flock: flock.New(p)}
}

// Lock acquires the exclusive lock, blocking until it is available.
func (l *fileLock) Lock() error {
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", l.path, err)
	}
	l.locked = true
	return nil
}

// RLock acquires a shared lock, blocking until it is available.
func (l *fileLock) RLock() error {
	if err := l.flock.RLock(); err != nil {
		return fmt.Errorf("failed to acquire shared lock %s: %w", l.path, err)
	}
	l.locked = true
	return nil
}

// Unlock is safe to call on an unlocked fileLock.
func (l *fileLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.path, err)
	}
	return nil
}
