// Package singleinstance is the Linux analog of the named-mutex
// "capsicain is already running" guard (spec.md §6): an flock(2)
// exclusive, non-blocking lock on a well-known file, released when the
// process exits or the Lock is closed.
package singleinstance

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrAlreadyRunning is returned by Acquire when another process holds
// the lock.
var ErrAlreadyRunning = fmt.Errorf("capsicain is already running")

// Lock holds an acquired lock file. Close releases it.
type Lock struct {
	file *os.File
}

// Acquire takes an exclusive, non-blocking lock on path, creating it if
// necessary. It returns ErrAlreadyRunning if another process already
// holds it.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}

	return &Lock{file: f}, nil
}

// Close releases the lock and closes the underlying file.
func (l *Lock) Close() error {
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		l.file.Close()
		return fmt.Errorf("unlock: %w", err)
	}
	return l.file.Close()
}
