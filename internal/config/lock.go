package config

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/Aman-CERP/triesearch/internal/errors"
)

// FileLock is a cross-process lock guarding writes to a configuration file.
// The lock file lives next to the file as <name>.lock.
type FileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewFileLock creates a lock for the configuration file at path.
func NewFileLock(path string) *FileLock {
	lockPath := path + ".lock"
	return &FileLock{path: lockPath, flock: flock.New(lockPath)}
}

// Lock blocks until the lock is held.
func (l *FileLock) Lock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return errors.IOError("failed to create lock directory", err).WithDetail("path", l.path)
	}
	if err := l.flock.Lock(); err != nil {
		return errors.IOError("failed to acquire config lock", err).WithDetail("path", l.path)
	}
	l.locked = true
	return nil
}

// TryLock acquires the lock without blocking and reports whether it did.
func (l *FileLock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, errors.IOError("failed to create lock directory", err).WithDetail("path", l.path)
	}
	ok, err := l.flock.TryLock()
	if err != nil {
		return false, errors.IOError("failed to acquire config lock", err).WithDetail("path", l.path)
	}
	l.locked = ok
	return ok, nil
}

// Unlock releases the lock. Unlocking an unheld lock is a no-op.
func (l *FileLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return errors.IOError("failed to release config lock", err).WithDetail("path", l.path)
	}
	return nil
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// WriteFileLocked replaces the file at path with data while holding its lock.
// With backup set, an existing file is first copied by BackupFile and the
// backup path is returned.
func WriteFileLocked(path string, data []byte, backup bool) (string, error) {
	lock := NewFileLock(path)
	if err := lock.Lock(); err != nil {
		return "", err
	}
	defer func() { _ = lock.Unlock() }()

	var backupPath string
	if backup {
		var err error
		if backupPath, err = BackupFile(path); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.IOError("failed to write config file", err).WithDetail("path", path)
	}
	return backupPath, nil
}
