package retag

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"mkvlang/internal/services"
)

const lockSuffix = ".lock"

type fileLock struct {
	lock *flock.Flock
}

// LockPath returns the lock file guarding path inside lockDir. The name is a
// hash of the absolute media path so every run agrees on it.
func LockPath(lockDir, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:16])+lockSuffix)
}

// acquireLock takes a non-blocking advisory lock for path. A lock held by
// another process fails with services.ErrLocked. Lock files live on the OS
// filesystem whatever filesystem the media is read through, and are never
// unlinked: removing a flock'd file lets a late opener and a fresh creator
// hold the lock at once.
func acquireLock(lockDir, path string) (*fileLock, error) {
	if lockDir == "" {
		return nil, services.Wrap(services.ErrLocked, "lock", path, "paths.lock_dir is not set", nil)
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrLocked, "lock", path, "create lock directory", err)
	}
	lock := flock.New(LockPath(lockDir, path))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrLocked, "lock", path, "acquire lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrLocked, "lock", path, fmt.Sprintf("another mkvlang run is editing this file (%s)", lock.Path()), nil)
	}
	return &fileLock{lock: lock}, nil
}

func (l *fileLock) release() {
	if l == nil || l.lock == nil {
		return
	}
	_ = l.lock.Unlock()
}
