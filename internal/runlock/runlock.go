// Package runlock serializes runs that write the same font directory, across
// processes, with an advisory file lock.
package runlock

import (
	"crypto/sha256"
	"errors"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"gfontapi/internal/services"
)

// Lock is a held directory lock.
type Lock struct {
	dir  string
	path string
	lock *flock.Flock
}

// PathFor returns the lock file used for fontDir. Lock files live in the
// system temp directory so nothing extra lands beside the fonts.
func PathFor(fontDir string) string {
	abs, err := filepath.Abs(fontDir)
	if err != nil {
		abs = filepath.Clean(fontDir)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "gfontapi-"+hex.EncodeToString(sum[:])[:16]+".lock")
}

// Acquire takes the lock for fontDir without blocking. Contention is a
// configuration error naming the directory.
func Acquire(fontDir string) (*Lock, error) {
	path := PathFor(fontDir)
	l := &Lock{dir: fontDir, path: path, lock: flock.New(path)}
	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "runlock", "acquire", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "runlock", "acquire",
			fmt.Sprintf("another gfontapi run is writing %s", fontDir), nil)
	}
	return l, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release removes the lock file and drops the lock. The file is removed
// while the lock is still held. It is safe to call on a nil Lock and more
// than once.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	var removeErr error
	if l.lock.Locked() {
		if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			removeErr = fmt.Errorf("remove lock file %s: %w", l.path, err)
		}
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock for %s: %w", l.dir, err)
	}
	return removeErr
}
