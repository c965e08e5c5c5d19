// Package lock provides cross-process advisory locking for sequences of
// filesystem/VCS/Store operations that must not interleave across separate
// pit invocations, such as task creation and deletion.
package lock

import (
	"fmt"

	"github.com/gofrs/flock"
)

// Acquire takes an exclusive advisory lock on path, creating the lock file
// if necessary, and returns a release function. The caller must call the
// release function (typically via defer) once the locked section is done.
func Acquire(path string) (func(), error) {
	fl := flock.New(path)
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", path, err)
	}
	return func() {
		_ = fl.Unlock()
	}, nil
}
