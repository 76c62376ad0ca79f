package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
)

// DefaultMarkerFilename marks that a pipeline is running in this checkout.
const DefaultMarkerFilename = ".azan-release.lock"

// FindProcess looks a process up by PID; replaced in tests.
type FindProcess func(pid int) (ps.Process, error)

// Lock is a held run marker. Release removes it.
type Lock struct {
	path string
}

// Acquire creates the run marker at path.
// A marker owned by a live process with the same executable name fails with release.ErrBusy;
// a marker whose owner is gone is stale and replaced.
func Acquire(ctx context.Context, path string, find FindProcess) (*Lock, error) {
	if path == "" {
		path = DefaultMarkerFilename
	}

	if find == nil {
		find = ps.FindProcess
	}

	path = filepath.Clean(path)

	logger.DebugKV(ctx, "Checking for the presence of a run marker", "path", path)

	if owner, ok := readOwner(path); ok {
		if alive(find, owner) {
			return nil, fmt.Errorf("%w: pid %d holds %s", release.ErrBusy, owner, path)
		}

		logger.InfoKV(ctx, "Removing stale run marker", "path", path, "pid", owner)

		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale marker: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s appeared while acquiring", release.ErrBusy, path)
		}

		return nil, fmt.Errorf("create run marker: %w", err)
	}

	if _, err = f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		_ = f.Close()
		_ = os.Remove(path)

		return nil, fmt.Errorf("write run marker: %w", err)
	}

	if err = f.Close(); err != nil {
		return nil, fmt.Errorf("close run marker: %w", err)
	}

	return &Lock{path: path}, nil
}

// Release removes the marker. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}

	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

// readOwner returns the PID stored in the marker, if the marker exists and is readable.
func readOwner(path string) (int, bool) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil {
		// Unreadable markers are treated as stale with an impossible owner.
		return -1, true
	}

	return pid, true
}

// alive reports whether pid runs the same executable as this process.
func alive(find FindProcess, pid int) bool {
	if pid <= 0 || pid == os.Getpid() {
		return false
	}

	process, err := find(pid)
	if err != nil || process == nil {
		return false
	}

	self, err := find(os.Getpid())
	if err != nil || self == nil {
		// Cannot compare names; err on the side of the marker.
		return true
	}

	return process.Executable() == self.Executable()
}
