//go:build !windows

package processstate

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// IsProcessRunning probes pid with signal 0. EPERM means the process exists
// but belongs to someone else, which still counts as running.
func IsProcessRunning(pid int) (bool, error) {
	if pid <= 0 {
		return false, fmt.Errorf("invalid PID: %d", pid)
	}

	err := unix.Kill(pid, 0)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, unix.ESRCH):
		return false, nil
	case errors.Is(err, unix.EPERM):
		return true, nil
	default:
		return false, err
	}
}
