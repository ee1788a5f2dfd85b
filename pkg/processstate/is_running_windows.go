//go:build windows

package processstate

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// STILL_ACTIVE is the exit code Windows reports for a live process
const STILL_ACTIVE = 259

// IsProcessRunning opens pid with query rights and checks its exit code.
func IsProcessRunning(pid int) (bool, error) {
	if pid <= 0 {
		return false, fmt.Errorf("invalid PID: %d", pid)
	}

	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		if err == windows.ERROR_INVALID_PARAMETER {
			return false, nil
		}
		return false, err
	}
	defer windows.CloseHandle(handle)

	var exitCode uint32
	if err := windows.GetExitCodeProcess(handle, &exitCode); err != nil {
		return false, err
	}

	return exitCode == STILL_ACTIVE, nil
}
