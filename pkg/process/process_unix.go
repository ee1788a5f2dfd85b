//go:build !windows

package process

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setupProcessAttributes puts the child in its own process group so a kill
// reaches everything it started
func setupProcessAttributes(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// killProcess sends SIGKILL to the process group (negative PID), falling back
// to the process itself if the group is already gone
func killProcess(process *os.Process) error {
	err := unix.Kill(-process.Pid, unix.SIGKILL)
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.ESRCH) {
		return process.Kill()
	}
	return err
}

// duplicateFile returns an independent handle sharing the file offset
func duplicateFile(f *os.File) (*os.File, error) {
	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(fd)
	return os.NewFile(uintptr(fd), f.Name()), nil
}
