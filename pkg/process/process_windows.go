//go:build windows

package process

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// setupProcessAttributes detaches the child from any console: the whole point
// is to run without a visible terminal
func setupProcessAttributes(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.CREATE_NO_WINDOW,
		HideWindow:    true,
	}
}

func killProcess(process *os.Process) error {
	return process.Kill()
}

// duplicateFile returns an independent handle sharing the file offset
func duplicateFile(f *os.File) (*os.File, error) {
	current := windows.CurrentProcess()
	var dup windows.Handle
	err := windows.DuplicateHandle(current, windows.Handle(f.Fd()), current, &dup, 0, false, windows.DUPLICATE_SAME_ACCESS)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(dup), f.Name()), nil
}
