package process

import (
	"os"
	"os/exec"

	"github.com/core-tools/hsu-tray/pkg/errors"
	"github.com/core-tools/hsu-tray/pkg/logging"
	"github.com/core-tools/hsu-tray/pkg/processstate"
)

// Status is the last known state of the child process
type Status string

const (
	StatusRunning Status = "running"
	StatusExited  Status = "exited"
	StatusErrored Status = "errored"
)

// ExitStatus describes how the child process ended
type ExitStatus struct {
	// Code is the exit code, or -1 if the process was terminated by a signal
	Code        int
	Success     bool
	Description string
}

func (s ExitStatus) String() string {
	return s.Description
}

type waitResult struct {
	state *os.ProcessState
	err   error
}

// Handle owns one spawned child process and its log file handles.
// It is not safe for concurrent use; the supervision loop is its only user.
type Handle struct {
	cmd     *exec.Cmd
	logFile string
	stdout  *os.File
	stderr  *os.File
	logger  logging.Logger

	done     chan waitResult
	status   Status
	exit     *ExitStatus
	queryErr error
	closed   bool
}

func newHandle(cmd *exec.Cmd, logFile string, stdout, stderr *os.File, logger logging.Logger) *Handle {
	h := &Handle{
		cmd:     cmd,
		logFile: logFile,
		stdout:  stdout,
		stderr:  stderr,
		logger:  logger,
		done:    make(chan waitResult, 1),
		status:  StatusRunning,
	}

	// The only goroutine that touches cmd after Start; it publishes exactly one result
	go func() {
		err := cmd.Wait()
		h.done <- waitResult{state: cmd.ProcessState, err: err}
	}()

	return h
}

func (h *Handle) PID() int {
	return h.cmd.Process.Pid
}

func (h *Handle) LogFile() string {
	return h.logFile
}

// TryWait reports the exit status if the child has exited, or nil while it is
// still running. It never blocks. An error means the OS could not be queried.
func (h *Handle) TryWait() (*ExitStatus, error) {
	switch h.status {
	case StatusExited:
		return h.exit, nil
	case StatusErrored:
		return nil, h.queryErr
	}

	select {
	case result := <-h.done:
		if result.state == nil {
			h.status = StatusErrored
			h.queryErr = errors.NewProcessQueryError("failed to wait for child process", result.err).
				WithContext("pid", h.PID())
			return nil, h.queryErr
		}

		h.status = StatusExited
		h.exit = &ExitStatus{
			Code:        result.state.ExitCode(),
			Success:     result.state.Success(),
			Description: result.state.String(),
		}
		h.logger.Debugf("Child process exited, pid: %d, status: %s", h.PID(), h.exit)
		return h.exit, nil
	default:
		return nil, nil
	}
}

// Kill forcefully terminates the child (and its process group where supported).
// A child that is already gone is not an error.
func (h *Handle) Kill() error {
	if h.status != StatusRunning {
		h.logger.Debugf("Child process is not running, nothing to kill, pid: %d, status: %s", h.PID(), h.status)
		return nil
	}

	pid := h.PID()
	h.logger.Infof("Killing child process, pid: %d", pid)

	err := killProcess(h.cmd.Process)
	if err == nil {
		return nil
	}

	running, probeErr := processstate.IsProcessRunning(pid)
	if probeErr == nil && !running {
		h.logger.Debugf("Child process already gone, pid: %d, kill error: %v", pid, err)
		return nil
	}

	return errors.NewProcessKillError("failed to kill child process", err).WithContext("pid", pid)
}

// Close releases the parent's copies of the log file handles
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	collection := errors.NewErrorCollection()
	if err := h.stdout.Close(); err != nil {
		collection.Add(errors.NewIOError("failed to close stdout log handle", err))
	}
	if err := h.stderr.Close(); err != nil {
		collection.Add(errors.NewIOError("failed to close stderr log handle", err))
	}
	return collection.ToError()
}
