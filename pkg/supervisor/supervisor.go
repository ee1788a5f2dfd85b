package supervisor

import (
	"github.com/core-tools/hsu-tray/pkg/desktop"
	"github.com/core-tools/hsu-tray/pkg/errors"
	"github.com/core-tools/hsu-tray/pkg/logging"
	"github.com/core-tools/hsu-tray/pkg/process"
	"github.com/core-tools/hsu-tray/pkg/tray"
)

// LoopControl tells the host scheduler what to do after a tick
type LoopControl int

const (
	Continue LoopControl = iota
	Terminate
)

func (c LoopControl) String() string {
	if c == Terminate {
		return "terminate"
	}
	return "continue"
}

// State is the supervision state; Terminated is final
type State string

const (
	StateActive     State = "active"
	StateTerminated State = "terminated"
)

// Notification texts
const (
	StartedTitle = "Process started!"
	ExitedTitle  = "Process exited"
)

// ProcessHandle is the supervised child as seen by the loop
type ProcessHandle interface {
	TryWait() (*process.ExitStatus, error)
	Kill() error
	PID() int
}

// IconReleaser removes the tray icon; Release reports whether this call did it
type IconReleaser interface {
	Release() bool
}

type SupervisorOptions struct {
	Process      ProcessHandle
	Events       <-chan tray.MenuEvent
	Icon         IconReleaser
	Notifier     desktop.Notifier
	Opener       desktop.Opener
	LogDirectory string
}

// Supervisor decides, one tick at a time, whether the program keeps running.
// Tick and Stop must be called from a single goroutine.
type Supervisor struct {
	process      ProcessHandle
	events       <-chan tray.MenuEvent
	icon         IconReleaser
	notifier     desktop.Notifier
	opener       desktop.Opener
	logDirectory string
	logger       logging.Logger

	state State
	exit  *process.ExitStatus
}

func NewSupervisor(options SupervisorOptions, logger logging.Logger) (*Supervisor, error) {
	if options.Process == nil {
		return nil, errors.NewValidationError("process handle is required", nil)
	}
	if options.Icon == nil {
		return nil, errors.NewValidationError("tray icon is required", nil)
	}
	if options.Notifier == nil {
		return nil, errors.NewValidationError("notifier is required", nil)
	}
	if options.Opener == nil {
		return nil, errors.NewValidationError("directory opener is required", nil)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Supervisor{
		process:      options.Process,
		events:       options.Events,
		icon:         options.Icon,
		notifier:     options.Notifier,
		opener:       options.Opener,
		logDirectory: options.LogDirectory,
		logger:       logger,
		state:        StateActive,
	}, nil
}

func (s *Supervisor) State() State {
	return s.state
}

// ExitStatus is the child's exit status if the loop saw it exit
func (s *Supervisor) ExitStatus() *process.ExitStatus {
	return s.exit
}

// Tick runs one non-blocking round: the exit check first, then at most one
// menu event. Once terminated, every call is a no-op returning Terminate.
func (s *Supervisor) Tick() LoopControl {
	if s.state == StateTerminated {
		return Terminate
	}

	if s.checkExit() {
		return Terminate
	}

	return s.checkMenu()
}

// Stop kills the child and terminates the loop, as if Kill had been clicked.
// It does nothing once terminated.
func (s *Supervisor) Stop(reason string) LoopControl {
	if s.state == StateTerminated {
		return Terminate
	}
	s.logger.Infof("Stopping supervision: %s", reason)
	s.kill()
	return Terminate
}

// checkExit reports whether the loop terminated
func (s *Supervisor) checkExit() bool {
	status, err := s.process.TryWait()
	if err != nil {
		s.logger.Errorf("Error: %v", err)
		s.terminate()
		return true
	}
	if status == nil {
		return false
	}

	s.exit = status
	if status.Success {
		s.logger.Infof("Command exited successfully: %s", status)
	} else {
		s.logger.Errorf("Command exited with status: %s (code %d)", status, status.Code)
	}
	s.notify(ExitedTitle, "Exit code: "+status.String())
	s.terminate()
	return true
}

func (s *Supervisor) checkMenu() LoopControl {
	select {
	case event, ok := <-s.events:
		if !ok {
			// a nil channel is never ready, so this is logged once
			s.logger.Warnf("Tray menu event channel closed")
			s.events = nil
			return Continue
		}
		return s.handleEvent(event)
	default:
		return Continue
	}
}

func (s *Supervisor) handleEvent(event tray.MenuEvent) LoopControl {
	s.logger.Debugf("%+v", event)

	msg, err := tray.Decode(event.ID)
	if err != nil {
		s.logger.Errorf("Error: %v", err)
		return Continue
	}

	switch msg {
	case tray.Kill:
		s.kill()
		return Terminate
	case tray.ShowLogs:
		if err := s.opener.Open(s.logDirectory); err != nil {
			s.logger.Errorf("Error: %v", err)
		}
		return Continue
	default:
		s.logger.Errorf("Error: %v", errors.NewEventDecodeError("unhandled tray message: "+msg.String(), nil))
		return Continue
	}
}

// kill makes exactly one kill attempt; a failure does not keep the loop alive
func (s *Supervisor) kill() {
	if err := s.process.Kill(); err != nil {
		s.logger.Errorf("Error: %v", err)
	}
	s.terminate()
}

func (s *Supervisor) terminate() {
	s.state = StateTerminated
	if s.icon.Release() {
		s.logger.Debugf("Tray icon released")
	}
}

func (s *Supervisor) notify(title, body string) {
	if err := s.notifier.Notify(title, body); err != nil {
		s.logger.Warnf("Failed to show notification: %v", err)
	}
}

// NotifyStarted sends the spawn notification for command
func (s *Supervisor) NotifyStarted(command string) {
	s.notify(StartedTitle, command)
}
