package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/core-tools/hsu-tray/pkg/config"
	"github.com/core-tools/hsu-tray/pkg/desktop"
	"github.com/core-tools/hsu-tray/pkg/errors"
	"github.com/core-tools/hsu-tray/pkg/logfiles"
	"github.com/core-tools/hsu-tray/pkg/logging"
	"github.com/core-tools/hsu-tray/pkg/process"
	"github.com/core-tools/hsu-tray/pkg/supervisor"
	"github.com/core-tools/hsu-tray/pkg/tray"

	"github.com/google/uuid"
)

type RunOptions struct {
	Command    []string
	ConfigFile string
	Overrides  config.Overrides
	Debug      bool
}

// LoadConfig reads the optional config file, applies command-line overrides and validates
func LoadConfig(configFile string, overrides config.Overrides) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.LoadConfigFromFile(configFile)
		if err != nil {
			return nil, errors.NewIOError("failed to load configuration", err).WithContext("config_file", configFile)
		}
		cfg = loaded
	}

	config.ApplyOverrides(cfg, overrides)

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, errors.NewValidationError("configuration validation failed", err).WithContext("config_file", configFile)
	}
	return cfg, nil
}

// Run spawns the command, shows the tray icon and supervises the child until
// it exits or is killed. It blocks on the platform event loop, so it must be
// called from the main goroutine.
func Run(options RunOptions) error {
	cfg, err := LoadConfig(options.ConfigFile, options.Overrides)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	appLogger, closeLogger, err := NewAppLogger(cfg, options.Debug, runID)
	if err != nil {
		return err
	}
	defer closeLogger()

	appLogger.Infof("hsu-tray starting, run id: %s", runID)

	session, err := NewSession(cfg, options.Command, appLogger)
	if err != nil {
		appLogger.Errorf("Error: %v", err)
		return err
	}
	defer session.Close()

	ctx, stop := signalContext()
	defer stop()

	done := make(chan error, 1)
	tray.Run(func() {
		if err := session.Supervise(ctx, tray.SystrayBackend(), done); err != nil {
			appLogger.Errorf("Error: %v", err)
			session.Stop()
			tray.SystrayBackend().Quit()
			done <- err
		}
	}, func() {
		appLogger.Debugf("Tray event loop exited")
	})

	// The loop may still be running if the tray exited on its own
	stop()
	err = <-done
	if err != nil && err != context.Canceled {
		return err
	}

	appLogger.Infof("hsu-tray stopped")
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	if runtime.GOOS == "windows" {
		return signal.NotifyContext(context.Background(), os.Interrupt)
	}
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Session owns the spawned child and everything the supervision loop needs
type Session struct {
	config   *config.Config
	command  []string
	logFiles *logfiles.LogFilesManager
	handle   *process.Handle
	notifier desktop.Notifier
	opener   desktop.Opener
	logger   logging.Logger

	supervisor *supervisor.Supervisor
}

// NewSession spawns the command. A spawn failure is fatal.
func NewSession(cfg *config.Config, command []string, logger logging.Logger) (*Session, error) {
	if err := process.ValidateCommand(command); err != nil {
		return nil, errors.NewValidationError("invalid command", err)
	}

	logFiles := logfiles.NewLogFilesManager(logfiles.LogFilesConfig{
		BaseDirectory: cfg.LogsDir,
		AppName:       cfg.AppName,
	}, logger)

	handle, err := process.Spawn(process.SpawnConfig{Command: command}, logFiles, logger)
	if err != nil {
		return nil, err
	}

	logger.Infof("Command output goes to %s", handle.LogFile())

	return &Session{
		config:   cfg,
		command:  command,
		logFiles: logFiles,
		handle:   handle,
		notifier: desktop.NewDesktopNotifier(cfg.AppName, cfg.NotificationsEnabled(), logger),
		opener:   desktop.NewDesktopOpener(logger),
		logger:   logger,
	}, nil
}

func (s *Session) Handle() *process.Handle {
	return s.handle
}

// Tooltip is the configured tooltip or the full command line
func (s *Session) Tooltip() string {
	if s.config.Tray.Tooltip != "" {
		return s.config.Tray.Tooltip
	}
	return strings.Join(s.command, " ")
}

// Icon is the configured icon file, or the built-in icon if none is set or it cannot be read
func (s *Session) Icon() []byte {
	if s.config.Tray.Icon == "" {
		return tray.DefaultIcon()
	}
	data, err := os.ReadFile(s.config.Tray.Icon)
	if err != nil {
		s.logger.Warnf("Failed to read tray icon, using default, path: %s, error: %v", s.config.Tray.Icon, err)
		return tray.DefaultIcon()
	}
	return data
}

// Supervise builds the tray menu on backend and starts the supervision loop in
// the background. The loop's result is sent on done. It must run inside the
// tray's ready callback.
func (s *Session) Supervise(ctx context.Context, backend tray.Backend, done chan<- error) error {
	menu := tray.BuildMenu(backend, tray.MenuOptions{
		Tooltip: s.Tooltip(),
		Icon:    s.Icon(),
	}, s.logger)

	logDir, err := s.logFiles.LogDirectoryPath()
	if err != nil {
		return errors.NewInternalError("failed to resolve logs directory", err)
	}

	sup, err := supervisor.NewSupervisor(supervisor.SupervisorOptions{
		Process:      s.handle,
		Events:       menu.Events(),
		Icon:         menu.IconCell(),
		Notifier:     s.notifier,
		Opener:       s.opener,
		LogDirectory: logDir,
	}, s.logger)
	if err != nil {
		return errors.NewInternalError("failed to create supervisor", err)
	}
	s.supervisor = sup

	sup.NotifyStarted(strings.Join(s.command, " "))

	pollInterval := s.config.Supervisor.PollInterval
	s.logger.Debugf("Starting supervision, pid: %d, poll interval: %v", s.handle.PID(), pollInterval)
	go func() {
		done <- supervisor.Run(ctx, sup, pollInterval)
	}()
	return nil
}

// Stop kills the child if supervision never started
func (s *Session) Stop() {
	if s.supervisor != nil {
		return
	}
	if err := s.handle.Kill(); err != nil {
		s.logger.Errorf("Error: %v", err)
	}
}

// Close releases the log file handles
func (s *Session) Close() error {
	return s.handle.Close()
}

// NewAppLogger builds the tool's own logger: the console in debug mode,
// otherwise the append-only log file in the logs directory
func NewAppLogger(cfg *config.Config, debug bool, runID string) (logging.Logger, func(), error) {
	if debug {
		logger, err := newConsoleLogger(cfg.Log.Level)
		if err != nil {
			return nil, nil, err
		}
		return logger, func() {}, nil
	}

	toolLog, err := logfiles.NewLogFilesManager(logfiles.LogFilesConfig{
		BaseDirectory: cfg.LogsDir,
		AppName:       cfg.AppName,
	}, logging.NewNopLogger()).ToolLogFilePath()
	if err != nil {
		return nil, nil, errors.NewIOError("failed to resolve tool log file", err)
	}

	zapConfig := logging.DefaultZapConfig(toolLog)
	zapConfig.Level = cfg.Log.Level
	zapConfig.Format = cfg.Log.Format
	zapConfig.Fields = map[string]string{"run_id": runID}

	backend, err := logging.NewZapBackend(zapConfig)
	if err != nil {
		return nil, nil, errors.NewIOError("failed to create logger", err).WithContext("log_file", toolLog)
	}

	logger := logging.NewLogger(logPrefix("hsu-tray"), backend.LogFuncs())
	return logger, func() { backend.Close() }, nil
}

func logPrefix(module string) string {
	return fmt.Sprintf("module: %s , ", module)
}
