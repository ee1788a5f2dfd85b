package process

import (
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/core-tools/hsu-tray/pkg/errors"
	"github.com/core-tools/hsu-tray/pkg/logging"
)

// SpawnConfig describes the command to run in the background
type SpawnConfig struct {
	Command          []string `yaml:"command"`
	Environment      []string `yaml:"environment,omitempty"`
	WorkingDirectory string   `yaml:"working_directory,omitempty"`

	// Now stamps the log file name; defaults to time.Now
	Now func() time.Time `yaml:"-"`
}

// LogFileProvider hands out the per-run log file path for a program.
// Implementations create the logs directory if needed.
type LogFileProvider interface {
	NewLogFilePath(program string, at time.Time) (string, error)
}

// Spawn starts the command with stdout and stderr redirected to a fresh log
// file. Every failure is a spawn error; there is no retry.
func Spawn(config SpawnConfig, logFiles LogFileProvider, logger logging.Logger) (*Handle, error) {
	if err := ValidateSpawnConfig(config); err != nil {
		return nil, errors.NewSpawnError("invalid command", err)
	}

	now := time.Now
	if config.Now != nil {
		now = config.Now
	}

	program := config.Command[0]
	args := config.Command[1:]

	logPath, err := logFiles.NewLogFilePath(program, now())
	if err != nil {
		return nil, errors.NewSpawnError("failed to resolve log file", err).WithContext("program", program)
	}

	stdout, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, errors.NewSpawnError("failed to open output file", err).WithContext("log_file", logPath)
	}

	stderr, err := duplicateFile(stdout)
	if err != nil {
		stdout.Close()
		return nil, errors.NewSpawnError("failed to clone output file handle for stderr", err).WithContext("log_file", logPath)
	}

	logger.Infof("Spawning command: %s %q", program, args)

	cmd := exec.Command(program, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Dir = config.WorkingDirectory
	if len(config.Environment) > 0 {
		cmd.Env = append(os.Environ(), config.Environment...)
	}

	// Platform-specific setup is handled in process_unix.go or process_windows.go
	setupProcessAttributes(cmd)

	if err := cmd.Start(); err != nil {
		stdout.Close()
		stderr.Close()
		return nil, errors.NewSpawnError("failed to spawn command", err).
			WithContext("program", program).
			WithContext("log_file", logPath)
	}

	logger.Debugf("output piped to: %s", logPath)
	logger.Infof("Spawned command, pid: %d, command: %s", cmd.Process.Pid, strings.Join(config.Command, " "))

	return newHandle(cmd, logPath, stdout, stderr, logger), nil
}
