package logfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/core-tools/hsu-tray/pkg/errors"
	"github.com/core-tools/hsu-tray/pkg/logging"
)

// Default application name, used as the logs subdirectory
const DefaultAppName = "hsu-tray"

// TimestampLayout renders local time as YYYY-MM-DD_HH-MM-SS
const TimestampLayout = "2006-01-02_15-04-05"

// ToolLogFileName is the file the tray tool writes its own log to
const ToolLogFileName = "log.log"

// LogFilesConfig holds configuration for log file placement
type LogFilesConfig struct {
	// Base directory for log files. If empty, uses the per-user data directory
	BaseDirectory string

	// Application name for subdirectory creation
	AppName string
}

// LogFilesManager resolves the logs directory and per-run log file paths
type LogFilesManager struct {
	config LogFilesConfig
	logger logging.Logger
}

// NewLogFilesManager creates a new log files manager with the given configuration
func NewLogFilesManager(config LogFilesConfig, logger logging.Logger) *LogFilesManager {
	if config.AppName == "" {
		config.AppName = DefaultAppName
	}

	return &LogFilesManager{
		config: config,
		logger: logger,
	}
}

// LogDirectoryPath returns the logs directory without touching the filesystem
func (m *LogFilesManager) LogDirectoryPath() (string, error) {
	if m.config.BaseDirectory != "" {
		return m.config.BaseDirectory, nil
	}

	dataDir, err := UserDataDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, m.config.AppName), nil
}

// EnsureLogDirectory creates the logs directory if needed and checks it is writable
func (m *LogFilesManager) EnsureLogDirectory() (string, error) {
	dir, err := m.LogDirectoryPath()
	if err != nil {
		return "", err
	}

	if err := ValidateLogDirectory(dir); err != nil {
		m.logger.Errorf("Log directory validation failed, path: %s, error: %v", dir, err)
		return "", err
	}

	return dir, nil
}

// NewLogFilePath returns the path of a fresh per-run log file for program,
// creating the logs directory on the way
func (m *LogFilesManager) NewLogFilePath(program string, at time.Time) (string, error) {
	dir, err := m.EnsureLogDirectory()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, LogFileName(program, at))
	m.logger.Debugf("Generated log file path, program: %s, path: %s", program, path)
	return path, nil
}

// ToolLogFilePath returns the path of the tray tool's own log file
func (m *LogFilesManager) ToolLogFilePath() (string, error) {
	dir, err := m.EnsureLogDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ToolLogFileName), nil
}

// LogFileName builds "{program}_{timestamp}.log" using the program's base name,
// so "/usr/bin/sleep" and "sleep" produce the same file name
func LogFileName(program string, at time.Time) string {
	name := filepath.Base(program)
	if runtime.GOOS == "windows" {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "command"
	}
	return fmt.Sprintf("%s_%s.log", name, at.Local().Format(TimestampLayout))
}

// UserDataDirectory returns the platform's standard per-user data directory
func UserDataDirectory() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData, nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.NewIOError("neither APPDATA nor USERPROFILE is set", nil)
		}
		return filepath.Join(userProfile, "AppData", "Roaming"), nil

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", errors.NewIOError("failed to get home directory", err)
		}
		return filepath.Join(homeDir, "Library", "Application Support"), nil

	default:
		// XDG base directory spec, relative values must be ignored
		if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" && filepath.IsAbs(dataHome) {
			return dataHome, nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", errors.NewIOError("failed to get home directory", err)
		}
		return filepath.Join(homeDir, ".local", "share"), nil
	}
}

// ValidateLogDirectory makes sure dir exists, is a directory and is writable
func ValidateLogDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.NewIOError("failed to access log directory", err).WithContext("directory", dir)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewIOError("failed to create log directory", err).WithContext("directory", dir)
		}
	} else if !info.IsDir() {
		return errors.NewValidationError("log directory path is not a directory", nil).WithContext("path", dir)
	}

	testFile, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		return errors.NewPermissionError("log directory is not writable", err).WithContext("directory", dir)
	}
	testFile.Close()
	os.Remove(testFile.Name())

	return nil
}
