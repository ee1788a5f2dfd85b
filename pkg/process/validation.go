package process

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/core-tools/hsu-tray/pkg/errors"
)

// ValidateCommand checks that a command vector names a program
func ValidateCommand(command []string) error {
	if len(command) == 0 {
		return errors.NewValidationError("command is required", nil)
	}

	if strings.TrimSpace(command[0]) == "" {
		return errors.NewValidationError("program name cannot be empty", nil)
	}

	return nil
}

// ValidateSpawnConfig validates spawn configuration
func ValidateSpawnConfig(config SpawnConfig) error {
	if err := ValidateCommand(config.Command); err != nil {
		return err
	}

	if config.WorkingDirectory != "" {
		if !filepath.IsAbs(config.WorkingDirectory) {
			return errors.NewValidationError("working directory must be absolute path", nil)
		}

		if info, err := os.Stat(config.WorkingDirectory); err != nil {
			return errors.NewValidationError("working directory not accessible: "+config.WorkingDirectory, err)
		} else if !info.IsDir() {
			return errors.NewValidationError("working directory is not a directory: "+config.WorkingDirectory, nil)
		}
	}

	for _, env := range config.Environment {
		if !strings.Contains(env, "=") {
			return errors.NewValidationError("invalid environment variable format: "+env, nil)
		}
	}

	return nil
}
