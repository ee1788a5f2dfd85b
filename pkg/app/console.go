package app

import (
	sprintfLogging "github.com/core-tools/hsu-core/pkg/logging/sprintf"

	"github.com/core-tools/hsu-tray/pkg/errors"
	"github.com/core-tools/hsu-tray/pkg/logging"
)

func newConsoleLogger(levelName string) (logging.Logger, error) {
	logger := sprintfLogging.NewStdSprintfLogger()

	return newLeveledLogger(levelName, logging.LogFuncs{
		Debugf: logger.Debugf,
		Infof:  logger.Infof,
		Warnf:  logger.Warnf,
		Errorf: logger.Errorf,
	})
}

// newLeveledLogger drops messages below the configured level before they reach funcs
func newLeveledLogger(levelName string, funcs logging.LogFuncs) (logging.Logger, error) {
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, errors.NewValidationError("invalid log level", err).WithContext("level", levelName)
	}
	return logging.NewLeveledLogger(logPrefix("hsu-tray"), level, funcs), nil
}
