package desktop

import (
	"os"

	"github.com/core-tools/hsu-tray/pkg/errors"
	"github.com/core-tools/hsu-tray/pkg/logging"

	"github.com/skratchdot/open-golang/open"
)

// Opener opens a directory in the platform file browser
type Opener interface {
	Open(path string) error
}

// StartFunc hands path to the platform file browser without waiting for it
type StartFunc func(path string) error

type DesktopOpener struct {
	start  StartFunc
	logger logging.Logger
}

func NewDesktopOpener(logger logging.Logger) *DesktopOpener {
	return &DesktopOpener{
		start:  open.Start,
		logger: logger,
	}
}

func (o *DesktopOpener) Open(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.NewLogDirectoryOpenError("logs directory is not accessible", err).WithContext("path", path)
	}
	if !info.IsDir() {
		return errors.NewLogDirectoryOpenError("not a directory", nil).WithContext("path", path)
	}

	o.logger.Debugf("Opening directory, path: %s", path)
	if err := o.start(path); err != nil {
		return errors.NewLogDirectoryOpenError("failed to open logs dir", err).WithContext("path", path)
	}
	return nil
}
