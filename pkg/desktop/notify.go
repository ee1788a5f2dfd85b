package desktop

import (
	"github.com/core-tools/hsu-tray/pkg/errors"
	"github.com/core-tools/hsu-tray/pkg/logging"

	"github.com/gen2brain/beeep"
)

// Notifier shows desktop notifications. Delivery is best effort.
type Notifier interface {
	Notify(title, body string) error
}

// NotifyFunc delivers one notification to the desktop
type NotifyFunc func(title, body string) error

func beeepNotify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// DesktopNotifier shows notifications through the platform notification
// service (D-Bus, osascript, toast)
type DesktopNotifier struct {
	appName string
	enabled bool
	notify  NotifyFunc
	logger  logging.Logger
}

// NewDesktopNotifier creates the platform notifier. When enabled is false,
// notifications are logged and dropped.
func NewDesktopNotifier(appName string, enabled bool, logger logging.Logger) *DesktopNotifier {
	return &DesktopNotifier{
		appName: appName,
		enabled: enabled,
		notify:  beeepNotify,
		logger:  logger,
	}
}

func (n *DesktopNotifier) Notify(title, body string) error {
	n.logger.Debugf("Showing notification: title: '%s' body: '%s'", title, body)
	if !n.enabled {
		return nil
	}

	if err := n.notify(title, body); err != nil {
		return errors.NewNotificationError("failed to show notification", err).
			WithContext("app_name", n.appName).
			WithContext("title", title)
	}
	return nil
}
