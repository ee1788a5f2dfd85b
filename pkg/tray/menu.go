package tray

import (
	"github.com/core-tools/hsu-tray/pkg/logging"
)

// DefaultEventBuffer is the number of clicks queued before new ones are dropped
const DefaultEventBuffer = 16

// MenuEvent is a click on a tray menu item, identified only by its ID
type MenuEvent struct {
	ID string
}

// Backend is the platform tray implementation
type Backend interface {
	SetTooltip(tooltip string)
	SetIcon(icon []byte)
	AddItem(label, tooltip string) <-chan struct{}
	Quit()
}

// MenuOptions configures the tray icon
type MenuOptions struct {
	Tooltip     string
	Icon        []byte
	EventBuffer int
}

// Menu is the tray icon with one item per Message
type Menu struct {
	backend Backend
	events  chan MenuEvent
	logger  logging.Logger
}

// BuildMenu sets up the icon and adds the items in Messages() order. Clicks are
// forwarded to Events(); the menu is the only producer on that channel.
func BuildMenu(backend Backend, options MenuOptions, logger logging.Logger) *Menu {
	buffer := options.EventBuffer
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}

	m := &Menu{
		backend: backend,
		events:  make(chan MenuEvent, buffer),
		logger:  logger,
	}

	if len(options.Icon) > 0 {
		backend.SetIcon(options.Icon)
	}
	backend.SetTooltip(options.Tooltip)

	for _, msg := range Messages() {
		clicked := backend.AddItem(msg.Label(), msg.Label())
		go m.forward(msg.ID(), clicked)
	}

	logger.Debugf("Tray menu built, tooltip: %q, items: %v", options.Tooltip, Messages())
	return m
}

func (m *Menu) forward(id string, clicked <-chan struct{}) {
	for range clicked {
		select {
		case m.events <- MenuEvent{ID: id}:
		default:
			m.logger.Warnf("Tray event queue full, dropping click on %q", id)
		}
	}
}

// Events is the receive-only stream of menu clicks
func (m *Menu) Events() <-chan MenuEvent {
	return m.events
}

// IconCell returns the ownership cell that removes this icon
func (m *Menu) IconCell() *IconCell {
	return NewIconCell(m.backend.Quit)
}
