package tray

import (
	"github.com/core-tools/hsu-tray/pkg/errors"
)

// Message is a command the user can issue from the tray menu
type Message int

const (
	Kill Message = iota
	ShowLogs
)

// Messages returns every menu message in display order
func Messages() []Message {
	return []Message{Kill, ShowLogs}
}

// Label is the text shown in the tray menu
func (m Message) Label() string {
	switch m {
	case Kill:
		return "Kill"
	case ShowLogs:
		return "Show Logs"
	default:
		return "Unknown"
	}
}

// ID is the opaque identifier carried by menu events; it is the label itself
func (m Message) ID() string {
	return m.Label()
}

func (m Message) String() string {
	return m.Label()
}

// Decode maps a menu event identifier back to its Message.
// Unknown identifiers are an error, never a default.
func Decode(id string) (Message, error) {
	switch id {
	case "Kill":
		return Kill, nil
	case "Show Logs":
		return ShowLogs, nil
	default:
		return 0, errors.NewEventDecodeError("unknown tray menu item: "+id, nil).WithContext("id", id)
	}
}
