// Package types contains shared types used across the application.
package types

// Mode is the desktop zone keyboard navigation is currently in
type Mode int

const (
	ModeIcons Mode = iota
	ModeWindows
	ModeTaskbar
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeIcons:
		return "ICONS"
	case ModeWindows:
		return "WINDOWS"
	case ModeTaskbar:
		return "TASKBAR"
	default:
		return "UNKNOWN"
	}
}

// Next cycles to the following zone
func (m Mode) Next() Mode {
	return (m + 1) % 3
}

// Prev cycles to the preceding zone
func (m Mode) Prev() Mode {
	return (m + 2) % 3
}
