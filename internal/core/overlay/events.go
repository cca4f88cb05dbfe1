package overlay

import "github.com/riordanpawley/retrodesk/internal/domain"

// EventKind names a window lifecycle change
type EventKind int

const (
	EventOpened EventKind = iota
	EventClosed
	EventFocused
	EventMinimized
	EventMaximized
	EventUnmaximized
	EventRestored
	EventActivated
	EventDeactivated
	EventShown
	EventMoved
	EventResized
	EventTransition
)

func (k EventKind) String() string {
	switch k {
	case EventOpened:
		return "opened"
	case EventClosed:
		return "closed"
	case EventFocused:
		return "focused"
	case EventMinimized:
		return "minimized"
	case EventMaximized:
		return "maximized"
	case EventUnmaximized:
		return "unmaximized"
	case EventRestored:
		return "restored"
	case EventActivated:
		return "activated"
	case EventDeactivated:
		return "deactivated"
	case EventShown:
		return "shown"
	case EventMoved:
		return "moved"
	case EventResized:
		return "resized"
	case EventTransition:
		return "transition"
	default:
		return "unknown"
	}
}

// Event is delivered to observers after the change has been applied.
// Window is a snapshot of the window at that point.
type Event struct {
	Kind   EventKind
	ID     domain.SectionID
	Window domain.WindowState
}

// Observer receives lifecycle events
type Observer func(Event)
