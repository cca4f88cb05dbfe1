package types

import (
	"time"

	"github.com/riordanpawley/retrodesk/internal/domain"
)

// Toast represents a notification message. Toasts about a window carry its
// section and icon; desktop-wide notices leave Section empty.
type Toast struct {
	Level   ToastLevel
	Message string
	Expires time.Time
	Section domain.SectionID
	Icon    string
}

// ToastLevel indicates the severity of a toast
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// Glyph is the marker drawn ahead of a toast message
func (l ToastLevel) Glyph() string {
	switch l {
	case ToastSuccess:
		return "✓"
	case ToastWarning:
		return "!"
	case ToastError:
		return "✗"
	default:
		return "•"
	}
}

// NewToast creates a toast that expires ttl after now
func NewToast(level ToastLevel, message string, now time.Time, ttl time.Duration) Toast {
	return Toast{
		Level:   level,
		Message: message,
		Expires: now.Add(ttl),
	}
}

// NewWindowToast creates a toast about one window
func NewWindowToast(level ToastLevel, id domain.SectionID, icon, message string, now time.Time, ttl time.Duration) Toast {
	t := NewToast(level, message, now, ttl)
	t.Section = id
	t.Icon = icon
	return t
}

// Expired reports whether the toast should be dropped at now
func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}
