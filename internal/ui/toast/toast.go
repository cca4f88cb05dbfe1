package toast

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/retrodesk/internal/types"
	"github.com/riordanpawley/retrodesk/internal/ui/styles"
)

// MaxVisible caps how many toasts are stacked at once; the newest win
const MaxVisible = 3

// ToastRenderer draws lifecycle notices in the bottom-right corner
type ToastRenderer struct {
	styles *styles.Styles
}

// New creates a new ToastRenderer with the given styles
func New(styles *styles.Styles) *ToastRenderer {
	return &ToastRenderer{
		styles: styles,
	}
}

// Visible returns the toasts worth showing, oldest first. Only the newest
// notice per window survives, so closing and reopening a window repeatedly
// does not flood the corner. Desktop-wide notices never collapse.
func Visible(toasts []types.Toast) []types.Toast {
	seen := make(map[string]bool)
	var out []types.Toast
	for i := len(toasts) - 1; i >= 0 && len(out) < MaxVisible; i-- {
		t := toasts[i]
		if t.Section != "" {
			if seen[string(t.Section)] {
				continue
			}
			seen[string(t.Section)] = true
		}
		out = append(out, t)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Render renders the visible toasts stacked and right aligned.
// Returns empty string if no toasts to display.
func (r *ToastRenderer) Render(toasts []types.Toast, width int) string {
	visible := Visible(toasts)
	if len(visible) == 0 {
		return ""
	}

	toastWidth := width / 3
	if toastWidth > 40 {
		toastWidth = 40 // Cap maximum toast width
	}
	if toastWidth < 16 {
		toastWidth = 16
	}

	rendered := make([]string, 0, len(visible))
	for _, t := range visible {
		style := r.styleForLevel(t.Level)
		rendered = append(rendered, style.Width(toastWidth).Render(Line(t)))
	}

	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// Line is the text of one toast: level glyph, window icon, message
func Line(t types.Toast) string {
	parts := []string{t.Level.Glyph()}
	if t.Icon != "" {
		parts = append(parts, t.Icon)
	}
	return strings.Join(append(parts, t.Message), " ")
}

// styleForLevel returns the appropriate style for a toast level
func (r *ToastRenderer) styleForLevel(level types.ToastLevel) lipgloss.Style {
	switch level {
	case types.ToastSuccess:
		return r.styles.ToastSuccess
	case types.ToastWarning:
		return r.styles.ToastWarning
	case types.ToastError:
		return r.styles.ToastError
	default:
		return r.styles.ToastInfo
	}
}
