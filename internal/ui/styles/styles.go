package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/retrodesk/internal/domain"
)

// Styles holds all the UI styles
type Styles struct {
	// Desktop
	Desktop      lipgloss.Style
	Icon         lipgloss.Style
	IconSelected lipgloss.Style
	IconOpen     lipgloss.Style
	IconLabel    lipgloss.Style

	// Windows
	Window         lipgloss.Style
	WindowActive   lipgloss.Style
	WindowSelected lipgloss.Style
	TitleBar       lipgloss.Style
	TitleBarActive lipgloss.Style
	TitleButton    lipgloss.Style
	Body           lipgloss.Style
	BodyMuted      lipgloss.Style
	Cursor         lipgloss.Style

	// Taskbar
	Taskbar             lipgloss.Style
	TaskbarStart        lipgloss.Style
	TaskbarMode         lipgloss.Style
	TaskbarChip         lipgloss.Style
	TaskbarChipSelected lipgloss.Style
	TaskbarHint         lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Desktop: lipgloss.NewStyle().
			Background(Crust),

		Icon: lipgloss.NewStyle().
			Foreground(Subtext1).
			Padding(0, 1),

		IconSelected: lipgloss.NewStyle().
			Foreground(Base).
			Background(Lavender).
			Bold(true).
			Padding(0, 1),

		IconOpen: lipgloss.NewStyle().
			Foreground(Green),

		IconLabel: lipgloss.NewStyle().
			Foreground(Subtext0),

		Window: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Background(Base),

		WindowActive: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Lavender).
			Background(Base),

		WindowSelected: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Mauve).
			Background(Base),

		TitleBar: lipgloss.NewStyle().
			Foreground(Subtext0).
			Background(Surface0),

		TitleBarActive: lipgloss.NewStyle().
			Foreground(Base).
			Background(Lavender).
			Bold(true),

		TitleButton: lipgloss.NewStyle().
			Foreground(Overlay2),

		Body: lipgloss.NewStyle().
			Foreground(Text).
			Background(Base),

		BodyMuted: lipgloss.NewStyle().
			Foreground(Overlay0).
			Background(Base).
			Italic(true),

		Cursor: lipgloss.NewStyle().
			Foreground(Green).
			Blink(true),

		Taskbar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0),

		TaskbarStart: lipgloss.NewStyle().
			Background(Mauve).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		TaskbarMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		TaskbarChip: lipgloss.NewStyle().
			Background(Surface1).
			Foreground(Text).
			Padding(0, 1),

		TaskbarChipSelected: lipgloss.NewStyle().
			Background(Lavender).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		TaskbarHint: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Overlay1),

		ToastInfo: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Foreground(Blue).
			Padding(0, 1),

		ToastSuccess: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Foreground(Green).
			Padding(0, 1),

		ToastWarning: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Yellow).
			Foreground(Yellow).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Foreground(Red).
			Padding(0, 1),
	}
}

// Transition returns the title glyph style for a window transition state
func (s *Styles) Transition(state domain.TransitionState) lipgloss.Style {
	color, ok := TransitionColors[state]
	if !ok {
		color = Overlay0
	}
	return lipgloss.NewStyle().Foreground(color)
}

// Frame returns the border style for a window
func (s *Styles) Frame(active, selected bool) lipgloss.Style {
	switch {
	case active:
		return s.WindowActive
	case selected:
		return s.WindowSelected
	default:
		return s.Window
	}
}
