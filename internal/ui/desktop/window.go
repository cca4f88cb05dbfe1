package desktop

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/retrodesk/internal/domain"
	"github.com/riordanpawley/retrodesk/internal/ui/styles"
)

const (
	// MinWindowWidth and MinWindowHeight bound the smallest drawable frame
	MinWindowWidth  = 16
	MinWindowHeight = 4

	cursorGlyph = "▌"
	mutedBody   = "…"
)

// title bar buttons, right aligned inside the frame
const (
	buttonMinimize = "_"
	buttonMaximize = "□"
	buttonRestore  = "❐"
	buttonClose    = "×"
)

// buttonsWidth is the cell width of "_ □ × " at the right of the title bar
const buttonsWidth = 6

// Frame is everything needed to draw one window
type Frame struct {
	State    domain.WindowState
	Body     []string
	Typing   bool
	Selected bool
}

// Size returns the drawn size of the frame
func (f Frame) Size() domain.Size {
	w, h := f.State.Size.Width, f.State.Size.Height
	return domain.Size{Width: max(w, MinWindowWidth), Height: max(h, MinWindowHeight)}
}

// RenderWindow draws a bordered window with its title bar and typed body
func RenderWindow(f Frame, s *styles.Styles) string {
	size := f.Size()
	inner := size.Width - 2
	bodyRows := size.Height - 3

	lines := make([]string, 0, size.Height-2)
	lines = append(lines, titleBar(f, inner, s))
	lines = append(lines, bodyLines(f, inner, bodyRows, s)...)

	return s.Frame(f.State.IsActive, f.Selected).
		Width(inner).
		Render(strings.Join(lines, "\n"))
}

func titleBar(f Frame, inner int, s *styles.Styles) string {
	bar := s.TitleBar
	if f.State.IsActive {
		bar = s.TitleBarActive
	}

	maxBtn := buttonMaximize
	if f.State.IsMaximized {
		maxBtn = buttonRestore
	}
	buttons := buttonMinimize + " " + maxBtn + " " + buttonClose + " "

	label := " " + f.State.Icon + " " + f.State.Label
	if f.State.Icon == "" {
		label = " " + f.State.Label
	}
	glyph := " " + f.State.Transition.Glyph()

	room := inner - buttonsWidth - ansi.StringWidth(glyph)
	if room < 1 {
		return bar.Render(ansi.Truncate(label, inner, ""))
	}
	label = ansi.Truncate(label, room, "…")
	gap := inner - ansi.StringWidth(label) - ansi.StringWidth(glyph) - buttonsWidth

	return bar.Render(label) +
		s.Transition(f.State.Transition).Inherit(bar).Render(glyph) +
		bar.Render(strings.Repeat(" ", max(gap, 0))) +
		s.TitleButton.Inherit(bar).Render(buttons)
}

// bodyLines wraps the typed text to the frame and keeps the newest rows
func bodyLines(f Frame, inner, rows int, s *styles.Styles) []string {
	if rows <= 0 {
		return nil
	}
	textW := max(inner-2, 1)

	var wrapped []string
	for _, l := range f.Body {
		if l == "" {
			wrapped = append(wrapped, "")
			continue
		}
		wrapped = append(wrapped, strings.Split(ansi.Wrap(l, textW, ""), "\n")...)
	}

	style := s.Body
	if len(wrapped) == 0 && !f.State.IsActive {
		wrapped = []string{mutedBody}
		style = s.BodyMuted
	}

	if f.Typing {
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}
		last := len(wrapped) - 1
		if ansi.StringWidth(wrapped[last]) >= textW {
			wrapped = append(wrapped, "")
			last++
		}
		wrapped[last] += cursorGlyph
	}

	if len(wrapped) > rows {
		wrapped = wrapped[len(wrapped)-rows:]
	}

	out := make([]string, rows)
	for i := range out {
		text := ""
		if i < len(wrapped) {
			text = wrapped[i]
		}
		pad := textW - ansi.StringWidth(text)
		out[i] = style.Render(" " + text + strings.Repeat(" ", max(pad, 0)) + " ")
	}
	return out
}

// Part identifies what a pointer is over inside a window
type Part int

const (
	PartNone Part = iota
	PartTitle
	PartBody
	PartMinimize
	PartMaximize
	PartClose
)

func (p Part) String() string {
	switch p {
	case PartTitle:
		return "title"
	case PartBody:
		return "body"
	case PartMinimize:
		return "minimize"
	case PartMaximize:
		return "maximize"
	case PartClose:
		return "close"
	default:
		return "none"
	}
}

// HitWindow reports which part of the frame the cell (x, y) falls on.
// The top border counts as title so windows can be dragged by it.
func HitWindow(f Frame, x, y int) Part {
	size := f.Size()
	pos := f.State.Position
	rx, ry := x-pos.X, y-pos.Y
	if rx < 0 || ry < 0 || rx >= size.Width || ry >= size.Height {
		return PartNone
	}

	if ry == 1 && rx >= 1 && rx <= size.Width-2 {
		inner := rx - 1
		buttons := size.Width - 2 - buttonsWidth
		switch inner {
		case buttons:
			return PartMinimize
		case buttons + 2:
			return PartMaximize
		case buttons + 4:
			return PartClose
		}
		return PartTitle
	}
	if ry == 0 {
		return PartTitle
	}
	return PartBody
}
