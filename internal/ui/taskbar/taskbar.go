// Package taskbar renders the bottom bar: start badge, navigation zone,
// one chip per minimized window and right-aligned key hints.
package taskbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/retrodesk/internal/domain"
	"github.com/riordanpawley/retrodesk/internal/types"
	"github.com/riordanpawley/retrodesk/internal/ui/styles"
)

// StartLabel is the text of the start badge
const StartLabel = "◆ retrodesk"

// Taskbar represents the bar at the bottom of the desktop
type Taskbar struct {
	mode     types.Mode
	entries  []domain.TaskbarEntry
	selected int
	hints    string
	width    int
	styles   *styles.Styles
}

// New creates a Taskbar. selected is the highlighted chip, -1 for none.
func New(mode types.Mode, entries []domain.TaskbarEntry, selected, width int, styles *styles.Styles) Taskbar {
	return Taskbar{
		mode:     mode,
		entries:  entries,
		selected: selected,
		width:    width,
		styles:   styles,
	}
}

// WithHints replaces the default hints for the mode
func (tb Taskbar) WithHints(hints string) Taskbar {
	tb.hints = hints
	return tb
}

// Render renders the taskbar as a single line of exactly the taskbar width
func (tb Taskbar) Render() string {
	left := tb.left()

	hints := tb.hints
	if hints == "" {
		hints = GetHints(tb.mode)
	}

	leftW := lipgloss.Width(left)
	room := tb.width - leftW - 1
	var right string
	if room > 0 && hints != "" {
		right = tb.styles.TaskbarHint.Render(ansi.Truncate(hints, room, "…"))
	}

	gap := tb.width - leftW - lipgloss.Width(right)
	line := left + tb.styles.Taskbar.Render(strings.Repeat(" ", max(gap, 0))) + right
	if lipgloss.Width(line) > tb.width {
		line = ansi.Truncate(line, tb.width, "")
	}
	return line
}

func (tb Taskbar) left() string {
	parts := tb.pieces()
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.rendered)
	}
	return b.String()
}

type piece struct {
	id       domain.SectionID
	rendered string
}

// pieces returns the rendered left-hand segments in order: start badge,
// mode badge, then one chip per minimized window
func (tb Taskbar) pieces() []piece {
	sep := tb.styles.Taskbar.Render(" ")
	parts := []piece{
		{rendered: tb.styles.TaskbarStart.Render(StartLabel)},
		{rendered: sep},
		{rendered: tb.styles.TaskbarMode.Render(tb.mode.String())},
	}
	for i, e := range tb.entries {
		style := tb.styles.TaskbarChip
		if i == tb.selected {
			style = tb.styles.TaskbarChipSelected
		}
		label := e.Label
		if e.Icon != "" {
			label = e.Icon + " " + label
		}
		parts = append(parts,
			piece{rendered: sep},
			piece{id: e.ID, rendered: style.Render(label)},
		)
	}
	return parts
}

// ChipAt returns the minimized window whose chip covers column x
func (tb Taskbar) ChipAt(x int) (domain.SectionID, bool) {
	pos := 0
	for _, p := range tb.pieces() {
		w := lipgloss.Width(p.rendered)
		if p.id != "" && x >= pos && x < pos+w {
			return p.id, true
		}
		pos += w
	}
	return "", false
}

// StartAt reports whether column x is on the start badge
func (tb Taskbar) StartAt(x int) bool {
	return x >= 0 && x < lipgloss.Width(tb.styles.TaskbarStart.Render(StartLabel))
}
