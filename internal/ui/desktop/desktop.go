// Package desktop draws the desktop: the icon column, the stacked windows
// and the hit tests that turn pointer cells back into icons and window parts.
package desktop

import (
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/retrodesk/internal/domain"
	"github.com/riordanpawley/retrodesk/internal/ui/styles"
)

const (
	// IconTop is the first icon row
	IconTop = 1
	// IconSpacing is the rows taken by one icon
	IconSpacing = 2
	// IconWidth is the cell width of the icon column
	IconWidth = 16

	openMarker      = "•"
	minimizedMarker = "_"
)

// Icon is one desktop shortcut
type Icon struct {
	ID        domain.SectionID
	Label     string
	Glyph     string
	Open      bool
	Minimized bool
}

// View is everything drawn on the desktop area
type View struct {
	Width        int
	Height       int
	Icons        []Icon
	SelectedIcon int
	// Windows are the painted windows, bottom first
	Windows []Frame
}

// Render composites icons and windows and returns the desktop text
func Render(v View, s *styles.Styles) string {
	return Compose(v, s).String()
}

// Compose paints icons and windows onto a new canvas so callers can layer
// more on top
func Compose(v View, s *styles.Styles) *Canvas {
	c := NewCanvas(v.Width, v.Height, s.Desktop)

	for i, icon := range v.Icons {
		c.Place(1, IconTop+i*IconSpacing, renderIcon(icon, i == v.SelectedIcon, s))
	}
	for _, f := range v.Windows {
		c.Place(f.State.Position.X, f.State.Position.Y, RenderWindow(f, s))
	}
	return c
}

func renderIcon(icon Icon, selected bool, s *styles.Styles) string {
	marker := " "
	switch {
	case icon.Minimized:
		marker = minimizedMarker
	case icon.Open:
		marker = openMarker
	}

	text := ansi.Truncate(icon.Glyph+" "+icon.Label, IconWidth-4, "…")
	style := s.Icon
	if selected {
		style = s.IconSelected
	}
	return style.Render(text) + s.IconOpen.Render(marker)
}

// IconAt returns the index of the icon under (x, y)
func IconAt(v View, x, y int) (int, bool) {
	if x < 1 || x >= 1+IconWidth || y < IconTop {
		return 0, false
	}
	rel := y - IconTop
	if rel%IconSpacing != 0 {
		return 0, false
	}
	i := rel / IconSpacing
	if i >= len(v.Icons) {
		return 0, false
	}
	return i, true
}

// WindowAt returns the topmost window under (x, y) and the part hit
func WindowAt(v View, x, y int) (domain.SectionID, Part, bool) {
	for i := len(v.Windows) - 1; i >= 0; i-- {
		f := v.Windows[i]
		if p := HitWindow(f, x, y); p != PartNone {
			return f.State.ID, p, true
		}
	}
	return "", PartNone, false
}
