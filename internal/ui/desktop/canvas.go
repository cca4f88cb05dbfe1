package desktop

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Canvas is a fixed grid of styled lines that blocks are composited onto.
// Later placements paint over earlier ones.
type Canvas struct {
	width  int
	height int
	lines  []string
}

// NewCanvas creates a canvas filled with blank cells in the given style
func NewCanvas(width, height int, fill lipgloss.Style) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	blank := fill.Render(strings.Repeat(" ", width))
	lines := make([]string, height)
	for i := range lines {
		lines[i] = blank
	}
	return &Canvas{width: width, height: height, lines: lines}
}

// Width returns the canvas width in cells
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in rows
func (c *Canvas) Height() int { return c.height }

// Place paints block with its top-left corner at (x, y). Parts falling
// outside the canvas are clipped.
func (c *Canvas) Place(x, y int, block string) {
	if block == "" {
		return
	}
	rows := strings.Split(block, "\n")
	blockW := 0
	for _, r := range rows {
		if w := ansi.StringWidth(r); w > blockW {
			blockW = w
		}
	}

	skip := 0
	if x < 0 {
		skip = -x
		blockW -= skip
		x = 0
	}
	if x+blockW > c.width {
		blockW = c.width - x
	}
	if blockW <= 0 {
		return
	}

	for i, row := range rows {
		ly := y + i
		if ly < 0 {
			continue
		}
		if ly >= c.height {
			break
		}

		if skip > 0 {
			row = ansi.TruncateLeft(row, skip, "")
		}
		if w := ansi.StringWidth(row); w < blockW {
			row += strings.Repeat(" ", blockW-w)
		} else if w > blockW {
			row = ansi.Truncate(row, blockW, "")
		}

		bg := c.lines[ly]
		left := ansi.Truncate(bg, x, "")
		right := ansi.TruncateLeft(bg, x+blockW, "")
		c.lines[ly] = left + row + right
	}
}

// Lines returns the canvas rows
func (c *Canvas) Lines() []string {
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

// String joins the canvas rows
func (c *Canvas) String() string {
	return strings.Join(c.lines, "\n")
}
