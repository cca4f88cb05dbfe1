// Package layout computes where cascading windows first appear.
//
// Each section is mapped to a named screen region. A region is an anchor
// expressed as a ratio of the viewport; the window is centred on the anchor,
// nudged by a small random jitter and clamped so it stays fully on screen.
package layout

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/riordanpawley/retrodesk/internal/domain"
)

const (
	// DefaultPadding keeps windows off the desktop edge
	DefaultPadding = 1
	// DefaultJitter is the maximum random offset as a fraction of the viewport
	DefaultJitter = 0.02
)

// Region names a screen anchor
type Region string

const (
	TopLeft      Region = "topLeft"
	TopCenter    Region = "topCenter"
	TopRight     Region = "topRight"
	CenterLeft   Region = "centerLeft"
	Center       Region = "center"
	CenterRight  Region = "centerRight"
	BottomLeft   Region = "bottomLeft"
	BottomCenter Region = "bottomCenter"
	BottomRight  Region = "bottomRight"
)

// Anchor is a point on the viewport as fractions of its width and height
type Anchor struct {
	X float64
	Y float64
}

// anchors is the fixed region library
var anchors = map[Region]Anchor{
	TopLeft:      {X: 0.25, Y: 0.25},
	TopCenter:    {X: 0.50, Y: 0.22},
	TopRight:     {X: 0.75, Y: 0.25},
	CenterLeft:   {X: 0.22, Y: 0.50},
	Center:       {X: 0.50, Y: 0.50},
	CenterRight:  {X: 0.78, Y: 0.50},
	BottomLeft:   {X: 0.25, Y: 0.75},
	BottomCenter: {X: 0.50, Y: 0.78},
	BottomRight:  {X: 0.75, Y: 0.75},
}

// Regions returns every known region name, sorted
func Regions() []Region {
	out := make([]Region, 0, len(anchors))
	for r := range anchors {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseRegion validates a region name
func ParseRegion(raw string) (Region, error) {
	r := Region(raw)
	if _, ok := anchors[r]; !ok {
		return "", fmt.Errorf("unknown region %q", raw)
	}
	return r, nil
}

// AnchorOf returns the anchor of r. Unknown regions fall back to Center.
func AnchorOf(r Region) Anchor {
	if a, ok := anchors[r]; ok {
		return a
	}
	return anchors[Center]
}

// Placer computes initial window positions
type Placer struct {
	Padding int
	Jitter  float64
	rng     *rand.Rand
}

// NewPlacer creates a placer. A nil rng disables jitter.
func NewPlacer(padding int, jitter float64, rng *rand.Rand) *Placer {
	if padding < 0 {
		padding = 0
	}
	return &Placer{
		Padding: padding,
		Jitter:  jitter,
		rng:     rng,
	}
}

// NewSeededPlacer creates a placer with the default padding and jitter,
// seeded for reproducible layouts
func NewSeededPlacer(seed uint64) *Placer {
	return NewPlacer(DefaultPadding, DefaultJitter, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Place returns the top-left position for a window of size in region
func (p *Placer) Place(region Region, size, viewport domain.Size) domain.Position {
	a := AnchorOf(region)
	x := a.X*float64(viewport.Width) - float64(size.Width)/2 + p.offset(viewport.Width)
	y := a.Y*float64(viewport.Height) - float64(size.Height)/2 + p.offset(viewport.Height)

	return domain.Position{
		X: clamp(int(math.Round(x)), size.Width, viewport.Width, p.Padding),
		Y: clamp(int(math.Round(y)), size.Height, viewport.Height, p.Padding),
	}
}

func (p *Placer) offset(extent int) float64 {
	if p.rng == nil || p.Jitter <= 0 {
		return 0
	}
	return (p.rng.Float64()*2 - 1) * p.Jitter * float64(extent)
}

// clamp keeps [v, v+length) inside [pad, extent-pad). Windows too large
// for the padded area are centred.
func clamp(v, length, extent, pad int) int {
	lo := pad
	hi := extent - length - pad
	if hi < lo {
		c := (extent - length) / 2
		if c < 0 {
			return 0
		}
		return c
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
