package layout

import (
	"testing"

	"github.com/riordanpawley/retrodesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacer_PlaceWithoutJitter(t *testing.T) {
	p := NewPlacer(1, 0, nil)
	viewport := domain.Size{Width: 100, Height: 40}
	size := domain.Size{Width: 20, Height: 10}

	tests := []struct {
		region Region
		want   domain.Position
	}{
		{Center, domain.Position{X: 40, Y: 15}},
		{TopLeft, domain.Position{X: 15, Y: 5}},
		{BottomRight, domain.Position{X: 65, Y: 25}},
	}

	for _, tt := range tests {
		t.Run(string(tt.region), func(t *testing.T) {
			assert.Equal(t, tt.want, p.Place(tt.region, size, viewport))
		})
	}
}

func TestPlacer_ClampsToViewport(t *testing.T) {
	p := NewPlacer(2, 0, nil)
	viewport := domain.Size{Width: 60, Height: 20}
	size := domain.Size{Width: 40, Height: 12}

	pos := p.Place(TopLeft, size, viewport)
	assert.Equal(t, 2, pos.X, "left edge padding")
	assert.Equal(t, 2, pos.Y, "top edge padding")

	pos = p.Place(BottomRight, size, viewport)
	assert.Equal(t, 60-40-2, pos.X, "right edge padding")
	assert.Equal(t, 20-12-2, pos.Y, "bottom edge padding")
}

func TestPlacer_OversizedWindowIsCentred(t *testing.T) {
	p := NewPlacer(2, 0, nil)
	pos := p.Place(TopRight, domain.Size{Width: 58, Height: 30}, domain.Size{Width: 60, Height: 20})
	assert.Equal(t, 1, pos.X)
	assert.Equal(t, 0, pos.Y)
}

func TestPlacer_JitterStaysSmallAndOnScreen(t *testing.T) {
	p := NewSeededPlacer(42)
	viewport := domain.Size{Width: 200, Height: 60}
	size := domain.Size{Width: 40, Height: 12}
	base := NewPlacer(DefaultPadding, 0, nil).Place(Center, size, viewport)

	for i := 0; i < 200; i++ {
		pos := p.Place(Center, size, viewport)
		assert.InDelta(t, base.X, pos.X, 0.02*200+1)
		assert.InDelta(t, base.Y, pos.Y, 0.02*60+1)
		assert.GreaterOrEqual(t, pos.X, DefaultPadding)
		assert.LessOrEqual(t, pos.X+size.Width, viewport.Width-DefaultPadding)
	}
}

func TestPlacer_SeededIsReproducible(t *testing.T) {
	viewport := domain.Size{Width: 200, Height: 60}
	size := domain.Size{Width: 40, Height: 12}

	a := NewSeededPlacer(7)
	b := NewSeededPlacer(7)
	for _, r := range Regions() {
		assert.Equal(t, a.Place(r, size, viewport), b.Place(r, size, viewport))
	}
}

func TestParseRegion(t *testing.T) {
	r, err := ParseRegion("bottomCenter")
	require.NoError(t, err)
	assert.Equal(t, BottomCenter, r)

	_, err = ParseRegion("middle")
	assert.Error(t, err)

	assert.Equal(t, AnchorOf(Center), AnchorOf(Region("nowhere")))
	assert.Len(t, Regions(), 9)
}
