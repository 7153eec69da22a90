package animation

import (
	"fmt"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"lautenbacher.net/neoglow/pixel"
)

// GradientTable is a look-up table of hue keypoints by position in [0, 1].
type GradientTable []struct {
	Hue float64
	Pos float64
}

// DefaultGradient covers the full hue circle with keypoints that widen the
// visually narrow bands.
var DefaultGradient = GradientTable{
	{0.0, 0.0},
	{60.0, 0.2},
	{120.0, 0.4},
	{180.0, 0.6},
	{240.0, 0.8},
	{360.0, 1.0},
}

// color interpolates the hue at point t and renders it in HCL at the given
// chroma and luminance.
func (g GradientTable) color(t, c, l float64) colorful.Color {
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			h := (((t - c1.Pos) / (c2.Pos - c1.Pos)) * (c2.Hue - c1.Hue)) + c1.Hue
			return colorful.Hcl(h, c, l)
		}
	}
	return colorful.Hcl(g[len(g)-1].Hue, c, l)
}

// Gradient sweeps a hue gradient across its pixels, rotating one full
// table length per period.
type Gradient struct {
	pixels []*pixel.Pixel
	table  GradientTable
	period time.Duration
}

// NewGradient builds a gradient sweep from the given table, which must
// have at least two keypoints.
func NewGradient(pixels []*pixel.Pixel, table GradientTable, period time.Duration) (*Gradient, error) {
	if len(pixels) == 0 {
		return nil, fmt.Errorf("%w: gradient needs at least one pixel", pixel.ErrInvalidArgument)
	}
	if len(table) < 2 {
		return nil, fmt.Errorf("%w: gradient table needs at least two keypoints, got %d", pixel.ErrInvalidArgument, len(table))
	}
	if period <= 0 {
		return nil, fmt.Errorf("%w: gradient period %v must be positive", pixel.ErrInvalidArgument, period)
	}
	return &Gradient{pixels: pixels, table: table, period: period}, nil
}

func (g *Gradient) Pixels() []*pixel.Pixel {
	return g.pixels
}

func (g *Gradient) Render(elapsed time.Duration) error {
	offset := phase(elapsed, g.period)
	n := float64(len(g.pixels))
	for i, px := range g.pixels {
		t := float64(i)/n + offset
		if t >= 1 {
			t -= 1
		}
		c := g.table.color(t, 0.5, 0.5)
		r, gr, b := c.Clamped().RGB255()
		px.Set(pixel.Color{int(r), int(gr), int(b)})
	}
	return nil
}
