package animation

import (
	"fmt"
	"time"

	"lautenbacher.net/neoglow/pixel"
)

// FacePixels is the number of pixels a BeeFace drives: two mirrored halves
// of six.
const FacePixels = 12

// Palettes for the two moods, one color per pixel pair working outward
// from the edges (pixel 0 and 11 get the first color, 5 and 6 the last).
var (
	beePassivePalette = [6]pixel.Color{
		{255, 191, 0},
		{255, 160, 0},
		{255, 128, 0},
		{192, 96, 0},
		{128, 64, 0},
		{64, 32, 0},
	}
	beeAngryPalette = [6]pixel.Color{
		{255, 0, 0},
		{224, 0, 0},
		{192, 0, 0},
		{160, 0, 0},
		{128, 0, 0},
		{96, 0, 0},
	}
)

// BeeFace animates a 12-pixel face laid out symmetrically: pixel i and
// pixel 11-i always show the same color. It holds the passive palette for
// the first duty-cycle fraction of each period and the angry palette for
// the remainder.
type BeeFace struct {
	pixels []*pixel.Pixel
	period time.Duration
	duty   float64
}

// NewBeeFace requires exactly 12 pixels.
func NewBeeFace(pixels []*pixel.Pixel, period time.Duration, duty float64) (*BeeFace, error) {
	if len(pixels) != FacePixels {
		return nil, fmt.Errorf("%w: a bee face has %d pixels, got %d", pixel.ErrInvalidArgument, FacePixels, len(pixels))
	}
	if period <= 0 {
		return nil, fmt.Errorf("%w: face period %v must be positive", pixel.ErrInvalidArgument, period)
	}
	if duty <= 0 || duty > 1 {
		return nil, fmt.Errorf("%w: duty cycle %v must be in (0, 1]", pixel.ErrInvalidArgument, duty)
	}
	return &BeeFace{pixels: pixels, period: period, duty: duty}, nil
}

func (b *BeeFace) Pixels() []*pixel.Pixel {
	return b.pixels
}

func (b *BeeFace) Render(elapsed time.Duration) error {
	palette := &beeAngryPalette
	if phase(elapsed, b.period) < b.duty {
		palette = &beePassivePalette
	}
	for i := 0; i < FacePixels/2; i++ {
		b.pixels[i].Set(palette[i])
		b.pixels[FacePixels-1-i].Set(palette[i])
	}
	return nil
}
