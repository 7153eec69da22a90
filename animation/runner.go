package animation

import (
	"fmt"
	"math"
	"time"

	"lautenbacher.net/neoglow/pixel"
)

// Runner bounces a single colored dot back and forth across its pixels.
// The dot's position is a triangle wave of time: one period covers a full
// out-and-back sweep. Pixels within distance 1 of the dot show the color
// faded linearly by distance, everything else is dark.
type Runner struct {
	pixels []*pixel.Pixel
	color  pixel.Color
	period time.Duration
}

// NewRunner needs at least two pixels to have anywhere to run.
func NewRunner(pixels []*pixel.Pixel, color pixel.Color, period time.Duration) (*Runner, error) {
	if len(pixels) < 2 {
		return nil, fmt.Errorf("%w: a runner needs at least two pixels, got %d", pixel.ErrInvalidArgument, len(pixels))
	}
	if period <= 0 {
		return nil, fmt.Errorf("%w: runner period %v must be positive", pixel.ErrInvalidArgument, period)
	}
	return &Runner{pixels: pixels, color: color, period: period}, nil
}

func (r *Runner) Pixels() []*pixel.Pixel {
	return r.pixels
}

func (r *Runner) Render(elapsed time.Duration) error {
	span := float64(len(r.pixels) - 1)
	// Triangle wave over [0, span]: 0 -> span in the first half period,
	// back down in the second.
	p := phase(elapsed, r.period)
	position := span * (1 - math.Abs(2*p-1))

	for i, px := range r.pixels {
		px.Set(pixel.RunnerFade(r.color, position, i))
	}
	return nil
}
