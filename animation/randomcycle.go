package animation

import (
	"fmt"
	"math/rand"
	"time"

	"lautenbacher.net/neoglow/pixel"
)

// RandomCycle gives every pixel a random full-saturation color and rotates
// the colors around the pixel ring, one position per transition time, with
// a linear crossfade between steps.
type RandomCycle struct {
	pixels     []*pixel.Pixel
	colors     []pixel.Color
	transition time.Duration
}

// NewRandomCycle draws one random hue per pixel from rng. Injecting the
// random source keeps the initial colors reproducible under test.
func NewRandomCycle(pixels []*pixel.Pixel, transition time.Duration, rng *rand.Rand) (*RandomCycle, error) {
	if len(pixels) == 0 {
		return nil, fmt.Errorf("%w: random cycle needs at least one pixel", pixel.ErrInvalidArgument)
	}
	if transition <= 0 {
		return nil, fmt.Errorf("%w: transition time %v must be positive", pixel.ErrInvalidArgument, transition)
	}

	colors := make([]pixel.Color, len(pixels))
	for i := range colors {
		rgb, err := pixel.HueToRGB(float64(rng.Intn(360)))
		if err != nil {
			return nil, err
		}
		colors[i] = rgb
	}
	return &RandomCycle{pixels: pixels, colors: colors, transition: transition}, nil
}

func (r *RandomCycle) Pixels() []*pixel.Pixel {
	return r.pixels
}

// Colors returns the initial color assignment, in pixel order.
func (r *RandomCycle) Colors() []pixel.Color {
	return r.colors
}

func (r *RandomCycle) Render(elapsed time.Duration) error {
	n := len(r.pixels)
	steps := elapsed.Seconds() / r.transition.Seconds()
	shift := int(steps) % n
	progress := steps - float64(int(steps))
	if progress < 0 {
		progress += 1
		shift--
	}

	for i, px := range r.pixels {
		from := r.colors[mod(i-shift, n)]
		to := r.colors[mod(i-shift-1, n)]
		c, err := pixel.Crossfade(from, to, progress)
		if err != nil {
			return err
		}
		px.Set(c)
	}
	return nil
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
