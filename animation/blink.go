package animation

import (
	"fmt"
	"time"

	"lautenbacher.net/neoglow/pixel"
)

// Blink toggles a single pixel between a color and its off-value: on for
// the first duty-cycle fraction of every period, off for the rest.
type Blink struct {
	px     *pixel.Pixel
	on     pixel.Color
	period time.Duration
	duty   float64
}

// NewBlink creates a Blink with the given period and duty cycle. The duty
// cycle must be in (0, 1] and the period positive.
func NewBlink(px *pixel.Pixel, on pixel.Color, period time.Duration, duty float64) (*Blink, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: blink period %v must be positive", pixel.ErrInvalidArgument, period)
	}
	if duty <= 0 || duty > 1 {
		return nil, fmt.Errorf("%w: duty cycle %v must be in (0, 1]", pixel.ErrInvalidArgument, duty)
	}
	return &Blink{px: px, on: on, period: period, duty: duty}, nil
}

func (b *Blink) Pixels() []*pixel.Pixel {
	return []*pixel.Pixel{b.px}
}

func (b *Blink) Render(elapsed time.Duration) error {
	if phase(elapsed, b.period) < b.duty {
		b.px.Set(b.on)
	} else {
		b.px.Blank()
	}
	return nil
}
