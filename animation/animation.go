// Package animation holds the animation contract and the catalog of
// concrete animations. An animation owns an ordered set of pixels and maps
// elapsed time to colors for them; it never commits a device itself, that
// is the scheduler's job.
package animation

import (
	"time"

	"lautenbacher.net/neoglow/pixel"
)

// Animation is a pure time-to-color mapping for its owned pixels.
//
// Render must be a function of elapsed and construction parameters only: it
// may be called repeatedly and arbitrarily far forward (or backward) in
// time, and rendering t after some unrelated t' must give exactly the frame
// a fresh instance would give for t. Render buffers colors through
// pixel.Set and must not commit.
type Animation interface {
	Pixels() []*pixel.Pixel
	Render(elapsed time.Duration) error
}

// phase returns how far elapsed is into its current period, as a fraction
// in [0, 1). Plain modulo arithmetic, so huge elapsed values do not drift.
func phase(elapsed, period time.Duration) float64 {
	p := elapsed.Seconds() / period.Seconds()
	frac := p - float64(int64(p))
	if frac < 0 {
		frac += 1
	}
	return frac
}
