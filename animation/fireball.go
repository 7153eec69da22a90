package animation

import (
	"fmt"
	"time"

	"github.com/fogleman/ease"

	"lautenbacher.net/neoglow/pixel"
)

// Fireball colors. The flash starts near white-hot and decays through the
// ember color to black.
var (
	fireballHot   = pixel.Color{255, 220, 160}
	fireballEmber = pixel.Color{200, 40, 0}
)

// Fireball is a one-shot transient on a single pixel. It stays armed until
// its trigger time, burns for a bounded window, and afterwards leaves the
// pixel untouched. Outside the window Render is a no-op, so whatever else
// owns the pixel (a preset mouth color, say) shows through again.
type Fireball struct {
	px      *pixel.Pixel
	window  time.Duration
	trigger time.Duration
}

// DefaultFireballWindow is how long a fireball burns unless configured
// otherwise.
const DefaultFireballWindow = 2 * time.Second

// NewFireball creates a fireball with the default window, armed so far in
// the future it will not fire until Arm is called.
func NewFireball(px *pixel.Pixel) *Fireball {
	fb, _ := NewFireballWindow(px, DefaultFireballWindow)
	return fb
}

// NewFireballWindow creates a fireball with an explicit burn window.
func NewFireballWindow(px *pixel.Pixel, window time.Duration) (*Fireball, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: fireball window %v must be positive", pixel.ErrInvalidArgument, window)
	}
	return &Fireball{px: px, window: window, trigger: time.Duration(1<<62 - 1)}, nil
}

// Arm schedules the burn to start at the given elapsed time. Re-arming
// while burning restarts the flash.
func (f *Fireball) Arm(at time.Duration) {
	f.trigger = at
}

// Trigger returns the currently armed trigger time.
func (f *Fireball) Trigger() time.Duration {
	return f.trigger
}

// Window returns the burn window length.
func (f *Fireball) Window() time.Duration {
	return f.window
}

func (f *Fireball) Pixels() []*pixel.Pixel {
	return []*pixel.Pixel{f.px}
}

// Render draws the flash while elapsed is inside [trigger, trigger+window).
// The curve flares instantly to the hot color and eases out quadratically
// through the ember color: the first half of the window fades hot to
// ember, the second half ember to black.
func (f *Fireball) Render(elapsed time.Duration) error {
	since := elapsed - f.trigger
	if since < 0 || since >= f.window {
		return nil
	}

	progress := ease.OutQuad(since.Seconds() / f.window.Seconds())
	var c pixel.Color
	var err error
	if progress < 0.5 {
		c, err = pixel.Crossfade(fireballHot, fireballEmber, progress*2)
	} else {
		c, err = pixel.Crossfade(fireballEmber, make(pixel.Color, len(fireballEmber)), progress*2-1)
	}
	if err != nil {
		return err
	}
	f.px.Set(c)
	return nil
}
