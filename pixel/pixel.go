package pixel

// Device is the output-device capability the engine renders onto. A device
// buffers one color per pixel; nothing becomes visible until Commit. Any
// implementation satisfying this interface is interchangeable: real
// hardware, a terminal strip, or an in-memory recorder for tests.
//
// What happens on an out-of-range index is the device's own policy. The
// bundled devices index their buffers directly, so a bad index panics with
// the usual bounds error; upper layers never catch or mask that.
type Device interface {
	// Len returns the number of pixels the device drives.
	Len() int
	// Get returns the buffered color at index i.
	Get(i int) Color
	// Set buffers a color at index i without committing it.
	Set(i int, c Color)
	// Colors returns the buffered colors in index order.
	Colors() []Color
	// Commit makes the buffered colors take effect.
	Commit() error
}

// Pixel is an addressable reference to one LED on a device. NeoPixel-style
// strips are written by index assignment, which makes it awkward to hand an
// animation "its" LEDs when they live on different strips; a Pixel wraps
// the device handle and the index so animations can work by reference.
//
// The device is shared, not owned: many Pixels may point at the same
// device. A Pixel is immutable after construction.
type Pixel struct {
	dev   Device
	index int
	off   Color
}

// New creates a Pixel for the LED at index on dev, with an RGB black
// off-value.
func New(dev Device, index int) *Pixel {
	return NewWithOff(dev, index, Color{0, 0, 0})
}

// NewWithOff creates a Pixel whose Blank writes the given off-value, for
// devices that are not plain RGB.
func NewWithOff(dev Device, index int, off Color) *Pixel {
	return &Pixel{dev: dev, index: index, off: off}
}

// Set buffers color on the underlying device. It does not commit.
func (p *Pixel) Set(c Color) {
	p.dev.Set(p.index, c)
}

// Blank buffers the pixel's off-value. It does not commit.
func (p *Pixel) Blank() {
	p.Set(p.off)
}

// Device returns the shared device handle the pixel lives on.
func (p *Pixel) Device() Device {
	return p.dev
}

// Index returns the pixel's position on its device.
func (p *Pixel) Index() int {
	return p.index
}

// Off returns the configured off-value.
func (p *Pixel) Off() Color {
	return p.off
}
