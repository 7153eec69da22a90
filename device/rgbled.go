package device

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"

	"lautenbacher.net/neoglow/pixel"
)

// pwmCycle is the PWM cycle length; duty values map 1:1 onto 8-bit
// channel values.
const pwmCycle = 256

// pwmFreq is the PWM clock frequency handed to rpio: cycle length times
// the roughly 20 kHz flicker-free rate the LED is driven at.
const pwmFreq = pwmCycle * 20000

// Identity is the no-op calibration matrix.
var Identity = [3][3]float64{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// RGBLED drives a single non-addressable RGB LED through three GPIO PWM
// channels, wrapped to look like a strip of length 1. A 3x3 calibration
// matrix maps buffered channel values to per-pin duty cycles, so unevenly
// bright LED dies can be balanced in software.
type RGBLED struct {
	pins        [3]rpio.Pin
	active      [3]bool
	calibration [3][3]float64
	buf         pixel.Color
}

// NewRGBLED sets up the three pins (in R, G, B order) for PWM output.
// rpio.Open must have been called. The calibration matrix rows map the
// buffered color to the R, G and B duty cycles respectively.
func NewRGBLED(pins [3]uint8, calibration [3][3]float64) (*RGBLED, error) {
	led := &RGBLED{
		active:      [3]bool{true, true, true},
		calibration: calibration,
		buf:         pixel.Color{0, 0, 0},
	}
	for i, p := range pins {
		led.pins[i] = rpio.Pin(p)
		led.pins[i].Mode(rpio.Pwm)
		led.pins[i].Freq(pwmFreq)
	}
	return led, nil
}

// NewMonoLED wires a single pin as one channel of an otherwise dark LED.
// channel is 0, 1 or 2 for red, green or blue.
func NewMonoLED(pin uint8, channel int) (*RGBLED, error) {
	if channel < 0 || channel > 2 {
		return nil, fmt.Errorf("%w: channel %d must be 0, 1 or 2", pixel.ErrInvalidArgument, channel)
	}
	led := &RGBLED{
		calibration: Identity,
		buf:         pixel.Color{0, 0, 0},
	}
	led.active[channel] = true
	led.pins[channel] = rpio.Pin(pin)
	led.pins[channel].Mode(rpio.Pwm)
	led.pins[channel].Freq(pwmFreq)
	return led, nil
}

// NewRedLED is the common single-pin case: a monochrome red LED.
func NewRedLED(pin uint8) (*RGBLED, error) {
	return NewMonoLED(pin, 0)
}

// Pixel returns the LED's only pixel.
func (l *RGBLED) Pixel() *pixel.Pixel {
	return pixel.New(l, 0)
}

func (l *RGBLED) Len() int {
	return 1
}

func (l *RGBLED) Get(i int) pixel.Color {
	if i != 0 {
		panic(fmt.Sprintf("pixel index %d on a single-LED device", i))
	}
	return l.buf
}

func (l *RGBLED) Set(i int, c pixel.Color) {
	if i != 0 {
		panic(fmt.Sprintf("pixel index %d on a single-LED device", i))
	}
	l.buf = c
}

func (l *RGBLED) Colors() []pixel.Color {
	return []pixel.Color{l.buf.Clone()}
}

// duty maps the buffered color through the calibration matrix to the
// clamped duty cycle of channel i.
func (l *RGBLED) duty(i int) uint32 {
	d := 0.0
	for j := 0; j < 3 && j < len(l.buf); j++ {
		d += l.calibration[i][j] * float64(l.buf[j])
	}
	if d < 0 {
		return 0
	}
	if d > pwmCycle-1 {
		return pwmCycle - 1
	}
	return uint32(d)
}

// Commit applies the calibrated duty cycles to the active pins.
func (l *RGBLED) Commit() error {
	for i := 0; i < 3; i++ {
		if l.active[i] {
			l.pins[i].DutyCycle(l.duty(i), pwmCycle)
		}
	}
	return nil
}
