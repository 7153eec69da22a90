package pixel

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument marks construction or render parameters that violate
// their contract. Callers can test for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Color is a tuple of channel values, one per LED channel. Most devices use
// three channels (RGB), but nothing here assumes that: RGBW strips and test
// sentinels of any arity work the same. Channel range validity is the
// device's concern, not ours.
type Color []int

// Clone returns an independent copy of the color.
func (c Color) Clone() Color {
	out := make(Color, len(c))
	copy(out, c)
	return out
}

// Equal reports whether two colors have the same arity and channel values.
func (c Color) Equal(other Color) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// HueToRGB converts a hue in degrees [0, 360] at full saturation and value
// to an RGB triple, using the standard 60-degree sextant formula with a
// chroma of 255. Hues outside the range are an error, never clamped.
func HueToRGB(hue float64) (Color, error) {
	if math.IsNaN(hue) || hue < 0 || hue > 360 {
		return nil, fmt.Errorf("%w: hue %v must be between 0 and 360", ErrInvalidArgument, hue)
	}

	const chroma = 255
	huePrime := hue / 60.0
	intermediate := int(math.Round(chroma * (1.0 - math.Abs(math.Mod(huePrime, 2.0)-1.0))))

	switch {
	case huePrime <= 1.0:
		return Color{chroma, intermediate, 0}, nil
	case huePrime <= 2.0:
		return Color{intermediate, chroma, 0}, nil
	case huePrime <= 3.0:
		return Color{0, chroma, intermediate}, nil
	case huePrime <= 4.0:
		return Color{0, intermediate, chroma}, nil
	case huePrime <= 5.0:
		return Color{intermediate, 0, chroma}, nil
	default:
		return Color{chroma, 0, intermediate}, nil
	}
}

// Crossfade computes the linear blend between two colors of equal arity.
// progress 0 yields old, progress 1 yields new, values in between are
// rounded per channel. Crossfade(a, b, p) == Crossfade(b, a, 1-p).
func Crossfade(old, new Color, progress float64) (Color, error) {
	if math.IsNaN(progress) || progress < 0 || progress > 1 {
		return nil, fmt.Errorf("%w: progress %v must be between 0 and 1", ErrInvalidArgument, progress)
	}
	if len(old) != len(new) {
		return nil, fmt.Errorf("%w: cannot fade between colors of arity %d and %d", ErrInvalidArgument, len(old), len(new))
	}

	out := make(Color, len(old))
	for i := range old {
		out[i] = int(math.Round(float64(old[i])*(1.0-progress) + float64(new[i])*progress))
	}
	return out, nil
}

// RunnerFade returns the color a pixel should show for a moving dot of the
// given color located at position. Brightness falls off linearly with the
// distance between the dot and the pixel and is zero beyond distance 1.
func RunnerFade(c Color, position float64, index int) Color {
	distance := math.Abs(position - float64(index))
	if distance > 1.0 {
		return make(Color, len(c))
	}
	faded, _ := Crossfade(make(Color, len(c)), c, 1.0-distance)
	return faded
}
