package device

import (
	"fmt"
	"io"
	"strings"

	"lautenbacher.net/neoglow/pixel"
)

const (
	resetSequence  = "\033[0m"
	pixelGlyph     = "⬤" // BLACK LARGE CIRCLE
	foregroundCode = 38
	backgroundCode = 48
)

// sgrColor builds a truecolor SGR sequence for the first three channels of
// c. Channels are clamped to [0, 255] here: what to do with out-of-range
// values is the device's call, and a terminal has nothing better.
func sgrColor(selector int, c pixel.Color) string {
	rgb := [3]int{}
	for i := 0; i < 3 && i < len(c); i++ {
		v := c[i]
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		rgb[i] = v
	}
	return fmt.Sprintf("\033[%d;2;%d;%d;%dm", selector, rgb[0], rgb[1], rgb[2])
}

// TermStrip is a virtual light strip that renders its pixels as colored
// glyphs on a truecolor-capable terminal. Commit draws one line; in
// Animate mode the line ends with a carriage return instead of a newline
// so successive frames draw in place.
type TermStrip struct {
	// Background is the color drawn between and around the pixels.
	Background pixel.Color
	// Spacing is the number of background characters between pixels.
	Spacing int
	// Animate selects in-place redrawing over appending lines.
	Animate bool

	buf []pixel.Color
	out io.Writer
}

// NewTermStrip creates a strip of n pixels writing to out, with a black
// background and single-space pixel spacing.
func NewTermStrip(n int, out io.Writer) *TermStrip {
	buf := make([]pixel.Color, n)
	for i := range buf {
		buf[i] = pixel.Color{0, 0, 0}
	}
	return &TermStrip{
		Background: pixel.Color{0, 0, 0},
		Spacing:    1,
		buf:        buf,
		out:        out,
	}
}

func (t *TermStrip) Len() int {
	return len(t.buf)
}

func (t *TermStrip) Get(i int) pixel.Color {
	return t.buf[i]
}

func (t *TermStrip) Set(i int, c pixel.Color) {
	t.buf[i] = c
}

func (t *TermStrip) Colors() []pixel.Color {
	out := make([]pixel.Color, len(t.buf))
	for i, c := range t.buf {
		out[i] = c.Clone()
	}
	return out
}

// Commit renders the buffered pixels to the output writer.
func (t *TermStrip) Commit() error {
	var sb strings.Builder
	spacer := strings.Repeat(" ", t.Spacing)

	sb.WriteString(sgrColor(backgroundCode, t.Background))
	sb.WriteString(spacer)
	for i, c := range t.buf {
		if i > 0 {
			sb.WriteString(spacer)
		}
		sb.WriteString(sgrColor(foregroundCode, c))
		sb.WriteString(pixelGlyph)
	}
	sb.WriteString(spacer)
	sb.WriteString(resetSequence)
	if t.Animate {
		sb.WriteString("\r")
	} else {
		sb.WriteString("\n")
	}

	_, err := io.WriteString(t.out, sb.String())
	return err
}
