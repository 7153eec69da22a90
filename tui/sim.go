// Package tui renders a virtual light strip inside a terminal UI, with a
// live log pane underneath. It satisfies pixel.Device, so the scheduler
// drives it exactly like hardware.
package tui

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"lautenbacher.net/neoglow/logging"
	"lautenbacher.net/neoglow/pixel"
)

const simGlyph = "⬤"

// Sim is a tview-based virtual strip. Commit repaints the strip pane;
// log output flows into the bottom pane once Start has taken over the
// terminal.
type Sim struct {
	app     *tview.Application
	ledView *tview.TextView
	logView *tview.TextView

	buf     []pixel.Color
	spacing int
	running atomic.Bool
	onQuit  func()
}

// NewSim creates a simulator for n pixels. onQuit is called when the user
// quits the UI (q or Ctrl-C); use it to cancel the run context.
func NewSim(n, spacing int, onQuit func()) *Sim {
	buf := make([]pixel.Color, n)
	for i := range buf {
		buf[i] = pixel.Color{0, 0, 0}
	}
	s := &Sim{
		buf:     buf,
		spacing: spacing,
		onQuit:  onQuit,
	}

	s.ledView = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	s.ledView.SetBorder(true).SetTitle(" neoglow ")

	s.logView = tview.NewTextView().SetDynamicColors(true).SetMaxLines(200)
	s.logView.SetBorder(true).SetTitle(" log ")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.ledView, 3, 0, false).
		AddItem(s.logView, 0, 1, true)

	s.app = tview.NewApplication().SetRoot(layout, true)
	s.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' || event.Key() == tcell.KeyCtrlC {
			if s.onQuit != nil {
				s.onQuit()
			}
			return nil
		}
		return event
	})
	return s
}

// Start takes over the terminal in its own goroutine and redirects
// buffered log output into the log pane.
func (s *Sim) Start() {
	s.running.Store(true)
	go func() {
		defer s.running.Store(false)
		if err := s.app.Run(); err != nil {
			panic(err)
		}
	}()
	_ = logging.SetOutput(tview.ANSIWriter(s.logView))
}

// Stop shuts the UI down and parks log output back in the buffer.
func (s *Sim) Stop() {
	if s.running.Swap(false) {
		logging.BufferOutput()
		s.app.Stop()
	}
}

func (s *Sim) Len() int {
	return len(s.buf)
}

func (s *Sim) Get(i int) pixel.Color {
	return s.buf[i]
}

func (s *Sim) Set(i int, c pixel.Color) {
	s.buf[i] = c
}

func (s *Sim) Colors() []pixel.Color {
	out := make([]pixel.Color, len(s.buf))
	for i, c := range s.buf {
		out[i] = c.Clone()
	}
	return out
}

// Commit repaints the strip pane with the buffered colors.
func (s *Sim) Commit() error {
	line := stripLine(s.buf, s.spacing)
	if !s.running.Load() {
		s.ledView.SetText(line)
		return nil
	}
	s.app.QueueUpdateDraw(func() {
		s.ledView.SetText(line)
	})
	return nil
}

// stripLine formats the buffer as a tview color-tagged glyph row. Values
// outside [0, 255] are clamped, which is this device's policy for
// out-of-range channels.
func stripLine(buf []pixel.Color, spacing int) string {
	var sb strings.Builder
	spacer := strings.Repeat(" ", spacing)
	for i, c := range buf {
		if i > 0 {
			sb.WriteString(spacer)
		}
		rgb := [3]int{}
		for j := 0; j < 3 && j < len(c); j++ {
			v := c[j]
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			rgb[j] = v
		}
		fmt.Fprintf(&sb, "[#%02x%02x%02x]%s[-]", rgb[0], rgb[1], rgb[2], simGlyph)
	}
	return sb.String()
}
