// Package device bundles the output devices that satisfy pixel.Device: a
// truecolor terminal strip, a headless in-memory recorder, and a PWM-driven
// RGB LED for the Raspberry Pi.
package device

import "lautenbacher.net/neoglow/pixel"

// Memory is a headless device that records every committed frame. It is
// the drop-in stand-in for real hardware in tests and capture runs: the
// commit log shows exactly what a strip would have displayed, frame by
// frame.
type Memory struct {
	buf     []pixel.Color
	commits [][]pixel.Color
}

// NewMemory creates a recorder with n pixels, all initially RGB black.
func NewMemory(n int) *Memory {
	buf := make([]pixel.Color, n)
	for i := range buf {
		buf[i] = pixel.Color{0, 0, 0}
	}
	return &Memory{buf: buf}
}

func (m *Memory) Len() int {
	return len(m.buf)
}

func (m *Memory) Get(i int) pixel.Color {
	return m.buf[i]
}

func (m *Memory) Set(i int, c pixel.Color) {
	m.buf[i] = c
}

func (m *Memory) Colors() []pixel.Color {
	out := make([]pixel.Color, len(m.buf))
	for i, c := range m.buf {
		out[i] = c.Clone()
	}
	return out
}

// Commit appends a snapshot of the buffer to the commit log.
func (m *Memory) Commit() error {
	m.commits = append(m.commits, m.Colors())
	return nil
}

// Commits returns the log of committed frames, oldest first.
func (m *Memory) Commits() [][]pixel.Color {
	return m.commits
}

// LastCommit returns the most recently committed frame, or nil if nothing
// has been committed yet.
func (m *Memory) LastCommit() []pixel.Color {
	if len(m.commits) == 0 {
		return nil
	}
	return m.commits[len(m.commits)-1]
}
