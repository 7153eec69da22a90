// Package dfplayer encodes commands for the DFPlayer Mini SD MP3 module.
// Protocol reference: https://wiki.dfrobot.com/DFPlayer_Mini_SKU_DFR0299
//
// The transport is a serial-like port treated as fire-and-forget: nothing
// is read back, and the checksum and feedback bytes the protocol marks
// optional are omitted.
package dfplayer

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/gammazero/deque"

	"lautenbacher.net/neoglow/pixel"
)

const (
	frameStart   = 0x7E
	frameVersion = 0xFF
	frameLength  = 0x06
	frameEnd     = 0xEF

	cmdPlayTrack = 0x03

	maxTrack = 2999
)

// DefaultGap is the minimum spacing between commands on the wire; the
// DFPlayer drops commands that arrive back to back.
const DefaultGap = 100 * time.Millisecond

// Command builds the byte frame for a command with its two data bytes.
func Command(code, high, low byte) []byte {
	return []byte{frameStart, frameVersion, frameLength, code, 0x00, high, low, frameEnd}
}

// Player queues track commands for a DFPlayer on a serial-like port and
// paces them onto the wire.
type Player struct {
	port     io.Writer
	gap      time.Duration
	pending  deque.Deque[[]byte]
	lastSend time.Duration
	sentAny  bool
}

// NewPlayer wraps the port with the default command gap.
func NewPlayer(port io.Writer) *Player {
	return &Player{port: port, gap: DefaultGap}
}

// NewPlayerGap wraps the port with an explicit command gap.
func NewPlayerGap(port io.Writer, gap time.Duration) *Player {
	return &Player{port: port, gap: gap}
}

// PlayTrack queues the command to play track n (as numbered on the SD
// card, "0001.mp3" being track 1).
func (p *Player) PlayTrack(n int) error {
	if n < 1 || n > maxTrack {
		return fmt.Errorf("%w: track %d must be between 1 and %d", pixel.ErrInvalidArgument, n, maxTrack)
	}
	p.pending.PushBack(Command(cmdPlayTrack, byte(n>>8), byte(n&0xFF)))
	return nil
}

// PlayRandom queues one track chosen from tracks by rng.
func (p *Player) PlayRandom(tracks []int, rng *rand.Rand) error {
	if len(tracks) == 0 {
		return fmt.Errorf("%w: no tracks to choose from", pixel.ErrInvalidArgument)
	}
	return p.PlayTrack(tracks[rng.Intn(len(tracks))])
}

// Pending returns the number of queued commands not yet on the wire.
func (p *Player) Pending() int {
	return p.pending.Len()
}

// Pump writes queued commands to the port, at most one per command gap.
// elapsed is the caller's animation clock; the frame loop calls Pump once
// per frame.
func (p *Player) Pump(elapsed time.Duration) error {
	for p.pending.Len() > 0 {
		if p.sentAny && elapsed-p.lastSend < p.gap {
			return nil
		}
		frame := p.pending.PopFront()
		if _, err := p.port.Write(frame); err != nil {
			return err
		}
		p.lastSend = elapsed
		p.sentAny = true
	}
	return nil
}
