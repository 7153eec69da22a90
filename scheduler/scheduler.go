// Package scheduler drives the frame loop: it advances time, renders all
// animations, commits every involved device once per frame, compensates
// for render cost to hold the target frame rate, and guarantees teardown
// on every exit path.
package scheduler

import (
	"context"
	"time"

	"lautenbacher.net/neoglow/animation"
	"lautenbacher.net/neoglow/pixel"
)

// DefaultFrameRate is used when Options.FrameRate is zero.
const DefaultFrameRate = 60.0

// Clock abstracts the monotonic clock and the end-of-frame sleep so tests
// can run the loop on simulated time.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until the context is cancelled, in which
	// case it returns the context's error.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Options configures a run. The zero value means: bounded run of zero
// length (no frames), default frame rate, blank everything on exit.
type Options struct {
	// Runtime bounds the total run length. Zero or negative renders no
	// frames at all. Ignored when Forever is set.
	Runtime time.Duration
	// Forever runs until the context is cancelled.
	Forever bool
	// FrameRate is the target frames per second; zero selects
	// DefaultFrameRate. Rates so high that the frame budget rounds to
	// zero simply run the loop uncapped.
	FrameRate float64
	// NoClear leaves the last rendered frame on the devices instead of
	// blanking and committing them on exit.
	NoClear bool
	// AfterFrame, when set, runs after each frame's commits. An error
	// exits the loop through the regular teardown path.
	AfterFrame func(elapsed time.Duration) error
}

// Runner executes animations on an injectable clock.
type Runner struct {
	clock Clock
}

// NewRunner creates a Runner on the given clock; nil selects the system
// clock.
func NewRunner(clock Clock) *Runner {
	if clock == nil {
		clock = systemClock{}
	}
	return &Runner{clock: clock}
}

// Run executes the animations on the system clock. See Runner.Run.
func Run(ctx context.Context, animations []animation.Animation, opts Options) error {
	return NewRunner(nil).Run(ctx, animations, opts)
}

// Run drives one synchronous render loop across the given animations for
// the configured runtime. Animations render in the order supplied, so when
// two share a pixel the later one wins the frame; devices commit exactly
// once per frame, in the order they are first referenced.
//
// Whatever ends the loop (runtime expiry, context cancellation, a render
// or commit error, even a panic inside Render), the teardown runs: unless
// NoClear is set, every pixel is blanked and every device committed once
// more, so hardware is never left in a half-rendered state. An empty
// animation list renders nothing but still honors the teardown contract.
func (r *Runner) Run(ctx context.Context, animations []animation.Animation, opts Options) (err error) {
	pixels := unionPixels(animations)
	devices := unionDevices(pixels)

	frameRate := opts.FrameRate
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	step := time.Duration(float64(time.Second) / frameRate)

	defer func() {
		if opts.NoClear {
			return
		}
		for _, px := range pixels {
			px.Blank()
		}
		for _, dev := range devices {
			if cerr := dev.Commit(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()

	if !opts.Forever && opts.Runtime <= 0 {
		return nil
	}

	start := r.clock.Now()
	for {
		stepStart := r.clock.Now()
		elapsed := stepStart.Sub(start)
		if !opts.Forever && elapsed > opts.Runtime {
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		for _, a := range animations {
			if rerr := a.Render(elapsed); rerr != nil {
				return rerr
			}
		}
		for _, dev := range devices {
			if cerr := dev.Commit(); cerr != nil {
				return cerr
			}
		}
		if opts.AfterFrame != nil {
			if ferr := opts.AfterFrame(elapsed); ferr != nil {
				return ferr
			}
		}

		computeCost := r.clock.Now().Sub(stepStart)
		if computeCost < step {
			if serr := r.clock.Sleep(ctx, step-computeCost); serr != nil {
				return serr
			}
		}
	}
}

// unionPixels collects the distinct pixels across all animations, in the
// order they are first encountered.
func unionPixels(animations []animation.Animation) []*pixel.Pixel {
	var pixels []*pixel.Pixel
	seen := make(map[*pixel.Pixel]bool)
	for _, a := range animations {
		for _, px := range a.Pixels() {
			if !seen[px] {
				seen[px] = true
				pixels = append(pixels, px)
			}
		}
	}
	return pixels
}

// unionDevices collects the distinct devices the pixels reference, in the
// order they are first encountered. Commit order is deterministic per run.
func unionDevices(pixels []*pixel.Pixel) []pixel.Device {
	var devices []pixel.Device
	seen := make(map[pixel.Device]bool)
	for _, px := range pixels {
		if dev := px.Device(); !seen[dev] {
			seen[dev] = true
			devices = append(devices, dev)
		}
	}
	return devices
}
