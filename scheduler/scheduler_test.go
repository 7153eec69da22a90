package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lautenbacher.net/neoglow/animation"
	"lautenbacher.net/neoglow/device"
	"lautenbacher.net/neoglow/pixel"
)

// fakeClock runs the loop on simulated time: Sleep advances the clock by
// exactly the requested duration, and animations can add render cost
// through Advance.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.now = f.now.Add(d)
	return nil
}

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

// slowAnimation renders nothing but burns simulated time, for the frame
// budget compensation tests.
type slowAnimation struct {
	px    *pixel.Pixel
	clock *fakeClock
	cost  time.Duration
}

func (s *slowAnimation) Pixels() []*pixel.Pixel { return []*pixel.Pixel{s.px} }

func (s *slowAnimation) Render(time.Duration) error {
	s.clock.Advance(s.cost)
	return nil
}

// failingAnimation fails on the frame whose index matches failAt.
type failingAnimation struct {
	px     *pixel.Pixel
	frames int
	failAt int
	err    error
}

func (f *failingAnimation) Pixels() []*pixel.Pixel { return []*pixel.Pixel{f.px} }

func (f *failingAnimation) Render(time.Duration) error {
	defer func() { f.frames++ }()
	if f.frames == f.failAt {
		return f.err
	}
	f.px.Set(pixel.Color{1, 1, 1})
	return nil
}

func white() pixel.Color { return pixel.Color{255, 255, 255} }

func newBlink(t *testing.T, dev pixel.Device, index int, on pixel.Color, duty float64) *animation.Blink {
	t.Helper()
	b, err := animation.NewBlink(pixel.New(dev, index), on, time.Second, duty)
	require.NoError(t, err)
	return b
}

func TestRunCommitsOncePerFrame(t *testing.T) {
	dev := device.NewMemory(1)
	blink := newBlink(t, dev, 0, white(), 0.5)

	err := NewRunner(newFakeClock()).Run(context.Background(), []animation.Animation{blink}, Options{
		Runtime:   100 * time.Millisecond,
		FrameRate: 24,
		NoClear:   true,
	})
	require.NoError(t, err)

	// Frames land at 0, 1/24 and 2/24 before the runtime is exceeded.
	assert.Len(t, dev.Commits(), 3)
	for _, frame := range dev.Commits() {
		assert.Equal(t, white(), frame[0])
	}
}

func TestRunClearsAfterByDefault(t *testing.T) {
	dev := device.NewMemory(1)
	blink := newBlink(t, dev, 0, white(), 0.5)

	err := NewRunner(newFakeClock()).Run(context.Background(), []animation.Animation{blink}, Options{
		Runtime:   100 * time.Millisecond,
		FrameRate: 24,
	})
	require.NoError(t, err)

	require.Len(t, dev.Commits(), 4)
	assert.Equal(t, pixel.Color{0, 0, 0}, dev.LastCommit()[0])
}

func TestRunHonorsCustomOffValueOnClear(t *testing.T) {
	dev := device.NewMemory(1)
	off := pixel.Color{0, 0, 0, 9}
	blink, err := animation.NewBlink(pixel.NewWithOff(dev, 0, off), white(), time.Second, 0.5)
	require.NoError(t, err)

	err = NewRunner(newFakeClock()).Run(context.Background(), []animation.Animation{blink}, Options{
		Runtime:   50 * time.Millisecond,
		FrameRate: 24,
	})
	require.NoError(t, err)
	assert.Equal(t, off, dev.LastCommit()[0])
}

func TestRunNonPositiveRuntimeRendersNothingButStillClears(t *testing.T) {
	dev := device.NewMemory(1)
	dev.Set(0, white())
	blink := newBlink(t, dev, 0, white(), 0.5)

	err := NewRunner(newFakeClock()).Run(context.Background(), []animation.Animation{blink}, Options{
		Runtime: -100 * time.Millisecond,
	})
	require.NoError(t, err)

	require.Len(t, dev.Commits(), 1)
	assert.Equal(t, pixel.Color{0, 0, 0}, dev.LastCommit()[0])
}

func TestRunNonPositiveRuntimeWithNoClearTouchesNothing(t *testing.T) {
	dev := device.NewMemory(1)
	blink := newBlink(t, dev, 0, white(), 0.5)

	err := NewRunner(newFakeClock()).Run(context.Background(), []animation.Animation{blink}, Options{NoClear: true})
	require.NoError(t, err)
	assert.Empty(t, dev.Commits())
}

func TestRunEmptyAnimationList(t *testing.T) {
	err := NewRunner(newFakeClock()).Run(context.Background(), nil, Options{Runtime: time.Second})
	assert.NoError(t, err)
}

func TestRunSeparateDevicesCommitIndependently(t *testing.T) {
	redDev := device.NewMemory(1)
	greenDev := device.NewMemory(1)
	red := newBlink(t, redDev, 0, pixel.Color{255, 0, 0}, 0.5)
	green := newBlink(t, greenDev, 0, pixel.Color{0, 255, 0}, 0.05)

	err := NewRunner(newFakeClock()).Run(context.Background(), []animation.Animation{red, green}, Options{
		Runtime:   100 * time.Millisecond,
		FrameRate: 16,
	})
	require.NoError(t, err)

	// Frames at 0 and 62.5ms, then the clearing commit.
	wantRed := [][]pixel.Color{
		{{255, 0, 0}},
		{{255, 0, 0}},
		{{0, 0, 0}},
	}
	// The green blink's 5% duty cycle is over by the second frame.
	wantGreen := [][]pixel.Color{
		{{0, 255, 0}},
		{{0, 0, 0}},
		{{0, 0, 0}},
	}
	assert.Equal(t, wantRed, redDev.Commits())
	assert.Equal(t, wantGreen, greenDev.Commits())
}

func TestRunSharedDeviceCommitsOncePerFrame(t *testing.T) {
	dev := device.NewMemory(2)
	red := newBlink(t, dev, 0, pixel.Color{255, 0, 0}, 0.5)
	green := newBlink(t, dev, 1, pixel.Color{0, 255, 0}, 0.05)

	err := NewRunner(newFakeClock()).Run(context.Background(), []animation.Animation{red, green}, Options{
		Runtime:   100 * time.Millisecond,
		FrameRate: 16,
		NoClear:   true,
	})
	require.NoError(t, err)

	// One commit per frame carrying both pixels' latest values.
	want := [][]pixel.Color{
		{{255, 0, 0}, {0, 255, 0}},
		{{255, 0, 0}, {0, 0, 0}},
	}
	assert.Equal(t, want, dev.Commits())
}

func TestRunCompensatesForRenderCost(t *testing.T) {
	for _, cost := range []time.Duration{5 * time.Millisecond, 10 * time.Millisecond, 45 * time.Millisecond} {
		clock := newFakeClock()
		dev := device.NewMemory(1)
		anim := &slowAnimation{px: pixel.New(dev, 0), clock: clock, cost: cost}

		err := NewRunner(clock).Run(context.Background(), []animation.Animation{anim}, Options{
			Runtime:   310 * time.Millisecond,
			FrameRate: 20,
			NoClear:   true,
		})
		require.NoError(t, err)
		assert.Len(t, dev.Commits(), 7, "render cost %v", cost)
	}
}

func TestRunKeepsGoingWhenRenderCostExceedsFrameBudget(t *testing.T) {
	clock := newFakeClock()
	dev := device.NewMemory(1)
	anim := &slowAnimation{px: pixel.New(dev, 0), clock: clock, cost: 50 * time.Millisecond}

	// At 200 fps the 50ms render blows the 5ms budget every frame; the
	// loop just runs at the speed the renders allow.
	err := NewRunner(clock).Run(context.Background(), []animation.Animation{anim}, Options{
		Runtime:   325 * time.Millisecond,
		FrameRate: 200,
		NoClear:   true,
	})
	require.NoError(t, err)
	assert.Len(t, dev.Commits(), 7)
}

func TestRunRenderErrorStillClears(t *testing.T) {
	dev := device.NewMemory(1)
	boom := errors.New("boom")
	anim := &failingAnimation{px: pixel.New(dev, 0), failAt: 2, err: boom}

	err := NewRunner(newFakeClock()).Run(context.Background(), []animation.Animation{anim}, Options{
		Runtime:   time.Second,
		FrameRate: 20,
	})
	assert.ErrorIs(t, err, boom)

	// Two good frames, then the teardown commit.
	require.Len(t, dev.Commits(), 3)
	assert.Equal(t, pixel.Color{0, 0, 0}, dev.LastCommit()[0])
}

func TestRunRenderPanicStillClears(t *testing.T) {
	dev := device.NewMemory(1)
	anim := &panickyAnimation{px: pixel.New(dev, 0)}

	assert.Panics(t, func() {
		_ = NewRunner(newFakeClock()).Run(context.Background(), []animation.Animation{anim}, Options{
			Runtime:   time.Second,
			FrameRate: 20,
		})
	})
	require.Len(t, dev.Commits(), 1)
	assert.Equal(t, pixel.Color{0, 0, 0}, dev.LastCommit()[0])
}

type panickyAnimation struct {
	px *pixel.Pixel
}

func (p *panickyAnimation) Pixels() []*pixel.Pixel { return []*pixel.Pixel{p.px} }

func (p *panickyAnimation) Render(time.Duration) error { panic("render exploded") }

func TestRunCancellationInterruptsSleepAndClears(t *testing.T) {
	dev := device.NewMemory(1)
	blink := newBlink(t, dev, 0, white(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := Run(ctx, []animation.Animation{blink}, Options{Forever: true, FrameRate: 10})
	assert.ErrorIs(t, err, context.Canceled)

	require.NotEmpty(t, dev.Commits())
	assert.Equal(t, pixel.Color{0, 0, 0}, dev.LastCommit()[0])
}

func TestRunAfterFrameHook(t *testing.T) {
	dev := device.NewMemory(1)
	blink := newBlink(t, dev, 0, white(), 0.5)

	var seen []time.Duration
	err := NewRunner(newFakeClock()).Run(context.Background(), []animation.Animation{blink}, Options{
		Runtime:   100 * time.Millisecond,
		FrameRate: 24,
		NoClear:   true,
		AfterFrame: func(elapsed time.Duration) error {
			seen = append(seen, elapsed)
			return nil
		},
	})
	require.NoError(t, err)
	require.Len(t, seen, 3)
	assert.Equal(t, time.Duration(0), seen[0])
}

func TestRunAfterFrameErrorStillClears(t *testing.T) {
	dev := device.NewMemory(1)
	blink := newBlink(t, dev, 0, white(), 0.5)
	boom := errors.New("hook failed")

	err := NewRunner(newFakeClock()).Run(context.Background(), []animation.Animation{blink}, Options{
		Runtime:    time.Second,
		AfterFrame: func(time.Duration) error { return boom },
	})
	assert.ErrorIs(t, err, boom)
	require.Len(t, dev.Commits(), 2)
	assert.Equal(t, pixel.Color{0, 0, 0}, dev.LastCommit()[0])
}

func TestRunSharedPixelLastAnimationWins(t *testing.T) {
	dev := device.NewMemory(1)
	px := pixel.New(dev, 0)
	first, err := animation.NewBlink(px, pixel.Color{255, 0, 0}, time.Second, 1)
	require.NoError(t, err)
	second, err := animation.NewBlink(px, pixel.Color{0, 0, 255}, time.Second, 1)
	require.NoError(t, err)

	err = NewRunner(newFakeClock()).Run(context.Background(), []animation.Animation{first, second}, Options{
		Runtime:   30 * time.Millisecond,
		FrameRate: 60,
		NoClear:   true,
	})
	require.NoError(t, err)

	// Supplied order is the documented tie-break: the later animation's
	// value is the one committed.
	for _, frame := range dev.Commits() {
		assert.Equal(t, pixel.Color{0, 0, 255}, frame[0])
	}
}
