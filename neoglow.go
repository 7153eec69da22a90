// neoglow drives addressable LED animations on a virtual strip, in a
// terminal simulator or on real pins, with optional remote control for
// the ghast prop.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/stianeikeland/go-rpio/v4"

	"lautenbacher.net/neoglow/animation"
	"lautenbacher.net/neoglow/config"
	"lautenbacher.net/neoglow/device"
	"lautenbacher.net/neoglow/dfplayer"
	"lautenbacher.net/neoglow/ghast"
	"lautenbacher.net/neoglow/logging"
	"lautenbacher.net/neoglow/pixel"
	"lautenbacher.net/neoglow/remote"
	"lautenbacher.net/neoglow/scheduler"
	"lautenbacher.net/neoglow/tui"
	"lautenbacher.net/neoglow/util"
)

// errReload restarts the run loop after a config file edit.
var errReload = errors.New("configuration changed")

func main() {
	confFile := flag.String("config", "", "YAML config file (built-in defaults when empty)")
	sim := flag.Bool("sim", false, "render in a TUI simulator instead of plain terminal output")
	keep := flag.Bool("keep", false, "leave the last frame lit instead of blanking on exit")
	runtime := flag.Duration("runtime", 0, "stop after this long (0 runs until interrupted)")
	fps := flag.Float64("fps", 0, "frames per second (0 keeps the configured rate)")
	ghastMode := flag.Bool("ghast", false, "run the ghast prop instead of the plain animations")
	flag.Parse()

	conf := config.Default()
	if *confFile != "" {
		var err error
		if conf, err = config.Load(*confFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	applyOverrides(conf, *runtime, *fps, *keep, *ghastMode)

	if err := logging.Init(*sim, conf.Logging.Level, conf.Logging.Format, conf.Logging.File); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reloads := util.NewAtomicEvent[*config.Config]()
	if *confFile != "" {
		go func() {
			if err := config.Watch(ctx, *confFile, reloads.Send); err != nil && !errors.Is(err, context.Canceled) {
				slog.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	if err := run(ctx, conf, *sim, stop, reloads); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "error", err)
		logging.Close()
		os.Exit(1)
	}
	slog.Info("done")
}

// applyOverrides folds the command line flags that shadow config file
// settings into conf. Zero values leave the configured setting alone;
// the booleans can only switch their feature on.
func applyOverrides(conf *config.Config, runtime time.Duration, fps float64, keep, ghastMode bool) {
	if runtime > 0 {
		conf.Run.Runtime = runtime
	}
	if fps > 0 {
		conf.Run.FrameRate = fps
	}
	if keep {
		conf.Run.KeepLit = true
	}
	if ghastMode {
		conf.Ghast.Enabled = true
	}
}

// run executes the configured animations, rebuilding everything whenever
// the config file is edited, until the context is cancelled or the
// configured runtime expires.
func run(ctx context.Context, conf *config.Config, sim bool, quit func(), reloads *util.AtomicEvent[*config.Config]) error {
	for {
		err := runOnce(ctx, conf, sim, quit, reloads)
		if !errors.Is(err, errReload) {
			return err
		}
		conf = reloads.Value()
		slog.Info("restarting with updated configuration")
	}
}

func runOnce(ctx context.Context, conf *config.Config, sim bool, quit func(), reloads *util.AtomicEvent[*config.Config]) error {
	var dev pixel.Device
	if sim {
		s := tui.NewSim(conf.Strip.Pixels, conf.Strip.Spacing, quit)
		s.Start()
		defer s.Stop()
		dev = s
	} else {
		strip := device.NewTermStrip(conf.Strip.Pixels, os.Stdout)
		strip.Spacing = conf.Strip.Spacing
		strip.Animate = true
		if len(conf.Strip.Background) > 0 {
			strip.Background = pixel.Color(conf.Strip.Background)
		}
		dev = strip
	}

	if conf.Ghast.Enabled {
		return runGhast(ctx, conf, dev)
	}

	anims, err := buildAnimations(conf, dev)
	if err != nil {
		return err
	}
	slog.Info("running animations", "count", len(anims), "pixels", conf.Strip.Pixels, "fps", conf.Run.FrameRate)

	return scheduler.Run(ctx, anims, scheduler.Options{
		Runtime:   conf.Run.Runtime,
		Forever:   conf.Run.Runtime <= 0,
		FrameRate: conf.Run.FrameRate,
		NoClear:   conf.Run.KeepLit,
		AfterFrame: func(time.Duration) error {
			if _, ok := reloads.Poll(); ok {
				return errReload
			}
			return nil
		},
	})
}

// buildAnimations assembles the enabled animations over the strip. With
// nothing enabled it falls back to a random color cycle.
func buildAnimations(conf *config.Config, dev pixel.Device) ([]animation.Animation, error) {
	pixels := make([]*pixel.Pixel, dev.Len())
	for i := range pixels {
		pixels[i] = pixel.New(dev, i)
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var anims []animation.Animation
	if conf.Blink.Enabled {
		a, err := animation.NewBlink(pixels[0], pixel.Color(conf.Blink.RGB), conf.Blink.Period, conf.Blink.Duty)
		if err != nil {
			return nil, err
		}
		anims = append(anims, a)
	}
	if conf.BeeFace.Enabled {
		if len(pixels) < animation.FacePixels {
			return nil, fmt.Errorf("bee face needs %d pixels but the strip has %d", animation.FacePixels, len(pixels))
		}
		a, err := animation.NewBeeFace(pixels[:animation.FacePixels], conf.BeeFace.Period, conf.BeeFace.Duty)
		if err != nil {
			return nil, err
		}
		anims = append(anims, a)
	}
	if conf.Runner.Enabled {
		a, err := animation.NewRunner(pixels, pixel.Color(conf.Runner.RGB), conf.Runner.Period)
		if err != nil {
			return nil, err
		}
		anims = append(anims, a)
	}
	if conf.Gradient.Enabled {
		a, err := animation.NewGradient(pixels, animation.DefaultGradient, conf.Gradient.Period)
		if err != nil {
			return nil, err
		}
		anims = append(anims, a)
	}
	if conf.RandomCycle.Enabled || len(anims) == 0 {
		a, err := animation.NewRandomCycle(pixels, conf.RandomCycle.Transition, rng)
		if err != nil {
			return nil, err
		}
		anims = append(anims, a)
	}
	return anims, nil
}

// runGhast wires the ghast prop: the first 12 strip pixels are the face,
// the next pixel (or a GPIO-driven LED) the mouth, sounds go to the
// DFPlayer serial port and control arrives over MQTT.
func runGhast(ctx context.Context, conf *config.Config, dev pixel.Device) error {
	need := animation.FacePixels
	if len(conf.Ghast.MouthPins) == 0 {
		need++
	}
	if dev.Len() < need {
		return fmt.Errorf("the ghast needs %d pixels but the strip has %d", need, dev.Len())
	}

	rc, err := remote.Dial(conf.Ghast.MQTT)
	if err != nil {
		return err
	}
	defer rc.Close()

	var port io.Writer = io.Discard
	if conf.Ghast.SerialPort != "" {
		f, err := os.OpenFile(conf.Ghast.SerialPort, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("opening sound module port: %w", err)
		}
		defer f.Close()
		port = f
	} else {
		slog.Warn("no serial port configured, sound commands are discarded")
	}

	face := make([]*pixel.Pixel, animation.FacePixels)
	for i := range face {
		face[i] = pixel.New(dev, i)
	}

	var mouth *pixel.Pixel
	if pins := conf.Ghast.MouthPins; len(pins) == 3 {
		if err := rpio.Open(); err != nil {
			return fmt.Errorf("opening GPIO for the mouth LED: %w", err)
		}
		defer rpio.Close()
		led, err := device.NewRGBLED([3]uint8{pins[0], pins[1], pins[2]}, device.Identity)
		if err != nil {
			return err
		}
		mouth = led.Pixel()
	} else {
		mouth = pixel.New(dev, animation.FacePixels)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	g, err := ghast.New(face, mouth, dfplayer.NewPlayer(port), rc, conf.Ghast, rng)
	if err != nil {
		return err
	}

	slog.Info("ghast awake", "broker", conf.Ghast.MQTT.URL, "port", conf.Ghast.SerialPort)
	return g.Run(ctx, conf.Run.Runtime, conf.Run.FrameRate)
}
