// Package ghast runs the animated ghast prop: a 12-pixel face, a mouth
// that launches fireballs, mood sounds through a DFPlayer, and app control
// over three virtual channels.
package ghast

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"lautenbacher.net/neoglow/animation"
	"lautenbacher.net/neoglow/config"
	"lautenbacher.net/neoglow/dfplayer"
	"lautenbacher.net/neoglow/pixel"
	"lautenbacher.net/neoglow/scheduler"
	"lautenbacher.net/neoglow/util"
)

// Virtual control channels, matching the phone app's pin layout: V0
// toggles the mood, V1 launches a fireball, V2 reports the fireball
// cooldown as 0..1024.
const (
	MoodChannel     = "V0"
	FireChannel     = "V1"
	CooldownChannel = "V2"
)

const cooldownScale = 1024

var angryColor = pixel.Color{128, 0, 0}

// Remote is the slice of the remote-control client the ghast needs.
type Remote interface {
	Write(channel string, value int) error
	Handle(channel string, fn func(int)) error
}

// Ghast wires the face and mouth animations to sound and remote control.
// Remote handlers run on the MQTT goroutine and only ever Send on atomic
// events; all state changes happen on the frame loop in the AfterFrame
// hook, so renders stay race-free.
type Ghast struct {
	face     *animation.BeeFace
	fireball *animation.Fireball
	pixels   []*pixel.Pixel

	player *dfplayer.Player
	remote Remote
	conf   config.GhastConfig
	rng    *rand.Rand

	moodEvents *util.AtomicEvent[bool]
	fireEvents *util.AtomicEvent[bool]

	angry       bool
	calmAfter   bool
	coolingDown bool
	nextSoundAt time.Duration
}

// New builds a ghast from its face pixels (exactly 12) and mouth pixel.
func New(face []*pixel.Pixel, mouth *pixel.Pixel, player *dfplayer.Player, rc Remote, conf config.GhastConfig, rng *rand.Rand) (*Ghast, error) {
	beeface, err := animation.NewBeeFace(face, 8*time.Second, 0.75)
	if err != nil {
		return nil, err
	}

	g := &Ghast{
		face:       beeface,
		fireball:   animation.NewFireball(mouth),
		pixels:     append(append([]*pixel.Pixel{}, face...), mouth),
		player:     player,
		remote:     rc,
		conf:       conf,
		rng:        rng,
		moodEvents: util.NewAtomicEvent[bool](),
		fireEvents: util.NewAtomicEvent[bool](),
	}

	if err := rc.Handle(MoodChannel, func(v int) { g.moodEvents.Send(v == 1) }); err != nil {
		return nil, fmt.Errorf("subscribing mood channel: %w", err)
	}
	if err := rc.Handle(FireChannel, func(v int) {
		if v == 1 {
			g.fireEvents.Send(true)
		}
	}); err != nil {
		return nil, fmt.Errorf("subscribing fire channel: %w", err)
	}
	return g, nil
}

// Animations returns the render list in layering order: the face palette,
// the angry override, then the fireball on top.
func (g *Ghast) Animations() []animation.Animation {
	return []animation.Animation{g.face, (*angryOverride)(g), g.fireball}
}

// angryOverride paints everything solid red while the ghast is angry. It
// renders after the face so anger wins the frame, and before the fireball
// so the flash still shows on the mouth.
type angryOverride Ghast

func (o *angryOverride) Pixels() []*pixel.Pixel { return o.pixels }

func (o *angryOverride) Render(time.Duration) error {
	if !o.angry {
		return nil
	}
	for _, px := range o.pixels {
		px.Set(angryColor)
	}
	return nil
}

// Run drives the ghast until the context is cancelled (or for runtime, if
// positive), blanking everything on the way out.
func (g *Ghast) Run(ctx context.Context, runtime time.Duration, frameRate float64) error {
	return scheduler.Run(ctx, g.Animations(), scheduler.Options{
		Runtime:    runtime,
		Forever:    runtime <= 0,
		FrameRate:  frameRate,
		AfterFrame: g.afterFrame,
	})
}

// afterFrame is the per-frame bookkeeping: drain remote events, report the
// fireball cooldown, schedule mood sounds and pace the sound port.
func (g *Ghast) afterFrame(elapsed time.Duration) error {
	if angry, ok := g.moodEvents.Poll(); ok {
		if angry && !g.angry {
			if err := g.player.PlayTrack(g.conf.AngryTrack); err != nil {
				return err
			}
		}
		g.angry = angry
	}

	if _, ok := g.fireEvents.Poll(); ok {
		g.fireball.Arm(elapsed)
		g.calmAfter = true
		g.coolingDown = true
		if err := g.player.PlayTrack(g.conf.FireTrack); err != nil {
			return err
		}
	}

	g.reportCooldown(elapsed)

	if elapsed >= g.nextSoundAt {
		if err := g.playMoodSound(); err != nil {
			return err
		}
		g.nextSoundAt = elapsed + g.conf.SoundInterval
	}

	return g.player.Pump(elapsed)
}

// reportCooldown publishes the remaining fireball charge while it burns
// and calms the ghast down once the burn is over.
func (g *Ghast) reportCooldown(elapsed time.Duration) {
	if !g.coolingDown {
		return
	}
	progress := (elapsed - g.fireball.Trigger()).Seconds() / g.fireball.Window().Seconds()
	if progress >= 0 && progress < 1 {
		_ = g.remote.Write(CooldownChannel, int(cooldownScale*(1.0-progress)))
		return
	}

	g.coolingDown = false
	_ = g.remote.Write(CooldownChannel, 0)
	if g.calmAfter && g.angry {
		g.angry = false
		g.calmAfter = false
		_ = g.remote.Write(MoodChannel, 0)
	}
}

func (g *Ghast) playMoodSound() error {
	if g.angry {
		return g.player.PlayTrack(g.conf.AngryTrack)
	}
	return g.player.PlayRandom(g.conf.PassiveTracks, g.rng)
}
