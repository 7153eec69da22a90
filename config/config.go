// Package config loads the engine configuration from YAML and can watch
// the file for live edits.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full engine configuration.
type Config struct {
	Logging LoggingConfig `yaml:"Logging"`
	Strip   StripConfig   `yaml:"Strip"`
	Run     RunConfig     `yaml:"Run"`

	Blink       BlinkConfig       `yaml:"Blink"`
	RandomCycle RandomCycleConfig `yaml:"RandomCycle"`
	BeeFace     BeeFaceConfig     `yaml:"BeeFace"`
	Runner      RunnerConfig      `yaml:"Runner"`
	Gradient    GradientConfig    `yaml:"Gradient"`

	Ghast GhastConfig `yaml:"Ghast"`
}

type LoggingConfig struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
	File   string `yaml:"File"`
}

// StripConfig describes the virtual strip the demo animations render on.
type StripConfig struct {
	Pixels     int   `yaml:"Pixels"`
	Spacing    int   `yaml:"Spacing"`
	Background []int `yaml:"Background"`
}

type RunConfig struct {
	// Runtime of zero runs forever (until interrupted).
	Runtime   time.Duration `yaml:"Runtime"`
	FrameRate float64       `yaml:"FrameRate"`
	KeepLit   bool          `yaml:"KeepLit"`
}

type BlinkConfig struct {
	Enabled bool          `yaml:"Enabled"`
	RGB     []int         `yaml:"RGB"`
	Period  time.Duration `yaml:"Period"`
	Duty    float64       `yaml:"Duty"`
}

type RandomCycleConfig struct {
	Enabled    bool          `yaml:"Enabled"`
	Transition time.Duration `yaml:"Transition"`
}

type BeeFaceConfig struct {
	Enabled bool          `yaml:"Enabled"`
	Period  time.Duration `yaml:"Period"`
	Duty    float64       `yaml:"Duty"`
}

type RunnerConfig struct {
	Enabled bool          `yaml:"Enabled"`
	RGB     []int         `yaml:"RGB"`
	Period  time.Duration `yaml:"Period"`
}

type GradientConfig struct {
	Enabled bool          `yaml:"Enabled"`
	Period  time.Duration `yaml:"Period"`
}

// GhastConfig wires the ghast prop: remote control channels over MQTT and
// the DFPlayer sound module on a serial port.
type GhastConfig struct {
	Enabled       bool          `yaml:"Enabled"`
	SoundInterval time.Duration `yaml:"SoundInterval"`
	SerialPort    string        `yaml:"SerialPort"`
	// MouthPins lists the three GPIO pins (R, G, B) of a discrete mouth
	// LED. When empty the mouth uses the strip pixel after the face.
	MouthPins     []uint8       `yaml:"MouthPins"`
	AngryTrack    int           `yaml:"AngryTrack"`
	FireTrack     int           `yaml:"FireTrack"`
	PassiveTracks []int         `yaml:"PassiveTracks"`
	MQTT          MQTTConfig    `yaml:"MQTT"`
}

type MQTTConfig struct {
	URL      string `yaml:"URL"`
	ClientID string `yaml:"ClientID"`
	Username string `yaml:"Username"`
	Password string `yaml:"Password"`
	Prefix   string `yaml:"Prefix"`
}

// Default returns the configuration used when no file is given: a 12-pixel
// strip cycling random colors at 60 fps until interrupted.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Strip:   StripConfig{Pixels: 12, Spacing: 1, Background: []int{0, 0, 0}},
		Run:     RunConfig{FrameRate: 60},
		RandomCycle: RandomCycleConfig{
			Enabled:    true,
			Transition: time.Second,
		},
		Blink: BlinkConfig{
			RGB:    []int{255, 255, 255},
			Period: time.Second,
			Duty:   0.5,
		},
		BeeFace: BeeFaceConfig{Period: 8 * time.Second, Duty: 0.75},
		Runner:  RunnerConfig{RGB: []int{255, 64, 0}, Period: 4 * time.Second},
		Gradient: GradientConfig{
			Period: 10 * time.Second,
		},
		Ghast: GhastConfig{
			SoundInterval: 5 * time.Second,
			AngryTrack:    3,
			FireTrack:     5,
			PassiveTracks: []int{6, 7, 8, 9, 10, 11, 12},
			MQTT: MQTTConfig{
				ClientID: "neoglow",
				Prefix:   "neoglow/control",
			},
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file %s: %w", path, err)
	}
	defer f.Close()

	conf := Default()
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(conf); err != nil {
		return nil, fmt.Errorf("decoding config file %s: %w", path, err)
	}
	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return conf, nil
}

func (c *Config) validate() error {
	if c.Strip.Pixels <= 0 {
		return fmt.Errorf("Strip.Pixels must be positive, got %d", c.Strip.Pixels)
	}
	if c.Strip.Spacing < 0 {
		return fmt.Errorf("Strip.Spacing must not be negative, got %d", c.Strip.Spacing)
	}
	if c.Run.FrameRate <= 0 {
		return fmt.Errorf("Run.FrameRate must be positive, got %v", c.Run.FrameRate)
	}
	if c.Blink.Enabled && (c.Blink.Duty <= 0 || c.Blink.Duty > 1) {
		return fmt.Errorf("Blink.Duty must be in (0, 1], got %v", c.Blink.Duty)
	}
	if c.BeeFace.Enabled && (c.BeeFace.Duty <= 0 || c.BeeFace.Duty > 1) {
		return fmt.Errorf("BeeFace.Duty must be in (0, 1], got %v", c.BeeFace.Duty)
	}
	if c.Ghast.Enabled && c.Ghast.MQTT.URL == "" {
		return fmt.Errorf("Ghast.MQTT.URL is required when the ghast is enabled")
	}
	if n := len(c.Ghast.MouthPins); n != 0 && n != 3 {
		return fmt.Errorf("Ghast.MouthPins needs exactly 3 pins (R, G, B), got %d", n)
	}
	return nil
}
