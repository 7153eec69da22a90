package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lautenbacher.net/neoglow/config"
	"lautenbacher.net/neoglow/device"
)

func TestApplyOverridesShadowsConfigSettings(t *testing.T) {
	conf := config.Default()
	applyOverrides(conf, 30*time.Second, 24, true, true)

	assert.Equal(t, 30*time.Second, conf.Run.Runtime)
	assert.Equal(t, 24.0, conf.Run.FrameRate)
	assert.True(t, conf.Run.KeepLit)
	assert.True(t, conf.Ghast.Enabled)
}

func TestApplyOverridesZeroValuesKeepConfig(t *testing.T) {
	conf := config.Default()
	conf.Run.Runtime = 5 * time.Second
	conf.Run.FrameRate = 30

	applyOverrides(conf, 0, 0, false, false)

	assert.Equal(t, 5*time.Second, conf.Run.Runtime)
	assert.Equal(t, 30.0, conf.Run.FrameRate)
	assert.False(t, conf.Run.KeepLit)
	assert.False(t, conf.Ghast.Enabled)
}

func TestBuildAnimationsFallsBackToRandomCycle(t *testing.T) {
	conf := config.Default()
	conf.RandomCycle.Enabled = false

	anims, err := buildAnimations(conf, device.NewMemory(conf.Strip.Pixels))
	require.NoError(t, err)
	assert.Len(t, anims, 1)
}

func TestBuildAnimationsRejectsShortStripForBeeFace(t *testing.T) {
	conf := config.Default()
	conf.BeeFace.Enabled = true

	_, err := buildAnimations(conf, device.NewMemory(4))
	require.Error(t, err)
}
