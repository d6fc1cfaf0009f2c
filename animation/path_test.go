package animation_test

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dns-ledger-sim/animation"
	"dns-ledger-sim/models"
)

func flight() animation.Path {
	return animation.Path{
		Origin:      models.Point{X: 200, Y: 275},
		Destination: models.Point{X: 500, Y: 275},
		Duration:    1500 * time.Millisecond,
		FadeStart:   0.9,
	}
}

func TestPathAtInterpolatesAndFades(t *testing.T) {
	p := flight()

	s := p.At(0)
	assert.Equal(t, models.Point{X: 200, Y: 275}, s.Position)
	assert.Equal(t, 1.0, s.Opacity)
	assert.False(t, s.Done)

	s = p.At(750 * time.Millisecond)
	assert.InDelta(t, 350, s.Position.X, 1e-9)
	assert.InDelta(t, 0.5, s.Progress, 1e-9)
	assert.Equal(t, 1.0, s.Opacity)

	s = p.At(1425 * time.Millisecond)
	assert.InDelta(t, 0.95, s.Progress, 1e-9)
	assert.InDelta(t, 0.5, s.Opacity, 1e-6)

	s = p.At(3 * time.Second)
	assert.Equal(t, models.Point{X: 500, Y: 275}, s.Position)
	assert.Equal(t, 1.0, s.Progress)
	assert.InDelta(t, 0, s.Opacity, 1e-9)
	assert.True(t, s.Done)
}

func TestPathAtClampsNegativeElapsed(t *testing.T) {
	s := flight().At(-time.Second)
	assert.Equal(t, 0.0, s.Progress)
	assert.Equal(t, models.Point{X: 200, Y: 275}, s.Position)
}

func TestPathWithoutFadeKeepsFullOpacityUntilDone(t *testing.T) {
	p := flight()
	p.FadeStart = 1
	assert.Equal(t, 1.0, p.At(1499*time.Millisecond).Opacity)
	assert.Equal(t, 0.0, p.At(1500*time.Millisecond).Opacity)
}

func TestSequenceStopsAtDestination(t *testing.T) {
	ticks := slices.Values([]time.Duration{
		0, 500 * time.Millisecond, time.Second, 1500 * time.Millisecond, 2 * time.Second,
	})
	samples := slices.Collect(flight().Sequence(ticks))

	require.Len(t, samples, 4)
	assert.True(t, samples[3].Done)
	for _, s := range samples[:3] {
		assert.False(t, s.Done)
	}
}

func TestSequenceIsRestartable(t *testing.T) {
	ticks := []time.Duration{0, time.Second, 2 * time.Second}
	p := flight()
	first := slices.Collect(p.Sequence(slices.Values(ticks)))
	second := slices.Collect(p.Sequence(slices.Values(ticks)))
	assert.Equal(t, first, second)
}

func TestSequenceZeroDurationYieldsSingleTerminalSample(t *testing.T) {
	p := flight()
	p.Duration = 0
	samples := slices.Collect(p.Sequence(slices.Values([]time.Duration{})))

	require.Len(t, samples, 1)
	assert.True(t, samples[0].Done)
	assert.Equal(t, p.Destination, samples[0].Position)

	p.Duration = -time.Second
	samples = slices.Collect(p.Sequence(slices.Values([]time.Duration{0, time.Second})))
	require.Len(t, samples, 1)
	assert.True(t, samples[0].Done)
}
