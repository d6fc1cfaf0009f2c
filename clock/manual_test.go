package clock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dns-ledger-sim/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualFiresTimersInDeadlineOrder(t *testing.T) {
	m := clock.NewManual(epoch)
	var fired []string

	m.AfterFunc(2*time.Second, func() { fired = append(fired, "reset") })
	m.AfterFunc(1500*time.Millisecond, func() { fired = append(fired, "vote") })
	m.AfterFunc(1500*time.Millisecond, func() { fired = append(fired, "vote-2") })

	m.Advance(time.Second)
	assert.Empty(t, fired)

	m.Advance(time.Second)
	assert.Equal(t, []string{"vote", "vote-2", "reset"}, fired)
	assert.Equal(t, epoch.Add(2*time.Second), m.Now())
}

func TestManualTimerStop(t *testing.T) {
	m := clock.NewManual(epoch)
	called := false
	timer := m.AfterFunc(time.Second, func() { called = true })

	require.True(t, timer.Stop())
	require.False(t, timer.Stop())
	m.Advance(2 * time.Second)
	assert.False(t, called)
}

func TestManualChainedTimersFireWithinOneAdvance(t *testing.T) {
	m := clock.NewManual(epoch)
	var at []time.Duration
	m.AfterFunc(100*time.Millisecond, func() {
		at = append(at, m.Now().Sub(epoch))
		m.AfterFunc(100*time.Millisecond, func() {
			at = append(at, m.Now().Sub(epoch))
		})
	})

	m.Advance(time.Second)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, at)
}

func TestManualFramesFollowFrameInterval(t *testing.T) {
	m := clock.NewManual(epoch)
	frames := 0
	var step func(time.Time)
	step = func(time.Time) {
		frames++
		m.RequestFrame(step)
	}
	m.RequestFrame(step)

	m.Advance(10 * clock.DefaultFrameInterval)
	assert.Equal(t, 10, frames)
}

func TestManualSettleRunsAsyncWorkInOrder(t *testing.T) {
	m := clock.NewManual(epoch)
	var order []string
	m.Async(func() func() {
		order = append(order, "work-1")
		return func() { order = append(order, "apply-1") }
	})
	m.Async(func() func() {
		order = append(order, "work-2")
		return nil
	})
	require.Equal(t, 2, m.Pending())
	assert.Empty(t, order)

	m.Settle()
	assert.Equal(t, []string{"work-1", "apply-1", "work-2"}, order)
	assert.Zero(t, m.Pending())
}

func TestManualDoHonoursCancelledContext(t *testing.T) {
	m := clock.NewManual(epoch)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	err := m.Do(ctx, func() { ran = true })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}
