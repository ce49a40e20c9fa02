package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_AfterFunc(t *testing.T) {
	t.Parallel()

	fired := make(chan struct{})
	System{}.AfterFunc(time.Millisecond, func() {
		close(fired)
	})

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestSystem_Stop(t *testing.T) {
	t.Parallel()

	timer := System{}.AfterFunc(time.Hour, func() {
		t.Error("timer must not fire")
	})
	assert.True(t, timer.Stop())
}

func TestManual_firesInDueOrder(t *testing.T) {
	t.Parallel()

	var m Manual
	var got []string
	m.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Zero(t, m.Pending())
}

func TestManual_exactDue(t *testing.T) {
	t.Parallel()

	var m Manual
	fired := false
	m.AfterFunc(2000*time.Millisecond, func() { fired = true })

	m.Advance(1999 * time.Millisecond)
	require.False(t, fired, "must not fire before the deadline")
	assert.Equal(t, 1, m.Pending())

	m.Advance(time.Millisecond)
	assert.True(t, fired, "must fire exactly at the deadline")
	assert.Zero(t, m.Pending())
}

func TestManual_stop(t *testing.T) {
	t.Parallel()

	var m Manual
	timer := m.AfterFunc(10*time.Millisecond, func() {
		t.Error("stopped timer must not fire")
	})

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports false")
	assert.Zero(t, m.Pending())

	m.Advance(time.Second)
}

func TestManual_chainedTimers(t *testing.T) {
	t.Parallel()

	// Each firing schedules the next,
	// as the typewriter's tick loop does.
	var m Manual
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		if ticks < 7 {
			m.AfterFunc(50*time.Millisecond, tick)
		}
	}
	m.AfterFunc(50*time.Millisecond, tick)

	m.Advance(350 * time.Millisecond)
	assert.Equal(t, 7, ticks)
	assert.Zero(t, m.Pending())
}

func TestManual_partialAdvance(t *testing.T) {
	t.Parallel()

	var m Manual
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		m.AfterFunc(50*time.Millisecond, tick)
	}
	m.AfterFunc(50*time.Millisecond, tick)

	m.Advance(120 * time.Millisecond)
	assert.Equal(t, 2, ticks, "only two full intervals elapsed")

	m.Advance(30 * time.Millisecond)
	assert.Equal(t, 3, ticks, "third interval completes across advances")
}
