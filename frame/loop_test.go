package frame

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopStepsOncePerFire(t *testing.T) {
	sched := NewManualScheduler()
	steps := 0
	l := &Loop{Scheduler: sched, Step: func() error { steps++; return nil }, MaxFrames: 3}

	for i := 0; i < 3; i++ {
		sched.Fire()
	}
	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, 3, steps)
	assert.Equal(t, uint64(3), l.Frames())
}

func TestLoopSurvivesErrorsAndPanics(t *testing.T) {
	sched := NewManualScheduler()
	var reported []error
	n := 0
	l := &Loop{
		Scheduler: sched,
		MaxFrames: 4,
		OnError:   func(err error) { reported = append(reported, err) },
		Step: func() error {
			n++
			switch n {
			case 1:
				return errors.New("decode failed")
			case 2:
				panic("nil mesh")
			}
			return nil
		},
	}
	for i := 0; i < 4; i++ {
		sched.Fire()
	}

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, 4, n)
	require.Len(t, reported, 2)
	assert.Contains(t, reported[1].Error(), "nil mesh")
}

func TestLoopStopsOnErrStop(t *testing.T) {
	sched := NewManualScheduler()
	n := 0
	l := &Loop{Scheduler: sched, Step: func() error {
		n++
		if n == 2 {
			return ErrStop
		}
		return nil
	}}
	for i := 0; i < 5; i++ {
		sched.Fire()
	}

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, 2, n)
}

func TestLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := &Loop{Scheduler: NewManualScheduler()}
	assert.ErrorIs(t, l.Run(ctx), context.Canceled)
	assert.Zero(t, l.Frames())
}

func TestTickerScheduler(t *testing.T) {
	_, err := NewTickerScheduler(0)
	assert.Error(t, err)

	s, err := NewTickerScheduler(1000)
	require.NoError(t, err)
	defer s.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	l := &Loop{Scheduler: s, MaxFrames: 5}
	require.NoError(t, l.Run(ctx))
	assert.Equal(t, uint64(5), l.Frames())
}
