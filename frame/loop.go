package frame

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStop ends a Loop without an error.
var ErrStop = errors.New("frame: stop")

// Scheduler blocks until the next frame is due.
type Scheduler interface {
	Next(ctx context.Context) error
}

// Loop runs Step once per scheduled frame.
//
// Errors and panics inside a step are passed to OnError and the loop keeps
// going. It ends when ctx is done, MaxFrames steps have run, or a step
// returns ErrStop.
type Loop struct {
	Scheduler Scheduler
	Step      func() error
	MaxFrames uint64
	OnError   func(error)

	frames uint64
}

func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.Scheduler.Next(ctx); err != nil {
			return err
		}
		if err := l.RunOnce(); errors.Is(err, ErrStop) {
			return nil
		}
		if l.MaxFrames > 0 && l.frames >= l.MaxFrames {
			return nil
		}
	}
}

// RunOnce runs one step, recovering a panic into an error. Only ErrStop is
// returned; anything else goes to OnError.
func (l *Loop) RunOnce() (err error) {
	l.frames++
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame %d: panic: %v", l.frames, r)
		}
		if err != nil && !errors.Is(err, ErrStop) {
			if l.OnError != nil {
				l.OnError(err)
			}
			err = nil
		}
	}()
	if l.Step == nil {
		return nil
	}
	return l.Step()
}

// Frames reports how many steps ran.
func (l *Loop) Frames() uint64 { return l.frames }

// TickerScheduler schedules frames at a fixed rate.
type TickerScheduler struct {
	t *time.Ticker
}

func NewTickerScheduler(hz int) (*TickerScheduler, error) {
	if hz <= 0 {
		return nil, fmt.Errorf("invalid frame rate: %d", hz)
	}
	return &TickerScheduler{t: time.NewTicker(time.Second / time.Duration(hz))}, nil
}

func (s *TickerScheduler) Next(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.t.C:
		return nil
	}
}

func (s *TickerScheduler) Stop() { s.t.Stop() }

// ManualScheduler releases one frame per Fire call. Tests use it to step a
// Loop deterministically.
type ManualScheduler struct {
	ch chan struct{}
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{ch: make(chan struct{}, 16)}
}

// Fire allows one more frame. It blocks if 16 frames are already pending.
func (s *ManualScheduler) Fire() { s.ch <- struct{}{} }

func (s *ManualScheduler) Next(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ch:
		return nil
	}
}
