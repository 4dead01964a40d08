package hal

import (
	"context"
	"fmt"

	"pulse/frame"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Hz     int
	Frames uint64 // 0 runs until ctx is done
}

// RunHeadless runs the app without opening a window. Audio is silent and its
// position follows the host clock.
func RunHeadless(ctx context.Context, cfg HostConfig, hc HeadlessConfig, newApp func(HAL) (func() error, error)) error {
	if hc.Hz <= 0 {
		hc.Hz = 60
	}
	cfg.Headless = true
	h := New(cfg).(*hostHAL)
	step, err := newApp(h)
	if err != nil {
		return err
	}
	h.emitResize(ResizeEvent{Width: h.cfg.Width, Height: h.cfg.Height, DeviceScale: 1})

	sched, err := frame.NewTickerScheduler(hc.Hz)
	if err != nil {
		return fmt.Errorf("headless: %w", err)
	}
	defer sched.Stop()

	loop := frame.Loop{Scheduler: sched, Step: step, MaxFrames: hc.Frames}
	return loop.Run(ctx)
}
