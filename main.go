package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pulse/app"
	"pulse/frame"
	"pulse/hal"
	"pulse/internal/buildinfo"
	"pulse/internal/config"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := config.NewFlags("pulse")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Print(flags.Usage())
			return nil
		}
		return err
	}
	if flags.Version() {
		fmt.Println(buildinfo.String())
		return nil
	}

	cfg, err := config.Load(flags.Path())
	if err != nil {
		return err
	}
	flags.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hc := hal.HostConfig{
		Title:      cfg.Window.Title + " " + buildinfo.Short(),
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		SampleRate: cfg.Audio.SampleRate,
	}
	var sys *app.System
	newApp := func(h hal.HAL) (func() error, error) {
		s, err := app.New(h, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := s.Start(ctx, flags.Path(), flags.Apply); err != nil {
			log.Warn("config watch disabled", "err", err)
		}
		sys = s
		return func() error {
			// The window loop does not watch ctx; leave it on the next frame.
			if ctx.Err() != nil {
				return frame.ErrStop
			}
			return s.Step()
		}, nil
	}
	defer func() {
		if sys != nil {
			_ = sys.Close()
		}
	}()

	if cfg.Headless.Enabled {
		err := hal.RunHeadless(ctx, hc, hal.HeadlessConfig{Hz: cfg.Headless.Hz, Frames: cfg.Headless.Frames}, newApp)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if sys != nil {
			log.Info("headless run finished", "frames", sys.Frames())
		}
		return err
	}
	return hal.RunWindow(hc, newApp)
}
