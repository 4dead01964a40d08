// Package app wires the host layer, configuration, scene, audio and panel
// into one System that advances a frame per Step.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"pulse/audio"
	"pulse/frame"
	"pulse/hal"
	"pulse/internal/buildinfo"
	"pulse/internal/config"
	"pulse/kernel"
	"pulse/panel"
	"pulse/quarkgl"
	"pulse/scene"

	"golang.org/x/time/rate"
)

// System is the running visualizer. Everything except Start's background
// work runs on the frame thread.
type System struct {
	hal hal.HAL
	fb  hal.Framebuffer
	cfg config.Config
	log *slog.Logger

	mb kernel.Mailbox

	params   scene.RenderParameters
	scene    *scene.Context
	rebuild  *scene.Rebuilder
	updater  frame.Updater
	playback audio.Playback
	analyzer *audio.Analyzer
	loader   audio.Loader
	player   hal.AudioPlayer
	panel    *panel.Panel

	hudScale int
	fps      fpsCounter
	frameErr rate.Sometimes
	crash    crashBanner
}

// New builds the scene for cfg and installs the first geometry. Nothing
// runs in the background until Start.
func New(h hal.HAL, cfg config.Config, log *slog.Logger) (*System, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	disp := h.Display()
	if disp == nil || disp.Framebuffer() == nil {
		return nil, errors.New("app: no display")
	}

	s := &System{
		hal:      h,
		fb:       disp.Framebuffer(),
		cfg:      cfg,
		log:      log,
		params:   scene.DefaultParameters(),
		hudScale: 1,
		frameErr: rate.Sometimes{Interval: time.Second},
	}
	s.params.Wireframe = cfg.Scene.Wireframe
	s.params.Radius = scene.ClampRadius(cfg.Scene.Radius)
	s.params.InsideColor, s.params.OutsideColor = cfg.Scene.Colors()
	shape, err := scene.ParseShapeKind(cfg.Scene.Shape)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	s.params.Shape = shape

	sc, err := scene.NewContext(&s.params, cameraOptions(cfg.Camera), s.fb, log.With("component", "scene"))
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	sc.Renderer.ClearColor = quarkgl.RGB(0x02, 0x03, 0x08)
	s.scene = sc
	s.scene.Resize(s.fb.Width(), s.fb.Height(), 1)

	s.rebuild = &scene.Rebuilder{
		Params: &s.params,
		Slot:   sc,
		Factory: scene.ShapeFactory{
			SphereWidthSegments:  cfg.Scene.SphereWidthSegments,
			SphereHeightSegments: cfg.Scene.SphereHeightSegments,
			PlaneSize:            float32(cfg.Scene.PlaneSize),
			PlaneSegments:        cfg.Scene.PlaneSegments,
		},
		Log: log.With("component", "rebuild"),
	}
	if err := s.rebuild.Init(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	s.analyzer, err = audio.NewAnalyzer(audio.AnalyzerConfig{
		FFTSize:     cfg.Audio.FFTSize,
		Smoothing:   cfg.Audio.Smoothing,
		MinDecibels: cfg.Audio.MinDecibels,
		MaxDecibels: cfg.Audio.MaxDecibels,
	})
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	s.playback.Log = log.With("component", "playback")
	s.loader = audio.Loader{Mailbox: &s.mb, Log: log.With("component", "loader")}
	if a := h.Audio(); a != nil {
		s.loader.Decoder = a
	}

	s.updater = frame.Updater{
		Clock:    h.Clock(),
		Analyzer: s.analyzer,
		Params:   &s.params,
		Uniforms: sc,
		Controls: sc,
		Renderer: sc,
	}

	s.panel = s.newPanel()
	disp.OnResize(s.resize)
	return s, nil
}

func cameraOptions(c config.Camera) scene.CameraOptions {
	return scene.CameraOptions{
		FOVDeg:        float32(c.FOV),
		Near:          float32(c.Near),
		Far:           float32(c.Far),
		Position:      quarkgl.V3(float32(c.Position[0]), float32(c.Position[1]), float32(c.Position[2])),
		Damping:       c.Damping,
		DampingFactor: float32(c.DampingFactor),
	}
}

// Start begins loading the audio asset and, when cfgPath is set, watching
// the config file. Both report back through the mailbox. overrides is
// reapplied to every reloaded config.
func (s *System) Start(ctx context.Context, cfgPath string, overrides func(*config.Config)) error {
	s.log.Info("starting", "version", buildinfo.Short(), "asset", s.cfg.Audio.Asset, "loop", s.cfg.Audio.Loop)
	s.loader.Load(ctx, s.cfg.Audio.Asset, s.assetLoaded)

	if cfgPath == "" {
		return nil
	}
	return config.Watch(ctx, cfgPath, s.log.With("component", "config"), overrides, func(c config.Config, err error) {
		if err != nil {
			return
		}
		msg := kernel.Message{Kind: kernel.MsgConfigReload, Run: func() { s.applyConfig(c) }}
		if err := s.mb.Send(ctx, msg); err != nil {
			s.log.Debug("config reload dropped", "err", err)
		}
	})
}

// assetLoaded runs on the frame thread once the loader finishes.
func (s *System) assetLoaded(a *audio.Asset, err error) {
	if err != nil {
		s.log.Warn("no audio, amplitude stays at zero", "err", err)
		return
	}
	p, err := s.hal.Audio().NewPlayer(a.PCM, s.cfg.Audio.Loop)
	if err != nil {
		s.log.Warn("no audio, amplitude stays at zero", "asset", a.Name, "err", err)
		return
	}
	if s.player != nil {
		_ = s.player.Close()
	}
	s.player = p
	s.playback.Attach(p)
	s.analyzer.SetTap(audio.NewPCMTap(a, p, s.cfg.Audio.Loop))
}

func (s *System) resize(ev hal.ResizeEvent) {
	s.scene.Resize(ev.Width, ev.Height, ev.DeviceScale)
	s.hudScale = max(1, int(math.Round(s.scene.PixelRatio())))
	s.log.Info("resize", "width", ev.Width, "height", ev.Height, "device_scale", ev.DeviceScale)
}

// Step runs one frame. It returns frame.ErrStop when the user asked to quit;
// any other failure is logged and the next frame proceeds normally.
func (s *System) Step() (err error) {
	defer s.recoverFrame(&err)

	if s.handleInput() {
		return frame.ErrStop
	}
	s.mb.Drain(0, func(k kernel.MsgKind) { s.log.Debug("mailbox", "kind", k) })

	if err := s.updater.Tick(); err != nil {
		s.frameErr.Do(func() { s.log.Error("frame failed", "err", err) })
	}
	s.fps.tick(s.hal.Clock().Elapsed())

	s.panel.Draw(s.fb, s.status(), s.hudScale)
	s.crash.draw(s.fb, s.params.Time, s.hudScale)
	if err := s.fb.Present(); err != nil {
		s.frameErr.Do(func() { s.log.Error("present failed", "err", err) })
	}
	return nil
}

// handleInput drains pending input and reports whether quit was requested.
func (s *System) handleInput() (quit bool) {
	in := s.hal.Input()
	if in == nil {
		return false
	}
	if kbd := in.Keyboard(); kbd != nil {
	keys:
		for {
			select {
			case ev := <-kbd.Events():
				if ev.Press && (ev.Code == hal.KeyEscape || ev.Rune == 'q') {
					quit = true
				}
				s.panel.HandleKey(ev)
			default:
				break keys
			}
		}
	}
	if ptr := in.Pointer(); ptr != nil {
	moves:
		for {
			select {
			case ev := <-ptr.Events():
				if ev.Dragging {
					s.scene.Orbit(ev.DX, ev.DY)
				}
				if ev.Wheel != 0 {
					s.scene.Zoom(ev.Wheel)
				}
			default:
				break moves
			}
		}
	}
	return quit
}

func (s *System) status() panel.Status {
	return panel.Status{
		Amplitude: s.params.Amplitude,
		Playback:  s.playbackLabel(),
		Shape:     s.params.Shape.String(),
		FPS:       s.fps.rate,
	}
}

func (s *System) playbackLabel() string {
	if !s.playback.Attached() {
		return s.playback.State().String() + " (loading)"
	}
	return s.playback.State().String()
}

// Params exposes the shared render parameters.
func (s *System) Params() *scene.RenderParameters { return &s.params }

// Frames reports how many frames were rendered.
func (s *System) Frames() uint64 { return s.updater.Frames() }

// Close releases the audio player.
func (s *System) Close() error {
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return err
}

// fpsCounter measures frames per second over one-second windows.
type fpsCounter struct {
	start  float64
	frames int
	rate   float64
}

func (f *fpsCounter) tick(now float64) {
	f.frames++
	if dt := now - f.start; dt >= 1 {
		f.rate = float64(f.frames) / dt
		f.start = now
		f.frames = 0
	}
}
