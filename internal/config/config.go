// Package config loads the visualizer settings: defaults, then an optional
// TOML file, then command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window   Window   `toml:"window"`
	Audio    Audio    `toml:"audio"`
	Scene    Scene    `toml:"scene"`
	Camera   Camera   `toml:"camera"`
	Headless Headless `toml:"headless"`
	Log      Log      `toml:"log"`
}

type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type Audio struct {
	Asset       string  `toml:"asset"`
	Loop        bool    `toml:"loop"`
	SampleRate  int     `toml:"sample_rate"`
	FFTSize     int     `toml:"fft_size"`
	Smoothing   float64 `toml:"smoothing"`
	MinDecibels float64 `toml:"min_decibels"`
	MaxDecibels float64 `toml:"max_decibels"`
}

type Scene struct {
	Shape                string  `toml:"shape"`
	Radius               float64 `toml:"radius"`
	Wireframe            bool    `toml:"wireframe"`
	InsideColor          string  `toml:"inside_color"`
	OutsideColor         string  `toml:"outside_color"`
	SphereWidthSegments  int     `toml:"sphere_width_segments"`
	SphereHeightSegments int     `toml:"sphere_height_segments"`
	PlaneSize            float64 `toml:"plane_size"`
	PlaneSegments        int     `toml:"plane_segments"`
}

type Camera struct {
	FOV           float64    `toml:"fov"`
	Near          float64    `toml:"near"`
	Far           float64    `toml:"far"`
	Position      [3]float64 `toml:"position"`
	Damping       bool       `toml:"damping"`
	DampingFactor float64    `toml:"damping_factor"`
}

type Headless struct {
	Enabled bool   `toml:"enabled"`
	Hz      int    `toml:"hz"`
	Frames  uint64 `toml:"frames"`
}

type Log struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Window: Window{Title: "pulse", Width: 960, Height: 540},
		Audio: Audio{
			Asset:       "sounds/sample-1meg.ogg",
			Loop:        true,
			SampleRate:  44100,
			FFTSize:     256,
			Smoothing:   0.8,
			MinDecibels: -100,
			MaxDecibels: -30,
		},
		Scene: Scene{
			Shape:                "sphere",
			Radius:               1,
			InsideColor:          "#ff6030",
			OutsideColor:         "#1b3984",
			SphereWidthSegments:  32,
			SphereHeightSegments: 16,
			PlaneSize:            2,
			PlaneSegments:        32,
		},
		Camera: Camera{
			FOV:           75,
			Near:          0.1,
			Far:           100,
			Position:      [3]float64{3, 3, 3},
			Damping:       true,
			DampingFactor: 0.05,
		},
		Headless: Headless{Hz: 60},
		Log:      Log{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data, Default())
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over base and validates the result. Unknown keys are
// rejected.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and normalizes values that have an obvious
// nearest valid setting, such as the radius.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d", c.Window.Width, c.Window.Height)
	}

	a := c.Audio
	if a.SampleRate < 8000 || a.SampleRate > 192000 {
		bad("audio.sample_rate %d", a.SampleRate)
	}
	if a.FFTSize < 32 || a.FFTSize > 32768 || a.FFTSize&(a.FFTSize-1) != 0 {
		bad("audio.fft_size %d: want a power of two in [32, 32768]", a.FFTSize)
	}
	if a.Smoothing < 0 || a.Smoothing >= 1 {
		bad("audio.smoothing %v: want [0, 1)", a.Smoothing)
	}
	if a.MinDecibels >= a.MaxDecibels {
		bad("audio decibel range [%v, %v] is empty", a.MinDecibels, a.MaxDecibels)
	}

	s := &c.Scene
	switch strings.ToLower(s.Shape) {
	case "sphere", "plane":
	default:
		bad("scene.shape %q", s.Shape)
	}
	if math.IsNaN(s.Radius) {
		s.Radius = 1
	}
	s.Radius = math.Max(1, math.Min(10, math.Round(s.Radius)))
	if _, err := colorful.Hex(s.InsideColor); err != nil {
		bad("scene.inside_color %q", s.InsideColor)
	}
	if _, err := colorful.Hex(s.OutsideColor); err != nil {
		bad("scene.outside_color %q", s.OutsideColor)
	}
	if s.SphereWidthSegments < 3 || s.SphereHeightSegments < 2 {
		bad("scene sphere segments %dx%d", s.SphereWidthSegments, s.SphereHeightSegments)
	}
	if s.PlaneSize <= 0 || s.PlaneSegments < 1 {
		bad("scene plane size %v segments %d", s.PlaneSize, s.PlaneSegments)
	}

	cam := c.Camera
	if cam.FOV <= 0 || cam.FOV >= 180 {
		bad("camera.fov %v", cam.FOV)
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		bad("camera clip range [%v, %v]", cam.Near, cam.Far)
	}
	if cam.DampingFactor <= 0 || cam.DampingFactor > 1 {
		bad("camera.damping_factor %v: want (0, 1]", cam.DampingFactor)
	}

	if c.Headless.Hz <= 0 {
		bad("headless.hz %d", c.Headless.Hz)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		bad("log.level %q", c.Log.Level)
	}
	return errors.Join(errs...)
}

// Colors returns the parsed inside and outside colors. Call after Validate.
func (s Scene) Colors() (inside, outside colorful.Color) {
	inside, _ = colorful.Hex(s.InsideColor)
	outside, _ = colorful.Hex(s.OutsideColor)
	return inside, outside
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(strings.TrimSpace(s)))
	return l, err
}
