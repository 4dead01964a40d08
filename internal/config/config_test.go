package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sounds/sample-1meg.ogg", cfg.Audio.Asset)
	assert.True(t, cfg.Audio.Loop)
	assert.Equal(t, [3]float64{3, 3, 3}, cfg.Camera.Position)
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
[audio]
loop = false
fft_size = 512

[scene]
shape = "plane"
radius = 3.6
inside_color = "#00ff00"
`)
	cfg, err := Parse(data, Default())
	require.NoError(t, err)
	assert.False(t, cfg.Audio.Loop)
	assert.Equal(t, 512, cfg.Audio.FFTSize)
	assert.Equal(t, "plane", cfg.Scene.Shape)
	assert.Equal(t, 4.0, cfg.Scene.Radius)
	// untouched keys keep their defaults
	assert.Equal(t, "#1b3984", cfg.Scene.OutsideColor)
	assert.Equal(t, 0.8, cfg.Audio.Smoothing)

	in, _ := cfg.Scene.Colors()
	assert.InDelta(t, 1.0, in.G, 1e-9)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[scene]\nradiuss = 2\n"), Default())
	require.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"radius clamps high", func(c *Config) { c.Scene.Radius = 42 }, true},
		{"radius clamps low", func(c *Config) { c.Scene.Radius = -3 }, true},
		{"fft not power of two", func(c *Config) { c.Audio.FFTSize = 300 }, false},
		{"fft too small", func(c *Config) { c.Audio.FFTSize = 16 }, false},
		{"empty decibel range", func(c *Config) { c.Audio.MinDecibels = -30 }, false},
		{"smoothing one", func(c *Config) { c.Audio.Smoothing = 1 }, false},
		{"bad color", func(c *Config) { c.Scene.InsideColor = "orange" }, false},
		{"bad shape", func(c *Config) { c.Scene.Shape = "cube" }, false},
		{"shape case", func(c *Config) { c.Scene.Shape = "Plane" }, true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"zero hz", func(c *Config) { c.Headless.Hz = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
				assert.GreaterOrEqual(t, cfg.Scene.Radius, 1.0)
				assert.LessOrEqual(t, cfg.Scene.Radius, 10.0)
			} else {
				require.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "pulse.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestFlagsApplyOnlyChanged(t *testing.T) {
	f := NewFlags("pulse")
	require.NoError(t, f.Parse([]string{"--shape", "plane", "--headless", "--frames=10", "--config", "x.toml"}))

	cfg := Default()
	cfg.Audio.Asset = "from-file.ogg"
	f.Apply(&cfg)

	assert.Equal(t, "x.toml", f.Path())
	assert.Equal(t, "plane", cfg.Scene.Shape)
	assert.True(t, cfg.Headless.Enabled)
	assert.Equal(t, uint64(10), cfg.Headless.Frames)
	assert.Equal(t, "from-file.ogg", cfg.Audio.Asset)
	assert.False(t, f.Version())
}

func TestFlagsHelp(t *testing.T) {
	var out bytes.Buffer
	f := NewFlags("pulse")
	f.fs.SetOutput(&out)
	require.ErrorIs(t, f.Parse([]string{"--help"}), pflag.ErrHelp)
	assert.Zero(t, out.Len(), "help is printed by the caller")

	usage := f.Usage()
	assert.True(t, strings.HasPrefix(usage, "usage: pulse [flags]\n"))
	assert.Contains(t, usage, "--fft-size")
	assert.Contains(t, usage, EnvPath)
}

func TestFlagsRejectPositional(t *testing.T) {
	f := NewFlags("pulse")
	err := f.Parse([]string{"--shape", "plane", "pulse.toml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pulse.toml")
}

func TestFlagsUnknown(t *testing.T) {
	f := NewFlags("pulse")
	f.fs.SetOutput(io.Discard)
	require.Error(t, f.Parse([]string{"--nope"}))
}

