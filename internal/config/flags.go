package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// EnvPath names the environment variable holding the default config path.
const EnvPath = "PULSE_CONFIG"

// Flags holds command-line overrides. Only flags given on the command line
// are applied over the loaded config.
type Flags struct {
	fs   *pflag.FlagSet
	name string

	path    string
	version bool

	width, height int
	asset         string
	loop          bool
	fftSize       int
	shape         string
	radius        float64
	wireframe     bool
	headless      bool
	hz            int
	frames        uint64
	logLevel      string
}

func NewFlags(name string) *Flags {
	f := &Flags{fs: pflag.NewFlagSet(name, pflag.ContinueOnError), name: name}
	d := Default()
	fs := f.fs
	// Callers print Usage themselves on pflag.ErrHelp.
	fs.Usage = func() {}
	fs.StringVarP(&f.path, "config", "c", os.Getenv(EnvPath), "TOML config file (env "+EnvPath+")")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.IntVar(&f.width, "width", d.Window.Width, "window width")
	fs.IntVar(&f.height, "height", d.Window.Height, "window height")
	fs.StringVarP(&f.asset, "asset", "a", d.Audio.Asset, "audio asset (ogg, wav or mp3)")
	fs.BoolVar(&f.loop, "loop", d.Audio.Loop, "loop the audio asset")
	fs.IntVar(&f.fftSize, "fft-size", d.Audio.FFTSize, "analyzer FFT size")
	fs.StringVar(&f.shape, "shape", d.Scene.Shape, "initial shape: sphere or plane")
	fs.Float64Var(&f.radius, "radius", d.Scene.Radius, "initial radius (1..10)")
	fs.BoolVar(&f.wireframe, "wireframe", d.Scene.Wireframe, "start in wireframe")
	fs.BoolVar(&f.headless, "headless", d.Headless.Enabled, "run without a window")
	fs.IntVar(&f.hz, "hz", d.Headless.Hz, "headless frame rate")
	fs.Uint64Var(&f.frames, "frames", d.Headless.Frames, "headless frame budget (0 = unlimited)")
	fs.StringVar(&f.logLevel, "log-level", d.Log.Level, "debug, info, warn or error")
	return f
}

// Parse reads args. Positional arguments are rejected; the config file is
// given with --config.
func (f *Flags) Parse(args []string) error {
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	if f.fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", f.fs.Arg(0))
	}
	return nil
}

func (f *Flags) Path() string  { return f.path }
func (f *Flags) Version() bool { return f.version }

// Usage returns the help text for every flag.
func (f *Flags) Usage() string {
	return fmt.Sprintf("usage: %s [flags]\n%s", f.name, f.fs.FlagUsages())
}

// Apply copies the flags that were set on the command line into c.
func (f *Flags) Apply(c *Config) {
	set := f.fs.Changed
	if set("width") {
		c.Window.Width = f.width
	}
	if set("height") {
		c.Window.Height = f.height
	}
	if set("asset") {
		c.Audio.Asset = f.asset
	}
	if set("loop") {
		c.Audio.Loop = f.loop
	}
	if set("fft-size") {
		c.Audio.FFTSize = f.fftSize
	}
	if set("shape") {
		c.Scene.Shape = f.shape
	}
	if set("radius") {
		c.Scene.Radius = f.radius
	}
	if set("wireframe") {
		c.Scene.Wireframe = f.wireframe
	}
	if set("headless") {
		c.Headless.Enabled = f.headless
	}
	if set("hz") {
		c.Headless.Hz = f.hz
	}
	if set("frames") {
		c.Headless.Frames = f.frames
	}
	if set("log-level") {
		c.Log.Level = f.logLevel
	}
}
