// Command ampscan prints the amplitude curve the visualizer would see for a
// WAV file, one CSV row per frame.
package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"pulse/audio"
	"pulse/internal/buildinfo"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("ampscan", pflag.ContinueOnError)
	var (
		inPath  = fs.StringP("in", "i", "", "input WAV file")
		outPath = fs.StringP("out", "o", "", "output CSV file (default stdout)")
		fps     = fs.Float64("fps", 60, "frames per second")
		fftSize = fs.Int("fft-size", 256, "analyzer FFT size")
		smooth  = fs.Float64("smoothing", 0.8, "analyzer smoothing time constant")
		version = fs.Bool("version", false, "print version and exit")
	)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fatalf("%v", err)
	}
	if *version {
		fmt.Println(buildinfo.String())
		return
	}
	if *inPath == "" {
		fatalf("usage: ampscan -i in.wav [-o out.csv] [--fps 60]\n%s", fs.FlagUsages())
	}

	asset, err := readWAV(*inPath)
	if err != nil {
		fatalf("read: %v", err)
	}

	cfg := audio.DefaultAnalyzerConfig()
	cfg.FFTSize = *fftSize
	cfg.Smoothing = *smooth

	err = writeOutput(*outPath, os.Stdout, func(w io.Writer) error {
		return scan(w, asset, cfg, *fps)
	})
	if err != nil {
		fatalf("scan: %v", err)
	}
}

// writeOutput buffers write into path, or into stdout when path is empty.
// The file is flushed and closed before returning and a failed close is
// reported like a failed write.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) (err error) {
	out := stdout
	if path != "" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}
	bw := bufio.NewWriter(out)
	if err := write(bw); err != nil {
		return err
	}
	return bw.Flush()
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func readWAV(path string) (*audio.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%s: not a PCM WAV file", path)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return assetFromBuffer(path, buf)
}

// assetFromBuffer converts integer PCM of any depth and channel count to
// the 16-bit stereo layout the analyzer reads. Mono is duplicated and
// channels past the second are dropped.
func assetFromBuffer(name string, buf *goaudio.IntBuffer) (*audio.Asset, error) {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%s: missing format", name)
	}
	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	if frames == 0 {
		return nil, fmt.Errorf("%s: no samples", name)
	}

	shift := buf.SourceBitDepth - 16
	to16 := func(v int) int16 {
		switch {
		case shift > 0:
			v >>= shift
		case shift < 0 && buf.SourceBitDepth == 8:
			v = (v - 128) << 8 // 8-bit WAV is unsigned
		case shift < 0:
			v <<= -shift
		}
		return int16(max(-32768, min(32767, v)))
	}

	pcm := make([]byte, frames*audio.BytesPerFrame)
	for i := 0; i < frames; i++ {
		l := to16(buf.Data[i*ch])
		r := l
		if ch > 1 {
			r = to16(buf.Data[i*ch+1])
		}
		off := i * audio.BytesPerFrame
		pcm[off] = byte(l)
		pcm[off+1] = byte(uint16(l) >> 8)
		pcm[off+2] = byte(r)
		pcm[off+3] = byte(uint16(r) >> 8)
	}
	return &audio.Asset{Name: name, PCM: pcm, SampleRate: buf.Format.SampleRate}, nil
}

// scanCursor is a playback position stepped by the frame clock.
type scanCursor struct{ pos time.Duration }

func (c *scanCursor) Position() time.Duration { return c.pos }
func (c *scanCursor) IsPlaying() bool         { return true }

// scan plays the asset once at fps and writes frame,time,amplitude rows.
func scan(w io.Writer, a *audio.Asset, cfg audio.AnalyzerConfig, fps float64) error {
	if fps <= 0 {
		return fmt.Errorf("fps %v: want > 0", fps)
	}
	an, err := audio.NewAnalyzer(cfg)
	if err != nil {
		return err
	}
	cur := &scanCursor{}
	an.SetTap(audio.NewPCMTap(a, cur, false))

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame", "time", "amplitude"}); err != nil {
		return err
	}
	total := a.Duration().Seconds()
	for i := 0; ; i++ {
		t := float64(i) / fps
		if t > total {
			break
		}
		cur.pos = time.Duration(t * float64(time.Second))
		amp := an.Sample()
		if err := cw.Write([]string{
			strconv.Itoa(i),
			strconv.FormatFloat(t, 'f', 4, 64),
			strconv.FormatFloat(amp, 'f', 3, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
