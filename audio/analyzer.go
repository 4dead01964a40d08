package audio

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// AnalyzerConfig mirrors the usual analyser node settings.
type AnalyzerConfig struct {
	FFTSize     int
	Smoothing   float64 // time constant in 0..1
	MinDecibels float64
	MaxDecibels float64
}

func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		FFTSize:     256,
		Smoothing:   0.8,
		MinDecibels: -100,
		MaxDecibels: -30,
	}
}

func (c AnalyzerConfig) Validate() error {
	if c.FFTSize < 32 || c.FFTSize > 32768 || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("fft size %d: want a power of two in [32, 32768]", c.FFTSize)
	}
	if c.Smoothing < 0 || c.Smoothing >= 1 {
		return fmt.Errorf("smoothing %v: want [0, 1)", c.Smoothing)
	}
	if c.MinDecibels >= c.MaxDecibels {
		return fmt.Errorf("decibel range [%v, %v] is empty", c.MinDecibels, c.MaxDecibels)
	}
	return nil
}

// Analyzer computes byte-scaled frequency magnitudes from a Tap.
//
// With no tap, Sample returns exactly 0. It is used from the frame thread
// only.
type Analyzer struct {
	cfg AnalyzerConfig
	fft *fourier.FFT

	window []float64
	buf    []float64
	coeff  []complex128
	smooth []float64
	bins   []uint8

	tap Tap
}

func NewAnalyzer(cfg AnalyzerConfig) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}
	n := cfg.FFTSize
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	return &Analyzer{
		cfg:    cfg,
		fft:    fourier.NewFFT(n),
		window: window.Blackman(ones),
		buf:    make([]float64, n),
		coeff:  make([]complex128, n/2+1),
		smooth: make([]float64, n/2),
		bins:   make([]uint8, n/2),
	}, nil
}

// SetTap switches the analysed signal. nil detaches it.
func (a *Analyzer) SetTap(t Tap) {
	a.tap = t
	if t == nil {
		clear(a.smooth)
		clear(a.bins)
	}
}

// BinCount is half the FFT size.
func (a *Analyzer) BinCount() int { return len(a.bins) }

// Sample runs one analysis step and returns the average bin value in 0..255.
func (a *Analyzer) Sample() float64 {
	if a.tap == nil {
		return 0
	}
	a.analyze()

	sum := 0
	for _, b := range a.bins {
		sum += int(b)
	}
	avg := float64(sum) / float64(len(a.bins))
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return 0
	}
	return avg
}

// Frequencies copies the bins of the last Sample into dst.
func (a *Analyzer) Frequencies(dst []uint8) []uint8 {
	return append(dst[:0], a.bins...)
}

func (a *Analyzer) analyze() {
	if !a.tap.Window(a.buf) {
		clear(a.buf)
	}
	for i, w := range a.window {
		a.buf[i] *= w
	}
	a.coeff = a.fft.Coefficients(a.coeff, a.buf)

	n := float64(a.cfg.FFTSize)
	k := a.cfg.Smoothing
	span := a.cfg.MaxDecibels - a.cfg.MinDecibels
	for i := range a.smooth {
		mag := cmplx.Abs(a.coeff[i]) / n
		if math.IsNaN(mag) || math.IsInf(mag, 0) {
			mag = 0
		}
		a.smooth[i] = k*a.smooth[i] + (1-k)*mag

		if a.smooth[i] <= 0 {
			a.bins[i] = 0
			continue
		}
		db := 20 * math.Log10(a.smooth[i])
		v := math.Floor(255 / span * (db - a.cfg.MinDecibels))
		a.bins[i] = uint8(math.Max(0, math.Min(255, v)))
	}
}
