package panel

import (
	"testing"

	"pulse/hal"

	"github.com/stretchr/testify/assert"
)

type testFB struct {
	w, h int
	buf  []byte
}

func newTestFB(w, h int) *testFB { return &testFB{w: w, h: h, buf: make([]byte, w*h*4)} }

func (f *testFB) Width() int              { return f.w }
func (f *testFB) Height() int             { return f.h }
func (f *testFB) Format() hal.PixelFormat { return hal.PixelFormatRGBA8888 }
func (f *testFB) StrideBytes() int        { return f.w * 4 }
func (f *testFB) Buffer() []byte          { return f.buf }
func (f *testFB) Present() error          { return nil }
func (f *testFB) Resize(w, h int)         { f.w, f.h, f.buf = w, h, make([]byte, w*h*4) }
func (f *testFB) ClearRGB(r, g, b uint8) {
	for i := 0; i+3 < len(f.buf); i += 4 {
		f.buf[i], f.buf[i+1], f.buf[i+2], f.buf[i+3] = r, g, b, 0xFF
	}
}

func (f *testFB) lit(x0, y0, x1, y1 int) int {
	n := 0
	for y := y0; y < y1 && y < f.h; y++ {
		for x := x0; x < x1 && x < f.w; x++ {
			off := y*f.StrideBytes() + x*4
			if f.buf[off] != 0 || f.buf[off+1] != 0 || f.buf[off+2] != 0 {
				n++
			}
		}
	}
	return n
}

func TestDrawWritesText(t *testing.T) {
	p, _ := newTestPanel()
	fb := newTestFB(320, 200)
	p.Draw(fb, Status{Amplitude: 128, Playback: "playing", Shape: "sphere", FPS: 60}, 1)
	assert.Greater(t, fb.lit(0, 0, hudWidth, 120), 100)
}

func TestDrawHidden(t *testing.T) {
	p, _ := newTestPanel()
	p.Hidden = true
	fb := newTestFB(320, 200)
	p.Draw(fb, Status{}, 1)
	assert.Zero(t, fb.lit(0, 0, 320, 200))
}

func TestDrawMeterTracksAmplitude(t *testing.T) {
	quiet, loud := newTestFB(320, 200), newTestFB(320, 200)
	p, _ := newTestPanel()
	p.Draw(quiet, Status{Amplitude: 0}, 1)
	p.Draw(loud, Status{Amplitude: 255}, 1)
	assert.Greater(t, loud.lit(0, 0, 320, 200), quiet.lit(0, 0, 320, 200))
}

func TestDrawScaledStaysInBounds(t *testing.T) {
	p, _ := newTestPanel()
	fb := newTestFB(64, 32)
	assert.NotPanics(t, func() { p.Draw(fb, Status{Amplitude: 255}, 3) })
}
