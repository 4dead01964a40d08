package panel

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayerScalesPixels(t *testing.T) {
	fb := newTestFB(8, 6)
	d := NewDisplayer(fb, 2)
	w, h := d.Size()
	assert.Equal(t, int16(4), w)
	assert.Equal(t, int16(3), h)

	d.SetPixel(1, 1, color.RGBA{R: 0xFF, A: 0xFF})
	assert.Equal(t, 4, fb.lit(0, 0, 8, 6))
	assert.Equal(t, 4, fb.lit(2, 2, 4, 4))
}

func TestDisplayerClampsScale(t *testing.T) {
	fb := newTestFB(8, 6)
	w, h := NewDisplayer(fb, 0).Size()
	assert.Equal(t, int16(8), w)
	assert.Equal(t, int16(6), h)
}

func TestDisplayerFillRectClips(t *testing.T) {
	fb := newTestFB(8, 6)
	d := NewDisplayer(fb, 3)
	assert.NotPanics(t, func() { d.FillRect(-2, -2, 10, 10, color.RGBA{G: 0xFF, A: 0xFF}) })
	assert.Equal(t, 8*6, fb.lit(0, 0, 8, 6))
}
