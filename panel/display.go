package panel

import (
	"image/color"

	"pulse/hal"

	"tinygo.org/x/drivers"
)

// Displayer adapts an RGBA framebuffer to drivers.Displayer so tinyfont can
// draw on it. Every logical pixel covers scale x scale framebuffer pixels.
type Displayer struct {
	fb    hal.Framebuffer
	scale int16
}

var _ drivers.Displayer = (*Displayer)(nil)

// NewDisplayer wraps fb. Scales below 1 are treated as 1.
func NewDisplayer(fb hal.Framebuffer, scale int) *Displayer {
	if scale < 1 {
		scale = 1
	}
	return &Displayer{fb: fb, scale: int16(scale)}
}

func (d *Displayer) Size() (x, y int16) {
	return int16(d.fb.Width()) / d.scale, int16(d.fb.Height()) / d.scale
}

func (d *Displayer) SetPixel(x, y int16, c color.RGBA) {
	buf := d.fb.Buffer()
	w, h := d.fb.Width(), d.fb.Height()
	stride := d.fb.StrideBytes()
	s := int(d.scale)
	for dy := 0; dy < s; dy++ {
		py := int(y)*s + dy
		if py < 0 || py >= h {
			continue
		}
		for dx := 0; dx < s; dx++ {
			px := int(x)*s + dx
			if px < 0 || px >= w {
				continue
			}
			off := py*stride + px*4
			if off+3 >= len(buf) {
				return
			}
			buf[off] = c.R
			buf[off+1] = c.G
			buf[off+2] = c.B
			buf[off+3] = 0xFF
		}
	}
}

func (d *Displayer) Display() error { return nil }

// FillRect paints a solid rectangle in logical pixels.
func (d *Displayer) FillRect(x, y, w, h int16, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			d.SetPixel(xx, yy, c)
		}
	}
}


// dimRect darkens the area behind the panel to keep text readable.
func (d *Displayer) dimRect(x, y, w, h int16) {
	buf := d.fb.Buffer()
	stride := d.fb.StrideBytes()
	s := int(d.scale)
	maxX := min(int(x+w)*s, d.fb.Width())
	maxY := min(int(y+h)*s, d.fb.Height())
	for py := max(int(y)*s, 0); py < maxY; py++ {
		for px := max(int(x)*s, 0); px < maxX; px++ {
			off := py*stride + px*4
			if off+2 >= len(buf) {
				return
			}
			buf[off] /= 3
			buf[off+1] /= 3
			buf[off+2] /= 3
		}
	}
}
