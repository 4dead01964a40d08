package panel

import (
	"fmt"
	"image/color"

	"pulse/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Status is the read-only state shown under the fields.
type Status struct {
	Amplitude float64 // 0..255
	Playback  string
	Shape     string
	FPS       float64
}

const (
	hudMargin     = 6
	hudLineHeight = 11
	hudWidth      = 200
	meterHeight   = 6
)

var (
	textColor     = color.RGBA{R: 0xE0, G: 0xE8, B: 0xFF, A: 0xFF}
	dimColor      = color.RGBA{R: 0x90, G: 0xA0, B: 0xB8, A: 0xFF}
	selectedColor = color.RGBA{R: 0xFF, G: 0xD0, B: 0x60, A: 0xFF}
	meterColor    = color.RGBA{R: 0x40, G: 0xE0, B: 0x90, A: 0xFF}
)

var hudFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// Draw paints the panel over fb. Scale enlarges every pixel for high
// density surfaces; values below 1 are treated as 1.
func (p *Panel) Draw(fb hal.Framebuffer, st Status, scale int) {
	if p.Hidden || fb == nil || fb.Format() != hal.PixelFormatRGBA8888 {
		return
	}
	d := NewDisplayer(fb, scale)

	lines := len(p.fields) + 4
	d.dimRect(0, 0, hudWidth, int16(hudMargin*2+lines*hudLineHeight+meterHeight))

	y := int16(hudMargin + hudLineHeight)
	write := func(s string, c color.RGBA) {
		tinyfont.WriteLine(d, hudFont, hudMargin, y, s, c)
		y += hudLineHeight
	}

	write(p.Title, textColor)
	for i, f := range p.fields {
		c := dimColor
		marker := "  "
		if i == p.sel {
			c = selectedColor
			marker = "> "
		}
		write(marker+f.Name+"  "+f.valueString(), c)
		if f.Kind == KindColor {
			r, g, b := f.getColor().Clamped().RGB255()
			d.FillRect(hudWidth-hudMargin-12, y-hudLineHeight-7, 10, 8, color.RGBA{R: r, G: g, B: b, A: 0xFF})
		}
	}

	write(fmt.Sprintf("%s  %s  %.0f fps", st.Playback, st.Shape, st.FPS), dimColor)
	write(fmt.Sprintf("amplitude %5.1f", st.Amplitude), dimColor)
	meter := int16(float64(hudWidth-2*hudMargin) * clamp01(st.Amplitude/255))
	d.FillRect(hudMargin, y-hudLineHeight+2, meter, meterHeight, meterColor)
	y += meterHeight
	write("space play  s stop  m mesh  w wire  tab hide", dimColor)
}

func (f *Field) valueString() string {
	switch f.Kind {
	case KindBool:
		if f.getBool() {
			return "on"
		}
		return "off"
	case KindRange:
		return fmt.Sprintf("%g", f.getNum())
	case KindColor:
		return f.getColor().Clamped().Hex()
	case KindCommand:
		if f.shortcut != 0 {
			return "[" + string(f.shortcut) + "]"
		}
	}
	return ""
}

func clamp01(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
