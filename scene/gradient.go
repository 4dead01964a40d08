package scene

import (
	"pulse/quarkgl"

	"github.com/lucasb-eyer/go-colorful"
)

const gradientTexels = 256

// How far full amplitude pulls the outer end of the gradient towards white.
const amplitudeGlow = 0.45

var white = colorful.Color{R: 1, G: 1, B: 1}

// FillGradient regenerates tex as a Lab blend from inside to outside,
// brightened towards the outer end by the amplitude (0..255).
func FillGradient(tex *quarkgl.GradientTexture, inside, outside colorful.Color, amplitude float64) {
	glow := amplitude / 255 * amplitudeGlow
	if glow < 0 {
		glow = 0
	}
	tex.Update(func(i, n int) quarkgl.Color {
		t := float64(i) / float64(n-1)
		c := inside.BlendLab(outside, t)
		c = c.BlendLab(white, glow*t).Clamped()
		r, g, b := c.RGB255()
		return quarkgl.RGB(r, g, b)
	})
}
