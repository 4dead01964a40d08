package scene

import (
	"pulse/quarkgl"

	"github.com/chewxy/math32"
)

// Displacement along the normal at full amplitude.
const maxDisplacement = 0.35

// ReactiveShader pushes vertices outwards with the audio amplitude and
// colors faces from the amplitude gradient, outside faces from its upper half
// and inside faces from its lower half.
type ReactiveShader struct{}

func (ReactiveShader) Vertex(u *quarkgl.Uniforms, v quarkgl.Vertex) quarkgl.Vertex {
	if u == nil || u.Amplitude <= 0 {
		return v
	}
	amp := u.Amplitude / 255
	wave := math32.Sin(v.Pos.X*4+u.Time*2) * math32.Cos(v.Pos.Z*4+u.Time*1.5)
	d := amp * maxDisplacement * (0.5 + 0.5*wave)
	v.Pos = v.Pos.Add(v.Normal.Mul(d))
	return v
}

func (ReactiveShader) Fragment(u *quarkgl.Uniforms, f quarkgl.Fragment) quarkgl.Color {
	if u == nil || u.Gradient == nil {
		return f.Base
	}
	t := 0.5 + 0.5*math32.Sin(f.Center.Y*3+u.Time)
	if f.Front {
		t = 0.5 + t*0.5
	} else {
		t *= 0.5
	}
	return u.Gradient.Sample(t).WithAlpha(f.Base.A)
}
