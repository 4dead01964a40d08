package quarkgl

// Uniforms are the per-draw inputs shared by every shader invocation of a mesh.
type Uniforms struct {
	Time      Scalar
	Amplitude Scalar
	Gradient  *GradientTexture
}

// Fragment describes one rasterized triangle as seen by a fragment shader.
//
// Shading is per triangle: the fragment stage runs once and the result fills
// every covered pixel.
type Fragment struct {
	Base   Color // material base color with opacity applied
	Normal Vec3  // object-space face normal after the vertex stage
	Center Vec3  // object-space centroid after the vertex stage
	Front  bool  // true when the triangle faces the camera
}

// Shader is a CPU shader program.
type Shader interface {
	Vertex(u *Uniforms, v Vertex) Vertex
	Fragment(u *Uniforms, f Fragment) Color
}

// GradientTexture is a 1D color lookup table sampled by shaders.
//
// Writers call Invalidate when an input of the table changes; the owner
// regenerates it with Update before the next draw.
type GradientTexture struct {
	Texels []Color

	needsUpdate bool
	version     uint64
}

// NewGradientTexture allocates a texture of n texels marked as needing an update.
func NewGradientTexture(n int) *GradientTexture {
	if n < 2 {
		n = 2
	}
	return &GradientTexture{Texels: make([]Color, n), needsUpdate: true}
}

func (t *GradientTexture) Invalidate()       { t.needsUpdate = true }
func (t *GradientTexture) NeedsUpdate() bool { return t.needsUpdate }
func (t *GradientTexture) Version() uint64   { return t.version }

// Update refills every texel and clears the update flag.
func (t *GradientTexture) Update(fill func(i, n int) Color) {
	n := len(t.Texels)
	for i := range t.Texels {
		t.Texels[i] = fill(i, n)
	}
	t.needsUpdate = false
	t.version++
}

// Sample returns the nearest texel for u in 0..1 (clamped).
func (t *GradientTexture) Sample(u Scalar) Color {
	if t == nil || len(t.Texels) == 0 {
		return Color{}
	}
	i := int(Clamp01(u)*Scalar(len(t.Texels)-1) + 0.5)
	return t.Texels[i]
}
