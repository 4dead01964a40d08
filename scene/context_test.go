package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSurface struct {
	w, h int
	buf  []byte
}

func newTestSurface(w, h int) *testSurface {
	s := &testSurface{}
	s.Resize(w, h)
	return s
}

func (s *testSurface) Width() int       { return s.w }
func (s *testSurface) Height() int      { return s.h }
func (s *testSurface) StrideBytes() int { return s.w * 4 }
func (s *testSurface) Buffer() []byte   { return s.buf }
func (s *testSurface) Resize(w, h int) {
	s.w, s.h = w, h
	s.buf = make([]byte, w*h*4)
}

func newTestContext(t *testing.T) (*Context, *testSurface) {
	t.Helper()
	params := DefaultParameters()
	surf := newTestSurface(4, 4)
	ctx, err := NewContext(&params, DefaultCameraOptions(), surf, nil)
	require.NoError(t, err)
	return ctx, surf
}

func TestResizeAspectAndPixelRatio(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		dpr    float64
		ratio  float64
		sw, sh int
	}{
		{"standard", 800, 600, 1, 1, 800, 600},
		{"retina", 800, 600, 2, 2, 1600, 1200},
		{"capped", 1000, 500, 3, 2, 2000, 1000},
		{"fractional", 100, 50, 1.5, 1.5, 150, 75},
		{"unknown dpr", 100, 100, 0, 1, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, surf := newTestContext(t)
			sw, sh := ctx.Resize(tt.w, tt.h, tt.dpr)

			assert.InDelta(t, float32(tt.w)/float32(tt.h), ctx.Aspect(), 1e-6)
			assert.Equal(t, tt.ratio, ctx.PixelRatio())
			assert.Equal(t, tt.sw, sw)
			assert.Equal(t, tt.sh, sh)
			assert.Equal(t, tt.sw, surf.Width())
			assert.Equal(t, tt.sh, surf.Height())
		})
	}
}

func TestSetAmplitudeInvalidatesGradient(t *testing.T) {
	ctx, _ := newTestContext(t)
	require.NoError(t, ctx.Draw())
	require.False(t, ctx.Gradient.NeedsUpdate())
	before := ctx.Gradient.Version()
	dim := ctx.Gradient.Sample(1)

	ctx.SetAmplitude(255)
	assert.True(t, ctx.Gradient.NeedsUpdate())
	assert.Equal(t, float32(255), ctx.Uniforms.Amplitude)

	require.NoError(t, ctx.Draw())
	assert.False(t, ctx.Gradient.NeedsUpdate())
	assert.Equal(t, before+1, ctx.Gradient.Version())

	// Full amplitude brightens the outer end.
	bright := ctx.Gradient.Sample(1)
	assert.Greater(t, int(bright.R)+int(bright.G)+int(bright.B), int(dim.R)+int(dim.G)+int(dim.B))
}

func TestDrawRendersInstalledGeometry(t *testing.T) {
	ctx, surf := newTestContext(t)
	ctx.Resize(32, 32, 1)
	ctx.Params.Radius = 2

	r := &Rebuilder{Params: ctx.Params, Slot: ctx, Factory: DefaultShapeFactory()}
	require.NoError(t, r.Init())
	ctx.SetTime(0.5)
	ctx.SetAmplitude(0)
	require.NoError(t, ctx.Draw())

	// The centre of the view looks straight at the sphere.
	off := 16*surf.StrideBytes() + 16*4
	px := surf.Buffer()[off : off+3]
	assert.NotEqual(t, []byte{0, 0, 0}, px)
}

func TestDrawSyncsWireframe(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.Params.Wireframe = true
	require.NoError(t, ctx.Draw())
	assert.True(t, ctx.Scene.Mesh(ctx.meshID).Material.Wireframe)
}

func TestDrawWithoutSurface(t *testing.T) {
	params := DefaultParameters()
	ctx, err := NewContext(&params, DefaultCameraOptions(), nil, nil)
	require.NoError(t, err)
	assert.Error(t, ctx.Draw())
}

func TestOrbitMovesCamera(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.Controls.EnableDamping = false
	before := ctx.Scene.Camera.Position

	ctx.Orbit(50, 0)
	ctx.Update()
	assert.NotEqual(t, before, ctx.Scene.Camera.Position)
}
