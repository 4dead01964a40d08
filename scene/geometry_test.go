package scene

import (
	"testing"

	"pulse/quarkgl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereGeometry(t *testing.T) {
	g, err := NewSphereGeometry(5, 32, 16)
	require.NoError(t, err)

	assert.Equal(t, Sphere, g.Kind)
	assert.Equal(t, 5.0, g.Radius)
	assert.Len(t, g.Vertices, 33*17)
	// Pole rows contribute one triangle per segment, the others two.
	assert.Len(t, g.Indices, (32*2+32*14*2)*3)

	for _, v := range g.Vertices {
		assert.InDelta(t, 5, quarkgl.Len(v.Pos), 1e-4)
		assert.InDelta(t, 1, quarkgl.Len(v.Normal), 1e-4)
	}
	for _, i := range g.Indices {
		assert.Less(t, int(i), len(g.Vertices))
	}
}

func TestSphereFacesPointOutwards(t *testing.T) {
	g, err := NewSphereGeometry(1, 8, 6)
	require.NoError(t, err)

	for i := 0; i+2 < len(g.Indices); i += 3 {
		a := g.Vertices[g.Indices[i]].Pos
		b := g.Vertices[g.Indices[i+1]].Pos
		c := g.Vertices[g.Indices[i+2]].Pos
		n := quarkgl.Cross(b.Sub(a), c.Sub(a))
		center := a.Add(b).Add(c)
		assert.Greater(t, quarkgl.Dot(n, center), float32(0), "triangle %d", i/3)
	}
}

func TestPlaneGeometry(t *testing.T) {
	g, err := NewPlaneGeometry(2, 2, 4, 4)
	require.NoError(t, err)

	assert.Equal(t, Plane, g.Kind)
	assert.Len(t, g.Vertices, 25)
	assert.Len(t, g.Indices, 4*4*6)
	for _, v := range g.Vertices {
		assert.Equal(t, quarkgl.V3(0, 0, 1), v.Normal)
		assert.Equal(t, float32(0), v.Pos.Z)
		assert.LessOrEqual(t, v.Pos.X, float32(1))
		assert.GreaterOrEqual(t, v.Pos.Y, float32(-1))
	}
}

func TestGeometryTooLarge(t *testing.T) {
	_, err := NewSphereGeometry(1, 512, 512)
	assert.Error(t, err)
	_, err = NewPlaneGeometry(1, 1, 300, 300)
	assert.Error(t, err)
}

func TestShapeFactoryRelease(t *testing.T) {
	f := DefaultShapeFactory()
	g, err := f.Build(Sphere, 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, g.Radius)

	f.Release(g)
	assert.True(t, g.Disposed())
	assert.Nil(t, g.Vertices)

	p, err := f.Build(Plane, 3)
	require.NoError(t, err)
	assert.Equal(t, Plane, p.Kind)
}
