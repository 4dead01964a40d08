package scene

import (
	"fmt"

	"pulse/quarkgl"

	"github.com/chewxy/math32"
)

const maxVertices = 1 << 16

// Geometry is the vertex and index data of one shape instance.
//
// A geometry is installed on the mesh by a rebuild and released by the next
// one; a released geometry holds no data.
type Geometry struct {
	Kind   ShapeKind
	Radius float64

	Vertices []quarkgl.Vertex
	Indices  []uint16

	disposed bool
}

// Dispose drops the geometry data. Calling it again has no effect.
func (g *Geometry) Dispose() {
	g.Vertices = nil
	g.Indices = nil
	g.disposed = true
}

func (g *Geometry) Disposed() bool { return g.disposed }

// NewSphereGeometry builds a UV sphere centred at the origin with
// counter-clockwise outward faces and normals pointing away from the centre.
func NewSphereGeometry(radius float32, widthSegments, heightSegments int) (*Geometry, error) {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}
	n := (widthSegments + 1) * (heightSegments + 1)
	if n > maxVertices {
		return nil, fmt.Errorf("sphere %dx%d: %d vertices exceeds %d", widthSegments, heightSegments, n, maxVertices)
	}

	g := &Geometry{
		Kind:     Sphere,
		Radius:   float64(radius),
		Vertices: make([]quarkgl.Vertex, 0, n),
		Indices:  make([]uint16, 0, widthSegments*(heightSegments-1)*6),
	}

	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		sinV, cosV := math32.Sin(v*math32.Pi), math32.Cos(v*math32.Pi)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			sinU, cosU := math32.Sin(u*2*math32.Pi), math32.Cos(u*2*math32.Pi)

			dir := quarkgl.V3(-cosU*sinV, cosV, sinU*sinV)
			g.Vertices = append(g.Vertices, quarkgl.Vertex{
				Pos:    dir.Mul(radius),
				Normal: dir,
			})
		}
	}

	row := widthSegments + 1
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint16(iy*row + ix + 1)
			b := uint16(iy*row + ix)
			c := uint16((iy+1)*row + ix)
			d := uint16((iy+1)*row + ix + 1)
			// The pole rows collapse to a point; skip their degenerate halves.
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g, nil
}

// NewPlaneGeometry builds a plane in the XY plane facing +Z.
func NewPlaneGeometry(width, height float32, widthSegments, heightSegments int) (*Geometry, error) {
	if widthSegments < 1 {
		widthSegments = 1
	}
	if heightSegments < 1 {
		heightSegments = 1
	}
	gx, gy := widthSegments+1, heightSegments+1
	if gx*gy > maxVertices {
		return nil, fmt.Errorf("plane %dx%d: %d vertices exceeds %d", widthSegments, heightSegments, gx*gy, maxVertices)
	}

	g := &Geometry{
		Kind:     Plane,
		Vertices: make([]quarkgl.Vertex, 0, gx*gy),
		Indices:  make([]uint16, 0, widthSegments*heightSegments*6),
	}

	segW := width / float32(widthSegments)
	segH := height / float32(heightSegments)
	normal := quarkgl.V3(0, 0, 1)
	for iy := 0; iy < gy; iy++ {
		y := float32(iy)*segH - height/2
		for ix := 0; ix < gx; ix++ {
			x := float32(ix)*segW - width/2
			g.Vertices = append(g.Vertices, quarkgl.Vertex{
				Pos:    quarkgl.V3(x, -y, 0),
				Normal: normal,
			})
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint16(ix + gx*iy)
			b := uint16(ix + gx*(iy+1))
			c := uint16(ix + 1 + gx*(iy+1))
			d := uint16(ix + 1 + gx*iy)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	return g, nil
}

// Factory builds and releases shape geometry.
type Factory interface {
	Build(kind ShapeKind, radius float64) (*Geometry, error)
	Release(g *Geometry)
}

// ShapeFactory builds the procedural shapes with fixed tessellation.
type ShapeFactory struct {
	SphereWidthSegments  int
	SphereHeightSegments int
	PlaneSize            float32
	PlaneSegments        int
}

func DefaultShapeFactory() ShapeFactory {
	return ShapeFactory{
		SphereWidthSegments:  32,
		SphereHeightSegments: 16,
		PlaneSize:            2,
		PlaneSegments:        32,
	}
}

func (f ShapeFactory) Build(kind ShapeKind, radius float64) (*Geometry, error) {
	switch kind {
	case Sphere:
		return NewSphereGeometry(float32(ClampRadius(radius)), f.SphereWidthSegments, f.SphereHeightSegments)
	case Plane:
		size := f.PlaneSize
		if size <= 0 {
			size = 2
		}
		return NewPlaneGeometry(size, size, f.PlaneSegments, f.PlaneSegments)
	default:
		return nil, fmt.Errorf("build: unknown %s", kind)
	}
}

func (f ShapeFactory) Release(g *Geometry) {
	if g != nil {
		g.Dispose()
	}
}
