package quarkgl

// Renderer is a fixed-pipeline software renderer.
//
// Create it once and reuse it to avoid allocations.
type Renderer struct {
	Depth      bool
	ClearColor Color

	depthBuf []float32

	shaded []Vertex
	screen []screenPoint
}

type screenPoint struct {
	x, y int
	z    float32
	ok   bool
}

// NewRenderer creates a renderer for a given maximum target size.
//
// If enableDepth is true, a depth buffer of size w*h is allocated.
func NewRenderer(w, h int, enableDepth bool) *Renderer {
	r := &Renderer{
		Depth:      enableDepth,
		ClearColor: RGB(0, 0, 0),
	}
	if enableDepth && w > 0 && h > 0 {
		r.depthBuf = make([]float32, w*h)
	}
	return r
}

func (r *Renderer) EnableDepth(on bool, w, h int) {
	r.Depth = on
	if !on || w <= 0 || h <= 0 {
		r.depthBuf = nil
		return
	}
	if cap(r.depthBuf) < w*h {
		r.depthBuf = make([]float32, w*h)
	} else {
		r.depthBuf = r.depthBuf[:w*h]
	}
}

func (r *Renderer) clearDepth() {
	for i := range r.depthBuf {
		r.depthBuf[i] = 1e9
	}
}

// Render renders a scene into the target.
func (r *Renderer) Render(t Target, s *Scene) {
	if r == nil || t == nil || s == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)

	if r.Depth {
		r.EnableDepth(true, w, h)
		r.clearDepth()
	}

	aspect := Scalar(w) / Scalar(h)
	view := s.Camera.View()
	proj := s.Camera.Projection(aspect)

	s.eachMesh(func(m *Mesh) {
		if m == nil || !m.Enabled {
			return
		}
		r.renderMesh(t, w, h, proj, view, m)
	})
}

func (r *Renderer) renderMesh(t Target, w, h int, proj, view Mat4, m *Mesh) {
	if len(m.Vertices) == 0 || len(m.Indices) < 3 {
		return
	}
	model := m.Transform
	if model == (Mat4{}) {
		model = Mat4Identity()
	}
	mvp := Mat4Mul(proj, Mat4Mul(view, model))
	mat := m.Material

	// Vertex stage: shade and project every vertex once.
	n := len(m.Vertices)
	if cap(r.shaded) < n {
		r.shaded = make([]Vertex, n)
		r.screen = make([]screenPoint, n)
	}
	r.shaded = r.shaded[:n]
	r.screen = r.screen[:n]
	for i, v := range m.Vertices {
		if mat.Shader != nil {
			v = mat.Shader.Vertex(mat.Uniforms, v)
		}
		r.shaded[i] = v
		p := Mat4MulV4(mvp, Vec4{X: v.Pos.X, Y: v.Pos.Y, Z: v.Pos.Z, W: 1})
		// Trivial clip: drop anything behind the eye.
		if p.W <= 0 {
			r.screen[i] = screenPoint{}
			continue
		}
		ndc := clipToNDC(p)
		x, y := ndcToScreen(ndc, w, h)
		r.screen[i] = screenPoint{x: x, y: y, z: ndc.Z, ok: true}
	}

	alpha := mat.Opacity
	if alpha == 0 {
		alpha = 0xFF
	}
	writeDepth := !mat.Transparent

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0 := int(m.Indices[i+0])
		i1 := int(m.Indices[i+1])
		i2 := int(m.Indices[i+2])
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}
		s0, s1, s2 := r.screen[i0], r.screen[i1], r.screen[i2]
		if !s0.ok || !s1.ok || !s2.ok {
			continue
		}

		area := edgeFn(s0.x, s0.y, s1.x, s1.y, s2.x, s2.y)
		front := area > 0
		switch mat.Side {
		case SideFront:
			if !front {
				continue
			}
		case SideBack:
			if front {
				continue
			}
		}

		v0, v1, v2 := r.shaded[i0], r.shaded[i1], r.shaded[i2]
		frag := Fragment{
			Base:   mat.BaseColor.WithAlpha(alpha),
			Normal: triangleNormal(v0.Pos, v1.Pos, v2.Pos),
			Center: v0.Pos.Add(v1.Pos).Add(v2.Pos).Mul(1.0 / 3),
			Front:  front,
		}

		c := frag.Base
		if mat.Shader != nil {
			c = mat.Shader.Fragment(mat.Uniforms, frag)
		}

		// Rasterizers expect counter-clockwise screen winding.
		if !front {
			s1, s2 = s2, s1
		}

		px := pixelOp{t: t, blend: mat.Blend, writeDepth: writeDepth}
		if mat.Wireframe {
			r.drawLine(px, s0.x, s0.y, s1.x, s1.y, c)
			r.drawLine(px, s1.x, s1.y, s2.x, s2.y, c)
			r.drawLine(px, s2.x, s2.y, s0.x, s0.y, c)
			continue
		}
		r.fillTriangle(px, w, h, s0, s1, s2, c)
	}
}

// pixelOp writes one fragment with the material blend state.
type pixelOp struct {
	t          Target
	blend      BlendMode
	writeDepth bool
}

func (p pixelOp) plot(x, y int, c Color) {
	switch {
	case p.blend == BlendAdditive:
		dst := p.t.Pixel(x, y)
		p.t.SetPixel(x, y, dst.AddSat(c.MulScalar(Scalar(c.A)/255)))
	case c.A < 0xFF:
		dst := p.t.Pixel(x, y)
		p.t.SetPixel(x, y, dst.Lerp(c, Scalar(c.A)/255))
	default:
		p.t.SetPixel(x, y, c)
	}
}

type ndcPoint struct {
	X, Y, Z float32
}

func clipToNDC(p Vec4) ndcPoint {
	invW := 1 / p.W
	return ndcPoint{X: p.X * invW, Y: p.Y * invW, Z: p.Z * invW}
}

func ndcToScreen(p ndcPoint, w, h int) (x, y int) {
	sx := (p.X*0.5 + 0.5) * float32(w-1)
	sy := (1 - (p.Y*0.5 + 0.5)) * float32(h-1)
	return int(sx + 0.5), int(sy + 0.5)
}

func triangleNormal(a, b, c Vec3) Vec3 {
	return Normalize(Cross(b.Sub(a), c.Sub(a)))
}

func (r *Renderer) depthTest(w int, x, y int, z float32, write bool) bool {
	if !r.Depth || r.depthBuf == nil {
		return true
	}
	if x < 0 || y < 0 || x >= w {
		return false
	}
	idx := y*w + x
	if idx < 0 || idx >= len(r.depthBuf) {
		return false
	}
	// NDC z is typically in [-1,1]. Map to [0,1].
	d := z*0.5 + 0.5
	if d < 0 {
		d = 0
	}
	if d > 1 {
		d = 1
	}
	if d >= r.depthBuf[idx] {
		return false
	}
	if write {
		r.depthBuf[idx] = d
	}
	return true
}

func (r *Renderer) drawLine(px pixelOp, x0, y0, x1, y1 int, c Color) {
	w, h := px.t.Size()
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if x0 >= 0 && y0 >= 0 && x0 < w && y0 < h {
			px.plot(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (r *Renderer) fillTriangle(px pixelOp, w, h int, p0, p1, p2 screenPoint, c Color) {
	minX, maxX, minY, maxY, ok := bounds(w, h, p0, p1, p2)
	if !ok {
		return
	}
	area := edgeFn(p0.x, p0.y, p1.x, p1.y, p2.x, p2.y)
	if area == 0 {
		return
	}
	invArea := 1.0 / float32(area)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(p1.x, p1.y, p2.x, p2.y, x, y)
			w1 := edgeFn(p2.x, p2.y, p0.x, p0.y, x, y)
			w2 := edgeFn(p0.x, p0.y, p1.x, p1.y, x, y)
			if (w0 | w1 | w2) < 0 {
				continue
			}
			z := float32(w0)*invArea*p0.z + float32(w1)*invArea*p1.z + float32(w2)*invArea*p2.z
			if !r.depthTest(w, x, y, z, px.writeDepth) {
				continue
			}
			px.plot(x, y, c)
		}
	}
}

func bounds(w, h int, p0, p1, p2 screenPoint) (minX, maxX, minY, maxY int, ok bool) {
	minX, maxX = min(p0.x, p1.x, p2.x), max(p0.x, p1.x, p2.x)
	minY, maxY = min(p0.y, p1.y, p2.y), max(p0.y, p1.y, p2.y)
	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, w-1)
	maxY = min(maxY, h-1)
	return minX, maxX, minY, maxY, minX <= maxX && minY <= maxY
}

func edgeFn(x0, y0, x1, y1, x, y int) int {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
