// Package scene holds the render parameters and the scene they drive: the
// procedural shape on screen, its audio-reactive material, the camera and
// the output surface.
package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ShapeKind selects the procedural shape.
type ShapeKind uint8

const (
	Sphere ShapeKind = iota
	Plane
)

// shapeKinds is the fixed cycle order for CycleShape.
var shapeKinds = [...]ShapeKind{Sphere, Plane}

// Next returns the following shape kind, wrapping at the end.
func (k ShapeKind) Next() ShapeKind {
	for i, s := range shapeKinds {
		if s == k {
			return shapeKinds[(i+1)%len(shapeKinds)]
		}
	}
	return shapeKinds[0]
}

// UsesRadius reports whether the radius parameter changes the shape.
func (k ShapeKind) UsesRadius() bool { return k == Sphere }

func (k ShapeKind) String() string {
	switch k {
	case Sphere:
		return "sphere"
	case Plane:
		return "plane"
	default:
		return fmt.Sprintf("shape(%d)", uint8(k))
	}
}

func ParseShapeKind(s string) (ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sphere":
		return Sphere, nil
	case "plane":
		return Plane, nil
	}
	return Sphere, fmt.Errorf("unknown shape %q", s)
}

const (
	MinRadius  = 1
	MaxRadius  = 10
	RadiusStep = 1
)

// ClampRadius snaps r to the radius step inside [MinRadius, MaxRadius].
func ClampRadius(r float64) float64 {
	if math.IsNaN(r) {
		return MinRadius
	}
	r = math.Round(r/RadiusStep) * RadiusStep
	return math.Max(MinRadius, math.Min(MaxRadius, r))
}

// RenderParameters is the mutable state shared by the frame loop, the
// control panel and the rebuild policy. It lives for the whole process.
type RenderParameters struct {
	Time      float64 // seconds since start, never decreases
	Amplitude float64 // latest analyzer reading, 0 when silent

	Shape  ShapeKind
	Radius float64

	Wireframe    bool
	InsideColor  colorful.Color
	OutsideColor colorful.Color
}

func DefaultParameters() RenderParameters {
	inside, _ := colorful.Hex("#ff6030")
	outside, _ := colorful.Hex("#1b3984")
	return RenderParameters{
		Shape:        Sphere,
		Radius:       1,
		InsideColor:  inside,
		OutsideColor: outside,
	}
}

// Advance records one frame's clock and analyzer readings.
func (p *RenderParameters) Advance(t, amplitude float64) {
	if t > p.Time {
		p.Time = t
	}
	if math.IsNaN(amplitude) {
		amplitude = 0
	}
	p.Amplitude = amplitude
}
