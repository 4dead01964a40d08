package scene

import (
	"fmt"
	"io"
	"log/slog"
)

// MeshSlot holds the geometry currently installed on the visible mesh.
type MeshSlot interface {
	Geometry() *Geometry
	SetGeometry(g *Geometry)
}

// Rebuilder swaps the mesh geometry in response to user commands. It never
// runs from the frame loop.
//
// Every rebuild builds the new geometry first, then releases the installed
// one exactly once, then installs the new one. A failed build leaves the
// installed geometry and the shape selection untouched.
type Rebuilder struct {
	Params  *RenderParameters
	Slot    MeshSlot
	Factory Factory
	Log     *slog.Logger
}

// Init installs the geometry for the current parameters if the slot is empty.
func (r *Rebuilder) Init() error {
	if r.Slot.Geometry() != nil {
		return nil
	}
	return r.rebuild(r.Params.Shape)
}

// RadiusChanged stores a finished radius edit and rebuilds the selected
// shape when it depends on radius. It reports whether a rebuild happened.
func (r *Rebuilder) RadiusChanged(radius float64) (bool, error) {
	r.Params.Radius = ClampRadius(radius)
	if !r.Params.Shape.UsesRadius() {
		r.logger().Debug("radius stored without rebuild", "shape", r.Params.Shape, "radius", r.Params.Radius)
		return false, nil
	}
	if err := r.rebuild(r.Params.Shape); err != nil {
		return false, err
	}
	return true, nil
}

// CycleShape selects the next shape kind and installs it with the stored
// parameters.
func (r *Rebuilder) CycleShape() error {
	next := r.Params.Shape.Next()
	if err := r.rebuild(next); err != nil {
		return err
	}
	r.Params.Shape = next
	return nil
}

func (r *Rebuilder) rebuild(kind ShapeKind) error {
	g, err := r.Factory.Build(kind, r.Params.Radius)
	if err != nil {
		return fmt.Errorf("rebuild %s: %w", kind, err)
	}
	if old := r.Slot.Geometry(); old != nil {
		r.Factory.Release(old)
	}
	r.Slot.SetGeometry(g)

	r.logger().Info("geometry rebuilt", "shape", kind, "radius", g.Radius, "vertices", len(g.Vertices))
	return nil
}

func (r *Rebuilder) logger() *slog.Logger {
	if r.Log == nil {
		return discardLogger
	}
	return r.Log
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
