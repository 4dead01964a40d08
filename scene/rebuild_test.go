package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingFactory records builds and releases into a shared event log.
type recordingFactory struct {
	events   *[]string
	released []*Geometry
	fail     error
}

func (f *recordingFactory) Build(kind ShapeKind, radius float64) (*Geometry, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	*f.events = append(*f.events, "build "+kind.String())
	return &Geometry{Kind: kind, Radius: radius}, nil
}

func (f *recordingFactory) Release(g *Geometry) {
	*f.events = append(*f.events, "release "+g.Kind.String())
	f.released = append(f.released, g)
}

type recordingSlot struct {
	events *[]string
	g      *Geometry
}

func (s *recordingSlot) Geometry() *Geometry { return s.g }

func (s *recordingSlot) SetGeometry(g *Geometry) {
	*s.events = append(*s.events, "install "+g.Kind.String())
	s.g = g
}

func newTestRebuilder(t *testing.T) (*Rebuilder, *recordingFactory, *recordingSlot, *[]string) {
	t.Helper()
	var events []string
	params := DefaultParameters()
	f := &recordingFactory{events: &events}
	s := &recordingSlot{events: &events}
	r := &Rebuilder{Params: &params, Slot: s, Factory: f}
	require.NoError(t, r.Init())
	events = events[:0]
	return r, f, s, &events
}

func TestRebuilderInitOnlyOnce(t *testing.T) {
	r, f, s, events := newTestRebuilder(t)
	first := s.g

	require.NoError(t, r.Init())
	assert.Same(t, first, s.g)
	assert.Empty(t, *events)
	assert.Empty(t, f.released)
}

func TestRadiusChangeRebuildsSphere(t *testing.T) {
	r, f, s, events := newTestRebuilder(t)
	old := s.g

	rebuilt, err := r.RadiusChanged(5)
	require.NoError(t, err)
	assert.True(t, rebuilt)

	assert.Equal(t, Sphere, s.g.Kind)
	assert.Equal(t, 5.0, s.g.Radius)
	require.Len(t, f.released, 1)
	assert.Same(t, old, f.released[0])
	assert.Equal(t, []string{"build sphere", "release sphere", "install sphere"}, *events)
}

func TestRadiusChangeKeepsPlane(t *testing.T) {
	r, f, s, events := newTestRebuilder(t)
	require.NoError(t, r.CycleShape())
	plane := s.g
	f.released = nil
	*events = (*events)[:0]

	rebuilt, err := r.RadiusChanged(5)
	require.NoError(t, err)
	assert.False(t, rebuilt)

	assert.Same(t, plane, s.g)
	assert.Equal(t, Plane, s.g.Kind)
	assert.Empty(t, f.released)
	assert.Empty(t, *events)
	assert.Equal(t, 5.0, r.Params.Radius)

	// The stored radius applies when the sphere comes back.
	require.NoError(t, r.CycleShape())
	assert.Equal(t, Sphere, s.g.Kind)
	assert.Equal(t, 5.0, s.g.Radius)
}

func TestCycleShapeReleasesOncePerRebuild(t *testing.T) {
	r, f, s, _ := newTestRebuilder(t)
	start := r.Params.Shape

	var installed []*Geometry
	for i := 0; i < len(shapeKinds); i++ {
		installed = append(installed, s.g)
		require.NoError(t, r.CycleShape())
		require.Len(t, f.released, i+1)
		assert.Same(t, installed[i], f.released[i])
	}
	assert.Equal(t, start, r.Params.Shape)
	assert.Equal(t, start, s.g.Kind)
}

func TestRebuildFailureKeepsState(t *testing.T) {
	r, f, s, events := newTestRebuilder(t)
	old := s.g
	f.fail = errors.New("out of memory")

	err := r.CycleShape()
	require.Error(t, err)
	assert.ErrorIs(t, err, f.fail)
	assert.Equal(t, Sphere, r.Params.Shape)
	assert.Same(t, old, s.g)
	assert.Empty(t, f.released)
	assert.Empty(t, *events)

	rebuilt, err := r.RadiusChanged(4)
	assert.Error(t, err)
	assert.False(t, rebuilt)
	assert.Same(t, old, s.g)
}

func TestRebuilderWithSceneContext(t *testing.T) {
	params := DefaultParameters()
	ctx, err := NewContext(&params, DefaultCameraOptions(), newTestSurface(8, 8), nil)
	require.NoError(t, err)

	r := &Rebuilder{Params: &params, Slot: ctx, Factory: DefaultShapeFactory()}
	require.NoError(t, r.Init())
	first := ctx.Geometry()

	_, err = r.RadiusChanged(5)
	require.NoError(t, err)
	assert.True(t, first.Disposed())
	assert.False(t, ctx.Geometry().Disposed())
	assert.Equal(t, len(ctx.Geometry().Vertices), len(ctx.Scene.Mesh(ctx.meshID).Vertices))
}
