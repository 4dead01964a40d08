package app

import (
	"pulse/internal/buildinfo"
	"pulse/internal/config"
	"pulse/panel"
	"pulse/scene"

	"github.com/lucasb-eyer/go-colorful"
)

func (s *System) newPanel() *panel.Panel {
	p := panel.New("pulse " + buildinfo.Short())

	p.AddBool("wireframe",
		func() bool { return s.params.Wireframe },
		func(v bool) { s.params.Wireframe = v },
	).Shortcut('w')

	p.AddRange("radius", scene.MinRadius, scene.MaxRadius, scene.RadiusStep,
		func() float64 { return s.params.Radius },
		func(v float64) { s.params.Radius = v },
	).OnFinishChange(s.radiusChanged)

	p.AddColor("insideColor",
		func() colorful.Color { return s.params.InsideColor },
		func(c colorful.Color) { s.params.InsideColor = c },
	).OnChange(s.scene.InvalidateColors)

	p.AddColor("outsideColor",
		func() colorful.Color { return s.params.OutsideColor },
		func(c colorful.Color) { s.params.OutsideColor = c },
	).OnChange(s.scene.InvalidateColors)

	p.AddCommand("playSound", s.playback.Play).Shortcut(' ')
	p.AddCommand("stopSound", s.playback.Stop).Shortcut('s')
	p.AddCommand("changeMesh", s.changeMesh).Shortcut('m')
	return p
}

func (s *System) radiusChanged(r float64) {
	if _, err := s.rebuild.RadiusChanged(r); err != nil {
		s.log.Error("radius change", "radius", r, "err", err)
	}
}

func (s *System) changeMesh() {
	if err := s.rebuild.CycleShape(); err != nil {
		s.log.Error("change mesh", "err", err)
	}
}

// applyConfig takes the panel-visible settings of a reloaded config. Radius
// and shape go through the same rebuild policy as panel edits. Audio and
// window settings apply on the next start.
func (s *System) applyConfig(c config.Config) {
	s.params.Wireframe = c.Scene.Wireframe
	s.params.InsideColor, s.params.OutsideColor = c.Scene.Colors()
	s.scene.InvalidateColors()

	if r := scene.ClampRadius(c.Scene.Radius); r != s.params.Radius {
		s.radiusChanged(r)
	}
	if want, err := scene.ParseShapeKind(c.Scene.Shape); err == nil {
		for i := 0; i < 2 && s.params.Shape != want; i++ {
			s.changeMesh()
		}
	}
	s.cfg.Scene = c.Scene
	s.cfg.Camera = c.Camera
	s.log.Info("config applied", "shape", s.params.Shape, "radius", s.params.Radius, "wireframe", s.params.Wireframe)
}
