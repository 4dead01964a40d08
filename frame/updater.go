// Package frame drives the per-refresh update: read the clock, sample the
// analyzer, push uniforms, step the camera controls, render.
package frame

import (
	"math"

	"pulse/scene"
)

// Clock reports elapsed seconds since start. It never goes backwards.
type Clock interface {
	Elapsed() float64
}

// Analyzer reports the current average frequency magnitude in 0..255.
type Analyzer interface {
	Sample() float64
}

// Uniforms receives the per-frame shader inputs.
type Uniforms interface {
	SetTime(t float64)
	SetAmplitude(a float64)
}

// Controls is the damped camera controller.
type Controls interface {
	Update()
}

// Renderer draws the scene with the current camera.
type Renderer interface {
	Draw() error
}

// Updater performs one frame of work. It holds no state besides the shared
// render parameters and a frame counter.
type Updater struct {
	Clock    Clock
	Analyzer Analyzer
	Params   *scene.RenderParameters
	Uniforms Uniforms
	Controls Controls
	Renderer Renderer

	frames uint64
}

// Tick runs steps 1 to 5 of a frame in order. A render error is returned
// after the parameters and uniforms were already updated.
func (u *Updater) Tick() error {
	u.frames++

	t := u.Clock.Elapsed()

	amp := 0.0
	if u.Analyzer != nil {
		amp = sanitize(u.Analyzer.Sample())
	}

	if u.Params != nil {
		u.Params.Advance(t, amp)
		t = u.Params.Time
	}
	if u.Uniforms != nil {
		u.Uniforms.SetTime(t)
		u.Uniforms.SetAmplitude(amp)
	}
	if u.Controls != nil {
		u.Controls.Update()
	}
	if u.Renderer != nil {
		return u.Renderer.Draw()
	}
	return nil
}

// Frames reports how many times Tick ran.
func (u *Updater) Frames() uint64 { return u.frames }

// sanitize keeps an analyzer reading inside 0..255.
func sanitize(a float64) float64 {
	switch {
	case math.IsNaN(a), a < 0:
		return 0
	case a > 255:
		return 255
	}
	return a
}
