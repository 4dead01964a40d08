package quarkgl

import "github.com/chewxy/math32"

const maxPitch = math32.Pi/2 - 0.01

// OrbitController provides orbit/zoom interactions for a camera.
//
// Input handlers call Rotate and Zoom; Update is called once per frame and,
// with damping enabled, eases the accumulated motion out over several frames.
// It does not depend on any input system.
type OrbitController struct {
	Target Vec3
	Yaw    Scalar
	Pitch  Scalar
	Radius Scalar

	MinRadius Scalar
	MaxRadius Scalar

	EnableDamping bool
	DampingFactor Scalar // fraction of the pending motion applied per frame

	yawDelta   Scalar
	pitchDelta Scalar
	zoomDelta  Scalar
}

// NewOrbitController derives yaw, pitch and radius from a camera placement.
func NewOrbitController(cam Camera) *OrbitController {
	d := cam.Position.Sub(cam.Target)
	r := Len(d)
	c := &OrbitController{Target: cam.Target, Radius: r, DampingFactor: 0.05}
	if r > 0 {
		c.Yaw = math32.Atan2(d.X, d.Z)
		c.Pitch = -math32.Asin(d.Y / r)
	}
	return c
}

// Apply places the camera from the current orbit state.
func (c *OrbitController) Apply(cam *Camera) {
	if cam == nil {
		return
	}
	r := c.clampRadius(c.Radius)
	if r == 0 {
		r = 3
	}

	m := Mat4Mul(Mat4RotateY(c.Yaw), Mat4RotateX(c.Pitch))
	p := Mat4MulV4(m, Vec4{X: 0, Y: 0, Z: r, W: 1})

	cam.Position = c.Target.Add(V3(p.X, p.Y, p.Z))
	cam.Target = c.Target
	if cam.Up == (Vec3{}) {
		cam.Up = V3(0, 1, 0)
	}
}

func (c *OrbitController) Rotate(deltaYaw, deltaPitch Scalar) {
	c.yawDelta += deltaYaw
	c.pitchDelta += deltaPitch
}

func (c *OrbitController) Zoom(delta Scalar) {
	c.zoomDelta += delta
}

// Update consumes pending motion and applies it to cam. It reports whether
// the camera is still moving.
func (c *OrbitController) Update(cam *Camera) bool {
	f := Scalar(1)
	if c.EnableDamping {
		f = c.DampingFactor
		if f <= 0 || f > 1 {
			f = 0.05
		}
	}

	c.Yaw += c.yawDelta * f
	c.Pitch += c.pitchDelta * f
	c.Radius = c.clampRadius(c.Radius + c.zoomDelta*f)
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}

	if c.EnableDamping {
		keep := 1 - f
		c.yawDelta *= keep
		c.pitchDelta *= keep
		c.zoomDelta *= keep
	} else {
		c.yawDelta, c.pitchDelta, c.zoomDelta = 0, 0, 0
	}

	const eps = 1e-5
	moving := math32.Abs(c.yawDelta) > eps || math32.Abs(c.pitchDelta) > eps || math32.Abs(c.zoomDelta) > eps
	if !moving {
		c.yawDelta, c.pitchDelta, c.zoomDelta = 0, 0, 0
	}

	c.Apply(cam)
	return moving
}

func (c *OrbitController) clampRadius(r Scalar) Scalar {
	if c.MinRadius != 0 && r < c.MinRadius {
		r = c.MinRadius
	}
	if c.MaxRadius != 0 && r > c.MaxRadius {
		r = c.MaxRadius
	}
	return r
}
