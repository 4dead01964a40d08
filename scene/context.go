package scene

import (
	"errors"
	"log/slog"
	"math"

	"pulse/quarkgl"
)

// Surface is the output pixel buffer the scene renders into.
type Surface interface {
	Width() int
	Height() int
	StrideBytes() int
	Buffer() []byte
	Resize(width, height int)
}

// CameraOptions places the perspective camera and its orbit controls.
type CameraOptions struct {
	FOVDeg   float32
	Near     float32
	Far      float32
	Position quarkgl.Vec3

	Damping       bool
	DampingFactor float32
}

func DefaultCameraOptions() CameraOptions {
	return CameraOptions{
		FOVDeg:        75,
		Near:          0.1,
		Far:           100,
		Position:      quarkgl.V3(3, 3, 3),
		Damping:       true,
		DampingFactor: 0.05,
	}
}

const maxPixelRatio = 2

// Context bundles the scene graph, camera, controls, renderer and uniforms
// with the shared render parameters. It is owned by the frame thread.
type Context struct {
	Scene    *quarkgl.Scene
	Renderer *quarkgl.Renderer
	Controls *quarkgl.OrbitController
	Uniforms *quarkgl.Uniforms
	Gradient *quarkgl.GradientTexture
	Params   *RenderParameters
	Surface  Surface
	Log      *slog.Logger

	meshID   int
	geometry *Geometry

	width, height int
	pixelRatio    float64
}

// NewContext creates the scene with one mesh using the audio-reactive
// material. The mesh has no geometry until one is installed.
func NewContext(params *RenderParameters, cam CameraOptions, surface Surface, log *slog.Logger) (*Context, error) {
	if params == nil {
		return nil, errors.New("scene: nil parameters")
	}
	if log == nil {
		log = discardLogger
	}

	s := quarkgl.CreateScene(1)
	s.Camera = quarkgl.Camera{
		Position: cam.Position,
		Up:       quarkgl.V3(0, 1, 0),
		FOVYRad:  quarkgl.DegToRad(cam.FOVDeg),
		Near:     cam.Near,
		Far:      cam.Far,
	}

	controls := quarkgl.NewOrbitController(s.Camera)
	controls.EnableDamping = cam.Damping
	if cam.DampingFactor > 0 {
		controls.DampingFactor = cam.DampingFactor
	}
	controls.MinRadius = 0.5
	controls.MaxRadius = cam.Far / 2

	c := &Context{
		Scene:      s,
		Renderer:   quarkgl.NewRenderer(0, 0, true),
		Controls:   controls,
		Uniforms:   &quarkgl.Uniforms{},
		Gradient:   quarkgl.NewGradientTexture(gradientTexels),
		Params:     params,
		Surface:    surface,
		Log:        log,
		pixelRatio: 1,
	}
	c.Uniforms.Gradient = c.Gradient

	c.meshID = s.AddMesh(quarkgl.Mesh{
		Material: quarkgl.Material{
			Blend:       quarkgl.BlendAdditive,
			Side:        quarkgl.SideDouble,
			Transparent: true,
			Wireframe:   params.Wireframe,
			Shader:      ReactiveShader{},
			Uniforms:    c.Uniforms,
		},
	})
	if c.meshID < 0 {
		return nil, errors.New("scene: no mesh slot")
	}
	return c, nil
}

// Geometry returns the installed geometry, or nil.
func (c *Context) Geometry() *Geometry { return c.geometry }

// SetGeometry installs g on the mesh. The scene keeps no reference to the
// previous geometry's data.
func (c *Context) SetGeometry(g *Geometry) {
	c.geometry = g
	c.Scene.SetMeshEnabled(c.meshID, g != nil)
	if g == nil {
		c.Scene.SetMeshGeometry(c.meshID, nil, nil)
		return
	}
	c.Scene.SetMeshGeometry(c.meshID, g.Vertices, g.Indices)
}

func (c *Context) SetTime(t float64) {
	c.Uniforms.Time = float32(t)
}

// SetAmplitude writes the amplitude uniform and marks the gradient texture
// for regeneration before the next draw.
func (c *Context) SetAmplitude(a float64) {
	c.Uniforms.Amplitude = float32(a)
	c.Gradient.Invalidate()
}

// Update applies damped camera motion.
func (c *Context) Update() {
	c.Controls.Update(&c.Scene.Camera)
}

// Orbit queues a camera rotation from a pointer drag in pixels.
func (c *Context) Orbit(dx, dy float64) {
	const radPerPixel = 0.01
	c.Controls.Rotate(float32(-dx*radPerPixel), float32(dy*radPerPixel))
}

// Zoom queues a dolly step; positive moves the camera closer.
func (c *Context) Zoom(steps float64) {
	c.Controls.Zoom(float32(-steps * 0.5))
}

// Resize applies a new logical output size. The camera aspect becomes
// width/height and the surface is resized to the size times the pixel ratio,
// min(devicePixelRatio, 2). It returns the surface size.
func (c *Context) Resize(width, height int, devicePixelRatio float64) (int, int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	pr := devicePixelRatio
	if pr <= 0 || math.IsNaN(pr) {
		pr = 1
	}
	pr = math.Min(pr, maxPixelRatio)

	c.width, c.height, c.pixelRatio = width, height, pr
	c.Scene.Camera.Aspect = float32(width) / float32(height)

	sw := int(math.Round(float64(width) * pr))
	sh := int(math.Round(float64(height) * pr))
	if c.Surface != nil {
		c.Surface.Resize(sw, sh)
	}
	c.Log.Debug("resize", "width", width, "height", height, "pixel_ratio", pr, "surface_w", sw, "surface_h", sh)
	return sw, sh
}

// Aspect reports the camera aspect ratio.
func (c *Context) Aspect() float32 { return c.Scene.Camera.Aspect }

// PixelRatio reports the capped device pixel ratio of the last resize.
func (c *Context) PixelRatio() float64 { return c.pixelRatio }

// Size reports the logical output size of the last resize.
func (c *Context) Size() (int, int) { return c.width, c.height }

// InvalidateColors regenerates the gradient before the next draw.
func (c *Context) InvalidateColors() { c.Gradient.Invalidate() }

// Draw renders one frame into the surface.
func (c *Context) Draw() error {
	if c.Surface == nil {
		return errors.New("scene: no surface")
	}
	if c.Gradient.NeedsUpdate() {
		FillGradient(c.Gradient, c.Params.InsideColor, c.Params.OutsideColor, float64(c.Uniforms.Amplitude))
	}
	if m := c.Scene.Mesh(c.meshID); m != nil {
		m.Material.Wireframe = c.Params.Wireframe
	}

	t := quarkgl.RGBATarget{
		Buf:    c.Surface.Buffer(),
		Stride: c.Surface.StrideBytes(),
		W:      c.Surface.Width(),
		H:      c.Surface.Height(),
	}
	c.Renderer.Render(&t, c.Scene)
	return nil
}
