package hal

import (
	"errors"
	"io"
	"time"
)

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGBA8888 is 32bpp in image.RGBA byte order.
	PixelFormatRGBA8888 PixelFormat = iota + 1
)

// Framebuffer is a resizable pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Resize(width, height int)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
)

// KeyEvent is a keyboard event. Text input arrives with Code == KeyUnknown
// and a non-zero Rune.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerEvent is a relative pointer motion or wheel step.
type PointerEvent struct {
	DX, DY   float64
	Wheel    float64
	Dragging bool
}

// Pointer provides pointer events used by camera controls.
type Pointer interface {
	Events() <-chan PointerEvent
}

// ResizeEvent reports a new logical output size.
type ResizeEvent struct {
	Width, Height int
	DeviceScale   float64
}

// Display provides access to the framebuffer and size changes.
type Display interface {
	Framebuffer() Framebuffer

	// OnResize registers fn to run on the frame thread whenever the logical
	// output size changes. The first call happens before the first frame.
	OnResize(fn func(ResizeEvent))
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// Clock reports monotonic time in seconds since the clock was first read.
type Clock interface {
	Elapsed() float64
}

// AudioPlayer controls one decoded audio source.
type AudioPlayer interface {
	Play()
	Pause()
	IsPlaying() bool
	Rewind() error
	Position() time.Duration
	SetVolume(v float64)
	Close() error
}

// Audio decodes assets and creates players.
//
// Decoded PCM is signed 16-bit little-endian stereo at SampleRate.
type Audio interface {
	SampleRate() int
	Decode(name string, r io.Reader) ([]byte, error)
	NewPlayer(pcm []byte, loop bool) (AudioPlayer, error)
}

// HAL provides the only contact point between the app and the outside world.
type HAL interface {
	Display() Display
	Input() Input
	Clock() Clock
	Audio() Audio
}
