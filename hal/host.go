package hal

// HostConfig describes the desktop host.
type HostConfig struct {
	Title      string
	Width      int
	Height     int
	SampleRate int

	// Headless replaces audio output with a silent player driven by the clock.
	Headless bool
}

type hostHAL struct {
	cfg    HostConfig
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	ptr    *hostPointer
	clock  *hostClock
	aud    Audio
	resize []func(ResizeEvent)
}

// New returns a host HAL implementation.
func New(cfg HostConfig) HAL {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 540
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	clock := newHostClock()
	var aud Audio
	if cfg.Headless {
		aud = newVirtualAudio(cfg.SampleRate, clock)
	} else {
		aud = newHostAudio(cfg.SampleRate, clock)
	}
	return &hostHAL{
		cfg:   cfg,
		fb:    newHostFramebuffer(cfg.Width, cfg.Height),
		kbd:   newHostKeyboard(),
		ptr:   newHostPointer(),
		clock: clock,
		aud:   aud,
	}
}

func (h *hostHAL) Display() Display { return hostDisplay{h: h} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd, ptr: h.ptr} }
func (h *hostHAL) Clock() Clock     { return h.clock }
func (h *hostHAL) Audio() Audio     { return h.aud }

func (h *hostHAL) emitResize(ev ResizeEvent) {
	for _, fn := range h.resize {
		fn(ev)
	}
}

type hostDisplay struct {
	h *hostHAL
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.h.fb }

func (d hostDisplay) OnResize(fn func(ResizeEvent)) {
	if fn != nil {
		d.h.resize = append(d.h.resize, fn)
	}
}

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }
