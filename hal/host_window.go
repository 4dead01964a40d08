//go:build cgo

package hal

import (
	"errors"

	"pulse/frame"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow starts a resizable desktop window that displays the framebuffer
// and forwards input. It blocks until the window closes or step returns
// frame.ErrStop.
func RunWindow(cfg HostConfig, newApp func(HAL) (func() error, error)) error {
	cfg.Headless = false
	h := New(cfg).(*hostHAL)
	step, err := newApp(h)
	if err != nil {
		return err
	}

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(h.cfg.Width, h.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	err = ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type hostGame struct {
	h     *hostHAL
	fbImg *ebiten.Image
	pix   []byte
	step  func() error

	outW, outH int
	scale      float64
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.ptr.poll()
	if g.step == nil {
		return nil
	}
	// Other step errors are reported by the step itself; the loop keeps going.
	if err := g.step(); errors.Is(err, frame.ErrStop) {
		return ebiten.Termination
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	w, h := fb.Width(), fb.Height()
	if w <= 0 || h <= 0 {
		return
	}
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != w || g.fbImg.Bounds().Dy() != h {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
		g.pix = make([]byte, w*h*4)
	}

	fb.snapshot(g.pix)
	g.fbImg.WritePixels(g.pix)
	screen.DrawImage(g.fbImg, nil)
}

// Layout reports size changes to the registered handlers, which resize the
// framebuffer, and renders at the framebuffer resolution.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if outsideWidth != g.outW || outsideHeight != g.outH || scale != g.scale {
		g.outW, g.outH, g.scale = outsideWidth, outsideHeight, scale
		g.h.emitResize(ResizeEvent{Width: outsideWidth, Height: outsideHeight, DeviceScale: scale})
	}
	return g.h.fb.Width(), g.h.fb.Height()
}
