package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"pulse/hal"
	"pulse/panel"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// How long a recovered panic stays on screen, in seconds of scene time.
const crashBannerSeconds = 3

// recoverFrame turns a panic in the current frame into a log entry and an
// on-screen banner. The frame is dropped and err is cleared so the loop
// keeps running.
func (s *System) recoverFrame(err *error) {
	v := recover()
	if v == nil {
		return
	}
	stack := debug.Stack()
	s.log.Error("frame panic", "panic", v, "frame", s.updater.Frames())
	for _, line := range strings.Split(string(stack), "\n") {
		if line == "" {
			continue
		}
		s.log.Debug("frame panic stack", "line", line)
	}
	s.crash.set(fmt.Sprintf("panic: %v", v), s.params.Time)
	*err = nil
}

type crashBanner struct {
	msg   string
	since float64
}

func (b *crashBanner) set(msg string, now float64) {
	b.msg = msg
	b.since = now
}

// draw paints the message along the bottom edge, wrapped to the width.
func (b *crashBanner) draw(fb hal.Framebuffer, now float64, scale int) {
	if b.msg == "" || fb == nil || fb.Format() != hal.PixelFormatRGBA8888 {
		return
	}
	if now-b.since > crashBannerSeconds {
		b.msg = ""
		return
	}
	font := &proggy.TinySZ8pt7b
	const lineHeight = 11
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 {
		return
	}

	d := panel.NewDisplayer(fb, scale)
	w, h := d.Size()
	cols := w / fontWidth
	if cols <= 0 {
		cols = 1
	}

	var lines []string
	for line := b.msg; len(line) > 0; {
		var chunk string
		chunk, line = takeRunes(line, cols)
		lines = append(lines, chunk)
		line = strings.TrimLeft(line, " ")
	}

	y := h - int16(len(lines))*lineHeight
	d.FillRect(0, y-2, w, h-y+2, color.RGBA{R: 0x60, A: 0xFF})
	fg := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	for _, line := range lines {
		tinyfont.WriteLine(d, font, 0, y+8, line, fg)
		y += lineHeight
	}
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
