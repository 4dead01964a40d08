// Package audio handles the sound side of the visualizer: playback state,
// asynchronous asset loading and the frequency analysis that feeds the
// amplitude uniform.
package audio

import (
	"errors"
	"io"
	"log/slog"
)

// ErrNoAudio reports that no audio backend is available.
var ErrNoAudio = errors.New("audio: no audio backend")

// Volume is the fixed playback volume.
const Volume = 0.5

// State is the playback lifecycle.
type State uint8

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// Source is a playable decoded asset.
type Source interface {
	Play()
	Pause()
	Rewind() error
	SetVolume(v float64)
}

// Playback owns the play/stop state. It changes only on explicit commands,
// never from the frame loop.
//
// Commands may arrive before the asset finished loading; the state still
// changes and Attach brings the source in line with it.
type Playback struct {
	Log *slog.Logger

	state State
	src   Source
}

func (p *Playback) State() State { return p.state }

// Attached reports whether a source is installed.
func (p *Playback) Attached() bool { return p.src != nil }

// Play toggles: from Stopped it starts playback, from Playing it stops.
func (p *Playback) Play() {
	if p.state == Playing {
		p.Stop()
		return
	}
	p.state = Playing
	if p.src != nil {
		p.src.Play()
	}
	p.logger().Info("playback", "state", p.state, "attached", p.src != nil)
}

// Stop pauses and rewinds the source. It is a no-op when already stopped.
func (p *Playback) Stop() {
	if p.state == Stopped {
		return
	}
	p.state = Stopped
	if p.src != nil {
		p.src.Pause()
		if err := p.src.Rewind(); err != nil {
			p.logger().Warn("rewind failed", "err", err)
		}
	}
	p.logger().Info("playback", "state", p.state)
}

// Attach installs the loaded source at the fixed volume and starts it if
// Play was already requested. A previously attached source is paused.
func (p *Playback) Attach(src Source) {
	if src == nil {
		return
	}
	if p.src != nil {
		p.src.Pause()
	}
	p.src = src
	src.SetVolume(Volume)
	if p.state == Playing {
		src.Play()
	}
}

func (p *Playback) logger() *slog.Logger {
	if p.Log == nil {
		return discardLogger
	}
	return p.Log
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
