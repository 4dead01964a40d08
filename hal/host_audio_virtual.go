package hal

import (
	"errors"
	"io"
	"sync"
	"time"
)

// virtualAudio decodes like the host backend but plays nothing. Player
// positions advance with the clock so the rest of the app behaves as if a
// device were consuming samples.
type virtualAudio struct {
	sampleRate int
	clock      Clock
}

func newVirtualAudio(sampleRate int, clock Clock) *virtualAudio {
	return &virtualAudio{sampleRate: sampleRate, clock: clock}
}

func (a *virtualAudio) SampleRate() int { return a.sampleRate }

func (a *virtualAudio) Decode(name string, r io.Reader) ([]byte, error) {
	return decodeAsset(a.sampleRate, name, r)
}

func (a *virtualAudio) NewPlayer(pcm []byte, loop bool) (AudioPlayer, error) {
	if len(pcm) == 0 {
		return nil, errors.New("virtual audio: empty pcm")
	}
	const bytesPerFrame = 4
	frames := len(pcm) / bytesPerFrame
	length := time.Duration(frames) * time.Second / time.Duration(a.sampleRate)
	return &virtualPlayer{clock: a.clock, length: length, loop: loop, volume: 1}, nil
}

type virtualPlayer struct {
	mu     sync.Mutex
	clock  Clock
	length time.Duration
	loop   bool
	volume float64

	playing bool
	base    time.Duration // position when playback last started
	started float64       // clock reading when playback last started
}

func (p *virtualPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return
	}
	p.playing = true
	p.started = p.clock.Elapsed()
}

func (p *virtualPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return
	}
	p.base = p.positionLocked()
	p.playing = false
}

func (p *virtualPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing && !p.loop && p.positionLocked() >= p.length {
		p.base = p.length
		p.playing = false
	}
	return p.playing
}

func (p *virtualPlayer) Rewind() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = 0
	if p.playing {
		p.started = p.clock.Elapsed()
	}
	return nil
}

func (p *virtualPlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *virtualPlayer) positionLocked() time.Duration {
	pos := p.base
	if p.playing {
		pos += time.Duration((p.clock.Elapsed() - p.started) * float64(time.Second))
	}
	if p.length <= 0 {
		return 0
	}
	if p.loop {
		return pos % p.length
	}
	if pos > p.length {
		pos = p.length
	}
	return pos
}

func (p *virtualPlayer) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
}

func (p *virtualPlayer) Close() error {
	p.Pause()
	return nil
}
