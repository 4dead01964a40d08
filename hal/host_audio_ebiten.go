//go:build cgo

package hal

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// hostAudio plays decoded assets through Ebiten's audio package.
type hostAudio struct {
	mu         sync.Mutex
	ctx        *audio.Context
	sampleRate int
}

func newHostAudio(sampleRate int, _ Clock) Audio {
	return &hostAudio{sampleRate: sampleRate}
}

func (a *hostAudio) SampleRate() int { return a.sampleRate }

func (a *hostAudio) Decode(name string, r io.Reader) ([]byte, error) {
	return decodeAsset(a.sampleRate, name, r)
}

// context creates the process-wide audio context on first use.
func (a *hostAudio) context() (*audio.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ctx != nil {
		return a.ctx, nil
	}
	if cur := audio.CurrentContext(); cur != nil {
		if cur.SampleRate() != a.sampleRate {
			return nil, errors.New("host audio: ebiten audio context sample rate is fixed")
		}
		a.ctx = cur
		return cur, nil
	}
	a.ctx = audio.NewContext(a.sampleRate)
	return a.ctx, nil
}

func (a *hostAudio) NewPlayer(pcm []byte, loop bool) (AudioPlayer, error) {
	if len(pcm) == 0 {
		return nil, errors.New("host audio: empty pcm")
	}
	ctx, err := a.context()
	if err != nil {
		return nil, err
	}
	if !loop {
		return ctx.NewPlayerFromBytes(pcm), nil
	}
	src := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
	p, err := ctx.NewPlayer(src)
	if err != nil {
		return nil, err
	}
	return p, nil
}
