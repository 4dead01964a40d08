package audio

import "time"

// Tap yields the most recent samples of whatever is playing.
type Tap interface {
	// Window fills dst with mono samples ending at the playback position and
	// reports whether anything is playing.
	Window(dst []float64) bool
}

// Cursor is the playback position of a source.
type Cursor interface {
	Position() time.Duration
	IsPlaying() bool
}

// PCMTap reads the decoded asset at the source's playback position.
type PCMTap struct {
	asset  *Asset
	cursor Cursor
	loop   bool
}

func NewPCMTap(a *Asset, c Cursor, loop bool) *PCMTap {
	return &PCMTap{asset: a, cursor: c, loop: loop}
}

func (t *PCMTap) Window(dst []float64) bool {
	frames := t.asset.Frames()
	if frames == 0 || t.cursor == nil || !t.cursor.IsPlaying() {
		return false
	}

	pos := int(t.cursor.Position().Seconds() * float64(t.asset.SampleRate))
	if t.loop {
		pos %= frames
	} else if pos > frames {
		return false
	}

	start := pos - len(dst)
	for i := range dst {
		f := start + i
		if t.loop {
			f = ((f % frames) + frames) % frames
		} else if f < 0 || f >= frames {
			dst[i] = 0
			continue
		}
		dst[i] = t.asset.Mono(f)
	}
	return true
}
