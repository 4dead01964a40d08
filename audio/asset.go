package audio

import "time"

// BytesPerFrame is the size of one 16-bit stereo sample frame.
const BytesPerFrame = 4

// Asset is a decoded sound: signed 16-bit little-endian stereo PCM.
type Asset struct {
	Name       string
	PCM        []byte
	SampleRate int
}

// Frames reports the number of stereo sample frames.
func (a *Asset) Frames() int {
	if a == nil {
		return 0
	}
	return len(a.PCM) / BytesPerFrame
}

func (a *Asset) Duration() time.Duration {
	if a == nil || a.SampleRate <= 0 {
		return 0
	}
	return time.Duration(a.Frames()) * time.Second / time.Duration(a.SampleRate)
}

// Mono returns frame i as the mean of both channels in -1..1.
func (a *Asset) Mono(i int) float64 {
	off := i * BytesPerFrame
	l := int16(uint16(a.PCM[off]) | uint16(a.PCM[off+1])<<8)
	r := int16(uint16(a.PCM[off+2]) | uint16(a.PCM[off+3])<<8)
	return (float64(l) + float64(r)) / (2 * 32768)
}
