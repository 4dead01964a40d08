//go:build !cgo

package hal

// Without cgo there is no audio output; players stay silent and follow the clock.
func newHostAudio(sampleRate int, clock Clock) Audio {
	return newVirtualAudio(sampleRate, clock)
}
