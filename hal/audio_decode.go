//go:build cgo

package hal

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// decodeAsset decodes an ogg, wav or mp3 stream into 16-bit stereo PCM,
// picking the codec from the file extension.
func decodeAsset(sampleRate int, name string, r io.Reader) ([]byte, error) {
	var (
		s   io.Reader
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".ogg", ".oga":
		s, err = vorbis.DecodeWithSampleRate(sampleRate, r)
	case ".wav":
		s, err = wav.DecodeWithSampleRate(sampleRate, r)
	case ".mp3":
		s, err = mp3.DecodeWithSampleRate(sampleRate, r)
	default:
		return nil, fmt.Errorf("decode %s: unsupported format %q", name, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	pcm, err := io.ReadAll(s)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return pcm, nil
}
