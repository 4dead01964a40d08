package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"pulse/audio"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineBuffer(rate, channels, seconds int) *goaudio.IntBuffer {
	n := rate * seconds
	data := make([]int, 0, n*channels)
	for i := 0; i < n; i++ {
		v := int(0.5 * 32767 * math.Sin(2*math.Pi*1000*float64(i)/float64(rate)))
		for c := 0; c < channels; c++ {
			data = append(data, v)
		}
	}
	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
}

func TestReadWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, 8000, 16, 1, 1)
	require.NoError(t, enc.Write(sineBuffer(8000, 1, 1)))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	a, err := readWAV(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, a.SampleRate)
	assert.Equal(t, 8000, a.Frames())
	// mono is duplicated into both channels
	assert.Equal(t, a.PCM[4:6], a.PCM[6:8])
}

func TestAssetFromBufferDepths(t *testing.T) {
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: 48000},
		Data:           []int{1 << 23 / 2, -(1 << 23) / 2},
		SourceBitDepth: 24,
	}
	a, err := assetFromBuffer("x", buf)
	require.NoError(t, err)
	require.Equal(t, 1, a.Frames())
	assert.InDelta(t, 0.0, a.Mono(0), 1e-3)

	_, err = assetFromBuffer("x", &goaudio.IntBuffer{Format: &goaudio.Format{NumChannels: 1, SampleRate: 8000}})
	require.Error(t, err)
}

func TestScanWritesCurve(t *testing.T) {
	a, err := assetFromBuffer("tone", sineBuffer(44100, 2, 1))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, scan(&out, a, audio.DefaultAnalyzerConfig(), 30))

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Equal(t, []string{"frame", "time", "amplitude"}, rows[0])
	assert.Len(t, rows, 1+31)

	last, err := strconv.ParseFloat(rows[len(rows)-1][2], 64)
	require.NoError(t, err)
	assert.Greater(t, last, 0.0)
	assert.LessOrEqual(t, last, 255.0)
}

func TestScanRejectsBadFPS(t *testing.T) {
	a, err := assetFromBuffer("tone", sineBuffer(8000, 1, 1))
	require.NoError(t, err)
	require.Error(t, scan(&bytes.Buffer{}, a, audio.DefaultAnalyzerConfig(), 0))
}

func TestWriteOutputToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.csv")
	var stdout bytes.Buffer
	require.NoError(t, writeOutput(path, &stdout, func(w io.Writer) error {
		_, err := io.WriteString(w, "frame,time,amplitude\n")
		return err
	}))
	assert.Zero(t, stdout.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "frame,time,amplitude\n", string(data))
}

func TestWriteOutputToStdout(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, writeOutput("", &stdout, func(w io.Writer) error {
		_, err := io.WriteString(w, "x")
		return err
	}))
	assert.Equal(t, "x", stdout.String())
}

func TestWriteOutputErrors(t *testing.T) {
	boom := errors.New("boom")
	path := filepath.Join(t.TempDir(), "curve.csv")
	err := writeOutput(path, io.Discard, func(io.Writer) error { return boom })
	require.ErrorIs(t, err, boom)

	err = writeOutput(filepath.Join(t.TempDir(), "missing", "curve.csv"), io.Discard, func(io.Writer) error { return nil })
	require.Error(t, err)
}
