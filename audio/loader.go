package audio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"pulse/kernel"
)

// Decoder turns an encoded asset into 16-bit stereo PCM.
type Decoder interface {
	SampleRate() int
	Decode(name string, r io.Reader) ([]byte, error)
}

// Loader decodes assets off the frame thread and hands the result back
// through the mailbox, so completion callbacks run on the frame thread.
type Loader struct {
	Decoder Decoder
	Open    func(name string) (io.ReadCloser, error)
	Mailbox *kernel.Mailbox
	Log     *slog.Logger
}

// Load starts decoding path and returns immediately. done runs exactly once
// from a mailbox drain with either the asset or the error.
func (l *Loader) Load(ctx context.Context, path string, done func(*Asset, error)) {
	log := l.Log
	if log == nil {
		log = discardLogger
	}
	log.Info("asset load started", "path", path)

	go func() {
		start := time.Now()
		a, err := l.decode(path)
		msg := kernel.Message{Kind: kernel.MsgAssetLoaded}
		if err != nil {
			msg.Kind = kernel.MsgAssetFailed
			log.Error("asset load failed", "path", path, "err", err)
		} else {
			log.Info("asset loaded", "path", path, "duration", a.Duration(), "took", time.Since(start))
		}
		msg.Run = func() { done(a, err) }
		if err := l.Mailbox.Send(ctx, msg); err != nil {
			log.Warn("asset load result dropped", "path", path, "err", err)
		}
	}()
}

func (l *Loader) decode(path string) (*Asset, error) {
	if l.Decoder == nil {
		return nil, fmt.Errorf("load %s: %w", path, ErrNoAudio)
	}
	open := l.Open
	if open == nil {
		open = func(name string) (io.ReadCloser, error) { return os.Open(name) }
	}

	f, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()

	pcm, err := l.Decoder.Decode(path, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if len(pcm) < BytesPerFrame {
		return nil, fmt.Errorf("load %s: empty stream", path)
	}
	return &Asset{Name: path, PCM: pcm, SampleRate: l.Decoder.SampleRate()}, nil
}
