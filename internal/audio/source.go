package audio

import (
	"context"
	"io"
)

// Source opens capture streams on an input device.
type Source interface {
	Open(ctx context.Context, f Format) (Stream, error)
}

// Stream yields whole capture frames.
//
// Read fills frame (len == Format.FrameBytes()) and blocks until a full frame
// is available. After Close, frames that were already captured are still
// returned; io.EOF follows once they are exhausted.
type Stream interface {
	Read(frame []byte) (int, error)
	Close() error
}

// Player plays mono 16-bit PCM and blocks until playback has drained.
type Player interface {
	Play(ctx context.Context, samples []int16, sampleRate int) error
}

// framer re-chunks arbitrary PCM writes into fixed-size frames.
type framer struct {
	size    int
	pending []byte
}

// push appends b and returns every complete frame now available.
func (f *framer) push(b []byte) [][]byte {
	f.pending = append(f.pending, b...)

	var out [][]byte
	for len(f.pending) >= f.size {
		frame := make([]byte, f.size)
		copy(frame, f.pending[:f.size])
		f.pending = f.pending[f.size:]
		out = append(out, frame)
	}
	return out
}

var _ io.Writer = writerFunc(nil)

// writerFunc adapts a function to io.Writer for pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (w writerFunc) Write(b []byte) (int, error) {
	return w(b)
}
