package recorder

import (
	"context"
	"errors"
	"io"

	"github.com/dmitrijs2005/shadowinterview/internal/audio"
)

type captureResult struct {
	frames [][]byte
	// err is the device error that ended capture early, if any.
	err error
}

// captureSession is one running capture loop.
type captureSession struct {
	stopCh chan chan captureResult
	done   chan struct{}
}

// startCapture opens the device synchronously so acquisition failures reach
// the caller; reading happens in the background.
func startCapture(ctx context.Context, src audio.Source, f audio.Format) (*captureSession, error) {
	stream, err := src.Open(ctx, f)
	if err != nil {
		return nil, err
	}

	s := &captureSession{
		stopCh: make(chan chan captureResult),
		done:   make(chan struct{}),
	}
	go s.run(stream, f.FrameBytes())

	return s, nil
}

// run owns the frame buffer until a stop request arrives.
func (s *captureSession) run(stream audio.Stream, frameBytes int) {
	defer close(s.done)

	frames := make(chan []byte)
	readErr := make(chan error, 1)
	go readFrames(stream, frameBytes, frames, readErr)

	var (
		buf        [][]byte
		captureErr error
	)

	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				// device gave up before stop; keep what we have
				captureErr = <-readErr
				frames = nil
				continue
			}
			buf = append(buf, frame)

		case reply := <-s.stopCh:
			_ = stream.Close()
			if frames != nil {
				for frame := range frames {
					buf = append(buf, frame)
				}
				captureErr = <-readErr
			}
			reply <- captureResult{frames: buf, err: captureErr}
			return
		}
	}
}

// readFrames pumps whole frames from stream until it fails or reaches EOF.
// It reports exactly once on errc (nil for EOF) and then closes out.
func readFrames(stream audio.Stream, frameBytes int, out chan<- []byte, errc chan<- error) {
	defer close(out)

	for {
		frame := make([]byte, frameBytes)
		n, err := stream.Read(frame)
		if n == frameBytes {
			out <- frame
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			errc <- err
			return
		}
	}
}

// stop halts capture and returns everything captured so far. Safe to call
// more than once; later calls return an empty result.
func (s *captureSession) stop() captureResult {
	reply := make(chan captureResult, 1)
	select {
	case s.stopCh <- reply:
		return <-reply
	case <-s.done:
		return captureResult{}
	}
}
