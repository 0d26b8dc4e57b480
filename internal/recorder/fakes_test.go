package recorder

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/audio"
)

// fakeStream returns queued frames, then blocks until Close or a failure.
type fakeStream struct {
	frames chan []byte
	closed chan struct{}
	once   sync.Once
	failAt error
}

func newFakeStream(queued ...[]byte) *fakeStream {
	s := &fakeStream{
		frames: make(chan []byte, len(queued)+16),
		closed: make(chan struct{}),
	}
	for _, f := range queued {
		s.frames <- f
	}
	return s
}

func (s *fakeStream) Read(frame []byte) (int, error) {
	select {
	case f := <-s.frames:
		return copy(frame, f), nil
	default:
	}

	if s.failAt != nil && len(s.frames) == 0 {
		return 0, s.failAt
	}

	select {
	case f := <-s.frames:
		return copy(frame, f), nil
	case <-s.closed:
		select {
		case f := <-s.frames:
			return copy(frame, f), nil
		default:
			return 0, io.EOF
		}
	}
}

func (s *fakeStream) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

// fakeSource hands out prepared streams in order. When gate is set, Open
// announces itself on entered and waits for gate to close.
type fakeSource struct {
	mu      sync.Mutex
	streams []*fakeStream
	openErr error
	opened  int

	gate    chan struct{}
	entered chan struct{}
}

func (s *fakeSource) Open(_ context.Context, _ audio.Format) (audio.Stream, error) {
	if s.gate != nil {
		s.entered <- struct{}{}
		<-s.gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openErr != nil {
		return nil, s.openErr
	}
	if s.opened >= len(s.streams) {
		return nil, errors.New("no stream prepared")
	}
	st := s.streams[s.opened]
	s.opened++
	return st, nil
}

type fakeTranscriber struct {
	mu    sync.Mutex
	calls []string
	text  string
	err   error
}

func (t *fakeTranscriber) Transcribe(_ context.Context, path string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, path)
	return t.text, t.err
}

func (t *fakeTranscriber) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

// steppingClock advances one second per call.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}

func frame(f audio.Format, fill byte) []byte {
	b := make([]byte, f.FrameBytes())
	for i := range b {
		b[i] = fill
	}
	return b
}
