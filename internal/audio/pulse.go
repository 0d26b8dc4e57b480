package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

const applicationName = "shadow-interview"

func newPulseClient() (*pulse.Client, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName(applicationName),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: connect pulse server: %v", ErrDevice, err)
	}
	return client, nil
}

// ErrDevice is wrapped by device-acquisition failures; callers match it via
// IsDeviceError.
var ErrDevice = errors.New("audio device")

// IsDeviceError reports whether err came from acquiring an audio device.
func IsDeviceError(err error) bool {
	return errors.Is(err, ErrDevice)
}

// PulseSource records from a PulseAudio source. An empty or "default"
// SourceName selects the server's default input.
type PulseSource struct {
	SourceName string
}

func (s PulseSource) Open(ctx context.Context, f Format) (Stream, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	client, err := newPulseClient()
	if err != nil {
		return nil, err
	}

	source, err := s.resolve(client)
	if err != nil {
		client.Close()
		return nil, err
	}

	ps := &pulseStream{
		client: client,
		framer: framer{size: f.FrameBytes()},
		frames: make(chan []byte, 64),
		done:   make(chan struct{}),
	}

	channels := pulse.RecordMono
	if f.Channels == 2 {
		channels = pulse.RecordStereo
	}

	writer := pulse.NewWriter(writerFunc(ps.onPCM), pulseproto.FormatInt16LE)
	stream, err := client.NewRecord(
		writer,
		pulse.RecordSource(source),
		channels,
		pulse.RecordSampleRate(f.SampleRate),
		pulse.RecordBufferFragmentSize(uint32(f.FrameBytes())),
		pulse.RecordMediaName("interview answer"),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: create pulse record stream: %v", ErrDevice, err)
	}

	ps.stream = stream
	stream.Start()

	return ps, nil
}

func (s PulseSource) resolve(client *pulse.Client) (*pulse.Source, error) {
	name := strings.TrimSpace(s.SourceName)
	if name == "" || name == "default" {
		src, err := client.DefaultSource()
		if err != nil {
			return nil, fmt.Errorf("%w: read default source: %v", ErrDevice, err)
		}
		return src, nil
	}

	src, err := client.SourceByID(name)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve source %q: %v", ErrDevice, name, err)
	}
	return src, nil
}

type pulseStream struct {
	client *pulse.Client
	stream *pulse.RecordStream

	frames chan []byte
	done   chan struct{}

	mu     sync.Mutex
	framer framer
	closed bool
}

// onPCM runs on the pulse client goroutine.
func (p *pulseStream) onPCM(b []byte) (int, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return 0, io.EOF
	}
	frames := p.framer.push(b)
	p.mu.Unlock()

	for _, frame := range frames {
		select {
		case p.frames <- frame:
		case <-p.done:
			return 0, io.EOF
		}
	}
	return len(b), nil
}

func (p *pulseStream) Read(frame []byte) (int, error) {
	select {
	case f := <-p.frames:
		return copy(frame, f), nil
	default:
	}

	select {
	case f := <-p.frames:
		return copy(frame, f), nil
	case <-p.done:
		select {
		case f := <-p.frames:
			return copy(frame, f), nil
		default:
			return 0, io.EOF
		}
	}
}

func (p *pulseStream) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	var err error
	if p.stream != nil {
		p.stream.Stop()
		err = p.stream.Error()
		p.stream.Close()
	}
	p.client.Close()
	return err
}

// PulsePlayer plays PCM through the default PulseAudio sink.
type PulsePlayer struct{}

func (PulsePlayer) Play(ctx context.Context, samples []int16, sampleRate int) error {
	if len(samples) == 0 {
		return nil
	}

	client, err := newPulseClient()
	if err != nil {
		return err
	}
	defer client.Close()

	cursor := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if cursor >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[cursor:])
		cursor += n
		if cursor >= len(samples) {
			return n, pulse.EndOfData
		}
		return n, nil
	})

	stream, err := client.NewPlayback(
		reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(sampleRate),
		pulse.PlaybackLatency(0.1),
		pulse.PlaybackMediaName("interview assistant speech"),
	)
	if err != nil {
		return fmt.Errorf("%w: create pulse playback stream: %v", ErrDevice, err)
	}
	defer stream.Close()

	drained := make(chan struct{})
	stream.Start()
	go func() {
		stream.Drain()
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		stream.Stop()
		<-drained
		return ctx.Err()
	}

	if err := stream.Error(); err != nil {
		return fmt.Errorf("play speech stream: %w", err)
	}
	return nil
}
