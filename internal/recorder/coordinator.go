package recorder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/audio"
	"github.com/dmitrijs2005/shadowinterview/internal/common"
	"github.com/dmitrijs2005/shadowinterview/internal/logging"
	"github.com/dmitrijs2005/shadowinterview/internal/metrics"
)

// Transcriber turns a finished audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Result is the outcome of a successful Stop.
type Result struct {
	FileName      string
	Path          string
	Transcription string
	Duration      time.Duration
}

// Coordinator keeps one capture session per user.
type Coordinator struct {
	source      audio.Source
	persister   *Persister
	transcriber Transcriber
	logger      logging.Logger
	metrics     *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*captureSession
}

func NewCoordinator(src audio.Source, p *Persister, t Transcriber, l logging.Logger, m *metrics.Metrics) *Coordinator {
	return &Coordinator{
		source:      src,
		persister:   p,
		transcriber: t,
		logger:      l.With("module", "recorder"),
		metrics:     m,
		sessions:    make(map[string]*captureSession),
	}
}

// Start opens the input device and begins capturing for userID in the
// background. It fails with common.ErrAlreadyRecording if the user already
// has a session and with common.ErrDeviceUnavailable if the device cannot be
// acquired. ctx only bounds opening the device.
//
// The user's slot is reserved before the device is opened so the lock is not
// held while talking to the sound server.
func (c *Coordinator) Start(ctx context.Context, userID string) error {
	c.mu.Lock()
	if _, ok := c.sessions[userID]; ok {
		c.mu.Unlock()
		return common.ErrAlreadyRecording
	}
	c.sessions[userID] = nil
	c.mu.Unlock()

	s, err := startCapture(ctx, c.source, c.persister.Format())
	if err != nil {
		c.release(userID)
		c.logger.Error(ctx, "open input device", "user_id", userID, "error", err)
		if audio.IsDeviceError(err) {
			return fmt.Errorf("%w: %v", common.ErrDeviceUnavailable, err)
		}
		return fmt.Errorf("open capture: %w", err)
	}

	c.mu.Lock()
	if cur, ok := c.sessions[userID]; !ok || cur != nil {
		// Close ran while the device was opening.
		c.mu.Unlock()
		s.stop()
		return common.ErrDeviceUnavailable
	}
	c.sessions[userID] = s
	c.mu.Unlock()

	c.metrics.RecordingsStarted.Inc()
	c.metrics.ActiveRecordings.Inc()
	c.logger.Info(ctx, "recording started", "user_id", userID)

	return nil
}

// release drops a reservation that never became a session.
func (c *Coordinator) release(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sessions[userID]; ok && s == nil {
		delete(c.sessions, userID)
	}
}

// Active reports whether userID has a running capture session.
func (c *Coordinator) Active(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[userID] != nil
}

// Stop ends the user's capture, persists the audio and transcribes it.
// Nothing captured (including no prior Start) yields common.ErrNoRecording.
func (c *Coordinator) Stop(ctx context.Context, userID string) (Result, error) {
	c.mu.Lock()
	s := c.sessions[userID]
	ok := s != nil
	if ok {
		delete(c.sessions, userID)
	}
	c.mu.Unlock()

	var captured captureResult
	if ok {
		c.metrics.ActiveRecordings.Dec()
		captured = s.stop()
	}
	if captured.err != nil {
		c.metrics.CaptureErrors.Inc()
		c.logger.Warn(ctx, "capture ended by device error", "user_id", userID, "error", captured.err)
	}

	name, path, err := c.persister.Save(userID, captured.frames)
	if err != nil {
		if err == common.ErrNoRecording {
			c.metrics.RecordingsEmpty.Inc()
		}
		return Result{}, err
	}

	var pcmBytes int
	for _, f := range captured.frames {
		pcmBytes += len(f)
	}
	duration := c.persister.Format().Duration(pcmBytes)

	c.metrics.RecordingsSaved.Inc()
	c.metrics.RecordedSeconds.Observe(duration.Seconds())
	c.logger.Info(ctx, "recording saved", "user_id", userID, "file", name, "frames", len(captured.frames))

	started := time.Now()
	text, err := c.transcriber.Transcribe(ctx, path)
	c.metrics.TranscriptionDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		c.metrics.TranscriptionFailures.Inc()
		c.logger.Error(ctx, "transcription failed", "user_id", userID, "file", name, "error", err)
		return Result{}, fmt.Errorf("transcribe %s: %w", name, err)
	}

	return Result{FileName: name, Path: path, Transcription: text, Duration: duration}, nil
}

// Close stops every running session and discards its audio. Used on shutdown.
func (c *Coordinator) Close() {
	c.mu.Lock()
	sessions := c.sessions
	c.sessions = make(map[string]*captureSession)
	c.mu.Unlock()

	for userID, s := range sessions {
		if s == nil {
			continue
		}
		s.stop()
		c.metrics.ActiveRecordings.Dec()
		c.logger.Info(context.Background(), "recording discarded on shutdown", "user_id", userID)
	}
}
