package audio

import (
	"fmt"
	"time"
)

// Format describes interleaved signed little-endian PCM.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	// FrameSamples is the number of samples per channel in one capture frame.
	FrameSamples int
}

// AnswerFormat is what spoken answers are captured and stored as:
// mono, 16-bit, 44.1 kHz, 1024-sample frames.
var AnswerFormat = Format{
	SampleRate:    44100,
	Channels:      1,
	BitsPerSample: 16,
	FrameSamples:  1024,
}

// BytesPerSample returns the width of a single sample.
func (f Format) BytesPerSample() int {
	return f.BitsPerSample / 8
}

// BlockAlign returns the size of one sample across all channels.
func (f Format) BlockAlign() int {
	return f.Channels * f.BytesPerSample()
}

// FrameBytes returns the size of one capture frame in bytes.
func (f Format) FrameBytes() int {
	return f.FrameSamples * f.BlockAlign()
}

// ByteRate returns bytes per second of audio.
func (f Format) ByteRate() int {
	return f.SampleRate * f.BlockAlign()
}

// Duration returns the play time of n bytes of PCM in this format.
func (f Format) Duration(n int) time.Duration {
	if f.ByteRate() == 0 {
		return 0
	}
	return time.Duration(int64(n) * int64(time.Second) / int64(f.ByteRate()))
}

// Validate rejects formats the WAV writer and Pulse streams cannot carry.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("channel count must be positive, got %d", f.Channels)
	}
	if f.BitsPerSample != 16 {
		return fmt.Errorf("unsupported bit depth: %d (only 16-bit is supported)", f.BitsPerSample)
	}
	if f.FrameSamples <= 0 {
		return fmt.Errorf("frame size must be positive, got %d", f.FrameSamples)
	}
	return nil
}
