// Package speech reads text aloud through an OpenAI-compatible text-to-speech
// endpoint and a local audio.Player.
package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/audio"
)

const (
	DefaultEndpoint = "https://api.openai.com"
	DefaultModel    = "tts-1"
	DefaultVoice    = "alloy"

	// SampleRate of the raw "pcm" response format: mono s16le.
	SampleRate = 24000

	speechPath = "/v1/audio/speech"
)

type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Voice    string
	Timeout  time.Duration
}

type Synthesizer struct {
	cfg    Config
	http   *http.Client
	player audio.Player
}

func NewSynthesizer(cfg Config, player audio.Player) *Synthesizer {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	return &Synthesizer{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, player: player}
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Speak synthesizes text and blocks until playback has finished.
func (s *Synthesizer) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("nothing to say")
	}

	samples, err := s.synthesize(ctx, text)
	if err != nil {
		return err
	}

	return s.player.Play(ctx, samples, SampleRate)
}

func (s *Synthesizer) synthesize(ctx context.Context, text string) ([]int16, error) {
	payload, err := json.Marshal(speechRequest{
		Model:          s.cfg.Model,
		Input:          text,
		Voice:          s.cfg.Voice,
		ResponseFormat: "pcm",
	})
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(s.cfg.Endpoint, "/") + speechPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("speech http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech: %w", err)
	}

	return decodePCM(pcm), nil
}

// decodePCM converts s16le bytes to samples. A trailing odd byte is dropped.
func decodePCM(pcm []byte) []int16 {
	out := make([]int16, len(pcm)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(pcm[2*i:]))
	}
	return out
}
