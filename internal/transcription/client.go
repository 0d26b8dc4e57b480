// Package transcription sends finished recordings to an OpenAI-compatible
// speech-to-text endpoint.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/audio"
)

const (
	DefaultEndpoint = "https://api.openai.com"
	DefaultModel    = "whisper-1"

	transcriptionsPath = "/v1/audio/transcriptions"
)

type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	// Language is an ISO-639-1 hint; empty lets the service detect it.
	Language string
	Timeout  time.Duration
}

// Client implements recorder.Transcriber.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Transcribe uploads the WAV file at path and returns the recognized text.
// Files that are not PCM WAV are rejected before any request is made.
// Failures are returned as is; there are no retries.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	if _, _, err := audio.ReadWAV(data); err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", c.cfg.Model); err != nil {
		return "", err
	}
	if c.cfg.Language != "" {
		if err := mw.WriteField("language", c.cfg.Language); err != nil {
			return "", err
		}
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return "", err
	}

	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + transcriptionsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var er errorResponse
		if json.Unmarshal(b, &er) == nil && er.Error.Message != "" {
			return "", fmt.Errorf("transcription http %d: %s", resp.StatusCode, er.Error.Message)
		}
		return "", fmt.Errorf("transcription http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode transcription: %w", err)
	}

	return strings.TrimSpace(tr.Text), nil
}
