package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tableread/go-tableread/internal/httpc"
)

const (
	geminiBaseURL  = "https://generativelanguage.googleapis.com"
	providerGemini = "gemini"

	// DefaultGeminiModel is the speech generation model.
	DefaultGeminiModel = "gemini-2.5-flash-preview-tts"
)

// Gemini implements Provider using Google's Gemini speech generation API.
// The API returns base64-encoded single-channel PCM16 at 24 kHz.
type Gemini struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewGemini creates a new Gemini TTS provider.
func NewGemini(opts ...Option) (*Gemini, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geminiBaseURL
	}

	return &Gemini{
		config:  cfg,
		client:  httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "tts.gemini"),
		baseURL: baseURL,
	}, nil
}

// Synthesize converts a request to audio, returning the complete PCM buffer.
func (g *Gemini) Synthesize(ctx context.Context, req Request) (*AudioResult, error) {
	if req.Text == "" {
		return nil, WrapError(providerGemini, ErrEmptyText)
	}
	if req.Voice != "" && !IsKnownVoice(req.Voice) {
		return nil, WrapError(providerGemini, fmt.Errorf("%w: %q", ErrUnknownVoice, req.Voice))
	}

	start := time.Now()

	body, err := json.Marshal(g.buildPayload(req))
	if err != nil {
		return nil, WrapError(providerGemini, fmt.Errorf("marshal payload: %w", err))
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.config.Model)

	resp, err := g.doWithRetry(ctx, url, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	latency := time.Since(start).Milliseconds()

	if resp.StatusCode != http.StatusOK {
		return nil, g.parseError(resp)
	}

	audio, err := decodeAudioResponse(resp.Body)
	if err != nil {
		return nil, WrapError(providerGemini, err)
	}

	g.logger.Debug("synthesized audio",
		"chars", len(req.Text),
		"bytes", len(audio),
		"voice", req.Voice,
		"latency_ms", latency,
		"model", g.config.Model,
	)

	format := PCM24Mono()
	return &AudioResult{
		Audio:     audio,
		Format:    format,
		Duration:  pcmDuration(len(audio), format),
		CharCount: len(req.Text),
		LatencyMs: latency,
	}, nil
}

// Health checks API connectivity and key validity by listing models.
func (g *Gemini) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1beta/models/%s", g.baseURL, g.config.Model)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return WrapError(providerGemini, err)
	}
	req.Header.Set("x-goog-api-key", g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return WrapError(providerGemini, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return g.parseError(resp)
	}
	return nil
}

// Close releases resources held by the provider.
func (g *Gemini) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

// buildPayload constructs the generateContent request body. A persona
// instruction is prepended to the text; Gemini reads it as a delivery
// direction rather than spoken content.
func (g *Gemini) buildPayload(req Request) map[string]any {
	prompt := req.Text
	if req.Instruction != "" {
		prompt = req.Instruction + ": " + req.Text
	}

	voice := req.Voice
	if voice == "" {
		voice = DefaultVoice
	}

	return map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"responseModalities": []string{"AUDIO"},
			"speechConfig": map[string]any{
				"voiceConfig": map[string]any{
					"prebuiltVoiceConfig": map[string]any{
						"voiceName": voice,
					},
				},
			},
		},
	}
}

// doWithRetry performs the request, retrying rate limits and server errors
// with linearly growing delay.
func (g *Gemini) doWithRetry(ctx context.Context, url string, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.config.RetryDelay * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
		if err != nil {
			return nil, WrapError(providerGemini, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", g.config.APIKey)

		resp, err := g.client.Do(req)
		if err != nil {
			lastErr = WrapError(providerGemini, err)
			continue
		}

		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			lastErr = g.parseError(resp)
			resp.Body.Close()
			g.logger.Warn("retrying request",
				"attempt", attempt+1,
				"status", resp.StatusCode,
			)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// parseError reads and parses an error response body.
func (g *Gemini) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerGemini,
	}
}

// decodeAudioResponse extracts and decodes the base64 PCM payload from a
// generateContent response.
func decodeAudioResponse(r io.Reader) ([]byte, error) {
	var body struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					InlineData struct {
						MimeType string `json:"mimeType"`
						Data     string `json:"data"`
					} `json:"inlineData"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	for _, cand := range body.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData.Data == "" {
				continue
			}
			audio, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("decode audio: %w", err)
			}
			return audio, nil
		}
	}

	return nil, ErrNoAudio
}
