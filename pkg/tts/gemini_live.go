package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	geminiLiveURL = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

	// DefaultGeminiLiveModel speaks over the bidirectional Live API.
	DefaultGeminiLiveModel = "models/gemini-2.0-flash-live-001"

	providerGeminiLive = "gemini-live"
)

// GeminiLive implements Streamer over the Gemini Live WebSocket API. Each
// Stream call opens its own session: synthesis turns here are short and
// independent, so a long-lived session buys nothing.
type GeminiLive struct {
	config *Config
	logger *slog.Logger
}

// NewGeminiLive creates a streaming Gemini provider.
func NewGeminiLive(opts ...Option) (*GeminiLive, error) {
	cfg := DefaultConfig()
	cfg.Model = DefaultGeminiLiveModel
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &GeminiLive{
		config: cfg,
		logger: cfg.Logger.With("component", "tts.gemini_live"),
	}, nil
}

// Stream opens a Live session, sends the text turn, and returns a stream of
// PCM16 chunks that ends when the model completes the turn.
func (g *GeminiLive) Stream(ctx context.Context, req Request) (AudioStream, error) {
	if req.Text == "" {
		return nil, WrapError(providerGeminiLive, ErrEmptyText)
	}
	if req.Voice != "" && !IsKnownVoice(req.Voice) {
		return nil, WrapError(providerGeminiLive, fmt.Errorf("%w: %q", ErrUnknownVoice, req.Voice))
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	endpoint := g.config.BaseURL
	if endpoint == "" {
		endpoint = geminiLiveURL
	}
	url := fmt.Sprintf("%s?key=%s", endpoint, g.config.APIKey)
	ws, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, WrapError(providerGeminiLive, fmt.Errorf("connect: %w", err))
	}

	stream := &liveStream{
		ws:       ws,
		deadline: g.config.StreamTimeout,
	}

	if err := stream.sendSetup(g.config.Model, req); err != nil {
		ws.Close()
		return nil, WrapError(providerGeminiLive, fmt.Errorf("configure session: %w", err))
	}
	if err := stream.sendTurn(req); err != nil {
		ws.Close()
		return nil, WrapError(providerGeminiLive, fmt.Errorf("send turn: %w", err))
	}

	g.logger.Debug("live stream opened", "voice", req.Voice, "chars", len(req.Text))
	return stream, nil
}

// liveStream reads serverContent audio chunks from a Live session.
type liveStream struct {
	ws       *websocket.Conn
	deadline time.Duration

	mu     sync.Mutex
	closed bool
	done   bool
}

func (s *liveStream) sendSetup(model string, req Request) error {
	voice := req.Voice
	if voice == "" {
		voice = DefaultVoice
	}

	setup := map[string]any{
		"setup": map[string]any{
			"model": model,
			"generation_config": map[string]any{
				"response_modalities": []string{"AUDIO"},
				"speech_config": map[string]any{
					"voice_config": map[string]any{
						"prebuilt_voice_config": map[string]any{
							"voice_name": voice,
						},
					},
				},
			},
		},
	}
	if req.Instruction != "" {
		setup["setup"].(map[string]any)["system_instruction"] = map[string]any{
			"parts": []map[string]any{{"text": req.Instruction}},
		}
	}
	return s.ws.WriteJSON(setup)
}

func (s *liveStream) sendTurn(req Request) error {
	return s.ws.WriteJSON(map[string]any{
		"client_content": map[string]any{
			"turns": []map[string]any{
				{
					"role":  "user",
					"parts": []map[string]any{{"text": req.Text}},
				},
			},
			"turn_complete": true,
		},
	})
}

// Read returns the next PCM16 chunk, or nil when the turn is complete.
func (s *liveStream) Read() ([]byte, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrStreamClosed
	}
	if s.done {
		s.mu.Unlock()
		return nil, nil
	}
	s.mu.Unlock()

	for {
		if s.deadline > 0 {
			s.ws.SetReadDeadline(time.Now().Add(s.deadline))
		}
		_, message, err := s.ws.ReadMessage()
		if err != nil {
			return nil, WrapError(providerGeminiLive, err)
		}

		var msg struct {
			SetupComplete *struct{} `json:"setupComplete"`
			ServerContent *struct {
				TurnComplete bool `json:"turnComplete"`
				ModelTurn    struct {
					Parts []struct {
						InlineData struct {
							Data string `json:"data"`
						} `json:"inlineData"`
					} `json:"parts"`
				} `json:"modelTurn"`
			} `json:"serverContent"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		if msg.ServerContent == nil {
			continue
		}
		if msg.ServerContent.TurnComplete {
			s.mu.Lock()
			s.done = true
			s.mu.Unlock()
			return nil, nil
		}
		for _, part := range msg.ServerContent.ModelTurn.Parts {
			if part.InlineData.Data == "" {
				continue
			}
			chunk, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, WrapError(providerGeminiLive, fmt.Errorf("decode chunk: %w", err))
			}
			return chunk, nil
		}
	}
}

// Close ends the session.
func (s *liveStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.ws.Close()
}

// Format returns the provider contract format.
func (s *liveStream) Format() AudioFormat {
	return PCM24Mono()
}
