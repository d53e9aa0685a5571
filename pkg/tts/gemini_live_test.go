package tts_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/tableread/go-tableread/pkg/tts"
)

// liveServer runs a minimal Live session: accept the setup and turn
// messages, then stream the given PCM chunks and complete the turn.
func liveServer(t *testing.T, chunks [][]byte, gotSetup *map[string]any) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer ws.Close()

		var setup map[string]any
		if err := ws.ReadJSON(&setup); err != nil {
			t.Errorf("read setup: %v", err)
			return
		}
		if gotSetup != nil {
			*gotSetup = setup
		}

		var turn map[string]any
		if err := ws.ReadJSON(&turn); err != nil {
			t.Errorf("read turn: %v", err)
			return
		}

		ws.WriteJSON(map[string]any{"setupComplete": map[string]any{}})
		for _, chunk := range chunks {
			ws.WriteJSON(map[string]any{
				"serverContent": map[string]any{
					"modelTurn": map[string]any{
						"parts": []map[string]any{
							{"inlineData": map[string]any{
								"mimeType": "audio/pcm;rate=24000",
								"data":     base64.StdEncoding.EncodeToString(chunk),
							}},
						},
					},
				},
			})
		}
		ws.WriteJSON(map[string]any{
			"serverContent": map[string]any{"turnComplete": true},
		})

		// Hold the connection until the client closes it.
		ws.ReadMessage()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestGeminiLiveStream(t *testing.T) {
	chunks := [][]byte{
		{0x01, 0x02, 0x03, 0x04},
		{0x05, 0x06},
	}
	var setup map[string]any
	srv := liveServer(t, chunks, &setup)

	provider, err := tts.NewGeminiLive(
		tts.WithAPIKey("test-key"),
		tts.WithBaseURL(wsURL(srv)),
	)
	if err != nil {
		t.Fatalf("NewGeminiLive: %v", err)
	}

	stream, err := provider.Stream(context.Background(), tts.Request{
		Text:  "Hello there",
		Voice: "Kore",
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer stream.Close()

	if format := stream.Format(); format.SampleRate != tts.ProviderSampleRate {
		t.Errorf("format sample rate = %d", format.SampleRate)
	}

	var got []byte
	for {
		chunk, err := stream.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if chunk == nil {
			break
		}
		got = append(got, chunk...)
	}

	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	if string(got) != string(want) {
		t.Errorf("audio = %v, want %v", got, want)
	}

	// The session setup must carry the requested voice.
	raw, _ := json.Marshal(setup)
	if !strings.Contains(string(raw), `"voice_name":"Kore"`) {
		t.Errorf("setup missing voice: %s", raw)
	}
}

func TestGeminiLiveStreamEmptyText(t *testing.T) {
	provider, err := tts.NewGeminiLive(tts.WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("NewGeminiLive: %v", err)
	}

	_, err = provider.Stream(context.Background(), tts.Request{})
	if !errors.Is(err, tts.ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestGeminiLiveStreamUnknownVoice(t *testing.T) {
	provider, err := tts.NewGeminiLive(tts.WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("NewGeminiLive: %v", err)
	}

	_, err = provider.Stream(context.Background(), tts.Request{Text: "hi", Voice: "Bogus"})
	if !errors.Is(err, tts.ErrUnknownVoice) {
		t.Errorf("expected ErrUnknownVoice, got %v", err)
	}
}

func TestGeminiLiveReadAfterClose(t *testing.T) {
	srv := liveServer(t, nil, nil)

	provider, err := tts.NewGeminiLive(
		tts.WithAPIKey("test-key"),
		tts.WithBaseURL(wsURL(srv)),
	)
	if err != nil {
		t.Fatalf("NewGeminiLive: %v", err)
	}

	stream, err := provider.Stream(context.Background(), tts.Request{Text: "hi"})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := stream.Read(); !errors.Is(err, tts.ErrStreamClosed) {
		t.Errorf("expected ErrStreamClosed, got %v", err)
	}
}
