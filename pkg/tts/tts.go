// Package tts provides the speech synthesis boundary for go-tableread.
//
// The production backend is Google's Gemini speech generation API, which
// returns single-channel 16-bit PCM at a fixed 24 kHz rate. A Mock provider
// is included for tests. All providers implement the Provider interface so
// the assembly pipeline never depends on a concrete backend.
//
// Example usage:
//
//	provider, _ := tts.NewGemini(
//	    tts.WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//	)
//	defer provider.Close()
//
//	result, _ := provider.Synthesize(ctx, tts.Request{
//	    Text:  "The sun rose.",
//	    Voice: "Charon",
//	})
//	// result.Audio contains raw PCM16 bytes
package tts

import (
	"context"
	"time"
)

// ProviderSampleRate is the fixed output rate of the synthesis contract.
const ProviderSampleRate = 24000

// Request describes one synthesis call: the spoken text, a voice selector
// from the fixed voice set, and an optional persona instruction that shapes
// delivery ("speak like an excited narrator").
type Request struct {
	Text        string
	Voice       string
	Instruction string
}

// Provider is the synthesis backend interface.
type Provider interface {
	// Synthesize converts a request to audio, returning the complete buffer.
	Synthesize(ctx context.Context, req Request) (*AudioResult, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// Streamer is implemented by providers that can deliver audio incrementally.
type Streamer interface {
	// Stream converts a request to audio with chunked output.
	// Callers read until Read returns nil, then Close.
	Stream(ctx context.Context, req Request) (AudioStream, error)
}

// AudioStream is a chunked audio response.
type AudioStream interface {
	// Read returns the next audio chunk, or nil when the stream is done.
	Read() ([]byte, error)

	// Close stops the stream and releases resources.
	Close() error

	// Format returns the audio format metadata.
	Format() AudioFormat
}

// AudioResult is a complete synthesis result.
type AudioResult struct {
	// Audio contains raw PCM16 little-endian bytes.
	Audio []byte

	// Format describes the sample layout.
	Format AudioFormat

	// Duration is the playback duration implied by the sample count.
	Duration time.Duration

	// CharCount is the number of characters synthesized.
	CharCount int

	// LatencyMs is the request round-trip time in milliseconds.
	LatencyMs int64
}

// AudioFormat describes PCM sample layout.
type AudioFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// PCM24Mono is the provider contract format: 24 kHz mono PCM16.
func PCM24Mono() AudioFormat {
	return AudioFormat{SampleRate: ProviderSampleRate, Channels: 1, BitDepth: 16}
}

// pcmDuration converts a PCM16 byte count to playback time.
func pcmDuration(byteLen int, format AudioFormat) time.Duration {
	bytesPerSecond := format.SampleRate * format.Channels * format.BitDepth / 8
	if bytesPerSecond == 0 {
		return 0
	}
	return time.Duration(float64(byteLen) / float64(bytesPerSecond) * float64(time.Second))
}
