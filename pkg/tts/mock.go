package tts

import (
	"context"
	"sync"
	"time"
)

// Mock implements Provider for testing.
// All methods can be customized via function fields.
type Mock struct {
	// SynthesizeFunc is called when Synthesize is invoked.
	// If nil, returns silent audio sized to the text length.
	SynthesizeFunc func(ctx context.Context, req Request) (*AudioResult, error)

	// HealthFunc is called when Health is invoked.
	// If nil, returns nil (healthy).
	HealthFunc func(ctx context.Context) error

	// CloseFunc is called when Close is invoked.
	// If nil, returns nil.
	CloseFunc func() error

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method  string
	Request Request
	Time    time.Time
}

// NewMock creates a mock provider that returns silence.
func NewMock() *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, req Request) (*AudioResult, error) {
			// ~20ms of 24kHz PCM16 silence per character gives roughly
			// natural speech pacing.
			bytesPerChar := 960
			silence := make([]byte, len(req.Text)*bytesPerChar)

			format := PCM24Mono()
			return &AudioResult{
				Audio:     silence,
				Format:    format,
				Duration:  pcmDuration(len(silence), format),
				CharCount: len(req.Text),
				LatencyMs: 1,
			}, nil
		},
	}
}

// WithSynthesizeError creates a mock whose Synthesize always fails with err.
func WithSynthesizeError(err error) *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, req Request) (*AudioResult, error) {
			return nil, err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// Synthesize calls SynthesizeFunc and records the call.
func (m *Mock) Synthesize(ctx context.Context, req Request) (*AudioResult, error) {
	m.recordCall("Synthesize", req)
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, req)
	}
	return nil, WrapError("mock", ErrNoAudio)
}

// Health calls HealthFunc and records the call.
func (m *Mock) Health(ctx context.Context) error {
	m.recordCall("Health", Request{})
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close calls CloseFunc.
func (m *Mock) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Calls returns a copy of the recorded calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times the named method was invoked.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Reset clears the recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *Mock) recordCall(method string, req Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Request: req, Time: time.Now()})
}
