// Package studio orchestrates a full read-through: it takes grouped
// dialogue segments and a cast, synthesizes each segment sequentially
// through a tts.Provider, then decodes, pitch-resamples, and concatenates
// the results into one gapless buffer.
//
// Synthesis is strictly sequential with an inter-request delay: the
// provider rate limit is the bottleneck, and the backpressure is
// intentional. Segment order is a correctness invariant end to end; it
// encodes the script's narrative sequence.
package studio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tableread/go-tableread/pkg/cast"
	"github.com/tableread/go-tableread/pkg/pcm"
	"github.com/tableread/go-tableread/pkg/script"
	"github.com/tableread/go-tableread/pkg/tts"
)

// Stage names reported in progress events.
const (
	StageSynthesize = "synthesize"
	StageAssemble   = "assemble"
	StageDone       = "done"
	StageError      = "error"
)

// Event is one progress report. Events flow one way to the sink; no
// back-pressure negotiation.
type Event struct {
	Stage   string `json:"stage"`
	Segment int    `json:"segment"`
	Total   int    `json:"total"`
	Speaker string `json:"speaker"`
	Message string `json:"message"`
}

// ProgressFunc receives progress events. A nil sink is allowed.
type ProgressFunc func(Event)

// UncastSpeakerError reports a segment whose speaker has no casting entry.
// This path fails fast instead of silently picking a voice: guessing would
// override user-visible casting intent.
type UncastSpeakerError struct {
	Speaker string
}

func (e *UncastSpeakerError) Error() string {
	return fmt.Sprintf("studio: no voice assigned to speaker %q: assign a voice in casting before generating", e.Speaker)
}

// Result is a completed generation run.
type Result struct {
	Buffer   *pcm.Buffer
	Segments int
	Duration time.Duration
}

// Assembler runs generation for one script at a time.
type Assembler struct {
	provider    tts.Provider
	delay       time.Duration
	instruction func(c cast.Character) string
	logger      *slog.Logger
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithDelay sets the pause between consecutive synthesis requests.
func WithDelay(d time.Duration) AssemblerOption {
	return func(a *Assembler) {
		a.delay = d
	}
}

// WithInstruction sets the persona-instruction builder applied per segment.
func WithInstruction(fn func(c cast.Character) string) AssemblerOption {
	return func(a *Assembler) {
		a.instruction = fn
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.logger = logger.With("component", "studio")
	}
}

// DefaultDelay paces requests against the provider rate limit.
const DefaultDelay = 2 * time.Second

// New creates an Assembler using the given synthesis provider.
func New(provider tts.Provider, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		provider: provider,
		delay:    DefaultDelay,
		instruction: func(c cast.Character) string {
			return fmt.Sprintf("Speak as the character %s in a natural, expressive tone", c.Name)
		},
		logger: slog.Default().With("component", "studio"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generate synthesizes every segment in order and assembles one buffer.
// Every segment's speaker must have a casting entry; a missing entry fails
// before any synthesis request is made. A terminal synthesis failure aborts
// the whole run; partial results are not salvaged.
func (a *Assembler) Generate(ctx context.Context, segments []script.DialogueSegment, members map[string]cast.Character, progress ProgressFunc) (*Result, error) {
	emit := func(ev Event) {
		if progress != nil {
			progress(ev)
		}
	}
	total := len(segments)

	// Validate the whole cast up front so a missing voice surfaces before
	// the first (slow, billed) synthesis call.
	for _, seg := range segments {
		if _, ok := members[cast.Fold(seg.Speaker)]; !ok {
			err := &UncastSpeakerError{Speaker: seg.Speaker}
			emit(Event{Stage: StageError, Total: total, Speaker: seg.Speaker, Message: err.Error()})
			return nil, err
		}
	}

	buffers := make([]*pcm.Buffer, 0, total)
	start := time.Now()

	for i, seg := range segments {
		if i > 0 && a.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(a.delay):
			}
		}

		member := members[cast.Fold(seg.Speaker)]
		emit(Event{
			Stage:   StageSynthesize,
			Segment: i + 1,
			Total:   total,
			Speaker: seg.Speaker,
			Message: fmt.Sprintf("synthesizing %s (%d/%d)", seg.Speaker, i+1, total),
		})

		result, err := a.provider.Synthesize(ctx, tts.Request{
			Text:        seg.Text,
			Voice:       member.Voice,
			Instruction: a.instruction(member),
		})
		if err != nil {
			emit(Event{Stage: StageError, Segment: i + 1, Total: total, Speaker: seg.Speaker, Message: err.Error()})
			return nil, fmt.Errorf("studio: segment %d (%s): %w", i+1, seg.Speaker, err)
		}

		buf := pcm.DecodePCM16(result.Audio, result.Format.SampleRate)
		buf = pcm.Resample(buf, cast.ClampPitch(member.Pitch))
		buffers = append(buffers, buf)

		a.logger.Debug("segment ready",
			"segment", i+1,
			"speaker", seg.Speaker,
			"frames", buf.Len(),
			"latency_ms", result.LatencyMs,
		)
	}

	emit(Event{Stage: StageAssemble, Total: total, Message: "assembling audio"})

	combined, err := pcm.Concat(buffers)
	if err != nil {
		return nil, fmt.Errorf("studio: assemble: %w", err)
	}

	duration := time.Duration(float64(combined.Len()) / float64(combined.SampleRate) * float64(time.Second))
	emit(Event{
		Stage:   StageDone,
		Segment: total,
		Total:   total,
		Message: fmt.Sprintf("generated %s of audio in %s", duration.Round(time.Millisecond), time.Since(start).Round(time.Millisecond)),
	})

	return &Result{
		Buffer:   combined,
		Segments: total,
		Duration: duration,
	}, nil
}
