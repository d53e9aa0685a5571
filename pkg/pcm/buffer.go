// Package pcm holds decoded audio buffers and the sample-accurate
// operations the assembly pipeline performs on them: PCM16 decoding,
// linear-interpolation resampling, and gapless concatenation.
//
// All operations are pure and synchronous. Buffers are owned by the stage
// that produced them until handed to the next stage.
package pcm

import (
	"encoding/binary"
	"errors"
)

// DefaultSampleRate matches the synthesis provider's fixed output rate.
const DefaultSampleRate = 24000

// ErrSampleRateMismatch is returned when buffers with different sample
// rates reach a stage that requires a shared rate. This is an integration
// error, not an expected runtime condition.
var ErrSampleRateMismatch = errors.New("pcm: sample rate mismatch")

// Buffer is decoded audio: per-channel float samples in [-1.0, 1.0] at a
// known sample rate.
type Buffer struct {
	SampleRate int
	Channels   [][]float64
}

// Len returns the frame count (samples per channel).
func (b *Buffer) Len() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int {
	return len(b.Channels)
}

// DecodePCM16 converts single-channel 16-bit little-endian signed PCM bytes
// into a Buffer at the given sample rate. Each sample maps to float via
// division by 32768. A trailing odd byte is discarded silently: the provider
// contract fixes the sample width, so a half sample carries no information.
func DecodePCM16(data []byte, sampleRate int) *Buffer {
	frames := len(data) / 2
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float64(s) / 32768.0
	}
	return &Buffer{
		SampleRate: sampleRate,
		Channels:   [][]float64{samples},
	}
}
