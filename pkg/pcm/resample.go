package pcm

import "math"

// Resample time-scales a buffer by a rate multiplier using linear
// interpolation. Rate 1.0 returns the input unchanged. Rate > 1 shortens
// the buffer (higher, faster voice); rate < 1 lengthens it (lower, slower).
// New length = round(len / rate).
//
// This deliberately changes duration and perceived pitch together. It is a
// simple interpolating resampler for speech, not a phase vocoder.
func Resample(b *Buffer, rate float64) *Buffer {
	if rate == 1.0 {
		return b
	}

	srcLen := b.Len()
	newLen := int(math.Round(float64(srcLen) / rate))

	out := &Buffer{
		SampleRate: b.SampleRate,
		Channels:   make([][]float64, len(b.Channels)),
	}

	for ch, src := range b.Channels {
		dst := make([]float64, newLen)
		for i := 0; i < newLen; i++ {
			pos := float64(i) * rate
			idx := int(pos)
			if idx >= srcLen-1 {
				// Past the end: clamp to the last source sample.
				if srcLen > 0 {
					dst[i] = src[srcLen-1]
				}
				continue
			}
			frac := pos - float64(idx)
			dst[i] = src[idx] + frac*(src[idx+1]-src[idx])
		}
		out.Channels[ch] = dst
	}

	return out
}
