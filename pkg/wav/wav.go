// Package wav serializes decoded buffers to the standard uncompressed WAV
// container. The byte layout is deterministic for a given buffer: this is
// the one bit-exact external contract of the pipeline.
package wav

import (
	"encoding/binary"
	"os"

	"github.com/tableread/go-tableread/pkg/pcm"
)

const (
	headerSize    = 44
	bitsPerSample = 16
	pcmFormatTag  = 1
)

// Encode serializes a buffer as a 44-byte-header PCM16 WAV file: RIFF/WAVE
// with "fmt " and "data" chunks followed by interleaved little-endian
// samples. Each float sample is clamped to [-1, 1] then scaled (negative
// values by 32768, non-negative by 32767) and truncated toward zero.
func Encode(b *pcm.Buffer) []byte {
	channels := b.NumChannels()
	if channels == 0 {
		channels = 1
	}
	frames := b.Len()

	blockAlign := channels * bitsPerSample / 8
	byteRate := b.SampleRate * blockAlign
	dataSize := frames * blockAlign

	out := make([]byte, headerSize+dataSize)

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], pcmFormatTag)
	binary.LittleEndian.PutUint16(out[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(b.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))

	pos := headerSize
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			var sample float64
			if ch < b.NumChannels() {
				sample = b.Channels[ch][i]
			}
			binary.LittleEndian.PutUint16(out[pos:], uint16(quantize(sample)))
			pos += 2
		}
	}

	return out
}

// WriteFile encodes the buffer and writes it to path.
func WriteFile(path string, b *pcm.Buffer) error {
	return os.WriteFile(path, Encode(b), 0644)
}

// quantize maps a float sample to int16 with asymmetric scaling so that
// -1.0 and +1.0 both land exactly on the int16 range ends.
func quantize(sample float64) int16 {
	if sample < -1.0 {
		sample = -1.0
	} else if sample > 1.0 {
		sample = 1.0
	}
	if sample < 0 {
		return int16(sample * 32768)
	}
	return int16(sample * 32767)
}
