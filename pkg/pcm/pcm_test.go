package pcm

import (
	"math"
	"testing"
)

func TestDecodePCM16(t *testing.T) {
	// Samples: 0, 16384 (0.5), -32768 (-1.0)
	data := []byte{0x00, 0x00, 0x00, 0x40, 0x00, 0x80}
	buf := DecodePCM16(data, 24000)

	if buf.SampleRate != 24000 {
		t.Errorf("sample rate = %d", buf.SampleRate)
	}
	if buf.NumChannels() != 1 {
		t.Fatalf("channels = %d", buf.NumChannels())
	}
	if buf.Len() != 3 {
		t.Fatalf("frames = %d", buf.Len())
	}

	want := []float64{0, 0.5, -1.0}
	for i, w := range want {
		if got := buf.Channels[0][i]; math.Abs(got-w) > 1e-9 {
			t.Errorf("sample %d = %v, want %v", i, got, w)
		}
	}
}

func TestDecodePCM16OddTrailingByte(t *testing.T) {
	data := []byte{0x00, 0x40, 0x7f}
	buf := DecodePCM16(data, 24000)
	if buf.Len() != 1 {
		t.Errorf("expected trailing byte discarded, frames = %d", buf.Len())
	}
}

func TestDecodePCM16Empty(t *testing.T) {
	buf := DecodePCM16(nil, 24000)
	if buf.Len() != 0 {
		t.Errorf("frames = %d", buf.Len())
	}
}

func TestResampleIdentity(t *testing.T) {
	buf := DecodePCM16([]byte{0x00, 0x40, 0x00, 0x20}, 24000)
	out := Resample(buf, 1.0)
	if out != buf {
		t.Error("rate 1.0 must return the input unchanged, no copy")
	}
}

func TestResampleLengthLaw(t *testing.T) {
	samples := make([]float64, 4800)
	for i := range samples {
		samples[i] = math.Sin(float64(i) / 100)
	}
	buf := &Buffer{SampleRate: 24000, Channels: [][]float64{samples}}

	tests := []struct {
		rate float64
		want int
	}{
		{0.8, 6000},
		{1.2, 4000},
	}

	for _, tt := range tests {
		out := Resample(buf, tt.rate)
		diff := out.Len() - tt.want
		if diff < -1 || diff > 1 {
			t.Errorf("rate %v: len = %d, want %d±1", tt.rate, out.Len(), tt.want)
		}
		if out.SampleRate != buf.SampleRate {
			t.Errorf("rate %v changed sample rate", tt.rate)
		}
	}
}

func TestResampleInterpolation(t *testing.T) {
	buf := &Buffer{SampleRate: 24000, Channels: [][]float64{{0, 1}}}
	out := Resample(buf, 0.5)

	// 4 output samples at source positions 0, 0.5, 1.0, 1.5; the last two
	// clamp to the final source sample.
	want := []float64{0, 0.5, 1, 1}
	if out.Len() != len(want) {
		t.Fatalf("len = %d, want %d", out.Len(), len(want))
	}
	for i, w := range want {
		if got := out.Channels[0][i]; math.Abs(got-w) > 1e-9 {
			t.Errorf("sample %d = %v, want %v", i, got, w)
		}
	}
}

func TestConcatLengthLaw(t *testing.T) {
	a := &Buffer{SampleRate: 24000, Channels: [][]float64{{1, 2, 3}}}
	b := &Buffer{SampleRate: 24000, Channels: [][]float64{{4, 5}}}

	out, err := Concat([]*Buffer{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 5 {
		t.Errorf("len = %d, want 5", out.Len())
	}
	want := []float64{1, 2, 3, 4, 5}
	for i, w := range want {
		if out.Channels[0][i] != w {
			t.Errorf("sample %d = %v, want %v", i, out.Channels[0][i], w)
		}
	}
}

func TestConcatMonoUpmix(t *testing.T) {
	stereo := &Buffer{SampleRate: 24000, Channels: [][]float64{{1, 2}, {3, 4}}}
	mono := &Buffer{SampleRate: 24000, Channels: [][]float64{{9}}}

	out, err := Concat([]*Buffer{stereo, mono})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.NumChannels() != 2 {
		t.Fatalf("channels = %d", out.NumChannels())
	}
	if out.Channels[0][2] != 9 || out.Channels[1][2] != 9 {
		t.Errorf("mono sample not duplicated: %v / %v", out.Channels[0][2], out.Channels[1][2])
	}
}

func TestConcatEmptyInput(t *testing.T) {
	out, err := Concat(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 {
		t.Errorf("expected single silent sample, len = %d", out.Len())
	}
	if out.Channels[0][0] != 0 {
		t.Errorf("expected silence, got %v", out.Channels[0][0])
	}
}

func TestConcatSampleRateMismatch(t *testing.T) {
	a := &Buffer{SampleRate: 24000, Channels: [][]float64{{1}}}
	b := &Buffer{SampleRate: 44100, Channels: [][]float64{{2}}}

	if _, err := Concat([]*Buffer{a, b}); err == nil {
		t.Error("expected error for mismatched sample rates")
	}
}
