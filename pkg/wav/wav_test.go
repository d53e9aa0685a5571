package wav

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/tableread/go-tableread/pkg/pcm"
)

func TestEncodeHeader(t *testing.T) {
	buf := &pcm.Buffer{
		SampleRate: 24000,
		Channels:   [][]float64{{0, 0.5, -0.5, 1}},
	}
	data := Encode(buf)

	if len(data) != 44+4*2 {
		t.Fatalf("len = %d, want %d", len(data), 44+8)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Error("bad RIFF/WAVE magic")
	}
	if string(data[12:16]) != "fmt " || string(data[36:40]) != "data" {
		t.Error("bad chunk ids")
	}
	if got := binary.LittleEndian.Uint16(data[20:22]); got != 1 {
		t.Errorf("format tag = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(data[22:24]); got != 1 {
		t.Errorf("channels = %d", got)
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != 24000 {
		t.Errorf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint32(data[28:32]); got != 48000 {
		t.Errorf("byte rate = %d", got)
	}
	if got := binary.LittleEndian.Uint16(data[32:34]); got != 2 {
		t.Errorf("block align = %d", got)
	}
	if got := binary.LittleEndian.Uint16(data[34:36]); got != 16 {
		t.Errorf("bit depth = %d", got)
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != 8 {
		t.Errorf("data size = %d", got)
	}
}

func TestQuantizeScaling(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{1.0, 32767},
		{-1.0, -32768},
		{0.5, 16383},  // 0.5*32767 truncated
		{-0.5, -16384},
		{2.0, 32767},  // clamped
		{-2.0, -32768}, // clamped
	}
	for _, tt := range tests {
		if got := quantize(tt.in); got != tt.want {
			t.Errorf("quantize(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	buf := &pcm.Buffer{
		SampleRate: 24000,
		Channels:   [][]float64{{0.25, -0.25, 0.75}},
	}
	a := Encode(buf)
	b := Encode(buf)
	if !bytes.Equal(a, b) {
		t.Error("encoding is not deterministic")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	buf := &pcm.Buffer{
		SampleRate: 24000,
		Channels:   [][]float64{{0, 0.5, -0.5, 1, -1}},
	}
	data := Encode(buf)

	dec := gowav.NewDecoder(bytes.NewReader(data))
	dec.ReadInfo()
	if !dec.IsValidFile() {
		t.Fatal("encoder output is not a valid WAV file")
	}
	if dec.SampleRate != 24000 {
		t.Errorf("decoded sample rate = %d", dec.SampleRate)
	}
	if dec.NumChans != 1 {
		t.Errorf("decoded channels = %d", dec.NumChans)
	}
	if dec.BitDepth != 16 {
		t.Errorf("decoded bit depth = %d", dec.BitDepth)
	}

	pcmBuf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	wantFormat := &audio.Format{NumChannels: 1, SampleRate: 24000}
	if pcmBuf.Format.NumChannels != wantFormat.NumChannels || pcmBuf.Format.SampleRate != wantFormat.SampleRate {
		t.Errorf("decoded format = %+v", pcmBuf.Format)
	}
	want := []int{0, 16383, -16384, 32767, -32768}
	if len(pcmBuf.Data) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(pcmBuf.Data), len(want))
	}
	for i, w := range want {
		if pcmBuf.Data[i] != w {
			t.Errorf("sample %d = %d, want %d", i, pcmBuf.Data[i], w)
		}
	}
}

func TestEncodeStereoInterleaving(t *testing.T) {
	buf := &pcm.Buffer{
		SampleRate: 24000,
		Channels: [][]float64{
			{0.5, 0.5},
			{-0.5, -0.5},
		},
	}
	data := Encode(buf)

	if got := binary.LittleEndian.Uint16(data[22:24]); got != 2 {
		t.Fatalf("channels = %d", got)
	}
	// Frame 0: left then right.
	left := int16(binary.LittleEndian.Uint16(data[44:46]))
	right := int16(binary.LittleEndian.Uint16(data[46:48]))
	if left != 16383 || right != -16384 {
		t.Errorf("frame 0 = (%d, %d)", left, right)
	}
}
