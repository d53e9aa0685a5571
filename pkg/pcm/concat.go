package pcm

// Concat joins buffers into one contiguous buffer in input order, with no
// gaps, overlaps, or crossfades. Boundaries are sample-exact and audibly
// abrupt, which is fine for speech turn-taking.
//
// The result's channel count follows the first buffer. A later mono buffer
// is upmixed by duplicating its single channel into every result channel.
// All buffers must share a sample rate; a mismatch is an integration error
// and fails loudly. An empty input yields a single-sample silent buffer at
// the default rate rather than failing.
func Concat(buffers []*Buffer) (*Buffer, error) {
	if len(buffers) == 0 {
		return &Buffer{
			SampleRate: DefaultSampleRate,
			Channels:   [][]float64{{0}},
		}, nil
	}

	sampleRate := buffers[0].SampleRate
	channels := buffers[0].NumChannels()
	total := 0
	for _, b := range buffers {
		if b.SampleRate != sampleRate {
			return nil, ErrSampleRateMismatch
		}
		total += b.Len()
	}

	out := &Buffer{
		SampleRate: sampleRate,
		Channels:   make([][]float64, channels),
	}
	for ch := range out.Channels {
		out.Channels[ch] = make([]float64, total)
	}

	offset := 0
	for _, b := range buffers {
		n := b.Len()
		if n == 0 || b.NumChannels() == 0 {
			continue
		}
		for ch := 0; ch < channels; ch++ {
			src := b.Channels[0]
			if ch < b.NumChannels() {
				src = b.Channels[ch]
			}
			copy(out.Channels[ch][offset:offset+n], src)
		}
		offset += n
	}

	return out, nil
}
