// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// DownmixToMono averages interleaved frames down to a single channel.
//
// Mono input is returned as is. For stereo, each output sample is the mean
// of one left/right pair and a trailing unpaired sample is dropped.
// Anything else is ErrUnsupportedChannelLayout.
func DownmixToMono(samples []float32, channels int) ([]float32, error) {
	switch channels {
	case 1:
		return samples, nil
	case 2:
		frames := len(samples) / 2
		out := make([]float32, frames)
		for f := range frames {
			idx := f << 1 // f * 2
			out[f] = (samples[idx] + samples[idx+1]) * 0.5
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedChannelLayout, channels)
	}
}

// Mono returns a mono copy of b, or b itself when it already is mono.
func (b *Buffer) Mono() (*Buffer, error) {
	if b.Channels == 1 {
		return b, nil
	}
	samples, err := DownmixToMono(b.Samples, b.Channels)
	if err != nil {
		return nil, err
	}
	return &Buffer{Samples: samples, SampleRate: b.SampleRate, Channels: 1}, nil
}
