// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fixtures shared by the package tests: streaming
// mock sources, signal generators and in-memory container builders.
//
// It must not import the audio package: audio's own tests use it.
package audiotest

import "io"

// MockSource generates frames on demand from a waveform function. It
// satisfies audio.Source.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int // frames to produce
	pos        int // frames produced so far
	waveform   func(frame, channel int) float32
}

// NewMockSource returns a source producing frames frames of waveform.
func NewMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

// NewSilentSource returns a source of all-zero frames.
func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

// Reset rewinds the source to its first frame.
func (m *MockSource) Reset() { m.pos = 0 }

// ReadSamples writes whole frames only and reports io.EOF together with
// the last frames.
func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.pos)
	for f := range n {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.pos+f, ch)
		}
	}
	m.pos += n

	if m.pos >= m.frames {
		return n * m.channels, io.EOF
	}
	return n * m.channels, nil
}
