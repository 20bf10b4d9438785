// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/speechprep/audio"
)

// aiffReader is the part of aiff.Decoder the source needs.
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// bufFrames is how many frames one ReadSamples call converts at most.
const bufFrames = 1024

type source struct {
	dec        aiffReader
	sampleRate int
	channels   int
	scale      float32
	pcm        goaudio.IntBuffer
}

func newSource(dec aiffReader, sampleRate, channels int, scale float32) *source {
	return &source{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		scale:      scale,
		pcm: goaudio.IntBuffer{
			Data:   make([]int, bufFrames*channels),
			Format: dec.Format(),
		},
	}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.pcm.Data) }

// ReadSamples converts up to BufSize values per call. go-audio fills the
// buffer completely until the sound chunk runs out, so a short read is
// the end of the stream.
func (s *source) ReadSamples(dst []float32) (int, error) {
	want := min(len(dst), cap(s.pcm.Data))
	if want == 0 {
		return 0, nil
	}
	s.pcm.Data = s.pcm.Data[:want]

	n, err := s.dec.PCMBuffer(&s.pcm)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read aiff samples: %w", err)
	}
	for i, v := range s.pcm.Data[:n] {
		dst[i] = float32(v) / s.scale
	}
	if n < want || err != nil {
		return n, io.EOF
	}
	return n, nil
}

// fullScale returns the magnitude of the most negative sample at depth.
func fullScale(depth int) (float32, bool) {
	switch depth {
	case 8:
		return 1 << 7, true
	case 16:
		return 1 << 15, true
	case 24:
		return 1 << 23, true
	case 32:
		return 1 << 31, true
	}
	return 0, false
}

// Decoder reads AIFF and AIFF-C files with 8 to 32-bit integer samples.
type Decoder struct{}

func (Decoder) Name() string { return "aiff" }

func (Decoder) Match(header []byte) bool {
	if len(header) < 12 || !bytes.Equal(header[:4], []byte("FORM")) {
		return false
	}
	kind := string(header[8:12])
	return kind == "AIFF" || kind == "AIFC"
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio seeks between chunks.
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	scale, ok := fullScale(int(dec.BitDepth))
	if !ok {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	return newSource(dec, format.SampleRate, format.NumChannels, scale), nil
}
