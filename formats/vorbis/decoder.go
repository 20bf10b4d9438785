// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/speechprep/audio"
)

// oggReader is the part of oggvorbis.Reader the source needs.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec      oggReader
	channels int
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 * s.channels }

// ReadSamples decodes whole frames only; oggvorbis returns a value count
// that is always a multiple of the channel count.
func (s *source) ReadSamples(dst []float32) (n int, err error) {
	frames := len(dst) / s.channels
	if frames == 0 {
		return 0, nil
	}
	defer recoverStream(&err)
	return s.dec.Read(dst[:frames*s.channels])
}

// recoverStream turns a panic inside oggvorbis into ErrCorruptStream.
func recoverStream(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrCorruptStream, r)
	}
}

type Decoder struct{}

func (Decoder) Name() string { return "vorbis" }

// Match accepts an Ogg page whose first packet is a Vorbis identification
// header.
func (Decoder) Match(header []byte) bool {
	if !bytes.HasPrefix(header, []byte("OggS")) {
		return false
	}
	return bytes.Contains(header[:min(len(header), 64)], []byte("\x01vorbis"))
}

func (Decoder) Decode(r io.Reader) (_ audio.Source, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
		}
	}()
	defer recoverStream(&err)

	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, err
	}

	return &source{
		dec:      dec,
		channels: dec.Channels(),
	}, nil
}
