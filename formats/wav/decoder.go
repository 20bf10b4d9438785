// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/speechprep/audio"
	"github.com/ik5/speechprep/utils"
)

const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE

	// Streaming recorders leave the data size at one of these.
	unknownDataSize = 0xFFFFFFFF

	// fmtExtensibleLen is the size of a WAVE_FORMAT_EXTENSIBLE fmt body,
	// the longest layout the parser reads.
	fmtExtensibleLen = 40
)

// Header describes the sample layout of a WAV data chunk.
type Header struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	Float         bool
	// DataSize is the declared data chunk length, 0 when unknown.
	DataSize int64
}

func (h Header) width() int { return h.BitsPerSample / 8 }

// ReadHeader walks the RIFF chunks of r up to the start of the data chunk.
// Unknown chunks before "data" are skipped. On success r is positioned at
// the first sample byte.
func ReadHeader(r io.Reader) (Header, error) {
	var hdr Header

	riff := make([]byte, 12)
	if _, err := io.ReadFull(r, riff); err != nil {
		return hdr, fmt.Errorf("%w: %w", ErrTruncatedHeader, err)
	}
	if !bytes.Equal(riff[:4], []byte("RIFF")) || !bytes.Equal(riff[8:12], []byte("WAVE")) {
		return hdr, ErrNotWavFile
	}

	var (
		chunk   [8]byte
		haveFmt bool
		tag     uint16
	)
	for {
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return hdr, fmt.Errorf("%w: %w", ErrTruncatedHeader, err)
		}
		id := string(chunk[:4])
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))

		switch id {
		case "fmt ":
			if size < 16 {
				return hdr, fmt.Errorf("%w: fmt chunk of %d bytes", ErrUnsupportedWavLayout, size)
			}
			// Read at most fmtExtensibleLen bytes and skip the remainder.
			keep := min(size, fmtExtensibleLen)
			body := make([]byte, fmtExtensibleLen)
			if _, err := io.ReadFull(r, body[:keep]); err != nil {
				return hdr, fmt.Errorf("%w: %w", ErrTruncatedHeader, err)
			}
			if _, err := io.CopyN(io.Discard, r, size-keep+size%2); err != nil {
				return hdr, fmt.Errorf("%w: fmt chunk: %w", ErrTruncatedHeader, err)
			}
			tag = binary.LittleEndian.Uint16(body[0:2])
			hdr.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			hdr.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			hdr.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			// WAVE_FORMAT_EXTENSIBLE carries the real tag in its sub-format GUID.
			if tag == formatExtensible && size >= 40 {
				tag = binary.LittleEndian.Uint16(body[24:26])
			}
			haveFmt = true

		case "data":
			if !haveFmt {
				return hdr, fmt.Errorf("%w: data chunk before fmt chunk", ErrUnsupportedWavLayout)
			}
			if size != unknownDataSize {
				hdr.DataSize = size
			}
			hdr.Float = tag == formatIEEEFloat
			return hdr, validate(hdr, tag)

		default:
			if _, err := io.CopyN(io.Discard, r, size+size%2); err != nil {
				return hdr, fmt.Errorf("%w: chunk %q: %w", ErrTruncatedHeader, id, err)
			}
		}
	}
}

func validate(hdr Header, tag uint16) error {
	if hdr.Channels <= 0 || hdr.SampleRate <= 0 {
		return fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupportedWavLayout, hdr.Channels, hdr.SampleRate)
	}
	switch {
	case tag == formatPCM && hdr.BitsPerSample == 16:
		return nil
	case tag == formatIEEEFloat && hdr.BitsPerSample == 32:
		return nil
	default:
		return fmt.Errorf("%w: format tag %d, %d bits", ErrUnsupportedSampleWidth, tag, hdr.BitsPerSample)
	}
}

type wavSource struct {
	r   io.Reader
	hdr Header
	buf []byte
}

func newSource(r io.Reader, hdr Header) *wavSource {
	if hdr.DataSize > 0 {
		r = io.LimitReader(r, hdr.DataSize)
	}
	return &wavSource{r: r, hdr: hdr, buf: make([]byte, 4096*hdr.width())}
}

func (s *wavSource) SampleRate() int { return s.hdr.SampleRate }
func (s *wavSource) Channels() int   { return s.hdr.Channels }
func (s *wavSource) BufSize() int    { return cap(s.buf) / s.hdr.width() }
func (s *wavSource) Close() error    { return nil }

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	width := s.hdr.width()
	need := len(dst) * width
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	n, err := io.ReadFull(s.r, s.buf)
	samples := n / width
	for i := range samples {
		b := s.buf[i*width:]
		if s.hdr.Float {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b))
		} else {
			dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(b)))
		}
	}

	switch {
	case err == nil:
		return samples, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return samples, io.EOF
	default:
		return samples, fmt.Errorf("%w", err)
	}
}

// Decoder streams PCM WAV files. ReadBuffer drains it, so Sniff and Parse
// share its header checks.
type Decoder struct{}

func (Decoder) Name() string { return "wav" }

func (Decoder) Match(header []byte) bool {
	return len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE"))
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	hdr, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	return newSource(r, hdr), nil
}

// ReadBuffer decodes a whole WAV stream. 16-bit integer samples are divided
// by 32768; 32-bit float samples are passed through unchanged. A data chunk
// that declares more bytes than the stream holds is read to the end.
func ReadBuffer(r io.Reader) (*audio.Buffer, error) {
	src, err := Decoder{}.Decode(r)
	if err != nil {
		return nil, err
	}

	buf, err := audio.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read WAV samples: %w", err)
	}
	return buf, nil
}

// Sniff decodes data when it is a supported PCM WAV container. Anything
// else yields an error wrapping ErrNotRecognized.
func Sniff(data []byte) (*audio.Buffer, error) {
	return ReadBuffer(bytes.NewReader(data))
}

// Parse is ReadBuffer for input that must be PCM WAV. Recognition
// failures are reported as ErrUnsupportedSampleFormat.
func Parse(r io.Reader) (*audio.Buffer, error) {
	buf, err := ReadBuffer(r)
	if errors.Is(err, ErrNotRecognized) {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedSampleFormat, err)
	}
	return buf, err
}
