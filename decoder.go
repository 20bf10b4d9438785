// SPDX-License-Identifier: EPL-2.0

package speechprep

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ik5/speechprep/audio"
	"github.com/ik5/speechprep/formats/aiff"
	"github.com/ik5/speechprep/formats/mp3"
	"github.com/ik5/speechprep/formats/vorbis"
	"github.com/ik5/speechprep/formats/wav"
	"github.com/ik5/speechprep/internal/ffmpeg"
	"github.com/ik5/speechprep/internal/logging"
)

// Decoded is a decoded buffer and the name of the decoder that produced it.
type Decoded struct {
	*audio.Buffer
	Decoder string
}

// Decoder turns raw input bytes into samples. It returns an error
// wrapping ErrUnrecognized when the input is not in a format it handles.
type Decoder interface {
	Decode(ctx context.Context, data []byte) (*Decoded, error)
}

// Native decodes in process: PCM WAV first, then any registry format whose
// magic bytes match.
type Native struct {
	Registry *audio.Registry
}

// headerLen is how many leading bytes are offered to Format.Match.
const headerLen = 64

// NewNative returns a Native decoder with the AIFF, Ogg Vorbis and MP3
// formats registered, in that order.
func NewNative() *Native {
	reg := audio.NewRegistry()
	reg.Register(aiff.Decoder{})
	reg.Register(vorbis.Decoder{})
	reg.Register(mp3.Decoder{})
	return &Native{Registry: reg}
}

func (n *Native) Decode(_ context.Context, data []byte) (*Decoded, error) {
	buf, err := wav.Sniff(data)
	if err == nil {
		return &Decoded{Buffer: buf, Decoder: wav.Decoder{}.Name()}, nil
	}
	if !errors.Is(err, wav.ErrNotRecognized) {
		return nil, err
	}

	if n.Registry == nil {
		return nil, fmt.Errorf("%w: %w", ErrUnrecognized, err)
	}
	format, ok := n.Registry.Detect(data[:min(len(data), headerLen)])
	if !ok {
		return nil, fmt.Errorf("%w: no magic match for %s: %w",
			ErrUnrecognized, strings.Join(n.Registry.Names(), ", "), err)
	}

	buf, err = decodeFormat(format, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnrecognized, format.Name(), err)
	}
	return &Decoded{Buffer: buf, Decoder: format.Name()}, nil
}

// errDecoderPanic marks a third-party decoder that panicked on its input.
var errDecoderPanic = errors.New("decoder panicked")

// decodeFormat drains format's source over data. A panic inside the
// decoder is returned as an error so the input can still go to ffmpeg.
func decodeFormat(format audio.Format, data []byte) (buf *audio.Buffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%w: %v", errDecoderPanic, r)
		}
	}()

	src, err := format.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return audio.ReadAll(src)
}

// External decodes through an ffmpeg subprocess.
type External struct {
	FFmpeg *ffmpeg.Decoder
}

func (e *External) Decode(ctx context.Context, data []byte) (*Decoded, error) {
	buf, err := e.FFmpeg.DecodeBytes(ctx, data)
	if err != nil {
		return nil, err
	}
	return &Decoded{Buffer: buf, Decoder: e.FFmpeg.Name()}, nil
}

// Fallback tries Primary and hands the input to Secondary only when
// Primary reports ErrUnrecognized. Other errors are returned as is.
type Fallback struct {
	Primary   Decoder
	Secondary Decoder
	Logger    *slog.Logger
}

func (f *Fallback) Decode(ctx context.Context, data []byte) (*Decoded, error) {
	out, err := f.Primary.Decode(ctx, data)
	if err == nil || !errors.Is(err, ErrUnrecognized) || f.Secondary == nil {
		return out, err
	}

	logging.WithContext(ctx, logging.NewComponentLogger(f.Logger, "decoder")).
		Debug("native decode declined, falling back", "reason", err)
	return f.Secondary.Decode(ctx, data)
}

// NewDefaultDecoder chains the native decoders with ff as fallback.
func NewDefaultDecoder(ff *ffmpeg.Decoder, logger *slog.Logger) Decoder {
	return &Fallback{
		Primary:   NewNative(),
		Secondary: &External{FFmpeg: ff},
		Logger:    logger,
	}
}
