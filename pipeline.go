// SPDX-License-Identifier: EPL-2.0

package speechprep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ik5/speechprep/audio"
	"github.com/ik5/speechprep/formats/wav"
	"github.com/ik5/speechprep/internal/ffmpeg"
	"github.com/ik5/speechprep/internal/logging"
)

// TargetRate is the sample rate expected by the recognizer.
const TargetRate = wav.CanonicalRate

// Options configures a Pipeline. Zero values select defaults.
type Options struct {
	// TempDir receives the encoded output and, through the default
	// decoder, ffmpeg intermediates. Defaults to os.TempDir().
	TempDir string
	// TargetRate defaults to TargetRate.
	TargetRate int
	// Decoder defaults to NewDefaultDecoder with a PATH-resolved ffmpeg.
	Decoder    Decoder
	Validator  *audio.Validator
	SincParams *audio.SincParams
	Logger     *slog.Logger
}

// Pipeline normalizes recorded audio for speech recognition. It holds no
// per-run state and is safe for concurrent use.
type Pipeline struct {
	tempDir    string
	targetRate int
	decoder    Decoder
	validator  audio.Validator
	params     audio.SincParams
	logger     *slog.Logger
}

// New builds a Pipeline from opts.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		tempDir:    opts.TempDir,
		targetRate: opts.TargetRate,
		decoder:    opts.Decoder,
		validator:  audio.DefaultValidator(),
		params:     audio.DefaultSincParams(),
		logger:     logging.NewComponentLogger(opts.Logger, "pipeline"),
	}
	if p.tempDir == "" {
		p.tempDir = os.TempDir()
	}
	if p.targetRate <= 0 {
		p.targetRate = TargetRate
	}
	if opts.Validator != nil {
		p.validator = *opts.Validator
	}
	if opts.SincParams != nil {
		p.params = *opts.SincParams
	}
	if p.decoder == nil {
		ff := ffmpeg.New(ffmpeg.WithTempDir(p.tempDir), ffmpeg.WithLogger(opts.Logger))
		p.decoder = NewDefaultDecoder(ff, opts.Logger)
	}
	return p
}

// Result is a normalized file on disk. The caller owns it and must call
// Release when done.
type Result struct {
	// Path of the mono 16-bit PCM WAV file.
	Path string
	// Samples written to Path.
	Samples        int
	SourceRate     int
	SourceChannels int
	// Decoder names the decoder that understood the input.
	Decoder string

	once   sync.Once
	logger *slog.Logger
}

// Release removes the output file. It is safe to call more than once and
// on a nil Result. Removal failures are logged, never returned.
func (r *Result) Release() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		if err := os.Remove(r.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			if r.logger != nil {
				r.logger.Warn("failed to remove normalized audio", logging.FieldPath, r.Path, "error", err)
			}
		}
	})
}

// Process decodes data, downmixes it to mono, validates it, resamples it
// to the target rate, and writes it to a new file in the temp directory.
func (p *Pipeline) Process(ctx context.Context, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, &Error{Kind: KindEmptyInput, Op: "process", Err: ErrEmptyInput}
	}

	id := uuid.NewString()
	if _, ok := logging.RequestIDFromContext(ctx); !ok {
		ctx = logging.ContextWithRequestID(ctx, id)
	}
	logger := logging.WithContext(ctx, p.logger)
	start := time.Now()

	decoded, err := p.decoder.Decode(ctx, data)
	if err != nil {
		return nil, stageError("decode", KindIO, err)
	}
	logger.Debug("decoded audio",
		logging.FieldDecoder, decoded.Decoder,
		"sample_rate", decoded.SampleRate,
		"channels", decoded.Channels,
		"samples", len(decoded.Samples),
	)

	mono, err := decoded.Mono()
	if err != nil {
		return nil, stageError("downmix", KindUnsupportedChannelLayout, err)
	}

	if err := p.validator.Validate(mono.Samples, mono.SampleRate); err != nil {
		return nil, stageError("validate", KindUnknown, err)
	}

	out, err := audio.Resample(ctx, mono.Samples, mono.SampleRate, p.targetRate, p.params)
	if err != nil {
		return nil, stageError("resample", KindResamplerProcess, err)
	}

	path := filepath.Join(p.tempDir, "speech_"+id+".wav")
	if err := wav.EncodePCM16At(out, p.targetRate, path); err != nil {
		return nil, stageError("encode", KindIO, err)
	}

	logger.Info("audio normalized",
		logging.FieldPath, path,
		logging.FieldDecoder, decoded.Decoder,
		"source_rate", decoded.SampleRate,
		"samples", len(out),
		logging.FieldDuration, time.Since(start),
	)

	return &Result{
		Path:           path,
		Samples:        len(out),
		SourceRate:     decoded.SampleRate,
		SourceChannels: decoded.Channels,
		Decoder:        decoded.Decoder,
		logger:         logger,
	}, nil
}

// ProcessFile reads path and runs Process on its contents.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindIO, Op: "read", Err: fmt.Errorf("read input: %w", err)}
	}
	return p.Process(ctx, data)
}
