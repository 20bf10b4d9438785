// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ik5/speechprep/audio"
	"github.com/ik5/speechprep/formats/wav"
	"github.com/ik5/speechprep/internal/logging"
)

const (
	// DefaultBinary is resolved through PATH.
	DefaultBinary  = "ffmpeg"
	DefaultTimeout = 120 * time.Second
	// OutputRate is the rate ffmpeg is asked to produce. The resampler
	// brings it down to the target rate afterwards.
	OutputRate = 48000
)

// CommandRunner executes name with args and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

// Decoder converts arbitrary audio to PCM WAV by running ffmpeg.
type Decoder struct {
	binary   string
	tempDir  string
	timeout  time.Duration
	logger   *slog.Logger
	run      CommandRunner
	lookPath func(string) (string, error)
}

type Option func(*Decoder)

// WithBinary sets the ffmpeg executable name or path.
func WithBinary(binary string) Option {
	return func(d *Decoder) {
		if strings.TrimSpace(binary) != "" {
			d.binary = binary
		}
	}
}

// WithTempDir sets where intermediate files are written.
func WithTempDir(dir string) Option {
	return func(d *Decoder) { d.tempDir = dir }
}

// WithTimeout bounds a single ffmpeg run. Zero or negative disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Decoder) { d.timeout = timeout }
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Decoder) { d.logger = logging.NewComponentLogger(logger, "ffmpeg") }
}

// WithCommandRunner allows injecting a custom command runner for tests.
func WithCommandRunner(r CommandRunner) Option {
	return func(d *Decoder) {
		if r != nil {
			d.run = r
		}
	}
}

// WithLookPath replaces exec.LookPath for tests.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(d *Decoder) {
		if fn != nil {
			d.lookPath = fn
		}
	}
}

// New constructs a Decoder with defaults applied.
func New(opts ...Option) *Decoder {
	d := &Decoder{
		binary:   DefaultBinary,
		tempDir:  os.TempDir(),
		timeout:  DefaultTimeout,
		logger:   logging.NewComponentLogger(nil, "ffmpeg"),
		run:      defaultCommandRunner,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Decoder) Name() string { return "ffmpeg" }

// Lookup resolves the configured binary to an executable path.
func (d *Decoder) Lookup() (string, error) {
	path, err := d.lookPath(d.binary)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrNotFound, d.binary, err)
	}
	return path, nil
}

// BuildArgs returns the ffmpeg arguments converting in to mono 16-bit PCM
// WAV at OutputRate, written to out.
func BuildArgs(in, out string) []string {
	return []string{
		"-i", in,
		"-ar", strconv.Itoa(OutputRate),
		"-ac", "1",
		"-acodec", "pcm_s16le",
		"-f", "wav",
		"-y",
		"-loglevel", "error",
		out,
	}
}

// DecodeBytes stores data in a uniquely named temporary file and decodes it
// with DecodeFile. The temporary file is removed before returning.
func (d *Decoder) DecodeBytes(ctx context.Context, data []byte) (*audio.Buffer, error) {
	// Fail before touching the filesystem when ffmpeg is absent.
	bin, err := d.Lookup()
	if err != nil {
		return nil, err
	}

	raw := filepath.Join(d.tempDir, "raw_audio_"+uuid.NewString()+".bin")
	if err := os.WriteFile(raw, data, 0o600); err != nil {
		d.remove(raw)
		return nil, fmt.Errorf("write ffmpeg input: %w", err)
	}
	defer d.remove(raw)

	return d.decodeFile(ctx, bin, raw)
}

// DecodeFile converts the file at path and parses the result.
func (d *Decoder) DecodeFile(ctx context.Context, path string) (*audio.Buffer, error) {
	bin, err := d.Lookup()
	if err != nil {
		return nil, err
	}
	return d.decodeFile(ctx, bin, path)
}

// decodeFile runs the resolved ffmpeg binary bin on path.
func (d *Decoder) decodeFile(ctx context.Context, bin, path string) (*audio.Buffer, error) {
	out := filepath.Join(d.tempDir, "ffmpeg_output_"+uuid.NewString()+".wav")
	defer d.remove(out)

	runCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	args := BuildArgs(path, out)
	logger := logging.WithContext(ctx, d.logger)
	logger.Debug("running ffmpeg", logging.FieldPath, path, "binary", bin)

	start := time.Now()
	output, err := d.run(runCtx, bin, args...)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return nil, fmt.Errorf("ffmpeg: %w", ctx.Err())
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			return nil, fmt.Errorf("%w: timed out after %s", ErrFailed, d.timeout)
		case errors.Is(err, exec.ErrNotFound):
			return nil, fmt.Errorf("%w: %q: %w", ErrNotFound, bin, err)
		}
		return nil, &ExitError{Args: args, Stderr: strings.TrimSpace(string(output)), Err: err}
	}

	f, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("%w: no output produced: %w", ErrFailed, err)
	}
	defer f.Close()

	buf, err := wav.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse ffmpeg output: %w", err)
	}

	logger.Debug("ffmpeg finished",
		logging.FieldDuration, time.Since(start),
		"samples", len(buf.Samples),
		"sample_rate", buf.SampleRate,
	)
	return buf, nil
}

func (d *Decoder) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		d.logger.Warn("failed to remove temporary file", logging.FieldPath, path, "error", err)
	}
}
