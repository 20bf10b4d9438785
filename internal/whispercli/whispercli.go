// SPDX-License-Identifier: EPL-2.0

// Package whispercli recognizes speech by running the whisper.cpp command
// line tool on a normalized WAV file.
package whispercli

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

	"github.com/ik5/speechprep"
	"github.com/ik5/speechprep/internal/logging"
)

const (
	DefaultBinary   = "whisper-cli"
	DefaultLanguage = "en"
	DefaultTimeout  = 5 * time.Minute
)

// CommandRunner executes name with args and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

// RunError carries the output of a failed whisper run.
type RunError struct {
	Args   []string
	Output string
	Err    error
}

func (e *RunError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%v: %v", speechprep.ErrRecognitionFailed, e.Err)
	}
	return fmt.Sprintf("%v: %v: %s", speechprep.ErrRecognitionFailed, e.Err, e.Output)
}

func (e *RunError) Unwrap() []error { return []error{speechprep.ErrRecognitionFailed, e.Err} }

// Diagnostics returns the trimmed tool output.
func (e *RunError) Diagnostics() string { return e.Output }

// Recognizer implements speechprep.Recognizer.
type Recognizer struct {
	binary   string
	language string
	threads  int
	tempDir  string
	timeout  time.Duration
	logger   *slog.Logger
	run      CommandRunner
}

var _ speechprep.Recognizer = (*Recognizer)(nil)

type Option func(*Recognizer)

func WithBinary(binary string) Option {
	return func(r *Recognizer) {
		if strings.TrimSpace(binary) != "" {
			r.binary = binary
		}
	}
}

// WithLanguage sets the spoken language code; "auto" lets whisper detect it.
func WithLanguage(lang string) Option {
	return func(r *Recognizer) {
		if strings.TrimSpace(lang) != "" {
			r.language = lang
		}
	}
}

// WithThreads sets the worker thread count. Zero keeps the tool default.
func WithThreads(n int) Option {
	return func(r *Recognizer) { r.threads = n }
}

// WithTempDir sets where the transcript file is written.
func WithTempDir(dir string) Option {
	return func(r *Recognizer) {
		if dir != "" {
			r.tempDir = dir
		}
	}
}

// WithTimeout bounds a single run. Zero or negative disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Recognizer) { r.timeout = timeout }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recognizer) { r.logger = logging.NewComponentLogger(logger, "whisper") }
}

// WithCommandRunner allows injecting a custom command runner for tests.
func WithCommandRunner(run CommandRunner) Option {
	return func(r *Recognizer) {
		if run != nil {
			r.run = run
		}
	}
}

func New(opts ...Option) *Recognizer {
	r := &Recognizer{
		binary:   DefaultBinary,
		language: DefaultLanguage,
		tempDir:  os.TempDir(),
		timeout:  DefaultTimeout,
		logger:   logging.NewComponentLogger(nil, "whisper"),
		run:      defaultCommandRunner,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BuildArgs returns the whisper.cpp arguments that transcribe wavPath with
// modelPath and write plain text to outPrefix + ".txt".
func (r *Recognizer) BuildArgs(wavPath, modelPath, outPrefix string) []string {
	args := []string{
		"-m", modelPath,
		"-f", wavPath,
		"-l", r.language,
		"-nt",
		"-np",
		"-otxt",
		"-of", outPrefix,
	}
	if r.threads > 0 {
		args = append(args, "-t", strconv.Itoa(r.threads))
	}
	return args
}

// Recognize runs whisper.cpp and returns the trimmed transcript.
func (r *Recognizer) Recognize(ctx context.Context, wavPath, modelPath string) (string, error) {
	info, err := os.Stat(modelPath)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", speechprep.ErrModelNotFound, modelPath)
	}

	prefix := filepath.Join(r.tempDir, "transcript_"+uuid.NewString())
	txt := prefix + ".txt"
	defer r.remove(txt)

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := r.BuildArgs(wavPath, modelPath, prefix)
	logger := logging.WithContext(ctx, r.logger)
	logger.Debug("running whisper", logging.FieldPath, wavPath, "model", modelPath)

	start := time.Now()
	output, err := r.run(runCtx, r.binary, args...)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return "", fmt.Errorf("whisper: %w", ctx.Err())
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			return "", fmt.Errorf("%w: timed out after %s", speechprep.ErrRecognitionFailed, r.timeout)
		case errors.Is(err, exec.ErrNotFound):
			return "", fmt.Errorf("%w: binary %q not found: %w", speechprep.ErrRecognitionFailed, r.binary, err)
		}
		return "", &RunError{Args: args, Output: strings.TrimSpace(string(output)), Err: err}
	}

	data, err := os.ReadFile(txt)
	if err != nil {
		return "", fmt.Errorf("%w: no transcript produced: %w", speechprep.ErrRecognitionFailed, err)
	}

	text := joinLines(string(data))
	logger.Debug("whisper finished", logging.FieldDuration, time.Since(start), "chars", len(text))
	if text == "" {
		return "", speechprep.ErrEmptyTranscript
	}
	return text, nil
}

// joinLines collapses the per-segment lines of a transcript into one string.
func joinLines(s string) string {
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

func (r *Recognizer) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("failed to remove temporary file", logging.FieldPath, path, "error", err)
	}
}
