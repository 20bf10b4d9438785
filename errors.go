// SPDX-License-Identifier: EPL-2.0

package speechprep

import (
	"context"
	"errors"
	"fmt"

	"github.com/ik5/speechprep/audio"
	"github.com/ik5/speechprep/formats/wav"
	"github.com/ik5/speechprep/internal/ffmpeg"
)

// Kind classifies pipeline failures.
type Kind int

const (
	KindUnknown Kind = iota
	KindEmptyInput
	// KindUnrecognizedContainer only surfaces when no fallback decoder is
	// configured.
	KindUnrecognizedContainer
	KindExternalToolMissing
	KindExternalToolFailed
	KindUnsupportedSampleFormat
	KindUnsupportedChannelLayout
	KindTooShort
	KindSilent
	KindMostlySilent
	KindResamplerInit
	KindResamplerProcess
	KindIO
	KindCanceled
	KindModelNotFound
	KindRecognitionFailed
	KindEmptyTranscript
)

var kindNames = [...]string{
	KindUnknown:                  "unknown",
	KindEmptyInput:               "empty input",
	KindUnrecognizedContainer:    "unrecognized container",
	KindExternalToolMissing:      "external tool missing",
	KindExternalToolFailed:       "external tool failed",
	KindUnsupportedSampleFormat:  "unsupported sample format",
	KindUnsupportedChannelLayout: "unsupported channel layout",
	KindTooShort:                 "too short",
	KindSilent:                   "silent",
	KindMostlySilent:             "mostly silent",
	KindResamplerInit:            "resampler init failed",
	KindResamplerProcess:         "resampler process failed",
	KindIO:                       "i/o error",
	KindCanceled:                 "canceled",
	KindModelNotFound:            "model not found",
	KindRecognitionFailed:        "recognition failed",
	KindEmptyTranscript:          "empty transcript",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

var (
	ErrEmptyInput = errors.New("audio input is empty")
	// ErrUnrecognized is returned by a Decoder that does not understand
	// its input. Fallback moves on to the next decoder on it.
	ErrUnrecognized = errors.New("unrecognized audio container")

	ErrModelNotFound     = errors.New("recognition model not found")
	ErrRecognitionFailed = errors.New("speech recognition failed")
	ErrEmptyTranscript   = errors.New("recognizer returned no text")
)

// Error is the typed failure returned by Pipeline methods.
type Error struct {
	Kind Kind
	// Op names the pipeline stage, e.g. "decode" or "resample".
	Op string
	// Stderr holds external tool diagnostics for KindExternalToolFailed.
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err, looking through wrapping.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return classify(err)
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, ffmpeg.ErrNotFound):
		return KindExternalToolMissing
	case errors.Is(err, ffmpeg.ErrFailed):
		return KindExternalToolFailed
	case errors.Is(err, wav.ErrUnsupportedSampleFormat):
		return KindUnsupportedSampleFormat
	case errors.Is(err, ErrUnrecognized), errors.Is(err, wav.ErrNotRecognized):
		return KindUnrecognizedContainer
	case errors.Is(err, audio.ErrUnsupportedChannelLayout):
		return KindUnsupportedChannelLayout
	case errors.Is(err, audio.ErrTooShort):
		return KindTooShort
	case errors.Is(err, audio.ErrSilent):
		return KindSilent
	case errors.Is(err, audio.ErrMostlySilent):
		return KindMostlySilent
	case errors.Is(err, audio.ErrResamplerInit):
		return KindResamplerInit
	case errors.Is(err, audio.ErrResamplerProcess):
		return KindResamplerProcess
	case errors.Is(err, ErrModelNotFound):
		return KindModelNotFound
	case errors.Is(err, ErrEmptyTranscript):
		return KindEmptyTranscript
	case errors.Is(err, ErrRecognitionFailed):
		return KindRecognitionFailed
	}
	return KindUnknown
}

// stageError tags err with op and its Kind. fallback is used when err
// carries no recognizable sentinel.
func stageError(op string, fallback Kind, err error) error {
	kind := classify(err)
	if kind == KindUnknown {
		kind = fallback
	}
	e := &Error{Kind: kind, Op: op, Err: err}
	var diag diagnoser
	if errors.As(err, &diag) {
		e.Stderr = diag.Diagnostics()
	}
	return e
}

// diagnoser is implemented by subprocess errors that captured tool output.
type diagnoser interface {
	Diagnostics() string
}
