// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"
)

const (
	// MinSamples is the shortest accepted signal: 0.1s at 16 kHz.
	MinSamples = 1600
	// AmplitudeThreshold is the absolute value a sample must exceed to
	// count as non-zero.
	AmplitudeThreshold = 0.001
	// MinNonZeroPercent is the share of non-zero samples below which a
	// signal is mostly silent.
	MinNonZeroPercent = 1
)

// SignalStats summarizes a sample sequence for validation.
type SignalStats struct {
	Samples int
	NonZero int
	Peak    float32
}

// Analyze counts samples whose magnitude exceeds threshold.
func Analyze(samples []float32, threshold float32) SignalStats {
	st := SignalStats{Samples: len(samples)}
	for _, s := range samples {
		a := float32(math.Abs(float64(s)))
		if a > threshold {
			st.NonZero++
		}
		if a > st.Peak {
			st.Peak = a
		}
	}
	return st
}

// Validator rejects signals that are too short or silent.
type Validator struct {
	MinSamples         int
	AmplitudeThreshold float32
	MinNonZeroPercent  int
}

// DefaultValidator returns the thresholds used for speech recognition input.
func DefaultValidator() Validator {
	return Validator{
		MinSamples:         MinSamples,
		AmplitudeThreshold: AmplitudeThreshold,
		MinNonZeroPercent:  MinNonZeroPercent,
	}
}

// Validate checks samples in priority order TooShort, Silent, MostlySilent.
// The minimum length is a raw sample count regardless of sampleRate;
// sampleRate only feeds the error message.
func (v Validator) Validate(samples []float32, sampleRate int) error {
	st := Analyze(samples, v.AmplitudeThreshold)

	tooShort := st.Samples < v.MinSamples
	silent := st.NonZero == 0
	required := st.Samples / 100 * v.MinNonZeroPercent
	mostlySilent := st.NonZero < required

	switch {
	case tooShort:
		return fmt.Errorf("%w: %d samples (%s at %d Hz), need at least %d",
			ErrTooShort, st.Samples, seconds(st.Samples, sampleRate), sampleRate, v.MinSamples)
	case silent:
		return fmt.Errorf("%w: 0 of %d samples exceed %g", ErrSilent, st.Samples, v.AmplitudeThreshold)
	case mostlySilent:
		return fmt.Errorf("%w: %d of %d samples exceed %g, need at least %d (%d%%)",
			ErrMostlySilent, st.NonZero, st.Samples, v.AmplitudeThreshold, required, v.MinNonZeroPercent)
	}
	return nil
}

// Validate runs DefaultValidator.
func Validate(samples []float32, sampleRate int) error {
	return DefaultValidator().Validate(samples, sampleRate)
}

func seconds(n, rate int) string {
	if rate <= 0 {
		return "?s"
	}
	return fmt.Sprintf("%.3fs", float64(n)/float64(rate))
}
