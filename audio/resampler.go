// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"fmt"
	"math"
)

// Interpolation selects how values between oversampled kernel points are read.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationNearest
)

// SincParams describes the band-limited interpolation filter.
type SincParams struct {
	// SincLen is the kernel length in taps; rounded up to a multiple of 8.
	SincLen int
	// Cutoff is the corner frequency relative to the Nyquist frequency of
	// the lower of the two rates.
	Cutoff float64
	// Oversampling is the number of kernel points stored per tap.
	Oversampling  int
	Window        WindowFunction
	Interpolation Interpolation
	// MaxRatioRelative bounds how far the ratio may later be adjusted
	// relative to the initial one. Must be >= 1.
	MaxRatioRelative float64
}

// DefaultSincParams returns the filter used for speech normalization.
func DefaultSincParams() SincParams {
	return SincParams{
		SincLen:          256,
		Cutoff:           0.95,
		Oversampling:     256,
		Window:           BlackmanHarris2,
		Interpolation:    InterpolationLinear,
		MaxRatioRelative: 2.0,
	}
}

// ctxCheckInterval is how many output samples are produced between
// context checks.
const ctxCheckInterval = 4096

// SincResampler converts one fixed-size block of mono samples between two
// rates with a windowed-sinc filter.
//
// Output sample k is taken at input position k*fromRate/toRate, so the
// output is aligned with the input and the filter delay is compensated.
// Samples outside the block are treated as zero.
type SincResampler struct {
	fromRate  int
	toRate    int
	chunkSize int
	step      float64 // input samples per output sample
	params    SincParams
	kernel    []float32
}

// NewSincResampler builds the filter for a fromRate -> toRate conversion of
// blocks of exactly chunkSize samples.
func NewSincResampler(fromRate, toRate, chunkSize int, params SincParams) (*SincResampler, error) {
	if fromRate <= 0 || toRate <= 0 {
		return nil, fmt.Errorf("%w: invalid rates %d -> %d", ErrResamplerInit, fromRate, toRate)
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrResamplerInit, chunkSize)
	}
	if params.SincLen <= 0 {
		return nil, fmt.Errorf("%w: sinc length must be positive, got %d", ErrResamplerInit, params.SincLen)
	}
	if params.Cutoff <= 0 || params.Cutoff > 1 {
		return nil, fmt.Errorf("%w: cutoff must be in (0, 1], got %g", ErrResamplerInit, params.Cutoff)
	}
	if params.Oversampling < 1 {
		return nil, fmt.Errorf("%w: oversampling must be at least 1, got %d", ErrResamplerInit, params.Oversampling)
	}
	if params.MaxRatioRelative < 1 {
		return nil, fmt.Errorf("%w: max relative ratio must be at least 1, got %g", ErrResamplerInit, params.MaxRatioRelative)
	}

	params.SincLen = (params.SincLen + 7) / 8 * 8

	ratio := float64(toRate) / float64(fromRate)
	cutoff := params.Cutoff
	if ratio < 1 {
		cutoff *= ratio
	}

	return &SincResampler{
		fromRate:  fromRate,
		toRate:    toRate,
		chunkSize: chunkSize,
		step:      float64(fromRate) / float64(toRate),
		params:    params,
		kernel:    makeKernel(params.SincLen, params.Oversampling, cutoff, params.Window),
	}, nil
}

// Ratio returns toRate/fromRate.
func (r *SincResampler) Ratio() float64 { return float64(r.toRate) / float64(r.fromRate) }

// ChunkSize returns the block length Process expects.
func (r *SincResampler) ChunkSize() int { return r.chunkSize }

// OutputLen returns how many samples Process produces for one block:
// ceil(chunkSize * toRate / fromRate).
func (r *SincResampler) OutputLen() int {
	n := int64(r.chunkSize)*int64(r.toRate) + int64(r.fromRate) - 1
	return int(n / int64(r.fromRate))
}

// Process resamples one block. len(in) must equal ChunkSize.
func (r *SincResampler) Process(ctx context.Context, in []float32) ([]float32, error) {
	if len(in) != r.chunkSize {
		return nil, fmt.Errorf("%w: expected %d input samples, got %d", ErrResamplerProcess, r.chunkSize, len(in))
	}

	sincLen := r.params.SincLen
	factor := r.params.Oversampling
	halfLen := sincLen / 2
	nearest := r.params.Interpolation == InterpolationNearest
	n := len(in)

	out := make([]float32, r.OutputLen())
	for k := range out {
		if k%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrResamplerProcess, err)
			}
		}

		t := float64(k) * r.step
		base := int(math.Floor(t))
		fpos := (t - float64(base)) * float64(factor)
		fi := int(fpos)
		if fi >= factor {
			fi = factor - 1
		}
		w := float32(fpos - float64(fi))
		if nearest {
			if w >= 0.5 {
				fi++
			}
			w = 0
		}

		// Tap m reads input base-halfLen+1+m with kernel point
		// (sincLen-1-m)*factor + fi.
		first := base - halfLen + 1
		mStart := max(0, -first)
		mEnd := min(sincLen, n-first)

		var acc float32
		for m := mStart; m < mEnd; m++ {
			j := (sincLen-1-m)*factor + fi
			h := r.kernel[j]
			if w != 0 {
				h += w * (r.kernel[j+1] - h)
			}
			acc += in[first+m] * h
		}
		out[k] = acc
	}

	return out, nil
}

// Resample converts mono samples from fromRate to toRate in a single block.
// Equal rates return samples unchanged.
func Resample(ctx context.Context, samples []float32, fromRate, toRate int, params SincParams) ([]float32, error) {
	if fromRate == toRate && fromRate > 0 {
		return samples, nil
	}

	r, err := NewSincResampler(fromRate, toRate, len(samples), params)
	if err != nil {
		return nil, err
	}
	return r.Process(ctx, samples)
}
