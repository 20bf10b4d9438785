// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrUnsupportedChannelLayout = errors.New("unsupported channel layout")

	ErrTooShort     = errors.New("audio is too short")
	ErrSilent       = errors.New("audio appears to be silent (all samples are zero)")
	ErrMostlySilent = errors.New("audio appears to be mostly silent")

	ErrResamplerInit    = errors.New("failed to create resampler")
	ErrResamplerProcess = errors.New("failed to resample")
)
