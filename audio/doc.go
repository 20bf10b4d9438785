// SPDX-License-Identifier: EPL-2.0

// Package audio provides the signal processing stages of the speech
// normalization pipeline.
//
// This package contains:
//   - Buffer, a fully decoded interleaved sample sequence, and the streaming
//     Source interface decoders produce
//   - Format and Registry for magic-byte container detection
//   - DownmixToMono for stereo to mono conversion
//   - SincResampler / Resample for band-limited sample rate conversion
//   - Validator for rejecting short or silent input
//
// # Sample Format
//
// Samples are float32 in the range [-1.0, 1.0]. Values outside the range
// are not clipped here; the encoder clamps on output.
//
// # Resampling
//
// Resample uses a windowed-sinc filter (256 taps, cutoff at 0.95 of the
// lower Nyquist frequency, squared Blackman-Harris window, 256x oversampled
// kernel with linear interpolation) over the whole input as one block:
//
//	out, err := audio.Resample(ctx, samples, 44100, 16000, audio.DefaultSincParams())
//
// The output is time aligned with the input and holds
// ceil(len(samples) * 16000 / 44100) samples. Equal rates return the input
// slice untouched.
//
// # Validation
//
// Validate applies, in priority order:
//   - ErrTooShort when fewer than 1600 samples are present
//   - ErrSilent when no sample exceeds 0.001 in magnitude
//   - ErrMostlySilent when fewer than 1% of the samples do
//
// # Error Handling
//
// Every stage returns an error wrapping one of the package sentinels, so
// callers can use errors.Is:
//
//	if errors.Is(err, audio.ErrMostlySilent) {
//	    // ask the user to speak up
//	}
package audio
