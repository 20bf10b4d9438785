// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE containers.
//
// Sniff and ReadBuffer accept two sample encodings: 16-bit signed integer
// PCM, mapped to float32 by dividing by 32768, and 32-bit IEEE float,
// passed through unchanged. WAVE_FORMAT_EXTENSIBLE headers are resolved
// to their sub-format. Chunks other than "fmt " and "data" are skipped.
// Everything else, including 8, 24 and 32-bit integer PCM, is reported
// with an error wrapping ErrNotRecognized so that callers can hand the
// bytes to a general purpose decoder instead.
//
//	buf, err := wav.Sniff(data)
//	if errors.Is(err, wav.ErrNotRecognized) {
//		// try ffmpeg
//	}
//
// Decoder implements audio.Format for streaming use through an
// audio.Registry.
//
// EncodePCM16 writes the canonical output of the pipeline: mono, 16 kHz,
// 16-bit PCM with a 44-byte header. Samples are scaled by 32767 and
// clamped, see the utils package. WriteWAV16 is the lower level writer
// and needs an io.WriteSeeker because the sizes are patched in by
// github.com/go-audio/wav once the payload is known.
package wav
