// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG Layer III audio with github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces interleaved 16-bit stereo, so Source.Channels
// reports 2 even for mono files; downmixing restores the original signal.
// Samples are converted with utils.Int16ToFloat32.
package mp3
