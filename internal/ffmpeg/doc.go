// SPDX-License-Identifier: EPL-2.0

// Package ffmpeg is the external decoder used when no native decoder
// recognizes the input. It shells out to ffmpeg, asks for mono 16-bit PCM
// WAV at 48 kHz, and parses the result with the wav package. Every
// temporary file is named with a fresh UUID so concurrent runs never
// collide, and all of them are removed before a call returns.
package ffmpeg
