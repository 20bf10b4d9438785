// SPDX-License-Identifier: EPL-2.0

// Command speechprep normalizes recorded audio into 16 kHz mono PCM WAV and
// optionally transcribes it with whisper.cpp.
//
//	speechprep normalize input.webm -o speech.wav
//	speechprep transcribe input.ogg
//	speechprep check
//	speechprep model
//	speechprep config init
package main
