// SPDX-License-Identifier: EPL-2.0

// Package speechprep prepares recorded audio for speech recognition.
//
// A Pipeline takes a complete recording in whatever container the capture
// side produced and writes a mono, 16 kHz, 16-bit PCM WAV file:
//
//	p := speechprep.New(speechprep.Options{Logger: logger})
//	res, err := p.Process(ctx, blob)
//	if err != nil {
//		switch speechprep.KindOf(err) {
//		case speechprep.KindTooShort, speechprep.KindSilent, speechprep.KindMostlySilent:
//			// ask the user to speak again
//		}
//		return err
//	}
//	defer res.Release()
//
// # Stages
//
// Decoding tries PCM WAV (16-bit integer or 32-bit float) first, then AIFF,
// Ogg Vorbis and MP3 by magic bytes. Anything else, including WebM and
// Ogg Opus from browsers, goes to ffmpeg. A missing ffmpeg binary is
// reported as KindExternalToolMissing, distinct from a failed conversion.
//
// Stereo is averaged to mono, then the signal is checked at its native
// rate: fewer than 1600 samples is KindTooShort, no sample above 0.001 is
// KindSilent, fewer than 1% above it is KindMostlySilent. Valid audio is
// resampled with a 256-tap Blackman-Harris windowed sinc filter when the
// rate differs from 16 kHz, and encoded.
//
// # Errors
//
// Every failure is an *Error with a Kind. The underlying stage error stays
// reachable through errors.Is, so both of these hold for a short input:
//
//	speechprep.KindOf(err) == speechprep.KindTooShort
//	errors.Is(err, audio.ErrTooShort)
//
// # Ownership
//
// The file named by Result.Path belongs to the caller. Transcribe releases
// it itself once the Recognizer returns.
package speechprep
