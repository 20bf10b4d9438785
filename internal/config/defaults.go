// SPDX-License-Identifier: EPL-2.0

package config

import "github.com/ik5/speechprep/audio"

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Decoder: Decoder{
			FFmpegBinary:   "ffmpeg",
			TimeoutSeconds: 120,
		},
		Validation: Validation{
			MinSamples:         audio.MinSamples,
			AmplitudeThreshold: float64(audio.AmplitudeThreshold),
			MinNonZeroPercent:  audio.MinNonZeroPercent,
		},
		Resampler: Resampler{
			SincLen:          256,
			Cutoff:           0.95,
			Oversampling:     256,
			Window:           "blackman_harris2",
			MaxRatioRelative: 2.0,
		},
		Recognizer: Recognizer{
			Binary:         "whisper-cli",
			ModelName:      "ggml-base.en.bin",
			Language:       "en",
			Threads:        4,
			TimeoutSeconds: 300,
		},
		Logging: Logging{
			Level:  "info",
			Format: "auto",
		},
	}
}

const sampleConfig = `# speechprep configuration

[decoder]
# Binary used when the input is not a WAV/AIFF/MP3/Ogg Vorbis file.
ffmpeg_binary = "ffmpeg"
timeout_seconds = 120
# Scratch directory for intermediate files; empty means the system temp dir.
temp_dir = ""

[validation]
min_samples = 1600
amplitude_threshold = 0.001
min_nonzero_percent = 1

[resampler]
sinc_len = 256
cutoff = 0.95
oversampling = 256
# blackman_harris2, blackman_harris or hann
window = "blackman_harris2"
max_ratio_relative = 2.0

[recognizer]
binary = "whisper-cli"
model_name = "ggml-base.en.bin"
# Extra directories searched before the built-in model locations.
model_dirs = []
language = "en"
threads = 4
timeout_seconds = 300

[logging]
# debug, info, warn or error
level = "info"
# auto, json or text
format = "auto"
`
