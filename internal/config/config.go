// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ik5/speechprep/audio"
)

// Config holds every tunable of the speechprep tool.
type Config struct {
	Decoder    Decoder    `toml:"decoder"`
	Validation Validation `toml:"validation"`
	Resampler  Resampler  `toml:"resampler"`
	Recognizer Recognizer `toml:"recognizer"`
	Logging    Logging    `toml:"logging"`
}

// Decoder configures the ffmpeg fallback and scratch space.
type Decoder struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	TempDir        string `toml:"temp_dir"`
}

type Validation struct {
	MinSamples         int     `toml:"min_samples"`
	AmplitudeThreshold float64 `toml:"amplitude_threshold"`
	MinNonZeroPercent  int     `toml:"min_nonzero_percent"`
}

type Resampler struct {
	SincLen          int     `toml:"sinc_len"`
	Cutoff           float64 `toml:"cutoff"`
	Oversampling     int     `toml:"oversampling"`
	Window           string  `toml:"window"`
	MaxRatioRelative float64 `toml:"max_ratio_relative"`
}

// Recognizer configures the whisper.cpp command line recognizer.
type Recognizer struct {
	Binary         string   `toml:"binary"`
	ModelName      string   `toml:"model_name"`
	ModelDirs      []string `toml:"model_dirs"`
	Language       string   `toml:"language"`
	Threads        int      `toml:"threads"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/speechprep/config.toml")
}

// Load reads the configuration from path, or from the default locations
// when path is empty. A missing file yields defaults. It returns the
// resolved path and whether a file was found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("speechprep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Environment variables that override file values.
const (
	EnvFFmpeg   = "SPEECHPREP_FFMPEG"
	EnvLogLevel = "SPEECHPREP_LOG_LEVEL"
	EnvModel    = "SPEECHPREP_MODEL"
)

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvFFmpeg)); v != "" {
		c.Decoder.FFmpegBinary = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		c.Recognizer.ModelName = v
	}
}

// DecoderTimeout returns the ffmpeg run limit.
func (c *Config) DecoderTimeout() time.Duration {
	return time.Duration(c.Decoder.TimeoutSeconds) * time.Second
}

// RecognizerTimeout returns the recognizer run limit.
func (c *Config) RecognizerTimeout() time.Duration {
	return time.Duration(c.Recognizer.TimeoutSeconds) * time.Second
}

// Validator converts the validation section.
func (c *Config) Validator() audio.Validator {
	return audio.Validator{
		MinSamples:         c.Validation.MinSamples,
		AmplitudeThreshold: float32(c.Validation.AmplitudeThreshold),
		MinNonZeroPercent:  c.Validation.MinNonZeroPercent,
	}
}

// SincParams converts the resampler section.
func (c *Config) SincParams() audio.SincParams {
	params := audio.DefaultSincParams()
	params.SincLen = c.Resampler.SincLen
	params.Cutoff = c.Resampler.Cutoff
	params.Oversampling = c.Resampler.Oversampling
	params.MaxRatioRelative = c.Resampler.MaxRatioRelative
	if wf, ok := windowByName[c.Resampler.Window]; ok {
		params.Window = wf
	}
	return params
}

var windowByName = map[string]audio.WindowFunction{
	"blackman_harris2": audio.BlackmanHarris2,
	"blackman_harris":  audio.BlackmanHarris,
	"hann":             audio.Hann,
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a commented default configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
