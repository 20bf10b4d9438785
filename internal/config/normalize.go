// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeDecoder(); err != nil {
		return err
	}
	if err := c.normalizeRecognizer(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.Resampler.Window = strings.ToLower(strings.TrimSpace(c.Resampler.Window))
	return nil
}

func (c *Config) normalizeDecoder() error {
	c.Decoder.FFmpegBinary = strings.TrimSpace(c.Decoder.FFmpegBinary)
	if c.Decoder.FFmpegBinary == "" {
		c.Decoder.FFmpegBinary = "ffmpeg"
	}
	if strings.ContainsRune(c.Decoder.FFmpegBinary, '/') || strings.HasPrefix(c.Decoder.FFmpegBinary, "~") {
		var err error
		if c.Decoder.FFmpegBinary, err = expandPath(c.Decoder.FFmpegBinary); err != nil {
			return fmt.Errorf("decoder.ffmpeg_binary: %w", err)
		}
	}

	var err error
	if c.Decoder.TempDir, err = expandPath(strings.TrimSpace(c.Decoder.TempDir)); err != nil {
		return fmt.Errorf("decoder.temp_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRecognizer() error {
	c.Recognizer.Binary = strings.TrimSpace(c.Recognizer.Binary)
	c.Recognizer.ModelName = strings.TrimSpace(c.Recognizer.ModelName)
	c.Recognizer.Language = strings.ToLower(strings.TrimSpace(c.Recognizer.Language))

	dirs := make([]string, 0, len(c.Recognizer.ModelDirs))
	for _, dir := range c.Recognizer.ModelDirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("recognizer.model_dirs: %w", err)
		}
		dirs = append(dirs, expanded)
	}
	c.Recognizer.ModelDirs = dirs
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "auto"
	}
}
