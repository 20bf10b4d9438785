// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/ik5/speechprep/internal/logging"
)

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := c.validateDecoder(); err != nil {
		return err
	}
	if err := c.validateValidation(); err != nil {
		return err
	}
	if err := c.validateResampler(); err != nil {
		return err
	}
	if err := c.validateRecognizer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDecoder() error {
	if c.Decoder.TimeoutSeconds <= 0 {
		return errors.New("decoder.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateValidation() error {
	if c.Validation.MinSamples < 0 {
		return errors.New("validation.min_samples must not be negative")
	}
	if c.Validation.AmplitudeThreshold < 0 || c.Validation.AmplitudeThreshold >= 1 {
		return fmt.Errorf("validation.amplitude_threshold must be in [0, 1), got %g", c.Validation.AmplitudeThreshold)
	}
	if c.Validation.MinNonZeroPercent < 0 || c.Validation.MinNonZeroPercent > 100 {
		return fmt.Errorf("validation.min_nonzero_percent must be in [0, 100], got %d", c.Validation.MinNonZeroPercent)
	}
	return nil
}

func (c *Config) validateResampler() error {
	if c.Resampler.SincLen <= 0 {
		return errors.New("resampler.sinc_len must be positive")
	}
	if c.Resampler.Cutoff <= 0 || c.Resampler.Cutoff > 1 {
		return fmt.Errorf("resampler.cutoff must be in (0, 1], got %g", c.Resampler.Cutoff)
	}
	if c.Resampler.Oversampling < 1 {
		return errors.New("resampler.oversampling must be at least 1")
	}
	if c.Resampler.MaxRatioRelative < 1 {
		return errors.New("resampler.max_ratio_relative must be at least 1")
	}
	if _, ok := windowByName[c.Resampler.Window]; !ok {
		return fmt.Errorf("resampler.window: unsupported value %q", c.Resampler.Window)
	}
	return nil
}

func (c *Config) validateRecognizer() error {
	if c.Recognizer.Binary == "" {
		return errors.New("recognizer.binary must be set")
	}
	if c.Recognizer.ModelName == "" {
		return errors.New("recognizer.model_name must be set")
	}
	if c.Recognizer.Threads < 0 {
		return errors.New("recognizer.threads must not be negative")
	}
	if c.Recognizer.TimeoutSeconds <= 0 {
		return errors.New("recognizer.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "auto", "json", "text":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
