// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"github.com/ik5/speechprep"
	"github.com/ik5/speechprep/internal/config"
	"github.com/ik5/speechprep/internal/ffmpeg"
	"github.com/ik5/speechprep/internal/logging"
	"github.com/ik5/speechprep/internal/modelpath"
	"github.com/ik5/speechprep/internal/whispercli"
)

type commandContext struct {
	configFlag    string
	logLevelFlag  string
	logFormatFlag string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	logger *slog.Logger

	// Test seams; nil selects the real implementations.
	ffmpegRunner  ffmpeg.CommandRunner
	whisperRunner whispercli.CommandRunner
	lookPath      func(string) (string, error)
	models        modelpath.Locator
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) initLogger(w io.Writer) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	level := cfg.Logging.Level
	if v := strings.TrimSpace(c.logLevelFlag); v != "" {
		level = v
	}
	format := cfg.Logging.Format
	if v := strings.TrimSpace(c.logFormatFlag); v != "" {
		format = v
	}
	logger, err := logging.New(logging.Options{Level: level, Format: format, Output: w})
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

func (c *commandContext) lookup() func(string) (string, error) {
	if c.lookPath != nil {
		return c.lookPath
	}
	return exec.LookPath
}

func (c *commandContext) ffmpegDecoder(cfg *config.Config) *ffmpeg.Decoder {
	opts := []ffmpeg.Option{
		ffmpeg.WithBinary(cfg.Decoder.FFmpegBinary),
		ffmpeg.WithTimeout(cfg.DecoderTimeout()),
		ffmpeg.WithLogger(c.logger),
		ffmpeg.WithLookPath(c.lookup()),
		ffmpeg.WithCommandRunner(c.ffmpegRunner),
	}
	if cfg.Decoder.TempDir != "" {
		opts = append(opts, ffmpeg.WithTempDir(cfg.Decoder.TempDir))
	}
	return ffmpeg.New(opts...)
}

func (c *commandContext) pipeline() (*speechprep.Pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	validator := cfg.Validator()
	params := cfg.SincParams()
	return speechprep.New(speechprep.Options{
		TempDir:    cfg.Decoder.TempDir,
		Decoder:    speechprep.NewDefaultDecoder(c.ffmpegDecoder(cfg), c.logger),
		Validator:  &validator,
		SincParams: &params,
		Logger:     c.logger,
	}), nil
}

func (c *commandContext) recognizer(language string) (*whispercli.Recognizer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(language) == "" {
		language = cfg.Recognizer.Language
	}
	opts := []whispercli.Option{
		whispercli.WithBinary(cfg.Recognizer.Binary),
		whispercli.WithLanguage(language),
		whispercli.WithThreads(cfg.Recognizer.Threads),
		whispercli.WithTimeout(cfg.RecognizerTimeout()),
		whispercli.WithTempDir(cfg.Decoder.TempDir),
		whispercli.WithLogger(c.logger),
		whispercli.WithCommandRunner(c.whisperRunner),
	}
	return whispercli.New(opts...), nil
}

// resolveModel finds the model named by override or the configuration.
func (c *commandContext) resolveModel(override string) (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	name := cfg.Recognizer.ModelName
	if v := strings.TrimSpace(override); v != "" {
		name = v
	}
	path, err := c.models.Resolve(name, cfg.Recognizer.ModelDirs)
	if err != nil {
		if errors.Is(err, modelpath.ErrNotFound) {
			return "", fmt.Errorf("%w: %w", speechprep.ErrModelNotFound, err)
		}
		return "", err
	}
	return path, nil
}
