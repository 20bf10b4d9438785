// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ik5/speechprep"
	"github.com/ik5/speechprep/internal/audiotest"
	"github.com/ik5/speechprep/internal/config"
	"github.com/ik5/speechprep/internal/modelpath"
)

type cliTestEnv struct {
	base       string
	tempDir    string
	modelDir   string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	env := &cliTestEnv{
		base:       base,
		tempDir:    filepath.Join(base, "tmp"),
		modelDir:   filepath.Join(base, "models"),
		configPath: filepath.Join(base, "config.toml"),
	}
	for _, dir := range []string{home, env.tempDir, env.modelDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	t.Setenv("HOME", home)
	t.Setenv(config.EnvFFmpeg, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvModel, "")

	body := "[decoder]\ntemp_dir = '" + env.tempDir + "'\n\n" +
		"[recognizer]\nmodel_dirs = ['" + env.modelDir + "']\n\n" +
		"[logging]\nformat = 'json'\n"
	if err := os.WriteFile(env.configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

// newTestContext isolates model lookup from the host and fails every
// external tool lookup unless a test overrides it.
func (e *cliTestEnv) newTestContext() *commandContext {
	ctx := newCommandContext()
	none := func() (string, error) { return "", errors.New("unavailable") }
	ctx.models = modelpath.Locator{Getwd: none, UserConfigDir: none, Executable: none}
	ctx.lookPath = func(name string) (string, error) {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return ctx
}

func runCLI(t *testing.T, ctx *commandContext, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommandWithContext(ctx)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	samples := audiotest.Int16s(audiotest.Sine(44100, 2, 22050, 440, 0.5))
	path := filepath.Join(dir, "clip.wav")
	if err := os.WriteFile(path, audiotest.WAV16(44100, 2, samples), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected %s to be empty, found %v", dir, names)
	}
}

func TestNormalizeWritesOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	input := writeInput(t, env.base)
	target := filepath.Join(env.base, "out.wav")

	out, _, err := runCLI(t, env.newTestContext(), []string{"normalize", input, "-o", target}, env.configPath)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	requireContains(t, out, "Wrote "+target)
	requireContains(t, out, "8000 samples from 44100 Hz x2 via wav")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) != 44+8000*2 {
		t.Fatalf("output size = %d", len(data))
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 16000 {
		t.Fatalf("output rate = %d", rate)
	}
	requireEmptyDir(t, env.tempDir)
}

func TestNormalizeDefaultOutputPath(t *testing.T) {
	env := setupCLITestEnv(t)
	input := writeInput(t, env.base)

	if _, _, err := runCLI(t, env.newTestContext(), []string{"normalize", input}, env.configPath); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.base, "clip.16k.wav")); err != nil {
		t.Fatalf("expected default output: %v", err)
	}
}

func TestNormalizeKeep(t *testing.T) {
	env := setupCLITestEnv(t)
	input := writeInput(t, env.base)

	out, _, err := runCLI(t, env.newTestContext(), []string{"normalize", "--keep", input}, env.configPath)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	path := strings.TrimSpace(out)
	if filepath.Dir(path) != env.tempDir || !strings.HasPrefix(filepath.Base(path), "speech_") {
		t.Fatalf("unexpected kept path %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("kept file missing: %v", err)
	}

	_, _, err = runCLI(t, env.newTestContext(), []string{"normalize", "--keep", "-o", "x.wav", input}, env.configPath)
	if err == nil {
		t.Fatal("expected --keep with --output to fail")
	}
}

func TestNormalizeUnknownFormatWithoutFFmpeg(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.base, "blob.webm")
	if err := os.WriteFile(input, []byte("\x1a\x45\xdf\xa3 not really webm"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	_, _, err := runCLI(t, env.newTestContext(), []string{"normalize", input}, env.configPath)
	if speechprep.KindOf(err) != speechprep.KindExternalToolMissing {
		t.Fatalf("kind = %v, err = %v", speechprep.KindOf(err), err)
	}
	requireEmptyDir(t, env.tempDir)
}

func TestNormalizeUsesFFmpeg(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.base, "blob.webm")
	if err := os.WriteFile(input, []byte("\x1a\x45\xdf\xa3 webm"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	ctx := env.newTestContext()
	ctx.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	converted := audiotest.WAV16(48000, 1, audiotest.Int16s(audiotest.Sine(48000, 1, 24000, 300, 0.4)))
	var gotArgs []string
	ctx.ffmpegRunner = func(_ context.Context, _ string, args ...string) ([]byte, error) {
		gotArgs = args
		return nil, os.WriteFile(args[len(args)-1], converted, 0o600)
	}

	target := filepath.Join(env.base, "out.wav")
	out, _, err := runCLI(t, ctx, []string{"normalize", input, "-o", target}, env.configPath)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	requireContains(t, out, "via ffmpeg")
	if !slices.Contains(gotArgs, "pcm_s16le") {
		t.Fatalf("ffmpeg args = %v", gotArgs)
	}
	requireEmptyDir(t, env.tempDir)
}

func TestTranscribe(t *testing.T) {
	env := setupCLITestEnv(t)
	input := writeInput(t, env.base)
	model := filepath.Join(env.modelDir, "ggml-base.en.bin")
	if err := os.WriteFile(model, []byte("model"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	ctx := env.newTestContext()
	var gotArgs []string
	ctx.whisperRunner = func(_ context.Context, _ string, args ...string) ([]byte, error) {
		gotArgs = args
		i := slices.Index(args, "-of")
		return nil, os.WriteFile(args[i+1]+".txt", []byte(" a tone\n"), 0o600)
	}

	out, _, err := runCLI(t, ctx, []string{"transcribe", "-l", "auto", input}, env.configPath)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if strings.TrimSpace(out) != "a tone" {
		t.Fatalf("output = %q", out)
	}
	if gotArgs[1] != model || !slices.Contains(gotArgs, "auto") {
		t.Fatalf("whisper args = %v", gotArgs)
	}
	requireEmptyDir(t, env.tempDir)
}

func TestTranscribeMissingModel(t *testing.T) {
	env := setupCLITestEnv(t)
	input := writeInput(t, env.base)

	_, _, err := runCLI(t, env.newTestContext(), []string{"transcribe", input}, env.configPath)
	if !errors.Is(err, speechprep.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestModelCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.newTestContext(), []string{"model"}, env.configPath)
	if !errors.Is(err, speechprep.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
	requireContains(t, out, filepath.Join(env.modelDir, "ggml-base.en.bin"))

	model := filepath.Join(env.modelDir, "ggml-tiny.bin")
	if err := os.WriteFile(model, []byte("model"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	out, _, err = runCLI(t, env.newTestContext(), []string{"model", "-m", "ggml-tiny.bin"}, env.configPath)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	if strings.TrimSpace(out) != model {
		t.Fatalf("output = %q", out)
	}
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	ctx := env.newTestContext()
	ctx.lookPath = func(name string) (string, error) {
		if name == "ffmpeg" {
			return "/usr/bin/ffmpeg", nil
		}
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}

	out, _, err := runCLI(t, ctx, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "Config: "+env.configPath+" (loaded)")
	requireContains(t, out, "/usr/bin/ffmpeg")
	requireContains(t, out, "whisper-cli")
	requireContains(t, out, "missing (optional)")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.newTestContext(), []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid: "+env.configPath)

	target := filepath.Join(t.TempDir(), "speechprep", "config.toml")
	out, _, err = runCLI(t, env.newTestContext(), []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, _, err := runCLI(t, env.newTestContext(), []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected existing config to be refused")
	}

	out, _, err = runCLI(t, env.newTestContext(), []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid: "+target)
}

func TestInvalidLogLevelFlag(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.newTestContext(), []string{"--log-level", "loud", "check"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "log level") {
		t.Fatalf("expected log level error, got %v", err)
	}
}
