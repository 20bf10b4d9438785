// SPDX-License-Identifier: EPL-2.0

// Package modelpath locates recognizer model files on disk.
package modelpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultModel is the model file looked up when none is configured.
const DefaultModel = "ggml-base.en.bin"

// ErrNotFound is returned when no candidate location holds the model.
var ErrNotFound = errors.New("model not found")

// NotFoundError lists every location that was searched.
type NotFoundError struct {
	Name     string
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s not found, searched:\n  - %s",
		ErrNotFound, e.Name, strings.Join(e.Searched, "\n  - "))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Locator resolves models relative to the process environment. Zero
// fields fall back to the os package.
type Locator struct {
	Getwd         func() (string, error)
	UserConfigDir func() (string, error)
	Executable    func() (string, error)
	Stat          func(string) (os.FileInfo, error)
}

// Candidates returns the search order for name: extra dirs first, then
// ./src-tauri/models, ./models, the user config dir and the executable dir.
// Locations that cannot be determined are skipped.
func (l Locator) Candidates(name string, extra []string) []string {
	if name == "" {
		name = DefaultModel
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(dir string) {
		if dir == "" {
			return
		}
		p := filepath.Join(dir, name)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, dir := range extra {
		add(strings.TrimSpace(dir))
	}

	if wd, err := pick(l.Getwd, os.Getwd)(); err == nil {
		add(filepath.Join(wd, "src-tauri", "models"))
		add(filepath.Join(wd, "models"))
	}
	if cfg, err := pick(l.UserConfigDir, os.UserConfigDir)(); err == nil {
		add(filepath.Join(cfg, "speechprep", "models"))
	}
	if exe, err := pick(l.Executable, os.Executable)(); err == nil {
		add(filepath.Join(filepath.Dir(exe), "models"))
	}
	return out
}

// Resolve returns the first candidate that exists as a regular file.
// A name containing a path separator is checked as-is.
func (l Locator) Resolve(name string, extra []string) (string, error) {
	stat := l.Stat
	if stat == nil {
		stat = os.Stat
	}

	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		if info, err := stat(name); err == nil && !info.IsDir() {
			return name, nil
		}
		return "", &NotFoundError{Name: filepath.Base(name), Searched: []string{name}}
	}

	candidates := l.Candidates(name, extra)
	for _, p := range candidates {
		if info, err := stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	if name == "" {
		name = DefaultModel
	}
	return "", &NotFoundError{Name: name, Searched: candidates}
}

// Resolve uses the process environment.
func Resolve(name string, extra []string) (string, error) {
	return Locator{}.Resolve(name, extra)
}

func pick(f, def func() (string, error)) func() (string, error) {
	if f != nil {
		return f
	}
	return def
}
