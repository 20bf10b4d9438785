// SPDX-License-Identifier: EPL-2.0

// Package deps reports which external tools speechprep can reach.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/ik5/speechprep/internal/config"
)

// Requirement describes an external binary.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// LookPathFunc resolves a command to an executable path.
type LookPathFunc func(file string) (string, error)

// Requirements lists the binaries the configuration refers to.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Decoder.FFmpegBinary,
			Description: "Decodes containers without a native decoder",
			Optional:    true,
		},
		{
			Name:        "whisper.cpp",
			Command:     cfg.Recognizer.Binary,
			Description: "Speech recognition for the transcribe command",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates each requirement against PATH.
func CheckBinaries(requirements []Requirement) []Status {
	return CheckBinariesWith(exec.LookPath, requirements)
}

// CheckBinariesWith is CheckBinaries with an injectable lookup.
func CheckBinariesWith(lookPath LookPathFunc, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := lookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the statuses of unavailable mandatory tools.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
