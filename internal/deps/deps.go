// Package deps reports which external binaries a dubbing run needs and
// whether they can be found on PATH.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"teludub/internal/config"
)

// Requirement names an external binary a run may need.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the lookup result for one Requirement.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries resolves each requirement on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = check(req)
	}
	return results
}

func check(req Requirement) Status {
	st := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if st.Command == "" {
		st.Detail = "command not configured"
		return st
	}
	path, err := exec.LookPath(st.Command)
	if err != nil {
		st.Detail = fmt.Sprintf("binary %q not found", st.Command)
		return st
	}
	st.Path, st.Available = path, true
	return st
}

// Requirements lists the binaries the configuration needs. uvx is only
// required when WhisperX transcribes; ffmpeg and ffprobe always are.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: cfg.FFmpegBinary(), Description: "Extracts speech audio and remuxes the dubbed video"},
		{Name: "FFprobe", Command: cfg.FFprobeBinary(), Description: "Measures video and audio durations"},
		{
			Name:        "uvx",
			Command:     cfg.UVXBinary(),
			Description: "Runs WhisperX for local transcription",
			Optional:    cfg.Transcription.Backend != config.BackendWhisperX,
		},
	}
}

// Missing returns the required statuses that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
