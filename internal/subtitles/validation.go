package subtitles

import (
	"fmt"
	"strings"
)

// durationSlack is how far the last cue may run past the media end before it
// is reported.
const durationSlack = 1.0

// Validate checks cues for structural problems and returns human-readable
// issues; an empty result means the cues are usable. mediaDuration <= 0 skips
// the end-of-media check.
func Validate(cues []Cue, mediaDuration float64) []string {
	if len(cues) == 0 {
		return []string{"empty_subtitle_file"}
	}
	var issues []string
	prevStart := 0.0
	for i, cue := range cues {
		n := i + 1
		if cue.End <= cue.Start {
			issues = append(issues, fmt.Sprintf("cue %d: end %.3fs not after start %.3fs", n, cue.End, cue.Start))
		}
		if cue.Start < prevStart {
			issues = append(issues, fmt.Sprintf("cue %d: starts before previous cue", n))
		}
		if strings.TrimSpace(cue.Text) == "" {
			issues = append(issues, fmt.Sprintf("cue %d: empty text", n))
		}
		prevStart = cue.Start
	}
	if mediaDuration > 0 {
		if last := cues[len(cues)-1].End; last > mediaDuration+durationSlack {
			issues = append(issues, fmt.Sprintf("duration_mismatch: last cue ends %.1fs after media end", last-mediaDuration))
		}
	}
	return issues
}
