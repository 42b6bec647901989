package subtitles

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"teludub/internal/transcript"
)

// Cue is one subtitle entry. Index is informational; Render renumbers cues 1..N.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// BuildCues pairs each segment's timing with the translation at the same
// position. Translations must be 1:1 with segments; callers with free-form
// translated text use Retime instead.
func BuildCues(segments []transcript.Segment, translations []string) ([]Cue, error) {
	if len(segments) != len(translations) {
		return nil, fmt.Errorf("translation count %d does not match segment count %d", len(translations), len(segments))
	}
	cues := make([]Cue, 0, len(segments))
	for i, seg := range segments {
		text := CleanText(translations[i])
		if text == "" {
			continue
		}
		cues = append(cues, Cue{Index: len(cues) + 1, Start: seg.Start, End: seg.End, Text: text})
	}
	return cues, nil
}

// CleanText NFC-normalizes text and collapses whitespace runs inside each
// line. Line breaks are kept and blank lines are dropped, since a blank line
// ends an SRT cue.
func CleanText(text string) string {
	text = norm.NFC.String(strings.ReplaceAll(text, "\r\n", "\n"))
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
