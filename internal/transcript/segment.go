package transcript

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidSegment marks a segment that violates the timing or text contract.
var ErrInvalidSegment = errors.New("invalid transcript segment")

// Segment is one unit of recognized speech.
type Segment struct {
	Start float64 // seconds from the start of the audio
	End   float64
	Text  string
}

// Duration returns End-Start.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Validate reports whether the segment has finite non-negative bounds with
// Start < End and non-empty trimmed text.
func (s Segment) Validate() error {
	switch {
	case !finite(s.Start) || !finite(s.End):
		return fmt.Errorf("%w: non-finite bounds [%v, %v]", ErrInvalidSegment, s.Start, s.End)
	case s.Start < 0:
		return fmt.Errorf("%w: negative start %.3f", ErrInvalidSegment, s.Start)
	case s.End <= s.Start:
		return fmt.Errorf("%w: end %.3f not after start %.3f", ErrInvalidSegment, s.End, s.Start)
	case strings.TrimSpace(s.Text) == "":
		return fmt.Errorf("%w: empty text at %.3f", ErrInvalidSegment, s.Start)
	}
	return nil
}

// Transcript bundles ordered segments with the detected spoken language.
type Transcript struct {
	Language string
	// Duration is the audio duration in seconds when the backend reports it.
	Duration float64
	Segments []Segment
}

// Normalize trims segment text, drops segments that are empty or have
// degenerate timing, and returns the number of segments dropped. Backends
// occasionally emit zero-length or blank segments at silence boundaries.
func (t *Transcript) Normalize() int {
	kept := t.Segments[:0:0]
	dropped := 0
	for _, seg := range t.Segments {
		seg.Text = strings.Join(strings.Fields(seg.Text), " ")
		if seg.Validate() != nil {
			dropped++
			continue
		}
		kept = append(kept, seg)
	}
	t.Segments = kept
	return dropped
}

// Validate checks every segment and that starts are non-decreasing.
func (t Transcript) Validate() error {
	prev := math.Inf(-1)
	for i, seg := range t.Segments {
		if err := seg.Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", i+1, err)
		}
		if seg.Start < prev {
			return fmt.Errorf("segment %d: %w: start %.3f before previous start %.3f", i+1, ErrInvalidSegment, seg.Start, prev)
		}
		prev = seg.Start
	}
	return nil
}

// Texts returns the segment texts in order.
func (t Transcript) Texts() []string {
	texts := make([]string, len(t.Segments))
	for i, seg := range t.Segments {
		texts[i] = seg.Text
	}
	return texts
}

// FullText joins segment texts with single spaces.
func (t Transcript) FullText() string {
	return strings.Join(t.Texts(), " ")
}

// End returns the end of the last segment, or zero without segments.
func (t Transcript) End() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].End
}

// WithTexts returns a copy of the transcript whose segments keep their timing
// but carry the supplied texts. The counts must match.
func (t Transcript) WithTexts(language string, texts []string) (Transcript, error) {
	if len(texts) != len(t.Segments) {
		return Transcript{}, fmt.Errorf("text count %d does not match segment count %d", len(texts), len(t.Segments))
	}
	out := Transcript{Language: language, Duration: t.Duration, Segments: make([]Segment, len(t.Segments))}
	for i, seg := range t.Segments {
		seg.Text = strings.TrimSpace(texts[i])
		out.Segments[i] = seg
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
