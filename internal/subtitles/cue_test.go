package subtitles

import (
	"testing"

	"teludub/internal/transcript"
)

func TestBuildCuesSkipsBlankTranslations(t *testing.T) {
	segments := []transcript.Segment{
		{Start: 0, End: 1, Text: "One"},
		{Start: 1, End: 2, Text: "Two"},
		{Start: 2, End: 3, Text: "Three"},
	}
	cues, err := BuildCues(segments, []string{"ఒకటి", "  ", "మూడు"})
	if err != nil {
		t.Fatalf("BuildCues: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %+v", cues)
	}
	if cues[1].Index != 2 || cues[1].Start != 2 || cues[1].Text != "మూడు" {
		t.Fatalf("unexpected second cue: %+v", cues[1])
	}
}

func TestBuildCuesRequiresMatchingCounts(t *testing.T) {
	if _, err := BuildCues([]transcript.Segment{{Start: 0, End: 1, Text: "x"}}, nil); err == nil {
		t.Fatal("expected count mismatch error")
	}
}

func TestCleanText(t *testing.T) {
	tests := map[string]string{
		"  hello   world ":     "hello world",
		"line one\r\n\r\nline": "line one\nline",
		// Decomposed e + combining acute composes to U+00E9.
		"cafe\u0301": "caf\u00e9",
		"":           "",
	}
	for input, want := range tests {
		if got := CleanText(input); got != want {
			t.Errorf("CleanText(%q) = %q, want %q", input, got, want)
		}
	}
}
