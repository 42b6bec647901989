package subtitles

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"teludub/internal/transcript"
)

func TestRenderRenumbersCues(t *testing.T) {
	cues := []Cue{
		{Index: 7, Start: 0, End: 1, Text: "a"},
		{Index: 3, Start: 1, End: 2.5, Text: "b"},
	}
	want := "1\n00:00:00,000 --> 00:00:01,000\na\n\n2\n00:00:01,000 --> 00:00:02,500\nb\n\n"
	if got := Render(cues); got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
	if Render(nil) != "" {
		t.Fatal("expected empty document for no cues")
	}
}

func TestEndToEndSegmentsToSRT(t *testing.T) {
	segments := []transcript.Segment{
		{Start: 0.0, End: 2.0, Text: "Hello"},
		{Start: 2.0, End: 5.0, Text: "World"},
		{Start: 5.0, End: 6.5, Text: "End"},
	}
	cues, err := BuildCues(segments, []string{"హలో", "ప్రపంచం", "ముగింపు"})
	if err != nil {
		t.Fatalf("BuildCues: %v", err)
	}
	doc := Render(cues)
	wantTimings := []string{
		"1\n00:00:00,000 --> 00:00:02,000\n",
		"2\n00:00:02,000 --> 00:00:05,000\n",
		"3\n00:00:05,000 --> 00:00:06,500\n",
	}
	last := -1
	for _, timing := range wantTimings {
		idx := strings.Index(doc, timing)
		if idx <= last {
			t.Fatalf("timing %q missing or out of order in:\n%s", timing, doc)
		}
		last = idx
	}
	if strings.Count(doc, " --> ") != 3 {
		t.Fatalf("expected exactly 3 cues:\n%s", doc)
	}
}

func TestParseRoundTrip(t *testing.T) {
	cues := Retime([]string{"మొదటి వాక్యం.", "రెండవ\nపంక్తి", "మూడవది!"}, 10)
	parsed, err := Parse(strings.NewReader(Render(cues)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed) != len(cues) {
		t.Fatalf("parsed %d cues, want %d", len(parsed), len(cues))
	}
	for i := range cues {
		if parsed[i].Index != i+1 || parsed[i].Text != cues[i].Text {
			t.Fatalf("cue %d = %+v, want %+v", i, parsed[i], cues[i])
		}
		if math.Abs(parsed[i].Start-cues[i].Start) > 0.0005 || math.Abs(parsed[i].End-cues[i].End) > 0.0005 {
			t.Fatalf("cue %d timing %v-%v, want %v-%v", i, parsed[i].Start, parsed[i].End, cues[i].Start, cues[i].End)
		}
	}
}

func TestParseToleratesCRLFAndBOM(t *testing.T) {
	input := "\ufeff1\r\n00:00:01,000 --> 00:00:02,000 X1:0\r\nfirst\r\n\r\n\r\n00:00:03.000 --> 00:00:04.000\r\nno index\r\n"
	cues, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("got %d cues: %+v", len(cues), cues)
	}
	if cues[0].Index != 1 || cues[0].Start != 1 || cues[0].End != 2 || cues[0].Text != "first" {
		t.Fatalf("unexpected first cue: %+v", cues[0])
	}
	if cues[1].Index != 0 || cues[1].Start != 3 || cues[1].Text != "no index" {
		t.Fatalf("unexpected second cue: %+v", cues[1])
	}
}

func TestParseRejectsMalformedTiming(t *testing.T) {
	_, err := Parse(strings.NewReader("1\n00:00:01 -> 00:00:02\ntext\n"))
	if err == nil {
		t.Fatal("expected malformed timing error")
	}
}

func TestWriteAndParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video.te.srt")
	cues := []Cue{{Start: 0, End: 1.25, Text: "హలో"}}
	if err := Write(path, cues); err != nil {
		t.Fatalf("Write: %v", err)
	}
	parsed, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(parsed) != 1 || parsed[0].Text != "హలో" || parsed[0].End != 1.25 {
		t.Fatalf("unexpected cues: %+v", parsed)
	}
}
