package transcript

import (
	"errors"
	"math"
	"testing"
)

func TestSegmentValidate(t *testing.T) {
	tests := []struct {
		name    string
		seg     Segment
		wantErr bool
	}{
		{name: "valid", seg: Segment{Start: 0, End: 2, Text: "Hello"}},
		{name: "negative start", seg: Segment{Start: -1, End: 2, Text: "x"}, wantErr: true},
		{name: "end equals start", seg: Segment{Start: 2, End: 2, Text: "x"}, wantErr: true},
		{name: "blank text", seg: Segment{Start: 0, End: 1, Text: "   "}, wantErr: true},
		{name: "nan", seg: Segment{Start: math.NaN(), End: 1, Text: "x"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.seg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSegment) {
					t.Fatalf("expected ErrInvalidSegment, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTranscriptNormalizeDropsDegenerateSegments(t *testing.T) {
	original := []Segment{
		{Start: 0, End: 2, Text: "  Hello   there "},
		{Start: 2, End: 2, Text: "zero length"},
		{Start: 2, End: 3, Text: ""},
		{Start: 3, End: 5, Text: "World"},
	}
	tr := Transcript{Segments: append([]Segment(nil), original...)}
	if dropped := tr.Normalize(); dropped != 2 {
		t.Fatalf("dropped = %d, want 2", dropped)
	}
	if len(tr.Segments) != 2 || tr.Segments[0].Text != "Hello there" || tr.Segments[1].Text != "World" {
		t.Fatalf("unexpected segments: %+v", tr.Segments)
	}
	if original[0].Text != "  Hello   there " {
		t.Fatal("Normalize mutated the caller's backing array")
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("normalized transcript should validate: %v", err)
	}
}

func TestTranscriptValidateRejectsDecreasingStart(t *testing.T) {
	tr := Transcript{Segments: []Segment{
		{Start: 2, End: 3, Text: "b"},
		{Start: 1, End: 4, Text: "a"},
	}}
	if err := tr.Validate(); !errors.Is(err, ErrInvalidSegment) {
		t.Fatalf("expected ordering error, got %v", err)
	}
}

func TestTranscriptTextHelpers(t *testing.T) {
	tr := Transcript{
		Language: "en",
		Duration: 7,
		Segments: []Segment{
			{Start: 0, End: 2, Text: "Hello"},
			{Start: 2, End: 5, Text: "World"},
			{Start: 5, End: 6.5, Text: "End"},
		},
	}
	if got := tr.FullText(); got != "Hello World End" {
		t.Fatalf("FullText = %q", got)
	}
	if tr.End() != 6.5 {
		t.Fatalf("End = %v", tr.End())
	}

	te, err := tr.WithTexts("te", []string{"హలో", " ప్రపంచం ", "ముగింపు"})
	if err != nil {
		t.Fatalf("WithTexts: %v", err)
	}
	if te.Language != "te" || te.Segments[1].Text != "ప్రపంచం" || te.Segments[1].Start != 2 || te.Segments[1].End != 5 {
		t.Fatalf("unexpected translated transcript: %+v", te)
	}
	if tr.Segments[1].Text != "World" {
		t.Fatal("WithTexts mutated the source transcript")
	}
	if _, err := tr.WithTexts("te", []string{"one"}); err == nil {
		t.Fatal("expected count mismatch error")
	}
}
