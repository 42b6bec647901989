package subtitles

import (
	"math"
	"reflect"
	"testing"
)

func TestRetimePartitionsDuration(t *testing.T) {
	const tolerance = 1e-9
	for _, n := range []int{1, 2, 3, 7, 10} {
		for _, total := range []float64{0.5, 6.5, 10, 123.456} {
			sentences := make([]string, n)
			for i := range sentences {
				sentences[i] = "వాక్యం"
			}
			cues := Retime(sentences, total)
			if len(cues) != n {
				t.Fatalf("n=%d total=%v: got %d cues", n, total, len(cues))
			}
			if cues[0].Start != 0 {
				t.Fatalf("first cue starts at %v", cues[0].Start)
			}
			if math.Abs(cues[n-1].End-total) > tolerance {
				t.Fatalf("last cue ends at %v, want %v", cues[n-1].End, total)
			}
			for i := 0; i < n-1; i++ {
				if cues[i].End != cues[i+1].Start {
					t.Fatalf("gap between cue %d and %d: %v vs %v", i, i+1, cues[i].End, cues[i+1].Start)
				}
				if cues[i].End <= cues[i].Start {
					t.Fatalf("cue %d not positive length", i)
				}
			}
		}
	}
}

func TestRetimeSingleSentenceTakesFullDuration(t *testing.T) {
	cues := Retime([]string{"ఒకే వాక్యం"}, 4.2)
	want := []Cue{{Index: 1, Start: 0, End: 4.2, Text: "ఒకే వాక్యం"}}
	if !reflect.DeepEqual(cues, want) {
		t.Fatalf("Retime = %+v, want %+v", cues, want)
	}
}

func TestRetimeEmptyYieldsNoCues(t *testing.T) {
	if cues := Retime(nil, 5); len(cues) != 0 {
		t.Fatalf("expected no cues, got %+v", cues)
	}
}

func TestRetimePanicsOnInvalidDuration(t *testing.T) {
	for _, total := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Retime(_, %v) did not panic", total)
				}
			}()
			Retime([]string{"a"}, total)
		}()
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "   ", want: nil},
		{name: "no punctuation", text: "hello world", want: []string{"hello world"}},
		{name: "english", text: "Hello there. How are you? Great!", want: []string{"Hello there.", "How are you?", "Great!"}},
		{name: "telugu danda", text: "నమస్కారం। మీరు ఎలా ఉన్నారు? బాగున్నాను.", want: []string{"నమస్కారం।", "మీరు ఎలా ఉన్నారు?", "బాగున్నాను."}},
		{name: "decimal kept", text: "It costs 3.50 dollars. Cheap.", want: []string{"It costs 3.50 dollars.", "Cheap."}},
		{name: "ellipsis and quote", text: `He said "wait..." Then left.`, want: []string{`He said "wait..."`, "Then left."}},
		{name: "trailing fragment", text: "Done. and more", want: []string{"Done.", "and more"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitSentences(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("SplitSentences(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
