package subtitles

import (
	"math"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{3661.234, "01:01:01,234"},
		{2.0, "00:00:02,000"},
		{6.5, "00:00:06,500"},
		{59.9996, "00:01:00,000"},
		{0.0004, "00:00:00,000"},
		{360000, "100:00:00,000"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatTimestampPanicsOnInvalidInput(t *testing.T) {
	for _, value := range []float64{-0.001, math.NaN(), math.Inf(1)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("FormatTimestamp(%v) did not panic", value)
				}
			}()
			FormatTimestamp(value)
		}()
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "00:00:00,000", want: 0},
		{input: "01:01:01,234", want: 3661.234},
		{input: "01:01:01.234", want: 3661.234},
		{input: " 00:00:02,5 ", want: 2.5},
		{input: "100:00:00,000", want: 360000},
		{input: "", wantErr: true},
		{input: "00:00:00", wantErr: true},
		{input: "00:61:00,000", wantErr: true},
		{input: "aa:00:00,000", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimestamp(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimestamp(%q) error: %v", tt.input, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	for _, seconds := range []float64{0, 0.001, 1.5, 61.25, 3599.999, 7322.042} {
		parsed, err := ParseTimestamp(FormatTimestamp(seconds))
		if err != nil {
			t.Fatalf("round trip %v: %v", seconds, err)
		}
		if math.Abs(parsed-seconds) > 0.0005 {
			t.Fatalf("round trip %v -> %v", seconds, parsed)
		}
	}
}
