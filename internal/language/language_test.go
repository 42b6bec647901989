package language

import "testing"

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"te", "te"},
		{"TE", "te"},
		{"tel", "te"},
		{"telugu", "te"},
		{"Telugu", "te"},
		{"తెలుగు", "te"},
		{"eng", "en"},
		{"fre", "fr"},
		{"chi", "zh"},
		{"hindi", "hi"},
		{"te-IN", "te"},
		{"xy", "xy"},
		{"", ""},
		{" ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToISO2(tt.input); got != tt.expected {
				t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestToISO3(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"te", "tel"},
		{"en", "eng"},
		{"ta", "tam"},
		{"fr", "fra"},
		{"ger", "deu"},
		{"it", "ita"},
		{"tel", "tel"},
		{"", "und"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToISO3(tt.input); got != tt.expected {
				t.Errorf("ToISO3(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"te", "Telugu"},
		{"tel", "Telugu"},
		{"en", "English"},
		{"it", "Italian"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTag(t *testing.T) {
	tag, err := Tag("telugu")
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	if tag.String() != "te" {
		t.Fatalf("Tag(telugu) = %q, want te", tag.String())
	}
	if _, err := Tag("not a language"); err == nil {
		t.Fatal("expected error for malformed tag")
	}
}

func TestKnown(t *testing.T) {
	if !Known("te") || !Known("it") || !Known("te-IN") {
		t.Fatal("expected known languages")
	}
	if Known("") {
		t.Fatal("empty code should not be known")
	}
}
