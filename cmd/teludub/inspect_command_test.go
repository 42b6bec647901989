package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInspectSubtitles(t *testing.T) {
	env := setupCLITestEnv(t)
	srt := writeFile(t, t.TempDir(), "talk.te.srt",
		"1\n00:00:00,000 --> 00:00:02,000\nనమస్కారం\n\n2\n00:00:02,000 --> 00:00:04,500\nధన్యవాదాలు\n\n")

	out, _, err := runCLI(t, []string{"inspect", srt}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "Cues:      2")
	requireContains(t, out, "00:00:00,000 --> 00:00:04,500")
	requireContains(t, out, "Validation: ok")
}

func TestInspectSubtitlesReportsIssues(t *testing.T) {
	env := setupCLITestEnv(t)
	srt := writeFile(t, t.TempDir(), "bad.srt",
		"1\n00:00:03,000 --> 00:00:02,000\nbackwards\n\n")

	out, _, err := runCLI(t, []string{"inspect", srt}, env.configPath)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	requireContains(t, out, "Validation issues:")
	requireContains(t, out, "cue 1")
}

func TestInspectTranscript(t *testing.T) {
	env := setupCLITestEnv(t)
	txt := writeFile(t, t.TempDir(), "talk.en.txt",
		"[0.00s -> 2.00s] Hello there.\n[2.00s -> 4.25s] How are you?\n")

	out, _, err := runCLI(t, []string{"inspect", txt}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "Segments:   2")
	requireContains(t, out, "Ends at:    4.25s")
	requireContains(t, out, "Validation: ok")
}
