package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"teludub/internal/config"
)

func TestRunFlagsApplyOnlyChanged(t *testing.T) {
	var flags runFlags
	cmd := &cobra.Command{Use: "dub"}
	flags.register(cmd, true)
	outDir := t.TempDir()
	if err := cmd.ParseFlags([]string{"--target", "HI", "--output-dir", outDir, "--no-merge", "--workers", "3"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg := config.Default()
	if err := flags.apply(cmd, &cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Pipeline.TargetLanguage != "hi" {
		t.Fatalf("target language = %q", cfg.Pipeline.TargetLanguage)
	}
	if cfg.Paths.OutputDir != outDir {
		t.Fatalf("output dir = %q", cfg.Paths.OutputDir)
	}
	if cfg.Pipeline.Merge || !cfg.Pipeline.Synthesize {
		t.Fatalf("expected merge off and synthesis on, got merge=%v synthesize=%v", cfg.Pipeline.Merge, cfg.Pipeline.Synthesize)
	}
	if cfg.TTS.Workers != 3 {
		t.Fatalf("workers = %d", cfg.TTS.Workers)
	}
	if cfg.Pipeline.SourceLanguage != "auto" || cfg.Subtitles.Timing != config.TimingSegments {
		t.Fatalf("unchanged flags must keep config values: %+v %+v", cfg.Pipeline, cfg.Subtitles)
	}
}

func TestRunFlagsNoSynthesizeDisablesMerge(t *testing.T) {
	var flags runFlags
	cmd := &cobra.Command{Use: "dub"}
	flags.register(cmd, true)
	if err := cmd.ParseFlags([]string{"--no-synthesize"}); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	if err := flags.apply(cmd, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.Synthesize || cfg.Pipeline.Merge {
		t.Fatalf("expected synthesis and merge disabled: %+v", cfg.Pipeline)
	}
}

func TestTranscriptionLanguage(t *testing.T) {
	cases := []struct {
		name     string
		forced   string
		source   string
		expected string
	}{
		{name: "auto", source: "auto", expected: ""},
		{name: "explicit source", source: "en", expected: "en"},
		{name: "forced wins", forced: "hi", source: "en", expected: "hi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Transcription.Language = tc.forced
			cfg.Pipeline.SourceLanguage = tc.source
			if got := transcriptionLanguage(&cfg); got != tc.expected {
				t.Fatalf("got %q want %q", got, tc.expected)
			}
		})
	}
}

func TestTranscribeFailsWhenBinariesMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("PATH", t.TempDir())
	video := writeFile(t, t.TempDir(), "talk.mp4", "not really a video")

	_, _, err := runCLI(t, []string{"transcribe", video, "--output-dir", filepath.Join(env.baseDir, "out")}, env.configPath)
	if err == nil {
		t.Fatal("expected readiness failure")
	}
	requireContains(t, err.Error(), "not ready to run")
	requireContains(t, err.Error(), "FFmpeg")
}

func TestDubRequiresSpeechKey(t *testing.T) {
	env := setupCLITestEnv(t)
	video := writeFile(t, t.TempDir(), "talk.mp4", "x")
	writeFile(t, filepath.Dir(env.configPath), "config.toml", "[paths]\nwork_dir = \""+env.workDir+"\"\n")

	_, _, err := runCLI(t, []string{"dub", video}, env.configPath)
	if err == nil {
		t.Fatal("expected missing credential error")
	}
	requireContains(t, err.Error(), "tts.api_key")
}

func TestLanguageFlag(t *testing.T) {
	tests := map[string]string{
		"TE":     "te",
		"tel":    "te",
		"Telugu": "te",
		"auto":   "auto",
		"":       "",
	}
	for in, want := range tests {
		if got := languageFlag(in); got != want {
			t.Errorf("languageFlag(%q) = %q, want %q", in, got, want)
		}
	}
}
