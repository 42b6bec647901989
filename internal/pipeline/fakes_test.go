package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"teludub/internal/config"
	"teludub/internal/media/ffmpeg"
	"teludub/internal/transcript"
)

const testSampleRate = 8000

// testWAV returns a mono 16-bit WAV of the given length.
func testWAV(t *testing.T, seconds float64) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunk.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	enc := wav.NewEncoder(f, testSampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Data:           make([]int, int(seconds*testSampleRate)),
		Format:         &audio.Format{SampleRate: testSampleRate, NumChannels: 1},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	_ = f.Close()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	return data
}

type fakeTranscriber struct {
	result transcript.Transcript
	err    error
	hook   func()
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audioPath string) (transcript.Transcript, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return transcript.Transcript{}, err
	}
	if f.hook != nil {
		f.hook()
	}
	return f.result, f.err
}

type fakeTranslator struct {
	mu  sync.Mutex
	err error
	n   int
}

var teluguFor = map[string]string{
	"Hello world.": "హలో ప్రపంచం.",
	"How are you?": "మీరు ఎలా ఉన్నారు?",
	"Goodbye.":     "వీడ్కోలు.",
}

func (f *fakeTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	if f.err != nil {
		return "", f.err
	}
	if out, ok := teluguFor[text]; ok {
		return out, nil
	}
	return "te:" + text, nil
}

type fakeSynth struct {
	mu    sync.Mutex
	wav   []byte
	err   error
	calls int
	texts []string
}

func (f *fakeSynth) Synthesize(_ context.Context, text, _ string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.wav, nil
}

type fakeMedia struct {
	durations  map[string]float64
	muxed      []ffmpeg.MuxRequest
	extractErr error
}

func (f *fakeMedia) ExtractAudio(_ context.Context, video, dest string) error {
	if f.extractErr != nil {
		return f.extractErr
	}
	if _, err := os.Stat(video); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("RIFF"), 0o644)
}

func (f *fakeMedia) Duration(_ context.Context, path string) (float64, error) {
	for suffix, d := range f.durations {
		if strings.HasSuffix(path, suffix) {
			return d, nil
		}
	}
	return 0, errors.New("no duration for " + path)
}

func (f *fakeMedia) Mux(_ context.Context, req ffmpeg.MuxRequest) (ffmpeg.MuxResult, error) {
	f.muxed = append(f.muxed, req)
	if err := os.WriteFile(req.Output, []byte("video"), 0o644); err != nil {
		return ffmpeg.MuxResult{}, err
	}
	return ffmpeg.MuxResult{OutputPath: req.Output}, nil
}

func threeSegments() transcript.Transcript {
	return transcript.Transcript{
		Language: "en",
		Segments: []transcript.Segment{
			{Start: 0, End: 2, Text: "Hello world."},
			{Start: 2, End: 4.5, Text: "How are you?"},
			{Start: 4.5, End: 6, Text: "Goodbye."},
		},
	}
}

// testSetup builds a run configuration rooted in a temp dir with a fake video.
func testSetup(t *testing.T) (Config, Deps, *fakeSynth, *fakeMedia) {
	t.Helper()
	root := t.TempDir()
	video := filepath.Join(root, "talk.mp4")
	if err := os.WriteFile(video, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Config{
		Video:          video,
		OutputDir:      filepath.Join(root, "out"),
		WorkDir:        filepath.Join(root, "work"),
		SourceLanguage: "auto",
		TargetLanguage: "te",
		Subtitles:      true,
		Synthesize:     true,
		Merge:          true,
		SubtitleTiming: config.TimingSegments,
		MaxChars:       20,
		Workers:        2,
		VideoCodec:     "copy",
		AudioCodec:     "aac",
		Container:      "mp4",
	}
	synth := &fakeSynth{wav: testWAV(t, 0.5)}
	media := &fakeMedia{durations: map[string]float64{"talk.wav": 6.5, "talk.mp4": 30}}
	deps := Deps{
		Transcriber: &fakeTranscriber{result: threeSegments()},
		Translator:  &fakeTranslator{},
		Synthesizer: synth,
		Media:       media,
	}
	return cfg, deps, synth, media
}
