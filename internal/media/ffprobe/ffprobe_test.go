package ffprobe

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio", Tags: map[string]string{"language": "tel"}},
			{CodecType: "audio"},
		},
		Format: Format{Duration: "123.45", Size: "1000"},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.Streams[1].Language() != "tel" || result.Streams[2].Language() != "" {
		t.Fatalf("unexpected stream languages")
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{Streams: []Stream{{Duration: "4.5"}, {Duration: "6.25"}, {Duration: ""}}}
	if got := result.DurationSeconds(); got != 6.25 {
		t.Fatalf("DurationSeconds = %v, want 6.25", got)
	}
	bad := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(bad.DurationSeconds()) {
		t.Fatalf("expected NaN, got %v", bad.DurationSeconds())
	}
	if bad.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", bad.SizeBytes())
	}
}

func TestProberDuration(t *testing.T) {
	var gotArgs []string
	p := New("")
	p.WithRunner(func(_ context.Context, binary string, args ...string) ([]byte, error) {
		if binary != "ffprobe" {
			t.Fatalf("unexpected binary %q", binary)
		}
		gotArgs = args
		return []byte(`{"streams":[{"index":0,"codec_type":"audio","codec_name":"pcm_s16le"}],"format":{"duration":"7.000000"}}`), nil
	})

	seconds, err := p.Duration(context.Background(), "/tmp/dub.wav")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if seconds != 7 {
		t.Fatalf("Duration = %v, want 7", seconds)
	}
	if joined := strings.Join(gotArgs, " "); !strings.HasSuffix(joined, "-of json -- /tmp/dub.wav") {
		t.Fatalf("unexpected args: %q", joined)
	}
}

func TestProberDurationErrors(t *testing.T) {
	p := New("ffprobe")
	p.WithRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte(`{"streams":[],"format":{}}`), nil
	})
	if _, err := p.Duration(context.Background(), "x.mp4"); err == nil {
		t.Fatal("expected missing duration error")
	}

	p.WithRunner(func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	})
	if _, err := p.Duration(context.Background(), "x.mp4"); err == nil || !strings.Contains(err.Error(), "exit status 1") {
		t.Fatalf("expected runner error, got %v", err)
	}
	if _, err := p.Inspect(context.Background(), " "); err == nil {
		t.Fatal("expected empty path error")
	}
}
