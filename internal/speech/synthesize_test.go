package speech

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSynth struct {
	mu       sync.Mutex
	inFlight int32
	peak     int32
	delay    func(text string) time.Duration
	failOn   string
	calls    []string
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	current := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&f.peak)
		if current <= peak || atomic.CompareAndSwapInt32(&f.peak, peak, current) {
			break
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	if f.delay != nil {
		select {
		case <-time.After(f.delay(text)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if text == f.failOn {
		return nil, errors.New("quota exceeded")
	}
	return []byte(language + ":" + text), nil
}

func TestSynthesizeAllPreservesOrderUnderParallelism(t *testing.T) {
	chunks := Split("abcdefghij", 1)
	synth := &fakeSynth{delay: func(text string) time.Duration {
		// Earlier chunks finish last.
		return time.Duration('k'-text[0]) * 2 * time.Millisecond
	}}

	out, err := SynthesizeAll(context.Background(), synth, chunks, "te", 4, nil)
	if err != nil {
		t.Fatalf("SynthesizeAll: %v", err)
	}
	for i, c := range chunks {
		if want := "te:" + c.Text; string(out[i]) != want {
			t.Fatalf("out[%d] = %q, want %q", i, out[i], want)
		}
	}
	if peak := atomic.LoadInt32(&synth.peak); peak > 4 || peak < 2 {
		t.Fatalf("peak concurrency %d outside [2, 4]", peak)
	}
}

func TestSynthesizeAllSequentialWithOneWorker(t *testing.T) {
	chunks := Split("abcd", 1)
	synth := &fakeSynth{}
	if _, err := SynthesizeAll(context.Background(), synth, chunks, "te", 1, nil); err != nil {
		t.Fatalf("SynthesizeAll: %v", err)
	}
	if peak := atomic.LoadInt32(&synth.peak); peak != 1 {
		t.Fatalf("peak concurrency %d, want 1", peak)
	}
	if fmt.Sprint(synth.calls) != "[a b c d]" {
		t.Fatalf("calls out of order: %v", synth.calls)
	}
}

func TestSynthesizeAllStopsOnFirstFailure(t *testing.T) {
	chunks := Split("abcdefgh", 1)
	synth := &fakeSynth{failOn: "b"}
	_, err := SynthesizeAll(context.Background(), synth, chunks, "te", 1, nil)
	if err == nil {
		t.Fatal("expected failure")
	}
	if want := "chunk 2/8: quota exceeded"; err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
	if len(synth.calls) > 3 {
		t.Fatalf("expected synthesis to stop early, got %d calls", len(synth.calls))
	}
}

func TestSynthesizeAllHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SynthesizeAll(ctx, &fakeSynth{}, Split("abc", 1), "te", 2, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
