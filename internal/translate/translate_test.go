package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

// fakeTranslator prefixes the target language and counts calls.
type fakeTranslator struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeTranslator) Translate(_ context.Context, text, source, target string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, source+">"+target+":"+text)
	if f.err != nil {
		return "", f.err
	}
	return target + "(" + text + ")", nil
}

type fakeBatcher struct {
	fakeTranslator
	batches [][]string
}

func (f *fakeBatcher) TranslateBatch(_ context.Context, texts []string, _, target string) ([]string, error) {
	f.batches = append(f.batches, append([]string(nil), texts...))
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = " " + target + "[" + text + "] "
	}
	return out, nil
}

func TestTranslateAllSequential(t *testing.T) {
	tr := &fakeTranslator{}
	out, err := TranslateAll(context.Background(), tr, []string{"Hello world.", "  ", "How are you?"}, AutoSource, "te")
	if err != nil {
		t.Fatalf("TranslateAll: %v", err)
	}
	want := []string{"te(Hello world.)", "", "te(How are you?)"}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %q, want %q", i, out[i], want[i])
		}
	}
	if len(tr.calls) != 2 || tr.calls[0] != "auto>te:Hello world." {
		t.Fatalf("unexpected calls: %v", tr.calls)
	}
}

func TestTranslateAllUsesBatch(t *testing.T) {
	tr := &fakeBatcher{}
	out, err := TranslateAll(context.Background(), tr, []string{"a", "", "b"}, "en", "te")
	if err != nil {
		t.Fatalf("TranslateAll: %v", err)
	}
	if len(tr.batches) != 1 || strings.Join(tr.batches[0], ",") != "a,b" {
		t.Fatalf("unexpected batches: %v", tr.batches)
	}
	if out[0] != "te[a]" || out[1] != "" || out[2] != "te[b]" {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(tr.calls) != 0 {
		t.Fatalf("single translate should not be used: %v", tr.calls)
	}
}

func TestTranslateAllPropagatesErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	_, err := TranslateAll(context.Background(), &fakeTranslator{err: boom}, []string{"x"}, "en", "te")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := &fakeTranslator{}
	if _, err := TranslateAll(ctx, tr, []string{"x"}, "en", "te"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(tr.calls) != 0 {
		t.Fatalf("cancelled run should not call the backend")
	}
}

func TestSystemPromptNamesLanguages(t *testing.T) {
	if got := systemPrompt("auto", "te"); !strings.Contains(got, "from the source language to Telugu") {
		t.Fatalf("unexpected prompt: %s", got)
	}
	if got := systemPrompt("en", "te"); !strings.Contains(got, "from English to Telugu") {
		t.Fatalf("unexpected prompt: %s", got)
	}
}
