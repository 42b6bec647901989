package translate

import (
	"context"
	"fmt"
	"strings"
)

// AutoSource asks the backend to detect the source language.
const AutoSource = "auto"

// Translator translates one piece of text. source may be AutoSource.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// BatchTranslator is implemented by backends that translate several texts per
// request. The result has the same length and order as texts.
type BatchTranslator interface {
	TranslateBatch(ctx context.Context, texts []string, source, target string) ([]string, error)
}

// TranslateAll translates texts in order. Blank texts map to "" without a
// backend call. Batch-capable backends receive the non-blank texts in one call.
func TranslateAll(ctx context.Context, tr Translator, texts []string, source, target string) ([]string, error) {
	out := make([]string, len(texts))
	pending := make([]string, 0, len(texts))
	positions := make([]int, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		pending = append(pending, text)
		positions = append(positions, i)
	}
	if len(pending) == 0 {
		return out, nil
	}

	if batcher, ok := tr.(BatchTranslator); ok {
		translated, err := batcher.TranslateBatch(ctx, pending, source, target)
		if err != nil {
			return nil, err
		}
		if len(translated) != len(pending) {
			return nil, fmt.Errorf("translate batch: got %d results for %d texts", len(translated), len(pending))
		}
		for i, pos := range positions {
			out[pos] = strings.TrimSpace(translated[i])
		}
		return out, nil
	}

	for i, text := range pending {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		translated, err := tr.Translate(ctx, text, source, target)
		if err != nil {
			return nil, fmt.Errorf("translate text %d/%d: %w", i+1, len(pending), err)
		}
		out[positions[i]] = strings.TrimSpace(translated)
	}
	return out, nil
}

func isAuto(source string) bool {
	source = strings.TrimSpace(source)
	return source == "" || strings.EqualFold(source, AutoSource)
}
