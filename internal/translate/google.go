package translate

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	gtranslate "cloud.google.com/go/translate"
	"google.golang.org/api/option"

	langpkg "teludub/internal/language"
)

// googleBatchSize stays under the v2 API limit of 128 strings per request.
const googleBatchSize = 100

// Google translates through Cloud Translation v2.
type Google struct {
	client *gtranslate.Client
}

// NewGoogle constructs a Google translator. A non-empty apiKey is sent with
// every request; otherwise Application Default Credentials are used.
func NewGoogle(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Google, error) {
	if key := strings.TrimSpace(apiKey); key != "" {
		opts = append([]option.ClientOption{option.WithAPIKey(key)}, opts...)
	}
	client, err := gtranslate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google translate client: %w", err)
	}
	return &Google{client: client}, nil
}

// Close releases the underlying client.
func (g *Google) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Translate translates a single text.
func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	out, err := g.TranslateBatch(ctx, []string{text}, source, target)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// TranslateBatch translates texts in requests of up to googleBatchSize strings.
func (g *Google) TranslateBatch(ctx context.Context, texts []string, source, target string) ([]string, error) {
	targetTag, err := langpkg.Tag(target)
	if err != nil {
		return nil, fmt.Errorf("google translate: target: %w", err)
	}
	opts := &gtranslate.Options{Format: gtranslate.Text}
	if !isAuto(source) {
		sourceTag, err := langpkg.Tag(source)
		if err != nil {
			return nil, fmt.Errorf("google translate: source: %w", err)
		}
		opts.Source = sourceTag
	}

	out := make([]string, 0, len(texts))
	for start := 0; start < len(texts); start += googleBatchSize {
		end := min(start+googleBatchSize, len(texts))
		resp, err := g.client.Translate(ctx, texts[start:end], targetTag, opts)
		if err != nil {
			return nil, fmt.Errorf("google translate: %w", err)
		}
		if len(resp) != end-start {
			return nil, errors.New("google translate: result count does not match request")
		}
		for _, tr := range resp {
			// Plain-text format should come back unescaped; some proxies still escape.
			out = append(out, html.UnescapeString(tr.Text))
		}
	}
	return out, nil
}
