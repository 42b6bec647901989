package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	langpkg "teludub/internal/language"
)

// ChatConfig configures the chat-completion translator.
type ChatConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Chat translates with an OpenAI-compatible chat completion model.
type Chat struct {
	client *goopenai.Client
	model  string
}

// NewChat constructs a chat translator.
func NewChat(cfg ChatConfig) *Chat {
	apiConfig := goopenai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		apiConfig.BaseURL = base
	}
	if cfg.HTTPClient != nil {
		apiConfig.HTTPClient = cfg.HTTPClient
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = goopenai.GPT4oMini
	}
	return &Chat{client: goopenai.NewClientWithConfig(apiConfig), model: model}
}

// Translate sends text as the user message under a translation system prompt.
func (c *Chat) Translate(ctx context.Context, text, source, target string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt(source, target)},
			{Role: goopenai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat translate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat translate: no choices returned")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("chat translate: empty translation")
	}
	return content, nil
}

func systemPrompt(source, target string) string {
	from := "the source language"
	if !isAuto(source) {
		from = langpkg.DisplayName(source)
	}
	return fmt.Sprintf(
		"You are a professional subtitle translator. Translate the user's text from %s to %s. "+
			"Preserve meaning and tone, keep sentence boundaries, and reply with the translation only.",
		from, langpkg.DisplayName(target),
	)
}
