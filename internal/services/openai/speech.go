package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
)

// MaxSpeechInput is the largest input, in characters, the speech endpoint accepts.
const MaxSpeechInput = 4096

// SynthesizerConfig configures the speech endpoint.
type SynthesizerConfig struct {
	ClientConfig
	Model string
	Voice string
	// Speed is the playback rate, 0.25 to 4.0. Zero uses 1.0.
	Speed float64
}

// Synthesizer renders text chunks to WAV through the OpenAI speech endpoint.
type Synthesizer struct {
	client *goopenai.Client
	model  goopenai.SpeechModel
	voice  goopenai.SpeechVoice
	speed  float64
}

// NewSynthesizer constructs a Synthesizer.
func NewSynthesizer(cfg SynthesizerConfig) *Synthesizer {
	model := goopenai.SpeechModel(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = goopenai.TTSModel1
	}
	voice := goopenai.SpeechVoice(strings.TrimSpace(cfg.Voice))
	if voice == "" {
		voice = goopenai.VoiceNova
	}
	speed := cfg.Speed
	if speed == 0 {
		speed = 1.0
	}
	return &Synthesizer{client: newClient(cfg.ClientConfig), model: model, voice: voice, speed: speed}
}

// Synthesize returns WAV bytes for text. The endpoint infers pronunciation
// from the text itself, so language only labels errors.
func (s *Synthesizer) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("openai speech: empty input")
	}
	if n := len([]rune(text)); n > MaxSpeechInput {
		return nil, fmt.Errorf("openai speech: input of %d characters exceeds %d", n, MaxSpeechInput)
	}
	resp, err := s.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: goopenai.SpeechResponseFormatWav,
		Speed:          s.speed,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech (%s): %w", language, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("openai speech (%s): read body: %w", language, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("openai speech (%s): empty response", language)
	}
	return data, nil
}
