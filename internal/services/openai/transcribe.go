package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	langpkg "teludub/internal/language"
	"teludub/internal/transcript"
)

// MaxUploadBytes is the largest audio file the transcription endpoint accepts.
const MaxUploadBytes = 25 << 20

// ErrFileTooLarge is returned before uploading audio the endpoint would reject.
var ErrFileTooLarge = errors.New("audio exceeds transcription upload limit")

// TranscriberConfig configures the Whisper API transcriber.
type TranscriberConfig struct {
	ClientConfig
	Model string
	// Language forces the spoken language. Empty or "auto" lets the API detect it.
	Language string
}

// Transcriber transcribes audio files through the OpenAI transcription endpoint.
type Transcriber struct {
	client   *goopenai.Client
	model    string
	language string
}

// NewTranscriber constructs a Transcriber.
func NewTranscriber(cfg TranscriberConfig) *Transcriber {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = goopenai.Whisper1
	}
	language := ""
	if cfg.Language != "auto" {
		language = langpkg.ToISO2(cfg.Language)
	}
	return &Transcriber{client: newClient(cfg.ClientConfig), model: model, language: language}
}

// Transcribe uploads audioPath and returns its segments with the detected language.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (transcript.Transcript, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("openai transcribe: %w", err)
	}
	if info.Size() > MaxUploadBytes {
		return transcript.Transcript{}, fmt.Errorf("openai transcribe: %w: %d bytes", ErrFileTooLarge, info.Size())
	}

	resp, err := t.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Format:   goopenai.AudioResponseFormatVerboseJSON,
		Language: t.language,
	})
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("openai transcribe: %w", err)
	}
	return toTranscript(resp, t.language), nil
}

func toTranscript(resp goopenai.AudioResponse, fallbackLanguage string) transcript.Transcript {
	language := langpkg.ToISO2(resp.Language)
	if language == "" {
		language = fallbackLanguage
	}
	tr := transcript.Transcript{
		Language: language,
		Duration: resp.Duration,
		Segments: make([]transcript.Segment, 0, len(resp.Segments)),
	}
	for _, seg := range resp.Segments {
		tr.Segments = append(tr.Segments, transcript.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	// Without segments the endpoint still returns the whole text; keep it as
	// one segment spanning the reported duration.
	if len(tr.Segments) == 0 && strings.TrimSpace(resp.Text) != "" && resp.Duration > 0 {
		tr.Segments = append(tr.Segments, transcript.Segment{Start: 0, End: resp.Duration, Text: resp.Text})
	}
	tr.Normalize()
	return tr
}
