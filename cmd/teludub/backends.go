package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/api/option"

	"teludub/internal/config"
	"teludub/internal/logging"
	"teludub/internal/media/ffmpeg"
	"teludub/internal/media/ffprobe"
	"teludub/internal/pipeline"
	"teludub/internal/services/openai"
	"teludub/internal/services/whisperx"
	"teludub/internal/translate"
)

// backends holds the collaborators built for a run and the resources that
// must be released afterwards.
type backends struct {
	deps    pipeline.Deps
	closers []func() error
}

func (b *backends) Close(logger *slog.Logger) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			logging.WarnWithContext(logger, "failed to release backend", "backend_close_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "the translation cache may need `teludub cache clear`"),
				logging.String(logging.FieldImpact, "none for the completed run"),
			)
		}
	}
}

func buildBackends(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backends, error) {
	b := &backends{}
	b.deps.Transcriber = newTranscriber(cfg)
	b.deps.Media = pipeline.MediaTools{
		FFmpeg:  ffmpeg.New(cfg.FFmpegBinary(), logger),
		FFprobe: ffprobe.New(cfg.FFprobeBinary()),
	}

	tr, err := newTranslator(ctx, cfg, b, logger)
	if err != nil {
		b.Close(logger)
		return nil, err
	}
	b.deps.Translator = tr

	if cfg.Pipeline.Synthesize {
		b.deps.Synthesizer = openai.NewSynthesizer(openai.SynthesizerConfig{
			ClientConfig: openai.ClientConfig{APIKey: cfg.TTS.APIKey, BaseURL: cfg.TTS.BaseURL},
			Model:        cfg.TTS.Model,
			Voice:        cfg.TTS.Voice,
			Speed:        cfg.TTS.Speed,
		})
	}
	return b, nil
}

func newTranscriber(cfg *config.Config) pipeline.Transcriber {
	language := transcriptionLanguage(cfg)
	if cfg.Transcription.Backend == config.BackendOpenAI {
		return openai.NewTranscriber(openai.TranscriberConfig{
			ClientConfig: openai.ClientConfig{APIKey: cfg.Transcription.APIKey, BaseURL: cfg.Transcription.BaseURL},
			Model:        cfg.TranscriptionModel(),
			Language:     language,
		})
	}
	return whisperx.NewService(whisperx.Config{
		Model:       cfg.TranscriptionModel(),
		CUDAEnabled: cfg.Transcription.CUDAEnabled,
		ComputeType: cfg.Transcription.ComputeType,
		VADMethod:   cfg.Transcription.VADMethod,
		HFToken:     cfg.Transcription.HFToken,
		Language:    language,
	}, cfg.UVXBinary())
}

// transcriptionLanguage forces the transcriber's language when either the
// transcription section or an explicit source language names one.
func transcriptionLanguage(cfg *config.Config) string {
	if lang := strings.TrimSpace(cfg.Transcription.Language); lang != "" {
		return lang
	}
	if src := strings.TrimSpace(cfg.Pipeline.SourceLanguage); src != "" && src != translate.AutoSource {
		return src
	}
	return ""
}

func newTranslator(ctx context.Context, cfg *config.Config, b *backends, logger *slog.Logger) (translate.Translator, error) {
	var (
		inner   translate.Translator
		backend = cfg.Translation.Backend
	)
	httpClient := &http.Client{Timeout: cfg.TranslationTimeout()}
	switch backend {
	case config.BackendOpenAI:
		inner = translate.NewChat(translate.ChatConfig{
			APIKey:     cfg.Translation.APIKey,
			BaseURL:    cfg.Translation.BaseURL,
			Model:      cfg.Translation.Model,
			HTTPClient: httpClient,
		})
	default:
		var opts []option.ClientOption
		if base := strings.TrimSpace(cfg.Translation.BaseURL); base != "" {
			opts = append(opts, option.WithEndpoint(base))
		}
		google, err := translate.NewGoogle(ctx, cfg.Translation.APIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("create google translator: %w", err)
		}
		b.closers = append(b.closers, google.Close)
		inner = google
	}

	if !cfg.Translation.CacheEnabled {
		return inner, nil
	}
	cache, err := translate.OpenCache(cfg.TranslationCachePath())
	if err != nil {
		logging.WarnWithContext(logger, "translation cache unavailable", "translation_cache_unavailable",
			logging.Error(err),
			logging.String("path", cfg.TranslationCachePath()),
			logging.String(logging.FieldErrorHint, "run `teludub cache clear` to rebuild the cache"),
			logging.String(logging.FieldImpact, "every segment is sent to the translation backend"),
		)
		return inner, nil
	}
	b.closers = append(b.closers, cache.Close)
	return translate.NewCached(inner, cache, backend, logger), nil
}
