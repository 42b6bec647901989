package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePipeline()
	c.normalizeTranscription()
	c.normalizeTranslation()
	c.normalizeTTS()
	c.normalizeSubtitles()
	c.normalizeMux()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePipeline() {
	c.Pipeline.SourceLanguage = strings.ToLower(strings.TrimSpace(c.Pipeline.SourceLanguage))
	if c.Pipeline.SourceLanguage == "" {
		c.Pipeline.SourceLanguage = defaultSourceLanguage
	}
	c.Pipeline.TargetLanguage = strings.ToLower(strings.TrimSpace(c.Pipeline.TargetLanguage))
	if c.Pipeline.TargetLanguage == "" {
		c.Pipeline.TargetLanguage = defaultTargetLanguage
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Backend = strings.ToLower(strings.TrimSpace(c.Transcription.Backend))
	if c.Transcription.Backend == "" {
		c.Transcription.Backend = defaultTranscriber
	}
	c.Transcription.Model = c.TranscriptionModel()
	c.Transcription.ComputeType = strings.ToLower(strings.TrimSpace(c.Transcription.ComputeType))
	if c.Transcription.ComputeType == "" {
		c.Transcription.ComputeType = defaultComputeType
	}
	c.Transcription.VADMethod = strings.ToLower(strings.TrimSpace(c.Transcription.VADMethod))
	if c.Transcription.VADMethod == "" {
		c.Transcription.VADMethod = defaultVADMethod
	}
	c.Transcription.HFToken = strings.TrimSpace(c.Transcription.HFToken)
	if c.Transcription.HFToken == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			c.Transcription.HFToken = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.Transcription.HFToken = strings.TrimSpace(value)
		}
	}
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	c.Transcription.BaseURL = strings.TrimSpace(c.Transcription.BaseURL)
	c.Transcription.APIKey = strings.TrimSpace(c.Transcription.APIKey)
	if c.Transcription.APIKey == "" && c.Transcription.Backend == BackendOpenAI {
		c.Transcription.APIKey = openAIKeyFromEnv()
	}
}

func (c *Config) normalizeTranslation() {
	c.Translation.Backend = strings.ToLower(strings.TrimSpace(c.Translation.Backend))
	if c.Translation.Backend == "" {
		c.Translation.Backend = defaultTranslator
	}
	c.Translation.BaseURL = strings.TrimSpace(c.Translation.BaseURL)
	c.Translation.Model = strings.TrimSpace(c.Translation.Model)
	if c.Translation.Model == "" {
		c.Translation.Model = defaultTranslationModel
	}
	c.Translation.APIKey = strings.TrimSpace(c.Translation.APIKey)
	if c.Translation.APIKey == "" {
		switch c.Translation.Backend {
		case BackendGoogle:
			if value, ok := os.LookupEnv("GOOGLE_TRANSLATE_API_KEY"); ok {
				c.Translation.APIKey = strings.TrimSpace(value)
			}
		case BackendOpenAI:
			c.Translation.APIKey = openAIKeyFromEnv()
		}
	}
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = defaultTranslationTimeout
	}
}

func (c *Config) normalizeTTS() {
	c.TTS.Backend = strings.ToLower(strings.TrimSpace(c.TTS.Backend))
	if c.TTS.Backend == "" {
		c.TTS.Backend = defaultTTSBackend
	}
	c.TTS.BaseURL = strings.TrimSpace(c.TTS.BaseURL)
	c.TTS.Model = strings.TrimSpace(c.TTS.Model)
	if c.TTS.Model == "" {
		c.TTS.Model = defaultTTSModel
	}
	c.TTS.Voice = strings.ToLower(strings.TrimSpace(c.TTS.Voice))
	if c.TTS.Voice == "" {
		c.TTS.Voice = defaultTTSVoice
	}
	if c.TTS.Speed == 0 {
		c.TTS.Speed = 1.0
	}
	if c.TTS.MaxChars == 0 {
		c.TTS.MaxChars = defaultTTSMaxChars
	}
	if c.TTS.Workers == 0 {
		c.TTS.Workers = defaultTTSWorkers
	}
	c.TTS.APIKey = strings.TrimSpace(c.TTS.APIKey)
	if c.TTS.APIKey == "" && c.TTS.Backend == BackendOpenAI {
		c.TTS.APIKey = openAIKeyFromEnv()
	}
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.Timing = strings.ToLower(strings.TrimSpace(c.Subtitles.Timing))
	if c.Subtitles.Timing == "" {
		c.Subtitles.Timing = defaultSubtitleTiming
	}
}

func (c *Config) normalizeMux() {
	c.Mux.VideoCodec = strings.TrimSpace(c.Mux.VideoCodec)
	if c.Mux.VideoCodec == "" {
		c.Mux.VideoCodec = defaultVideoCodec
	}
	c.Mux.AudioCodec = strings.TrimSpace(c.Mux.AudioCodec)
	if c.Mux.AudioCodec == "" {
		c.Mux.AudioCodec = defaultAudioCodec
	}
	c.Mux.Container = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Mux.Container), "."))
	if c.Mux.Container == "" {
		c.Mux.Container = defaultContainer
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func openAIKeyFromEnv() string {
	if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
		return strings.TrimSpace(value)
	}
	return ""
}
