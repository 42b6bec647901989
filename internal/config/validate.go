package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if len(c.Pipeline.TargetLanguage) < 2 {
		return fmt.Errorf("pipeline.target_language %q must be an ISO 639-1 code", c.Pipeline.TargetLanguage)
	}
	if c.Pipeline.SourceLanguage == c.Pipeline.TargetLanguage {
		return errors.New("pipeline.source_language must differ from pipeline.target_language")
	}
	if c.Pipeline.Merge && !c.Pipeline.Synthesize {
		return errors.New("pipeline.merge requires pipeline.synthesize")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Backend {
	case BackendWhisperX:
		switch c.Transcription.VADMethod {
		case "silero", "pyannote":
		default:
			return fmt.Errorf("transcription.vad_method: unsupported value %q (want silero or pyannote)", c.Transcription.VADMethod)
		}
		return nil
	case BackendOpenAI:
		return nil
	default:
		return fmt.Errorf("transcription.backend: unsupported value %q (want %s or %s)", c.Transcription.Backend, BackendWhisperX, BackendOpenAI)
	}
}

func (c *Config) validateTranslation() error {
	switch c.Translation.Backend {
	case BackendGoogle, BackendOpenAI:
		return nil
	default:
		return fmt.Errorf("translation.backend: unsupported value %q (want %s or %s)", c.Translation.Backend, BackendGoogle, BackendOpenAI)
	}
}

func (c *Config) validateTTS() error {
	if c.TTS.MaxChars <= 0 {
		return errors.New("tts.max_chars must be positive")
	}
	if c.TTS.Workers <= 0 {
		return errors.New("tts.workers must be positive")
	}
	if c.TTS.Speed <= 0 || math.IsNaN(c.TTS.Speed) || c.TTS.Speed > 4 {
		return errors.New("tts.speed must be between 0 and 4")
	}
	if c.TTS.Backend != BackendOpenAI {
		return fmt.Errorf("tts.backend: unsupported value %q (want %s)", c.TTS.Backend, BackendOpenAI)
	}
	if c.TTS.MaxChars > openAISpeechInputLimit {
		return fmt.Errorf("tts.max_chars must not exceed %d for the openai backend", openAISpeechInputLimit)
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	switch c.Subtitles.Timing {
	case TimingSegments, TimingProportional:
		return nil
	default:
		return fmt.Errorf("subtitles.timing: unsupported value %q (want %s or %s)", c.Subtitles.Timing, TimingSegments, TimingProportional)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// CheckCredentials reports the first missing API key required by the enabled
// stages. It runs after command-line overrides so a transcribe-only run does
// not need synthesis credentials.
func (c *Config) CheckCredentials() error {
	if c.Transcription.Backend == BackendOpenAI && c.Transcription.APIKey == "" {
		return requiredKeyError("transcription.api_key", "OPENAI_API_KEY")
	}
	if c.Translation.Backend == BackendOpenAI && c.Translation.APIKey == "" {
		return requiredKeyError("translation.api_key", "OPENAI_API_KEY")
	}
	// Google Cloud Translation falls back to application default credentials.
	if c.Pipeline.Synthesize && c.TTS.APIKey == "" {
		return requiredKeyError("tts.api_key", "OPENAI_API_KEY")
	}
	return nil
}

func requiredKeyError(field, env string) error {
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("%s is required. Set %s env var or edit %s (create with 'teludub config init')", field, env, defaultPath)
}
