package config

const (
	defaultConfigPath         = "~/.config/teludub/config.toml"
	defaultWorkDir            = "~/.local/share/teludub/work"
	defaultCacheDir           = "~/.cache/teludub"
	defaultLogDir             = "~/.local/share/teludub/logs"
	defaultSourceLanguage     = "auto"
	defaultTargetLanguage     = "te"
	defaultTranscriber        = BackendWhisperX
	defaultWhisperModel       = "base"
	defaultComputeType        = "int8"
	defaultVADMethod          = "silero"
	defaultOpenAIWhisperModel = "whisper-1"
	defaultTranslator         = BackendGoogle
	defaultTranslationModel   = "gpt-4o-mini"
	defaultTranslationTimeout = 60
	defaultTTSBackend         = BackendOpenAI
	defaultTTSModel           = "tts-1"
	defaultTTSVoice           = "nova"
	defaultTTSMaxChars        = 4000
	defaultTTSWorkers         = 1
	defaultSubtitleTiming     = TimingSegments
	defaultVideoCodec         = "copy"
	defaultAudioCodec         = "aac"
	defaultContainer          = "mp4"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"

	// openAISpeechInputLimit is the documented maximum input length of the
	// OpenAI speech endpoint.
	openAISpeechInputLimit = 4096
)

// Backend and timing identifiers accepted by the configuration.
const (
	BackendWhisperX = "whisperx"
	BackendOpenAI   = "openai"
	BackendGoogle   = "google"

	TimingSegments     = "segments"
	TimingProportional = "proportional"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		Pipeline: Pipeline{
			SourceLanguage: defaultSourceLanguage,
			TargetLanguage: defaultTargetLanguage,
			Subtitles:      true,
			Synthesize:     true,
			Merge:          true,
		},
		Transcription: Transcription{
			Backend:     defaultTranscriber,
			ComputeType: defaultComputeType,
			VADMethod:   defaultVADMethod,
		},
		Translation: Translation{
			Backend:        defaultTranslator,
			Model:          defaultTranslationModel,
			CacheEnabled:   true,
			TimeoutSeconds: defaultTranslationTimeout,
		},
		TTS: TTS{
			Backend:  defaultTTSBackend,
			Model:    defaultTTSModel,
			Voice:    defaultTTSVoice,
			Speed:    1.0,
			MaxChars: defaultTTSMaxChars,
			Workers:  defaultTTSWorkers,
		},
		Subtitles: Subtitles{
			Timing: defaultSubtitleTiming,
		},
		Mux: Mux{
			VideoCodec: defaultVideoCodec,
			AudioCodec: defaultAudioCodec,
			Container:  defaultContainer,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
