package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// OutputDir receives transcripts, subtitles, and the dubbed video. Empty
	// means the directory containing the source video.
	OutputDir string `toml:"output_dir"`
	WorkDir   string `toml:"work_dir"`
	CacheDir  string `toml:"cache_dir"`
	LogDir    string `toml:"log_dir"`
}

// Pipeline contains the stage switches and language pair.
type Pipeline struct {
	SourceLanguage string `toml:"source_language"`
	TargetLanguage string `toml:"target_language"`
	Subtitles      bool   `toml:"subtitles"`
	Synthesize     bool   `toml:"synthesize"`
	Merge          bool   `toml:"merge"`
	KeepWorkFiles  bool   `toml:"keep_work_files"`
}

// Transcription contains speech-to-text backend settings.
type Transcription struct {
	Backend     string `toml:"backend"`
	Model       string `toml:"model"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
	ComputeType string `toml:"compute_type"`
	VADMethod   string `toml:"vad_method"`
	HFToken     string `toml:"hf_token"`
	// Language forces the spoken language. Empty lets the backend detect it.
	Language string `toml:"language"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

// Translation contains machine translation backend settings.
type Translation struct {
	Backend        string `toml:"backend"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	CacheEnabled   bool   `toml:"cache_enabled"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// TTS contains speech synthesis backend settings.
type TTS struct {
	Backend string  `toml:"backend"`
	APIKey  string  `toml:"api_key"`
	BaseURL string  `toml:"base_url"`
	Model   string  `toml:"model"`
	Voice   string  `toml:"voice"`
	Speed   float64 `toml:"speed"`
	// MaxChars is the per-request character budget used to chunk the
	// translated text before synthesis.
	MaxChars int `toml:"max_chars"`
	// Workers bounds concurrent synthesis requests. 1 keeps synthesis sequential.
	Workers int `toml:"workers"`
}

// Subtitles contains subtitle timing configuration.
type Subtitles struct {
	// Timing selects how target-language cues are timed: "segments" reuses the
	// transcription timestamps, "proportional" spreads sentences evenly over
	// the audio duration.
	Timing string `toml:"timing"`
}

// Mux contains final video remux settings.
type Mux struct {
	VideoCodec string `toml:"video_codec"`
	AudioCodec string `toml:"audio_codec"`
	Container  string `toml:"container"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for teludub.
//
// Configuration sections by subsystem:
//   - Paths: output, work, cache, and log directories
//   - Pipeline: language pair and stage switches
//   - Transcription: WhisperX or OpenAI speech-to-text
//   - Translation: Google Cloud Translation or an OpenAI-compatible chat model
//   - TTS: speech synthesis backend and chunking budget
//   - Subtitles: cue timing strategy
//   - Mux: codecs for the final remux
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Pipeline      Pipeline      `toml:"pipeline"`
	Transcription Transcription `toml:"transcription"`
	Translation   Translation   `toml:"translation"`
	TTS           TTS           `toml:"tts"`
	Subtitles     Subtitles     `toml:"subtitles"`
	Mux           Mux           `toml:"mux"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("teludub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the work, cache, and log directories. The output
// directory is created per run because it may depend on the source video.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Paths.OutputDir != "" {
		if err := os.MkdirAll(c.Paths.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory %q: %w", c.Paths.OutputDir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for extraction and muxing.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for duration probing.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// UVXBinary returns the uvx executable name used to launch WhisperX.
func (c *Config) UVXBinary() string {
	return "uvx"
}

// TranscriptionModel returns the configured model, or the default for the
// selected backend when none is set. Default leaves the model empty because
// the backend decides it.
func (c *Config) TranscriptionModel() string {
	if model := strings.TrimSpace(c.Transcription.Model); model != "" {
		return model
	}
	if strings.EqualFold(strings.TrimSpace(c.Transcription.Backend), BackendOpenAI) {
		return defaultOpenAIWhisperModel
	}
	return defaultWhisperModel
}

// TranslationCachePath returns the SQLite database path for cached translations.
func (c *Config) TranslationCachePath() string {
	return filepath.Join(c.Paths.CacheDir, "translations.db")
}

// TranslationTimeout returns the per-request translation timeout.
func (c *Config) TranslationTimeout() time.Duration {
	if c.Translation.TimeoutSeconds <= 0 {
		return time.Duration(defaultTranslationTimeout) * time.Second
	}
	return time.Duration(c.Translation.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}
