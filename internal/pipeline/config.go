package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"teludub/internal/config"
)

// Config is the explicit per-run configuration.
type Config struct {
	Video     string
	OutputDir string // empty writes next to Video
	WorkDir   string
	LogDir    string // empty disables the per-run log file

	SourceLanguage string // "auto" trusts the transcriber's detection
	TargetLanguage string

	Subtitles     bool
	Synthesize    bool
	Merge         bool
	KeepWorkFiles bool

	SubtitleTiming string // config.TimingSegments or config.TimingProportional
	MaxChars       int
	Workers        int

	VideoCodec string
	AudioCodec string
	Container  string
}

// FromConfig derives a run configuration for video from the loaded settings.
func FromConfig(cfg *config.Config, video string) Config {
	return Config{
		Video:          video,
		OutputDir:      cfg.Paths.OutputDir,
		WorkDir:        cfg.Paths.WorkDir,
		LogDir:         cfg.Paths.LogDir,
		SourceLanguage: cfg.Pipeline.SourceLanguage,
		TargetLanguage: cfg.Pipeline.TargetLanguage,
		Subtitles:      cfg.Pipeline.Subtitles,
		Synthesize:     cfg.Pipeline.Synthesize,
		Merge:          cfg.Pipeline.Merge,
		KeepWorkFiles:  cfg.Pipeline.KeepWorkFiles,
		SubtitleTiming: cfg.Subtitles.Timing,
		MaxChars:       cfg.TTS.MaxChars,
		Workers:        cfg.TTS.Workers,
		VideoCodec:     cfg.Mux.VideoCodec,
		AudioCodec:     cfg.Mux.AudioCodec,
		Container:      cfg.Mux.Container,
	}
}

// Validate checks the fields a run depends on.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Video) == "" {
		errs = append(errs, errors.New("video path is required"))
	}
	if strings.TrimSpace(c.WorkDir) == "" {
		errs = append(errs, errors.New("work directory is required"))
	}
	if strings.TrimSpace(c.TargetLanguage) == "" {
		errs = append(errs, errors.New("target language is required"))
	}
	if c.Merge && !c.Synthesize {
		errs = append(errs, errors.New("merge requires synthesize"))
	}
	if c.Synthesize && c.MaxChars <= 0 {
		errs = append(errs, fmt.Errorf("max chars must be positive, got %d", c.MaxChars))
	}
	switch c.SubtitleTiming {
	case "", config.TimingSegments, config.TimingProportional:
	default:
		errs = append(errs, fmt.Errorf("unknown subtitle timing %q", c.SubtitleTiming))
	}
	return errors.Join(errs...)
}

func (c Config) outputDir() string {
	if strings.TrimSpace(c.OutputDir) != "" {
		return c.OutputDir
	}
	return filepath.Dir(c.Video)
}

func (c Config) container() string {
	container := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Container)), ".")
	if container == "" {
		return "mp4"
	}
	return container
}
