package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	langpkg "teludub/internal/language"
	"teludub/internal/logging"
)

// DefaultBinary is the ffmpeg executable used when none is configured.
const DefaultBinary = "ffmpeg"

// Speech extraction format expected by the transcription backends.
const (
	ExtractSampleRate = 16000
	ExtractChannels   = 1
	ExtractCodec      = "pcm_s16le"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

// Tool wraps an ffmpeg binary.
type Tool struct {
	binary string
	logger *slog.Logger
	run    commandRunner
}

// New constructs a Tool for binary ("ffmpeg" when empty).
func New(binary string, logger *slog.Logger) *Tool {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	return &Tool{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (t *Tool) WithCommandRunner(r commandRunner) {
	if t != nil && r != nil {
		t.run = r
	}
}

// ExtractAudio writes the first audio stream of source to dest as a mono
// 16 kHz PCM WAV.
func (t *Tool) ExtractAudio(ctx context.Context, source, dest string) error {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(dest) == "" {
		return errors.New("extract audio: source and destination are required")
	}
	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("extract audio: source not found: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("extract audio: ensure dir: %w", err)
	}
	tmpPath := tempPath(dest, "extract")
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", strconv.Itoa(ExtractChannels),
		"-ar", strconv.Itoa(ExtractSampleRate),
		"-c:a", ExtractCodec,
		"-f", "wav",
		tmpPath,
	}
	t.logger.Debug("extracting audio",
		logging.String("source", source),
		logging.String("dest", dest),
		logging.String("args", strings.Join(args, " ")),
	)
	if err := t.run(ctx, t.binary, args...); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("ffmpeg extract: %w", err)
	}
	return commit(tmpPath, dest)
}

// MuxRequest describes a dub remux. Zero trims leave the input untouched.
type MuxRequest struct {
	Video      string
	Audio      string
	Output     string
	VideoCodec string  // "copy" keeps the source video stream
	AudioCodec string  // e.g. "aac"
	TrimVideo  float64 // seconds of video to keep, 0 for all
	TrimAudio  float64 // seconds of audio to keep, 0 for all
	Language   string  // audio track language, any code the language package resolves
}

// MuxResult reports the outcome of a remux.
type MuxResult struct {
	OutputPath string
	Args       []string
}

// Mux replaces the audio of req.Video with req.Audio and writes req.Output.
func (t *Tool) Mux(ctx context.Context, req MuxRequest) (MuxResult, error) {
	if strings.TrimSpace(req.Video) == "" || strings.TrimSpace(req.Audio) == "" {
		return MuxResult{}, errors.New("mux: video and audio paths are required")
	}
	if strings.TrimSpace(req.Output) == "" {
		return MuxResult{}, errors.New("mux: output path is required")
	}
	if req.TrimVideo < 0 || req.TrimAudio < 0 {
		return MuxResult{}, fmt.Errorf("mux: negative trim (video %.3f, audio %.3f)", req.TrimVideo, req.TrimAudio)
	}
	for _, path := range []string{req.Video, req.Audio} {
		if _, err := os.Stat(path); err != nil {
			return MuxResult{}, fmt.Errorf("mux: input not found: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(req.Output), 0o755); err != nil {
		return MuxResult{}, fmt.Errorf("mux: ensure dir: %w", err)
	}

	tmpPath := tempPath(req.Output, "mux")
	args := buildMuxArgs(req, tmpPath)

	t.logger.Debug("executing ffmpeg mux",
		logging.String("video", req.Video),
		logging.String("audio", req.Audio),
		logging.Float64("trim_video", req.TrimVideo),
		logging.Float64("trim_audio", req.TrimAudio),
		logging.String("args", strings.Join(args, " ")),
	)

	if err := t.run(ctx, t.binary, args...); err != nil {
		_ = os.Remove(tmpPath)
		return MuxResult{}, fmt.Errorf("ffmpeg mux: %w", err)
	}
	if err := commit(tmpPath, req.Output); err != nil {
		return MuxResult{}, err
	}

	t.logger.Info("dubbed audio muxed",
		logging.String(logging.FieldEventType, "mux_complete"),
		logging.String("output", req.Output),
		logging.String("audio_codec", codecOrDefault(req.AudioCodec, "aac")),
	)
	return MuxResult{OutputPath: req.Output, Args: args}, nil
}

func buildMuxArgs(req MuxRequest, outputPath string) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	if req.TrimVideo > 0 {
		args = append(args, "-t", formatSeconds(req.TrimVideo))
	}
	args = append(args, "-i", req.Video)
	if req.TrimAudio > 0 {
		args = append(args, "-t", formatSeconds(req.TrimAudio))
	}
	args = append(args, "-i", req.Audio,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", codecOrDefault(req.VideoCodec, "copy"),
		"-c:a", codecOrDefault(req.AudioCodec, "aac"),
	)
	if lang := langpkg.ToISO3(req.Language); lang != "und" {
		args = append(args, "-metadata:s:a:0", "language="+lang)
	}
	format := containerFormat(req.Output)
	if format == "mp4" || format == "mov" {
		args = append(args, "-movflags", "+faststart")
	}
	if format != "" {
		args = append(args, "-f", format)
	}
	return append(args, outputPath)
}

// containerFormat maps the output extension to an ffmpeg muxer name. The
// temporary file has no meaningful extension, so the muxer is always explicit.
func containerFormat(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "mp4", "m4v":
		return "mp4"
	case "mkv":
		return "matroska"
	case "mov":
		return "mov"
	case "webm":
		return "webm"
	default:
		return ""
	}
}

func codecOrDefault(codec, fallback string) string {
	if codec = strings.TrimSpace(codec); codec != "" {
		return codec
	}
	return fallback
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

func tempPath(dest, op string) string {
	return filepath.Join(filepath.Dir(dest), "."+op+"-"+filepath.Base(dest)+".tmp")
}

func commit(tmpPath, dest string) error {
	if _, err := os.Stat(tmpPath); err != nil {
		return fmt.Errorf("ffmpeg did not produce output file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("move ffmpeg output into place: %w", err)
	}
	return nil
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
