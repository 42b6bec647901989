package whisperx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	langpkg "teludub/internal/language"
	"teludub/internal/transcript"
)

// CommandRunner executes an external command and returns its error.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Service transcribes WAV files by launching WhisperX through uvx.
type Service struct {
	cfg    Config
	uvx    string
	runner CommandRunner
}

// NewService returns a WhisperX service. An empty uvxBinary uses UVXCommand.
func NewService(cfg Config, uvxBinary string) *Service {
	if uvxBinary == "" {
		uvxBinary = UVXCommand
	}
	return &Service{cfg: cfg, uvx: uvxBinary, runner: runWithTorchEnv}
}

// WithCommandRunner replaces the process runner. Tests use it to fake uvx.
func (s *Service) WithCommandRunner(runner CommandRunner) {
	s.runner = runner
}

// Model returns the configured model name, or DefaultModel.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// runWithTorchEnv runs the command with combined output folded into the error.
// Torch 2.6 defaults torch.load to weights_only, which pyannote checkpoints
// cannot satisfy; the override is set unless the caller already chose one.
func runWithTorchEnv(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if _, set := os.LookupEnv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD"); !set {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Transcribe runs WhisperX on audioPath and returns the timed segments.
// The JSON result lands in a "whisperx" directory beside the audio.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (transcript.Transcript, error) {
	if strings.TrimSpace(audioPath) == "" {
		return transcript.Transcript{}, errors.New("whisperx: audio path required")
	}
	outDir := filepath.Join(filepath.Dir(audioPath), "whisperx")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return transcript.Transcript{}, fmt.Errorf("whisperx: ensure output dir: %w", err)
	}
	if err := s.runner(ctx, s.uvx, s.buildArgs(audioPath, outDir)...); err != nil {
		return transcript.Transcript{}, fmt.Errorf("whisperx: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	payload, err := LoadPayload(filepath.Join(outDir, stem+".json"))
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("whisperx: %w", err)
	}
	detected := payload.Language
	if detected == "" {
		detected = s.cfg.Language
	}
	return payload.Transcript(detected), nil
}

// buildArgs assembles the uvx invocation: package index, the whisperx
// entry point with fixed decoding settings, then VAD, language and device.
func (s *Service) buildArgs(source, outputDir string) []string {
	args := s.indexArgs()
	args = append(args,
		"whisperx", source,
		"--model", s.Model(),
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
		"--chunk_size", ChunkSize,
		"--vad_onset", VADOnset,
		"--vad_offset", VADOffset,
		"--beam_size", BeamSize,
		"--temperature", Temperature,
	)
	args = append(args, s.vadArgs()...)
	args = append(args, s.languageArgs()...)
	return append(args, s.deviceArgs()...)
}

func (s *Service) indexArgs() []string {
	if s.cfg.CUDAEnabled {
		return []string{"--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL}
	}
	return []string{"--index-url", PypiIndexURL}
}

func (s *Service) vadArgs() []string {
	method := s.cfg.VADMethod
	if method == "" {
		method = VADMethodSilero
	}
	args := []string{"--vad_method", method}
	if method == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}
	return args
}

func (s *Service) languageArgs() []string {
	if s.cfg.Language == "auto" {
		return nil
	}
	if code := langpkg.ToISO2(s.cfg.Language); code != "" {
		return []string{"--language", code}
	}
	return nil
}

func (s *Service) deviceArgs() []string {
	if s.cfg.CUDAEnabled {
		return []string{"--device", CUDADevice}
	}
	compute := s.cfg.ComputeType
	if compute == "" {
		compute = DefaultComputeType
	}
	return []string{"--device", CPUDevice, "--compute_type", compute}
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Payload is the JSON document WhisperX writes per input file.
type Payload struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
}

// LoadPayload loads a WhisperX JSON file.
func LoadPayload(jsonPath string) (Payload, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return Payload{}, err
	}
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Payload{}, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload, nil
}

// Transcript converts the payload into normalized transcript segments.
// Segments WhisperX emits without usable timing are dropped.
func (p Payload) Transcript(language string) transcript.Transcript {
	tr := transcript.Transcript{
		Language: langpkg.ToISO2(language),
		Segments: make([]transcript.Segment, 0, len(p.Segments)),
	}
	for _, seg := range p.Segments {
		tr.Segments = append(tr.Segments, transcript.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	tr.Normalize()
	return tr
}
