package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"teludub/internal/logging"
	"teludub/internal/media/ffmpeg"
	"teludub/internal/media/reconcile"
	"teludub/internal/services"
	"teludub/internal/speech"
	"teludub/internal/transcript"
	"teludub/internal/translate"
)

// Transcriber converts an audio file into timed source-language segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (transcript.Transcript, error)
}

// MediaIO covers the ffmpeg and ffprobe operations a run needs.
type MediaIO interface {
	ExtractAudio(ctx context.Context, video, dest string) error
	Duration(ctx context.Context, path string) (float64, error)
	Mux(ctx context.Context, req ffmpeg.MuxRequest) (ffmpeg.MuxResult, error)
}

// Deps bundles the collaborators of a run. Synthesizer may be nil when
// synthesis is disabled.
type Deps struct {
	Transcriber Transcriber
	Translator  translate.Translator
	Synthesizer speech.Synthesizer
	Media       MediaIO
}

// StageResult records how one stage went.
type StageResult struct {
	Name    string
	Skipped bool
	Elapsed time.Duration
}

// Result summarizes a completed run.
type Result struct {
	RunID          string
	LogPath        string
	SourceLanguage string
	Artifacts      Artifacts
	Written        []string
	Segments       int
	Cues           int
	Chunks         int
	VideoDuration  float64
	DubDuration    float64
	Plan           reconcile.Plan
	Stages         []StageResult
}

// Runner executes dubbing runs.
type Runner struct {
	cfg    Config
	deps   Deps
	logger *slog.Logger
}

// New validates cfg and deps and constructs a Runner.
func New(cfg Config, deps Deps, logger *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "validate", "Invalid run configuration", err)
	}
	var missing []error
	if deps.Transcriber == nil {
		missing = append(missing, errors.New("transcriber"))
	}
	if deps.Translator == nil {
		missing = append(missing, errors.New("translator"))
	}
	if deps.Media == nil {
		missing = append(missing, errors.New("media tooling"))
	}
	if cfg.Synthesize && deps.Synthesizer == nil {
		missing = append(missing, errors.New("synthesizer"))
	}
	if len(missing) > 0 {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "dependencies", "Missing collaborators", errors.Join(missing...))
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{cfg: cfg, deps: deps, logger: logging.NewComponentLogger(logger, "pipeline")}, nil
}

// runState carries stage outputs to later stages.
type runState struct {
	artifacts  Artifacts
	result     *Result
	logger     *slog.Logger
	source     transcript.Transcript
	target     transcript.Transcript
	sourceLang string
	fullText   string
	chunks     []speech.Chunk
	chunkFiles []string
	dub        speech.Result
}

// Run executes every enabled stage in order.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)

	runLog, err := logging.OpenRunLog(r.logger, r.cfg.LogDir, runID)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "open run log", "Unable to create the run log", err)
	}
	defer func() { _ = runLog.Close() }()
	logger := runLog.Logger

	artifacts := newArtifacts(r.cfg)
	result := &Result{RunID: runID, LogPath: runLog.Path, Artifacts: artifacts}

	if _, err := os.Stat(r.cfg.Video); err != nil {
		return result, services.Wrap(services.ErrMediaIO, "pipeline", "stat video", "Source video not found", err)
	}
	if err := os.MkdirAll(artifacts.OutputDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrMediaIO, "pipeline", "create output dir", "Unable to create the output directory", err)
	}
	lock, err := lockWorkDir(artifacts.WorkDir)
	if err != nil {
		return result, services.Wrap(services.ErrConfiguration, "pipeline", "lock work dir", "Another run is using this work directory", err)
	}
	defer func() { _ = lock.Unlock() }()

	state := &runState{artifacts: artifacts, result: result, logger: logger}

	logging.WithContext(ctx, logger).Info("dubbing run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("video", r.cfg.Video),
		logging.String("target_language", r.cfg.TargetLanguage),
		logging.String("output_dir", artifacts.OutputDir),
		logging.String("work_dir", artifacts.WorkDir),
	)
	started := time.Now()

	for _, st := range pipelineStages() {
		if err := ctx.Err(); err != nil {
			logging.WithContext(ctx, logger).Warn("dubbing run interrupted",
				logging.String(logging.FieldEventType, "run_interrupted"),
				logging.String("next_stage", st.name),
				logging.String(logging.FieldErrorHint, "rerun the command to start over"),
				logging.String(logging.FieldImpact, "artifacts written so far were kept"),
			)
			return result, fmt.Errorf("run interrupted before %s: %w", st.name, err)
		}
		if err := r.runStage(ctx, state, st); err != nil {
			return result, err
		}
	}

	if !r.cfg.KeepWorkFiles {
		if err := os.RemoveAll(artifacts.WorkDir); err != nil {
			logging.WarnWithContext(logger, "failed to remove work directory", "work_dir_cleanup_failed",
				logging.Error(err),
				logging.String("work_dir", artifacts.WorkDir),
				logging.String(logging.FieldErrorHint, "remove the directory manually"),
				logging.String(logging.FieldImpact, "disk space is not reclaimed"),
			)
		}
	}

	logging.WithContext(ctx, logger).Info("dubbing run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Duration("elapsed", time.Since(started)),
		logging.Int("segments", result.Segments),
		logging.Int("cues", result.Cues),
		logging.Int("chunks", result.Chunks),
		logging.Int("artifacts", len(result.Written)),
	)
	return result, nil
}

func (r *Runner) runStage(ctx context.Context, state *runState, st stage) error {
	stageCtx := services.WithStage(ctx, st.name)
	stageLogger := logging.WithContext(stageCtx, state.logger)

	if st.enabled != nil && !st.enabled(r.cfg) {
		stageLogger.Debug("stage skipped", logging.String(logging.FieldEventType, "stage_skipped"))
		state.result.Stages = append(state.result.Stages, StageResult{Name: st.name, Skipped: true})
		return nil
	}

	stageLogger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))
	start := time.Now()
	err := st.run(stageCtx, r, state, stageLogger)
	elapsed := time.Since(start)
	if err != nil {
		if services.Marker(err) == nil {
			err = services.Wrap(st.marker, st.name, "execute", "", err)
		}
		logging.ErrorWithContext(stageLogger, "stage failed", "stage_failure",
			logging.Error(err),
			logging.String("error_kind", services.Kind(err)),
			logging.Duration("elapsed", elapsed),
		)
		return err
	}
	state.result.Stages = append(state.result.Stages, StageResult{Name: st.name, Elapsed: elapsed})
	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", elapsed),
	)
	return nil
}

func (s *runState) wrote(path string) {
	s.result.Written = append(s.result.Written, path)
}
