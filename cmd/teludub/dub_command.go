package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"teludub/internal/config"
	"teludub/internal/deps"
	langpkg "teludub/internal/language"
	"teludub/internal/logging"
	"teludub/internal/pipeline"
	"teludub/internal/preflight"
	"teludub/internal/translate"
)

// runFlags are the per-run overrides shared by dub and transcribe.
type runFlags struct {
	source        string
	target        string
	outputDir     string
	timing        string
	workers       int
	noSubtitles   bool
	noSynthesize  bool
	noMerge       bool
	keepWorkFiles bool
	jsonOutput    bool
}

func (f *runFlags) register(cmd *cobra.Command, withSynthesis bool) {
	flags := cmd.Flags()
	flags.StringVarP(&f.target, "target", "t", "", "Target language code (default from config)")
	flags.StringVarP(&f.source, "source", "s", "", "Source language code, or \"auto\" to detect")
	flags.StringVarP(&f.outputDir, "output-dir", "o", "", "Directory for generated artifacts (default: next to the video)")
	flags.StringVar(&f.timing, "timing", "", "Subtitle timing: segments or proportional")
	flags.BoolVar(&f.noSubtitles, "no-subtitles", false, "Skip writing the target-language SRT file")
	flags.BoolVar(&f.keepWorkFiles, "keep-work", false, "Keep intermediate files in the work directory")
	flags.BoolVar(&f.jsonOutput, "json", false, "Print the run summary as JSON")
	if withSynthesis {
		flags.IntVarP(&f.workers, "workers", "w", 0, "Concurrent speech synthesis requests")
		flags.BoolVar(&f.noSynthesize, "no-synthesize", false, "Skip speech synthesis and remuxing")
		flags.BoolVar(&f.noMerge, "no-merge", false, "Synthesize audio without remuxing the video")
	}
}

// apply copies explicitly set flags onto cfg.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("target") {
		cfg.Pipeline.TargetLanguage = languageFlag(f.target)
	}
	if changed("source") {
		cfg.Pipeline.SourceLanguage = languageFlag(f.source)
	}
	if changed("output-dir") {
		cfg.Paths.OutputDir = ""
		if dir := strings.TrimSpace(f.outputDir); dir != "" {
			expanded, err := config.ExpandPath(dir)
			if err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}
			cfg.Paths.OutputDir = expanded
		}
	}
	if changed("timing") {
		cfg.Subtitles.Timing = strings.ToLower(strings.TrimSpace(f.timing))
	}
	if changed("workers") {
		cfg.TTS.Workers = f.workers
	}
	if f.noSubtitles {
		cfg.Pipeline.Subtitles = false
	}
	if f.noSynthesize {
		cfg.Pipeline.Synthesize = false
		cfg.Pipeline.Merge = false
	}
	if f.noMerge {
		cfg.Pipeline.Merge = false
	}
	if f.keepWorkFiles {
		cfg.Pipeline.KeepWorkFiles = true
	}
	return nil
}

// languageFlag accepts ISO 639-1/639-2 codes or English names and returns
// the two-letter code when one is known.
func languageFlag(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || value == translate.AutoSource {
		return value
	}
	if iso := langpkg.ToISO2(value); iso != "" {
		return iso
	}
	return value
}

func newDubCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "dub <video>",
		Short: "Transcribe, translate, synthesize, and remux a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDub(cmd, ctx, &flags, args[0], nil)
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "transcribe <video>",
		Short: "Write source and translated transcripts and subtitles without synthesis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDub(cmd, ctx, &flags, args[0], func(cfg *config.Config) {
				cfg.Pipeline.Synthesize = false
				cfg.Pipeline.Merge = false
			})
		},
	}
	flags.register(cmd, false)
	return cmd
}

func runDub(cmd *cobra.Command, ctx *commandContext, flags *runFlags, videoArg string, adjust func(*config.Config)) error {
	cfg, err := ctx.runConfig()
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}
	if adjust != nil {
		adjust(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.CheckCredentials(); err != nil {
		return err
	}

	video, err := config.ExpandPath(videoArg)
	if err != nil {
		return fmt.Errorf("resolve video path: %w", err)
	}
	if err := checkReadiness(cfg); err != nil {
		return err
	}

	logger, err := ctx.logger(cfg)
	if err != nil {
		return err
	}
	b, err := buildBackends(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close(logger)

	runner, err := pipeline.New(pipeline.FromConfig(cfg, video), b.deps, logger)
	if err != nil {
		return err
	}
	logger.Info("dub run starting",
		logging.String("video", video),
		logging.String("target_language", cfg.Pipeline.TargetLanguage),
		logging.String("transcriber", cfg.Transcription.Backend),
		logging.String("translator", cfg.Translation.Backend),
		logging.Bool("synthesize", cfg.Pipeline.Synthesize),
	)
	result, runErr := runner.Run(cmd.Context())
	if runErr != nil {
		if result != nil && result.LogPath != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Run log: %s\n", result.LogPath)
		}
		return runErr
	}
	if flags.jsonOutput {
		return writeJSON(cmd, summarize(result))
	}
	printRunSummary(cmd.OutOrStdout(), result)
	return nil
}

// checkReadiness fails fast on missing binaries or unusable directories.
func checkReadiness(cfg *config.Config) error {
	var problems []error
	for _, status := range deps.Missing(deps.CheckBinaries(deps.Requirements(cfg))) {
		problems = append(problems, fmt.Errorf("%s: %s", status.Name, status.Detail))
	}
	checks := []preflight.Result{
		preflight.CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		preflight.CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	for _, result := range preflight.Failed(checks) {
		problems = append(problems, fmt.Errorf("%s: %s", result.Name, result.Detail))
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("not ready to run (see `teludub deps`): %w", errors.Join(problems...))
}

type runSummary struct {
	RunID          string         `json:"run_id"`
	LogPath        string         `json:"log_path,omitempty"`
	SourceLanguage string         `json:"source_language"`
	Segments       int            `json:"segments"`
	Cues           int            `json:"cues"`
	Chunks         int            `json:"chunks"`
	VideoSeconds   float64        `json:"video_seconds"`
	DubSeconds     float64        `json:"dub_seconds,omitempty"`
	TrimVideo      float64        `json:"trim_video_seconds,omitempty"`
	TrimDub        float64        `json:"trim_dub_seconds,omitempty"`
	Written        []string       `json:"written"`
	Stages         []stageSummary `json:"stages"`
}

type stageSummary struct {
	Name      string  `json:"name"`
	Skipped   bool    `json:"skipped"`
	ElapsedMS float64 `json:"elapsed_ms"`
}

func summarize(result *pipeline.Result) runSummary {
	summary := runSummary{
		RunID:          result.RunID,
		LogPath:        result.LogPath,
		SourceLanguage: result.SourceLanguage,
		Segments:       result.Segments,
		Cues:           result.Cues,
		Chunks:         result.Chunks,
		VideoSeconds:   result.VideoDuration,
		DubSeconds:     result.DubDuration,
		TrimVideo:      result.Plan.TrimPrimary,
		TrimDub:        result.Plan.TrimSecondary,
		Written:        result.Written,
	}
	if summary.Written == nil {
		summary.Written = []string{}
	}
	for _, stage := range result.Stages {
		summary.Stages = append(summary.Stages, stageSummary{
			Name:      stage.Name,
			Skipped:   stage.Skipped,
			ElapsedMS: float64(stage.Elapsed.Microseconds()) / 1000,
		})
	}
	return summary
}

func printRunSummary(out io.Writer, result *pipeline.Result) {
	rows := make([][]string, 0, len(result.Stages))
	for _, stage := range result.Stages {
		status := "done"
		elapsed := stage.Elapsed.Round(time.Millisecond).String()
		if stage.Skipped {
			status = "skipped"
			elapsed = "-"
		}
		rows = append(rows, []string{stage.Name, status, elapsed})
	}
	fmt.Fprintln(out, renderTable(out, []string{"Stage", "Status", "Elapsed"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
	fmt.Fprintf(out, "Run %s: %d segments, %d cues, %d chunks (source language %s)\n",
		result.RunID, result.Segments, result.Cues, result.Chunks, result.SourceLanguage)
	if result.Plan.Trimmed() {
		fmt.Fprintf(out, "Trimmed to %.2fs (video %.2fs, dub %.2fs)\n",
			result.Plan.Target, result.VideoDuration, result.DubDuration)
	}
	for _, path := range result.Written {
		fmt.Fprintf(out, "Wrote %s\n", filepath.Clean(path))
	}
}
