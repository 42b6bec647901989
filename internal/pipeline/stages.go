package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"teludub/internal/config"
	"teludub/internal/fileutil"
	langpkg "teludub/internal/language"
	"teludub/internal/logging"
	"teludub/internal/media/ffmpeg"
	"teludub/internal/media/reconcile"
	"teludub/internal/services"
	"teludub/internal/speech"
	"teludub/internal/subtitles"
	"teludub/internal/transcript"
	"teludub/internal/translate"
)

// Stage names, in execution order.
const (
	StageExtract          = "extract"
	StageTranscribe       = "transcribe"
	StageSourceTranscript = "source_transcript"
	StageTranslate        = "translate"
	StageTargetTranscript = "target_transcript"
	StageSubtitles        = "subtitles"
	StageChunk            = "chunk"
	StageSynthesize       = "synthesize"
	StageConcatenate      = "concatenate"
	StageReconcile        = "reconcile"
	StageMux              = "mux"
)

type stage struct {
	name    string
	marker  error
	enabled func(Config) bool
	run     func(ctx context.Context, r *Runner, s *runState, logger *slog.Logger) error
}

func subtitlesEnabled(c Config) bool { return c.Subtitles }

func synthesisEnabled(c Config) bool { return c.Synthesize }

func mergeEnabled(c Config) bool { return c.Synthesize && c.Merge }

func pipelineStages() []stage {
	return []stage{
		{name: StageExtract, marker: services.ErrMediaIO, run: runExtract},
		{name: StageTranscribe, marker: services.ErrTranscription, run: runTranscribe},
		{name: StageSourceTranscript, marker: services.ErrMediaIO, run: runSourceTranscript},
		{name: StageTranslate, marker: services.ErrTranslation, run: runTranslate},
		{name: StageTargetTranscript, marker: services.ErrMediaIO, run: runTargetTranscript},
		{name: StageSubtitles, marker: services.ErrMediaIO, enabled: subtitlesEnabled, run: runSubtitles},
		{name: StageChunk, marker: services.ErrSynthesis, enabled: synthesisEnabled, run: runChunk},
		{name: StageSynthesize, marker: services.ErrSynthesis, enabled: synthesisEnabled, run: runSynthesize},
		{name: StageConcatenate, marker: services.ErrSynthesis, enabled: synthesisEnabled, run: runConcatenate},
		{name: StageReconcile, marker: services.ErrAlignment, enabled: mergeEnabled, run: runReconcile},
		{name: StageMux, marker: services.ErrMediaIO, enabled: mergeEnabled, run: runMux},
	}
}

// StageNames lists every stage in execution order.
func StageNames() []string {
	stages := pipelineStages()
	names := make([]string, len(stages))
	for i, st := range stages {
		names[i] = st.name
	}
	return names
}

func runExtract(ctx context.Context, r *Runner, s *runState, logger *slog.Logger) error {
	dest := s.artifacts.ExtractedAudio()
	if err := r.deps.Media.ExtractAudio(ctx, r.cfg.Video, dest); err != nil {
		return services.Wrap(services.ErrMediaIO, StageExtract, "extract audio", "Unable to extract audio from the video", err)
	}
	logger.Debug("audio extracted", logging.String("audio", dest))
	return nil
}

func runTranscribe(ctx context.Context, r *Runner, s *runState, logger *slog.Logger) error {
	audio := s.artifacts.ExtractedAudio()
	tr, err := r.deps.Transcriber.Transcribe(ctx, audio)
	if err != nil {
		return services.Wrap(services.ErrTranscription, StageTranscribe, "transcribe", "Speech recognition failed", err)
	}
	dropped := tr.Normalize()
	if err := tr.Validate(); err != nil {
		return services.Wrap(services.ErrTranscription, StageTranscribe, "validate segments", "Transcriber returned malformed segments", err)
	}
	if len(tr.Segments) == 0 {
		return services.Wrap(services.ErrTranscription, StageTranscribe, "segments", "No speech detected in the audio", nil)
	}
	if tr.Duration <= 0 {
		duration, err := r.deps.Media.Duration(ctx, audio)
		if err != nil {
			return services.Wrap(services.ErrMediaIO, StageTranscribe, "probe audio", "Unable to measure the extracted audio", err)
		}
		tr.Duration = duration
	}

	s.sourceLang = resolveSourceLanguage(r.cfg.SourceLanguage, tr.Language)
	tr.Language = s.sourceLang
	s.source = tr
	s.result.Segments = len(tr.Segments)
	s.result.SourceLanguage = s.sourceLang

	logger.Info("speech transcribed",
		logging.String(logging.FieldEventType, "transcription_complete"),
		logging.String("detected_language", langpkg.DisplayName(s.sourceLang)),
		logging.Int("segments", len(tr.Segments)),
		logging.Int("dropped_segments", dropped),
		logging.Seconds("audio", tr.Duration),
	)
	return nil
}

// resolveSourceLanguage prefers an explicit configured language, then the
// detected one, then "auto" for the translator to detect again.
func resolveSourceLanguage(configured, detected string) string {
	if configured = strings.TrimSpace(configured); configured != "" && !strings.EqualFold(configured, translate.AutoSource) {
		if iso := langpkg.ToISO2(configured); iso != "" {
			return iso
		}
		return configured
	}
	if iso := langpkg.ToISO2(detected); iso != "" {
		return iso
	}
	return translate.AutoSource
}

func runSourceTranscript(_ context.Context, _ *Runner, s *runState, logger *slog.Logger) error {
	path := s.artifacts.SourceTranscript(s.sourceLang)
	if err := transcript.WriteTimedFile(path, s.source.Segments); err != nil {
		return services.Wrap(services.ErrMediaIO, StageSourceTranscript, "write", "Unable to write the source transcript", err)
	}
	s.wrote(path)
	logger.Info("source transcript written", logging.String("path", path))
	return nil
}

func runTranslate(ctx context.Context, r *Runner, s *runState, logger *slog.Logger) error {
	texts, err := translate.TranslateAll(ctx, r.deps.Translator, s.source.Texts(), s.sourceLang, r.cfg.TargetLanguage)
	if err != nil {
		return services.Wrap(services.ErrTranslation, StageTranslate, "translate segments", "Machine translation failed", err)
	}
	target, err := s.source.WithTexts(r.cfg.TargetLanguage, texts)
	if err != nil {
		return services.Wrap(services.ErrTranslation, StageTranslate, "align translations", "", err)
	}
	s.target = target

	parts := make([]string, 0, len(texts))
	for _, text := range texts {
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	s.fullText = strings.Join(parts, " ")
	if s.fullText == "" {
		return services.Wrap(services.ErrTranslation, StageTranslate, "translate segments", "Translator returned no text", nil)
	}
	logger.Info("segments translated",
		logging.String(logging.FieldEventType, "translation_complete"),
		logging.String("source_language", s.sourceLang),
		logging.String("target_language", r.cfg.TargetLanguage),
		logging.Int("segments", len(texts)),
		logging.Int("empty_translations", len(texts)-len(parts)),
	)
	return nil
}

func runTargetTranscript(_ context.Context, _ *Runner, s *runState, logger *slog.Logger) error {
	path := s.artifacts.TargetTranscript()
	if err := transcript.WriteTimedFile(path, s.target.Segments); err != nil {
		return services.Wrap(services.ErrMediaIO, StageTargetTranscript, "write", "Unable to write the target transcript", err)
	}
	s.wrote(path)
	fullPath := s.artifacts.FullText()
	if err := transcript.WriteFullTextFile(fullPath, s.fullText); err != nil {
		return services.Wrap(services.ErrMediaIO, StageTargetTranscript, "write full text", "Unable to write the translated text", err)
	}
	s.wrote(fullPath)
	logger.Info("target transcript written", logging.String("path", path), logging.String("full_text", fullPath))
	return nil
}

func runSubtitles(_ context.Context, r *Runner, s *runState, logger *slog.Logger) error {
	var cues []subtitles.Cue
	switch r.cfg.SubtitleTiming {
	case config.TimingProportional:
		cues = subtitles.Retime(subtitles.SplitSentences(s.fullText), s.source.Duration)
	default:
		var err error
		cues, err = subtitles.BuildCues(s.target.Segments, s.target.Texts())
		if err != nil {
			return services.Wrap(services.ErrValidation, StageSubtitles, "build cues", "", err)
		}
	}
	path := s.artifacts.Subtitles()
	if err := subtitles.Write(path, cues); err != nil {
		return services.Wrap(services.ErrMediaIO, StageSubtitles, "write", "Unable to write subtitles", err)
	}
	s.wrote(path)
	s.result.Cues = len(cues)

	for _, issue := range subtitles.Validate(cues, s.source.Duration) {
		logging.WarnWithContext(logger, "subtitle check failed", "subtitle_validation",
			logging.String("issue", issue),
			logging.String(logging.FieldErrorHint, "inspect the SRT with `teludub inspect`"),
			logging.String(logging.FieldImpact, "subtitles were written anyway"),
		)
	}
	logger.Info("subtitles written",
		logging.String(logging.FieldEventType, "subtitles_complete"),
		logging.String("path", path),
		logging.Int("cues", len(cues)),
		logging.String("timing", timingLabel(r.cfg.SubtitleTiming)),
	)
	return nil
}

func timingLabel(timing string) string {
	if timing == "" {
		return config.TimingSegments
	}
	return timing
}

func runChunk(_ context.Context, r *Runner, s *runState, logger *slog.Logger) error {
	s.chunks = speech.Split(s.fullText, r.cfg.MaxChars)
	if len(s.chunks) == 0 {
		return services.Wrap(services.ErrSynthesis, StageChunk, "split", "No text to synthesize", nil)
	}
	s.result.Chunks = len(s.chunks)
	logger.Debug("text chunked", logging.Int("chunks", len(s.chunks)), logging.Int("max_chars", r.cfg.MaxChars))
	return nil
}

func runSynthesize(ctx context.Context, r *Runner, s *runState, logger *slog.Logger) error {
	audio, err := speech.SynthesizeAll(ctx, r.deps.Synthesizer, s.chunks, r.cfg.TargetLanguage, r.cfg.Workers, logger)
	if err != nil {
		return services.Wrap(services.ErrSynthesis, StageSynthesize, "synthesize", "Speech synthesis failed", err)
	}
	s.chunkFiles = make([]string, 0, len(audio))
	for i, data := range audio {
		path := s.artifacts.ChunkAudio(i)
		if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
			return services.Wrap(services.ErrMediaIO, StageSynthesize, "write chunk", "Unable to save synthesized audio", err)
		}
		s.chunkFiles = append(s.chunkFiles, path)
	}
	logger.Info("speech synthesized",
		logging.String(logging.FieldEventType, "synthesis_complete"),
		logging.Int("chunks", len(audio)),
		logging.Int("workers", max(r.cfg.Workers, 1)),
	)
	return nil
}

func runConcatenate(_ context.Context, r *Runner, s *runState, logger *slog.Logger) error {
	assembled := s.artifacts.AssembledAudio()
	res, err := speech.ConcatenateFiles(assembled, s.chunkFiles, !r.cfg.KeepWorkFiles)
	if err != nil {
		return services.Wrap(services.ErrSynthesis, StageConcatenate, "concatenate", "Unable to merge synthesized audio", err)
	}
	path := s.artifacts.DubAudio()
	if err := fileutil.MoveFile(assembled, path); err != nil {
		return services.Wrap(services.ErrMediaIO, StageConcatenate, "move", "Unable to move the dub audio into the output directory", err)
	}
	s.dub = res
	s.result.DubDuration = res.Seconds()
	s.wrote(path)
	logger.Info("dub audio written",
		logging.String("path", path),
		logging.Seconds("dub", res.Seconds()),
		logging.String("format", res.Format.String()),
	)
	return nil
}

func runReconcile(ctx context.Context, r *Runner, s *runState, logger *slog.Logger) error {
	videoDuration, err := r.deps.Media.Duration(ctx, r.cfg.Video)
	if err != nil {
		return services.Wrap(services.ErrMediaIO, StageReconcile, "probe video", "Unable to measure the video", err)
	}
	plan, err := reconcile.Reconcile(videoDuration, s.dub.Seconds())
	if err != nil {
		return services.Wrap(services.ErrAlignment, StageReconcile, "plan", "Durations cannot be aligned", err)
	}
	s.result.VideoDuration = videoDuration
	s.result.Plan = plan
	result, reason := "keep both", "video and dub have the same length"
	switch {
	case plan.TrimPrimary > 0:
		result, reason = "trim video", "dub is shorter than the video"
	case plan.TrimSecondary > 0:
		result, reason = "trim dub", "dub runs past the end of the video"
	}
	logging.Decision(logger, "duration_reconcile", result, reason,
		logging.Seconds("video", videoDuration),
		logging.Seconds("dub", s.dub.Seconds()),
		logging.Seconds("trim_primary", plan.TrimPrimary),
		logging.Seconds("trim_secondary", plan.TrimSecondary),
	)
	return nil
}

func runMux(ctx context.Context, r *Runner, s *runState, logger *slog.Logger) error {
	plan := s.result.Plan
	req := ffmpeg.MuxRequest{
		Video:      r.cfg.Video,
		Audio:      s.artifacts.DubAudio(),
		Output:     s.artifacts.DubbedVideo(),
		VideoCodec: r.cfg.VideoCodec,
		AudioCodec: r.cfg.AudioCodec,
		TrimVideo:  plan.TrimPrimary,
		TrimAudio:  plan.TrimSecondary,
		Language:   r.cfg.TargetLanguage,
	}
	res, err := r.deps.Media.Mux(ctx, req)
	if err != nil {
		return services.Wrap(services.ErrMediaIO, StageMux, "mux", "Unable to remux the dubbed video", err)
	}
	s.wrote(res.OutputPath)
	logger.Info("dubbed video written",
		logging.String(logging.FieldEventType, "dub_complete"),
		logging.String("path", res.OutputPath),
	)
	return nil
}
