package preflight

import (
	"context"

	"teludub/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// RunAll executes the directory checks and, when online is set, the API
// reachability checks for the enabled backends.
func RunAll(ctx context.Context, cfg *config.Config, online bool) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Paths.OutputDir != "" {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	}
	if !online {
		return results
	}

	if cfg.Transcription.Backend == config.BackendOpenAI {
		results = append(results, CheckOpenAI(ctx, "Transcription API", cfg.Transcription.APIKey, cfg.Transcription.BaseURL))
	}
	if cfg.Translation.Backend == config.BackendOpenAI {
		results = append(results, CheckOpenAI(ctx, "Translation API", cfg.Translation.APIKey, cfg.Translation.BaseURL))
	}
	if cfg.Pipeline.Synthesize && usesDistinctTTSEndpoint(cfg) {
		results = append(results, CheckOpenAI(ctx, "Speech API", cfg.TTS.APIKey, cfg.TTS.BaseURL))
	}
	return results
}

// usesDistinctTTSEndpoint returns true when the speech endpoint differs from
// an already-checked OpenAI endpoint.
func usesDistinctTTSEndpoint(cfg *config.Config) bool {
	same := func(key, base string) bool { return key == cfg.TTS.APIKey && base == cfg.TTS.BaseURL }
	if cfg.Transcription.Backend == config.BackendOpenAI && same(cfg.Transcription.APIKey, cfg.Transcription.BaseURL) {
		return false
	}
	if cfg.Translation.Backend == config.BackendOpenAI && same(cfg.Translation.APIKey, cfg.Translation.BaseURL) {
		return false
	}
	return true
}
