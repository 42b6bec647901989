// Package pipeline orchestrates a dubbing run.
//
// A run is a fixed, linear sequence of stages:
//
//	extract → transcribe → source_transcript → translate → target_transcript →
//	subtitles → chunk → synthesize → concatenate → reconcile → mux
//
// Stages hand their results to the next stage in memory. The context is
// checked before every stage, so cancelling it stops the run at the next
// boundary; artifacts already written stay in place. Every failure is tagged
// with one of the services markers and aborts the run. Configuration switches
// skip the subtitle, synthesis and merge stages.
//
// Collaborators (transcription, translation, synthesis, media tooling) are
// interfaces so tests can run the whole sequence with fakes.
package pipeline
