// Package speech prepares translated text for speech synthesis and stitches
// the synthesized chunks back into a single WAV track.
//
// Chunk splits text on code-point boundaries under a per-request budget,
// SynthesizeAll drives a Synthesizer over the chunks with bounded
// concurrency while preserving sequence order, and Concatenate joins the
// resulting WAV streams without resampling, cross-fading, or padding.
package speech
