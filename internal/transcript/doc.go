// Package transcript models timed speech segments produced by transcription
// backends and writes the bilingual transcript artifacts.
//
// A Transcript is built once per run and handed in memory to translation,
// subtitle timing, and the transcript writers. Segments are immutable values;
// order is significant and preserved by every consumer.
package transcript
