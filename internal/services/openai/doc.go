// Package openai adapts the OpenAI audio endpoints to the dubbing pipeline:
// Whisper transcription returning timed segments, and speech synthesis
// returning one WAV per text chunk. Any OpenAI-compatible server works when
// BaseURL points at it.
package openai
