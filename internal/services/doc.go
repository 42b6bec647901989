// Package services defines shared utilities consumed by the pipeline stages
// and the external collaborator integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and synthesis chunk
//     indexes for logging.
//   - Structured error markers plus the Wrap helper that tag failures with the
//     stage that produced them (media io, transcription, translation,
//     synthesis, alignment).
//
// Subpackages hold the concrete collaborator backends (WhisperX, OpenAI).
package services
