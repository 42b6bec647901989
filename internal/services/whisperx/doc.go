// Package whisperx runs WhisperX through uvx and converts its JSON output
// into a timed transcript.
//
// The defaults mirror a small CPU deployment: the "base" model with int8
// compute and silero VAD. CUDA, pyannote VAD and a forced language are
// opt-in through Config.
package whisperx
