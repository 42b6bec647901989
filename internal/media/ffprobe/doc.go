// Package ffprobe wraps the ffprobe CLI to read container and stream metadata.
//
// The pipeline uses it to measure the source video and the synthesized dub so
// the duration reconciler can plan trims, and the inspect command uses it to
// compare subtitle timing against the media length.
package ffprobe
