// Package ffmpeg drives the ffmpeg CLI for the two media operations the
// dubbing pipeline needs: extracting a speech-ready WAV from the source video
// and remuxing the synthesized dub onto the video.
//
// Both operations write to a hidden temporary file beside the destination and
// rename it into place, so a failed or cancelled run never leaves a partial
// artifact under the final name.
package ffmpeg
