package pipeline

import (
	"context"

	"teludub/internal/media/ffmpeg"
	"teludub/internal/media/ffprobe"
)

// MediaTools satisfies MediaIO with the ffmpeg and ffprobe wrappers.
type MediaTools struct {
	FFmpeg  *ffmpeg.Tool
	FFprobe *ffprobe.Prober
}

// ExtractAudio implements MediaIO.
func (m MediaTools) ExtractAudio(ctx context.Context, video, dest string) error {
	return m.FFmpeg.ExtractAudio(ctx, video, dest)
}

// Duration implements MediaIO.
func (m MediaTools) Duration(ctx context.Context, path string) (float64, error) {
	return m.FFprobe.Duration(ctx, path)
}

// Mux implements MediaIO.
func (m MediaTools) Mux(ctx context.Context, req ffmpeg.MuxRequest) (ffmpeg.MuxResult, error) {
	return m.FFmpeg.Mux(ctx, req)
}
