package speech

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"teludub/internal/logging"
	"teludub/internal/services"
)

// Synthesizer turns one chunk of text into one WAV stream.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// SynthesizeAll synthesizes every chunk and returns the audio in Sequence
// order. At most workers requests run at once; workers <= 1 issues requests
// one after another. The first failure cancels outstanding requests and is
// returned.
func SynthesizeAll(ctx context.Context, synth Synthesizer, chunks []Chunk, language string, workers int, logger *slog.Logger) ([][]byte, error) {
	if synth == nil {
		return nil, fmt.Errorf("synthesizer not configured")
	}
	logger = logging.NewComponentLogger(logger, "speech")
	workers = max(1, min(workers, len(chunks)))
	out := make([][]byte, len(chunks))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	jobs := make(chan int)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				chunk := chunks[idx]
				chunkCtx := services.WithChunk(ctx, chunk.Sequence+1)
				started := time.Now()
				audio, err := synth.Synthesize(chunkCtx, chunk.Text, language)
				if err != nil {
					fail(fmt.Errorf("chunk %d/%d: %w", chunk.Sequence+1, len(chunks), err))
					continue
				}
				out[idx] = audio
				logging.WithContext(chunkCtx, logger).Debug("chunk synthesized",
					logging.Int("chars", len([]rune(chunk.Text))),
					logging.Bytes("audio", len(audio)),
					logging.Duration("elapsed", time.Since(started)),
				)
			}
		}()
	}

feed:
	for idx := range chunks {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
