package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	// ErrFormatMismatch reports chunks that do not share sample rate, channel
	// count, and bit depth.
	ErrFormatMismatch = errors.New("audio chunk format mismatch")
	// ErrNoChunks reports a concatenation request without any input.
	ErrNoChunks = errors.New("no audio chunks to concatenate")
	// ErrInvalidWAV reports a chunk that is not a decodable PCM WAV stream.
	ErrInvalidWAV = errors.New("invalid wav chunk")
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// Format describes a PCM stream layout.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz/%d ch/%d bit", f.SampleRate, f.Channels, f.BitDepth)
}

// Result summarizes a concatenated track.
type Result struct {
	Format Format
	Frames int
	Chunks int
}

// Duration returns the playback length of the concatenated audio.
func (r Result) Duration() time.Duration {
	if r.Format.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(r.Frames) / float64(r.Format.SampleRate) * float64(time.Second))
}

// Seconds returns Duration in seconds.
func (r Result) Seconds() float64 {
	if r.Format.SampleRate <= 0 {
		return 0
	}
	return float64(r.Frames) / float64(r.Format.SampleRate)
}

// Concatenate decodes each chunk as a WAV stream and writes their samples in
// slice order to dst as one WAV. All chunks must share the first chunk's
// format. The output frame count is the sum of the input frame counts.
func Concatenate(dst io.WriteSeeker, chunks [][]byte) (Result, error) {
	if len(chunks) == 0 {
		return Result{}, ErrNoChunks
	}

	var (
		enc    *wav.Encoder
		result Result
	)
	for i, data := range chunks {
		buf, format, err := decodeChunk(data)
		if err != nil {
			return Result{}, fmt.Errorf("chunk %d: %w", i, err)
		}
		if enc == nil {
			result.Format = format
			enc = wav.NewEncoder(dst, format.SampleRate, format.BitDepth, format.Channels, wavFormatPCM)
		} else if format != result.Format {
			return Result{}, fmt.Errorf("chunk %d: %w: %s, want %s", i, ErrFormatMismatch, format, result.Format)
		}
		if len(buf.Data) > 0 {
			if err := enc.Write(buf); err != nil {
				return Result{}, fmt.Errorf("chunk %d: write samples: %w", i, err)
			}
		}
		result.Frames += buf.NumFrames()
		result.Chunks++
	}
	if result.Frames == 0 {
		return Result{}, fmt.Errorf("%w: chunks hold no audio samples", ErrInvalidWAV)
	}
	if err := enc.Close(); err != nil {
		return Result{}, fmt.Errorf("finalize wav: %w", err)
	}
	return result, nil
}

func decodeChunk(data []byte) (*audio.IntBuffer, Format, error) {
	data, dataBytes, err := fixStreamedSizes(data)
	if err != nil {
		return nil, Format{}, err
	}
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, Format{}, ErrInvalidWAV
	}
	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, Format{}, fmt.Errorf("%w: unsupported audio format %d", ErrInvalidWAV, dec.WavAudioFormat)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, Format{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	if dataBytes > 0 && buf.NumFrames() == 0 {
		return nil, Format{}, fmt.Errorf("%w: %d data bytes decoded to no frames", ErrInvalidWAV, dataBytes)
	}
	format := Format{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	return buf, format, nil
}

// fixStreamedSizes returns data with the RIFF and data chunk sizes set to the
// bytes actually present. Streaming encoders write 0xFFFFFFFF or 0 there
// because the length is unknown when the header goes out. The data length is
// rounded down to whole frames. The second result is the data chunk length.
func fixStreamedSizes(data []byte) ([]byte, int, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, ErrInvalidWAV
	}
	blockAlign := 0
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int64(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		avail := int64(len(data) - body)

		if id == "data" {
			n := size
			if n == 0 || n > avail {
				n = avail
			}
			if blockAlign > 0 {
				n -= n % int64(blockAlign)
			}
			if n == size && binary.LittleEndian.Uint32(data[4:8]) == uint32(len(data)-8) {
				return data, int(n), nil
			}
			fixed := bytes.Clone(data)
			binary.LittleEndian.PutUint32(fixed[off+4:off+8], uint32(n))
			binary.LittleEndian.PutUint32(fixed[4:8], uint32(int64(body)+n-8))
			return fixed, int(n), nil
		}
		if size > avail {
			return nil, 0, fmt.Errorf("%w: truncated %q chunk", ErrInvalidWAV, id)
		}
		if id == "fmt " && size >= 14 {
			blockAlign = int(binary.LittleEndian.Uint16(data[body+12 : body+14]))
		}
		off = body + int(size) + int(size&1)
	}
	return nil, 0, fmt.Errorf("%w: missing data chunk", ErrInvalidWAV)
}

// ConcatenateFiles reads WAV chunk files in order and writes the joined
// track to dstPath through a temporary file. When removeInputs is set every
// input path is removed before returning, including when a later chunk fails.
func ConcatenateFiles(dstPath string, paths []string, removeInputs bool) (res Result, err error) {
	if removeInputs {
		defer func() {
			for _, path := range paths {
				if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
					err = fmt.Errorf("remove chunk %s: %w", path, rmErr)
				}
			}
		}()
	}

	chunks := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return Result{}, fmt.Errorf("read chunk: %w", readErr)
		}
		chunks = append(chunks, data)
	}
	return ConcatenateToFile(dstPath, chunks)
}

// ConcatenateToFile writes the joined chunks to path through a temporary file
// in the same directory so a failed run never leaves a truncated WAV behind.
func ConcatenateToFile(path string, chunks [][]byte) (Result, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return Result{}, fmt.Errorf("create temp wav: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	res, err := Concatenate(tmp, chunks)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close temp wav: %w", closeErr)
	}
	if err != nil {
		return Result{}, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return Result{}, fmt.Errorf("finalize wav: %w", err)
	}
	return res, nil
}
