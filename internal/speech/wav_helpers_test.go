package speech

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// encodeTestWAV returns a PCM WAV of the given layout holding frames of a
// ramp signal so concatenation order is observable in the samples.
func encodeTestWAV(t *testing.T, sampleRate, bitDepth, channels, frames, offset int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunk.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	data := make([]int, frames*channels)
	for i := range data {
		data[i] = (offset + i) % 1000
	}
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: channels},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	return out
}

// streamTestWAV rewrites the RIFF and data sizes of a WAV the way streaming
// encoders do when the length is unknown up front.
func streamTestWAV(t *testing.T, data []byte, size uint32) []byte {
	t.Helper()
	out := bytes.Clone(data)
	idx := bytes.Index(out, []byte("data"))
	if idx < 0 {
		t.Fatal("wav has no data chunk")
	}
	binary.LittleEndian.PutUint32(out[4:8], size)
	binary.LittleEndian.PutUint32(out[idx+4:idx+8], size)
	return out
}

func decodeTestWAV(t *testing.T, path string) (*audio.IntBuffer, *wav.Decoder) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open wav: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode wav: %v", err)
	}
	return buf, dec
}
