package speech

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestConcatenateSumsDurations(t *testing.T) {
	const rate = 24000
	chunks := [][]byte{
		encodeTestWAV(t, rate, 16, 1, rate/2, 0),   // 0.5s
		encodeTestWAV(t, rate, 16, 1, rate, 100),   // 1.0s
		encodeTestWAV(t, rate, 16, 1, rate/4, 200), // 0.25s
	}
	path := filepath.Join(t.TempDir(), "dub.wav")

	res, err := ConcatenateToFile(path, chunks)
	if err != nil {
		t.Fatalf("ConcatenateToFile: %v", err)
	}
	if res.Frames != rate/2+rate+rate/4 || res.Chunks != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if math.Abs(res.Seconds()-1.75) > 1e-9 {
		t.Fatalf("duration = %v, want 1.75", res.Seconds())
	}
	if res.Format != (Format{SampleRate: rate, Channels: 1, BitDepth: 16}) {
		t.Fatalf("unexpected format: %+v", res.Format)
	}

	buf, dec := decodeTestWAV(t, path)
	if int(dec.SampleRate) != rate || int(dec.NumChans) != 1 || int(dec.BitDepth) != 16 {
		t.Fatalf("unexpected output header: rate=%d chans=%d depth=%d", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	if buf.NumFrames() != res.Frames {
		t.Fatalf("decoded frames = %d, want %d", buf.NumFrames(), res.Frames)
	}
	// The first sample of each chunk follows the previous chunk's samples.
	if buf.Data[0] != 0 || buf.Data[rate/2] != 100 || buf.Data[rate/2+rate] != 200 {
		t.Fatalf("chunks out of order: %d %d %d", buf.Data[0], buf.Data[rate/2], buf.Data[rate/2+rate])
	}
}

func TestConcatenateRejectsFormatMismatch(t *testing.T) {
	chunks := [][]byte{
		encodeTestWAV(t, 24000, 16, 1, 100, 0),
		encodeTestWAV(t, 22050, 16, 1, 100, 0),
	}
	_, err := ConcatenateToFile(filepath.Join(t.TempDir(), "dub.wav"), chunks)
	if !errors.Is(err, ErrFormatMismatch) {
		t.Fatalf("expected ErrFormatMismatch, got %v", err)
	}
}

func TestConcatenateRejectsGarbage(t *testing.T) {
	_, err := ConcatenateToFile(filepath.Join(t.TempDir(), "dub.wav"), [][]byte{[]byte("not a wav")})
	if !errors.Is(err, ErrInvalidWAV) {
		t.Fatalf("expected ErrInvalidWAV, got %v", err)
	}
	if _, err := ConcatenateToFile(filepath.Join(t.TempDir(), "dub.wav"), nil); !errors.Is(err, ErrNoChunks) {
		t.Fatalf("expected ErrNoChunks, got %v", err)
	}
}

func TestConcatenateReadsStreamedHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dub.wav")
	chunks := [][]byte{
		streamTestWAV(t, encodeTestWAV(t, 24000, 16, 1, 24000, 0), 0xFFFFFFFF),
		streamTestWAV(t, encodeTestWAV(t, 24000, 16, 1, 12000, 0), 0),
	}
	res, err := ConcatenateToFile(path, chunks)
	if err != nil {
		t.Fatalf("ConcatenateToFile: %v", err)
	}
	if res.Frames != 36000 {
		t.Fatalf("frames = %d, want 36000", res.Frames)
	}
	if got := res.Seconds(); got != 1.5 {
		t.Fatalf("seconds = %v, want 1.5", got)
	}
	buf, dec := decodeTestWAV(t, path)
	if buf.NumFrames() != 36000 || dec.SampleRate != 24000 {
		t.Fatalf("decoded %d frames at %d Hz, want 36000 at 24000", buf.NumFrames(), dec.SampleRate)
	}
}

func TestConcatenateDropsPartialTrailingFrame(t *testing.T) {
	chunk := streamTestWAV(t, encodeTestWAV(t, 16000, 16, 2, 100, 0), 0xFFFFFFFF)
	chunk = append(chunk, 0x01, 0x02, 0x03)
	res, err := ConcatenateToFile(filepath.Join(t.TempDir(), "dub.wav"), [][]byte{chunk})
	if err != nil {
		t.Fatalf("ConcatenateToFile: %v", err)
	}
	if res.Frames != 100 {
		t.Fatalf("frames = %d, want 100", res.Frames)
	}
}

func TestConcatenateRejectsSilentTrack(t *testing.T) {
	header := encodeTestWAV(t, 24000, 16, 1, 1, 0)
	idx := bytes.Index(header, []byte("data"))
	empty := streamTestWAV(t, header[:idx+8], 0xFFFFFFFF)

	path := filepath.Join(t.TempDir(), "dub.wav")
	if _, err := ConcatenateToFile(path, [][]byte{empty}); !errors.Is(err, ErrInvalidWAV) {
		t.Fatalf("expected ErrInvalidWAV for a track without samples, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("no output should be written, stat err = %v", err)
	}
}

func TestConcatenateFilesRemovesInputsOnFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "chunk-0000.wav")
	bad := filepath.Join(dir, "chunk-0001.wav")
	if err := os.WriteFile(good, encodeTestWAV(t, 24000, 16, 1, 100, 0), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "out.wav")

	if _, err := ConcatenateFiles(dst, []string{good, bad}, true); err == nil {
		t.Fatal("expected failure for corrupt chunk")
	}
	for _, path := range []string{good, bad, dst} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be absent, stat err=%v", path, err)
		}
	}
}

func TestConcatenateFilesKeepsInputsWhenAsked(t *testing.T) {
	dir := t.TempDir()
	chunk := filepath.Join(dir, "chunk-0000.wav")
	if err := os.WriteFile(chunk, encodeTestWAV(t, 16000, 16, 2, 160, 0), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := ConcatenateFiles(filepath.Join(dir, "out.wav"), []string{chunk}, false)
	if err != nil {
		t.Fatalf("ConcatenateFiles: %v", err)
	}
	if res.Frames != 160 || res.Format.Channels != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := os.Stat(chunk); err != nil {
		t.Fatalf("expected chunk to remain: %v", err)
	}
}
