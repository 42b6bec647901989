package transcript

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"teludub/internal/fileutil"
)

// WriteTimed writes one "[start -> end] text" line per segment with times in
// seconds at two decimals, e.g. "[0.00s -> 2.00s] Hello".
func WriteTimed(w io.Writer, segments []Segment) error {
	bw := bufio.NewWriter(w)
	for _, seg := range segments {
		if _, err := fmt.Fprintf(bw, "[%.2fs -> %.2fs] %s\n", seg.Start, seg.End, seg.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTimedFile atomically writes the timed transcript to path.
func WriteTimedFile(path string, segments []Segment) error {
	var sb strings.Builder
	if err := WriteTimed(&sb, segments); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write transcript %s: %w", path, err)
	}
	return nil
}

// WriteFullTextFile atomically writes text followed by a newline.
func WriteFullTextFile(path, text string) error {
	text = strings.TrimSpace(text)
	if text != "" {
		text += "\n"
	}
	if err := fileutil.WriteFileAtomic(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write full text %s: %w", path, err)
	}
	return nil
}

var timedLinePattern = regexp.MustCompile(`^\[(\d+(?:\.\d+)?)s -> (\d+(?:\.\d+)?)s\](?: (.*))?$`)

// ReadTimed parses the output of WriteTimed. Blank lines are ignored. A line
// with timing but no text yields a segment with empty Text, which is how
// WriteTimed records a blank translation.
func ReadTimed(r io.Reader) ([]Segment, error) {
	var segments []Segment
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimLeft(strings.TrimRight(scanner.Text(), "\r"), " \t")
		if strings.TrimSpace(text) == "" {
			continue
		}
		match := timedLinePattern.FindStringSubmatch(text)
		if match == nil {
			return nil, fmt.Errorf("line %d: malformed transcript line %q", line, text)
		}
		start, errStart := strconv.ParseFloat(match[1], 64)
		end, errEnd := strconv.ParseFloat(match[2], 64)
		if err := errors.Join(errStart, errEnd); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		segments = append(segments, Segment{Start: start, End: end, Text: strings.TrimSpace(match[3])})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return segments, nil
}

// ReadTimedFile opens path and parses it with ReadTimed.
func ReadTimedFile(path string) ([]Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadTimed(file)
}
