package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"teludub/internal/fileutil"
)

// Render formats cues as an SRT document. Cues are numbered 1..N in slice
// order regardless of their Index, and every cue block is followed by exactly
// one blank line. Text is written as-is without wrapping. No cues renders as
// an empty document.
func Render(cues []Cue) string {
	var sb strings.Builder
	for i, cue := range cues {
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte('\n')
		sb.WriteString(FormatTimestamp(cue.Start))
		sb.WriteString(" --> ")
		sb.WriteString(FormatTimestamp(cue.End))
		sb.WriteByte('\n')
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Write renders cues and atomically writes them to path.
func Write(path string, cues []Cue) error {
	if err := fileutil.WriteFileAtomic(path, []byte(Render(cues)), 0o644); err != nil {
		return fmt.Errorf("write srt %s: %w", path, err)
	}
	return nil
}

// Parse reads an SRT document. It tolerates CRLF line endings, a UTF-8 byte
// order mark, missing index lines, and trailing whitespace. Malformed timing
// lines are errors since a silently dropped cue shifts every later one.
func Parse(r io.Reader) ([]Cue, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		cues  []Cue
		block []string
		line  int
	)
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		cue, err := parseBlock(block)
		block = block[:0]
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		cues = append(cues, cue)
		return nil
	}

	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), " \t\r")
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if text == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cues, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) ([]Cue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open srt: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

func parseBlock(lines []string) (Cue, error) {
	var cue Cue
	if !strings.Contains(lines[0], "-->") {
		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return Cue{}, fmt.Errorf("invalid cue index %q", lines[0])
		}
		cue.Index = index
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return Cue{}, fmt.Errorf("cue %d has no timing line", cue.Index)
	}
	startText, endText, ok := strings.Cut(lines[0], "-->")
	if !ok {
		return Cue{}, fmt.Errorf("invalid timing line %q", lines[0])
	}
	start, err := ParseTimestamp(startText)
	if err != nil {
		return Cue{}, err
	}
	// Some writers append position settings after the end timestamp.
	endFields := strings.Fields(endText)
	if len(endFields) == 0 {
		return Cue{}, fmt.Errorf("invalid timing line %q", lines[0])
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return Cue{}, err
	}
	cue.Start = start
	cue.End = end
	cue.Text = strings.Join(lines[1:], "\n")
	return cue, nil
}
