package speech

import (
	"fmt"
	"unicode/utf8"
)

// Chunk is a bounded slice of the text handed to one synthesis request.
type Chunk struct {
	Sequence int // 0-based position; audio is concatenated in this order
	Text     string
}

// Split cuts text into consecutive pieces of at most maxChars Unicode code
// points. Boundaries ignore words and sentences, so a split may land
// mid-word. Joining the chunk texts in order reproduces text byte-for-byte,
// and the chunk count is ceil(runes/maxChars). Empty text yields no chunks.
// maxChars must be positive.
func Split(text string, maxChars int) []Chunk {
	if maxChars <= 0 {
		panic(fmt.Sprintf("speech: invalid chunk size %d", maxChars))
	}
	if text == "" {
		return nil
	}
	total := utf8.RuneCountInString(text)
	chunks := make([]Chunk, 0, (total+maxChars-1)/maxChars)
	start, count := 0, 0
	for i := range text {
		if count == maxChars {
			chunks = append(chunks, Chunk{Sequence: len(chunks), Text: text[start:i]})
			start, count = i, 0
		}
		count++
	}
	chunks = append(chunks, Chunk{Sequence: len(chunks), Text: text[start:]})
	return chunks
}

// Texts returns the chunk texts in order.
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
