package subtitles

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Retime spreads totalDuration evenly across sentences: sentence i covers
// [i*per, (i+1)*per) where per = totalDuration/max(len(sentences), 1). Cues
// are contiguous and the last cue ends exactly at totalDuration. No sentences
// yields no cues; the max(…, 1) guard only keeps the division defined.
// totalDuration must be positive and finite.
func Retime(sentences []string, totalDuration float64) []Cue {
	if !(totalDuration > 0) || math.IsInf(totalDuration, 0) {
		panic(fmt.Sprintf("subtitles: invalid retime duration %v", totalDuration))
	}
	per := totalDuration / float64(max(len(sentences), 1))
	cues := make([]Cue, len(sentences))
	for i, sentence := range sentences {
		cues[i] = Cue{
			Index: i + 1,
			Start: float64(i) * per,
			End:   float64(i+1) * per,
			Text:  sentence,
		}
	}
	if n := len(cues); n > 0 {
		cues[n-1].End = totalDuration
	}
	return cues
}

// sentenceEnd matches terminal punctuation, including the Devanagari danda
// forms also used in Telugu text, followed by whitespace or end of input.
var sentenceEnd = regexp.MustCompile(`[.!?।॥]+(?:["'”’)\]]*)(?:\s+|$)`)

// SplitSentences splits text after sentence-final punctuation. Pieces are
// trimmed and empty pieces dropped. Text without terminal punctuation is one
// sentence.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var sentences []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if piece := strings.TrimSpace(text[last:loc[1]]); piece != "" {
			sentences = append(sentences, piece)
		}
		last = loc[1]
	}
	if piece := strings.TrimSpace(text[last:]); piece != "" {
		sentences = append(sentences, piece)
	}
	return sentences
}
