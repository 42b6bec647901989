// Package subtitles builds target-language SRT subtitles from timed transcripts.
//
// It owns SRT timestamp formatting and parsing, 1:1 cue construction from
// transcript segments, proportional sentence retiming for translations that no
// longer line up with the source segments, and rendering, parsing, validating,
// and writing SRT documents.
package subtitles
