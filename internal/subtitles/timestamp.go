package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTimestamp renders seconds as an SRT timestamp HH:MM:SS,mmm. Hours are
// not wrapped. Milliseconds are rounded to the nearest integer so binary float
// error (3661.234 stored as 3661.2339999...) does not lose a millisecond.
// Negative or non-finite input is a caller bug and panics.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		panic(fmt.Sprintf("subtitles: invalid timestamp seconds %v", seconds))
	}
	ms := int64(math.Round(seconds * 1000))
	hours := ms / 3_600_000
	ms %= 3_600_000
	minutes := ms / 60_000
	ms %= 60_000
	secs := ms / 1_000
	ms %= 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms)
}

// ParseTimestamp parses HH:MM:SS,mmm (or HH:MM:SS.mmm) into seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	clock, fraction, ok := strings.Cut(strings.ReplaceAll(value, ".", ","), ",")
	if !ok || len(fraction) == 0 || len(fraction) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	secs, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(fraction + strings.Repeat("0", 3-len(fraction)))
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || secs < 0 || secs > 59 || millis < 0 {
		return 0, fmt.Errorf("timestamp %q out of range", value)
	}
	totalMillis := int64(hours)*3_600_000 + int64(minutes)*60_000 + int64(secs)*1_000 + int64(millis)
	return float64(totalMillis) / 1000, nil
}
