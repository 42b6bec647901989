package services

import (
	"errors"
	"fmt"
	"strings"
)

// Stage failure markers. Every error returned by a pipeline stage wraps
// exactly one of these so callers can classify it with errors.Is.
var (
	ErrMediaIO       = errors.New("media io error")
	ErrTranscription = errors.New("transcription error")
	ErrTranslation   = errors.New("translation error")
	ErrSynthesis     = errors.New("synthesis error")
	ErrAlignment     = errors.New("alignment precondition")
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

var markers = []error{
	ErrMediaIO,
	ErrTranscription,
	ErrTranslation,
	ErrSynthesis,
	ErrAlignment,
	ErrExternalTool,
	ErrValidation,
	ErrConfiguration,
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Marker returns the first sentinel wrapped by err, or nil when err carries none.
func Marker(err error) error {
	if err == nil {
		return nil
	}
	for _, marker := range markers {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
}

// Kind returns a short snake_case label for the marker wrapped by err.
func Kind(err error) string {
	switch Marker(err) {
	case ErrMediaIO:
		return "media_io"
	case ErrTranscription:
		return "transcription"
	case ErrTranslation:
		return "translation"
	case ErrSynthesis:
		return "synthesis"
	case ErrAlignment:
		return "alignment"
	case ErrExternalTool:
		return "external_tool"
	case ErrValidation:
		return "validation"
	case ErrConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
