package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExtractionEmpty    = errors.New("extraction empty")
	ErrEmptySpeakerChain  = errors.New("empty speaker chain")
	ErrUnresolvedSpeaker  = errors.New("unresolved speaker")
	ErrSynthesisFailed    = errors.New("synthesis failed")
	ErrBackendUnavailable = errors.New("tts backend unavailable")
	ErrFileIO             = errors.New("file io error")
	ErrEpisodeLocked      = errors.New("episode locked")
	ErrValidation         = errors.New("validation error")
	ErrConfiguration      = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrFileIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err should abort the run with a non-zero exit.
// An empty extraction stops the pipeline but is not treated as a failure.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrExtractionEmpty)
}

// Excerpt shortens text to at most limit runes for error messages, appending
// an ellipsis when something was cut.
func Excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
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
