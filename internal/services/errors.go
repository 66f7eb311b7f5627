package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExtraction marks identification output without a locatable or parsable JSON object.
	ErrExtraction = errors.New("identification output extraction failed")
	// ErrParse marks an identification document missing a required track field.
	ErrParse = errors.New("identification document malformed")
	// ErrLanguageNotFound marks a file with no audio track in the requested language.
	ErrLanguageNotFound = errors.New("requested language not found")
	// ErrEditFailed marks a flag edit the editing tool did not report as successful.
	ErrEditFailed = errors.New("track flag edit failed")
	// ErrExternalTool marks a tool invocation that could not run at all.
	ErrExternalTool = errors.New("external tool error")
	// ErrLocked marks a file another mkvlang process is currently editing.
	ErrLocked = errors.New("file locked by another run")
)

// Wrap builds an error message that includes operation context while tagging it
// with the provided marker. The marker should be one of the exported sentinel
// errors above.
func Wrap(marker error, operation, subject, message string, err error) error {
	detail := buildDetail(operation, subject, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short stable label for the sentinel carried by err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrExtraction):
		return "extraction"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrLanguageNotFound):
		return "language_not_found"
	case errors.Is(err, ErrEditFailed):
		return "edit_failed"
	case errors.Is(err, ErrLocked):
		return "locked"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	default:
		return "unexpected"
	}
}

func buildDetail(operation, subject, message string) string {
	parts := make([]string, 0, 3)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if subject = strings.TrimSpace(subject); subject != "" {
		parts = append(parts, subject)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failed"
	}
	return strings.Join(parts, ": ")
}
