package pagestitch

import (
	"fmt"
	"strings"
)

// WarningCode identifies a category of non-fatal issue encountered during
// extraction.
type WarningCode string

const (
	// WarnEmptySegment means a strip produced no text from the model.
	// The document is still assembled; the strip contributes nothing.
	WarnEmptySegment WarningCode = "empty-segment"
)

// Warning describes a non-fatal issue: extraction succeeded but the result
// may be imperfect.
type Warning struct {
	Code    WarningCode
	Message string
}

// FormatWarnings renders warnings as a single human-readable string.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = fmt.Sprintf("[%s] %s", w.Code, w.Message)
	}
	return strings.Join(parts, "; ")
}
