package reflow

import (
	"fmt"
	"strings"
)

// WarningCode identifies a category of non-fatal issue encountered during
// assembly.
type WarningCode string

const (
	// WarningAnchorCollision indicates two headings normalized to the same
	// slug; the later anchor was disambiguated with a numeric suffix.
	WarningAnchorCollision WarningCode = "anchor_collision"
)

// Warning describes a non-fatal issue encountered during assembly.
// Assembly succeeded, but the result may differ from naive expectations
// (for example, a heading anchor carries a disambiguating suffix).
type Warning struct {
	Code    WarningCode
	Message string
}

// String returns a human-readable representation of the warning.
func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// FormatWarnings formats a slice of warnings as a single string, one
// warning per line. Returns an empty string for an empty slice.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
