// Package issues provides a unified issue type for generation and data
// validation problems.
package issues

import (
	"fmt"

	"github.com/castrlabs/castr/internal/severity"
)

// Issue represents a single problem found during code generation or
// data validation.
type Issue struct {
	// Path locates the problem: a JSON path into the validated value
	// (e.g., "$.items[3].name") or a component ref for generation issues.
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Field is the specific field name that has the issue (optional)
	Field string
	// Value is the problematic value (optional)
	Value any
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}
	return fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
}
