// Package severity provides severity level constants for issues reported
// by the generator and datavalidator packages.
//
// All four severity levels are re-exported by each public package that uses them:
//   - SeverityInfo: Informational messages about choices made
//   - SeverityWarning: Recommendations or soft mismatches (e.g. format checks)
//   - SeverityError: Violations that make data or output invalid
//   - SeverityCritical: Features that cannot be processed (data loss)
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of an issue found during code
// generation or data validation.
type Severity int

const (
	// SeverityError indicates a violation that makes the validated value or
	// generated output invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates soft mismatches or recommendations that
	// don't prevent processing but should be addressed.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	// These are non-actionable notices that may be useful for debugging.
	SeverityInfo

	// SeverityCritical indicates features that cannot be processed without
	// data loss. Used when generation must skip or alter functionality.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
