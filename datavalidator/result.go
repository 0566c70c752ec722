package datavalidator

import (
	"github.com/castrlabs/castr/internal/issues"
	"github.com/castrlabs/castr/internal/severity"
)

// Finding represents a single data validation problem.
// This is an alias to issues.Issue for consistency with other castr packages.
type Finding = issues.Issue

// Severity levels for findings.
type Severity = severity.Severity

// Severity constants re-exported for convenience.
const (
	SeverityError    = severity.SeverityError
	SeverityWarning  = severity.SeverityWarning
	SeverityInfo     = severity.SeverityInfo
	SeverityCritical = severity.SeverityCritical
)
